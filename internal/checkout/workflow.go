package checkout

import (
	"fmt"
	"time"

	"github.com/dapur-pos/checkout/internal/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompletionFunc is invoked exactly once when the checkout finishes: after the
// single payer reaches SUCCESS, or after all split customers have paid and the
// cashier presses complete. It receives the most recently used payment method.
type CompletionFunc func(method enum.PaymentMethod)

// Workflow is the checkout payment state machine for one order. It owns the
// tip, split, and settlement state for the lifetime of one checkout dialog and
// is discarded afterwards; nothing is persisted.
//
// A Workflow is not safe for concurrent use. Each dialog drives exactly one
// instance; callers that multiplex requests onto it must serialize access.
type Workflow struct {
	order  Order
	status enum.CheckoutStatus
	method enum.PaymentMethod

	// tip is the single-payer tip. Split customers carry their own TipSpec.
	tip TipSpec

	split   *SplitConfiguration
	tracker *SettlementTracker
	current uuid.UUID // customer being charged in CUSTOMER_* states

	received decimal.Decimal
	change   decimal.Decimal

	processingDelay time.Duration
	sleep           func(time.Duration)

	onComplete CompletionFunc
	completed  bool
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithProcessingDelay sets the simulated settlement latency for non-cash
// payments. A submitted payment cannot be aborted while processing.
func WithProcessingDelay(d time.Duration) Option {
	return func(w *Workflow) { w.processingDelay = d }
}

// WithSleeper replaces the sleep function used for the processing delay.
// Tests inject a no-op here.
func WithSleeper(fn func(time.Duration)) Option {
	return func(w *Workflow) { w.sleep = fn }
}

// NewWorkflow creates a workflow in IDLE for the given order snapshot.
func NewWorkflow(order Order, onComplete CompletionFunc, opts ...Option) *Workflow {
	w := &Workflow{
		order:      order,
		status:     enum.CheckoutIdle,
		sleep:      time.Sleep,
		onComplete: onComplete,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// --- Accessors ---

// Status returns the current state.
func (w *Workflow) Status() enum.CheckoutStatus { return w.status }

// Order returns the order snapshot this workflow settles.
func (w *Workflow) Order() Order { return w.order }

// Method returns the most recently submitted payment method.
func (w *Workflow) Method() enum.PaymentMethod { return w.method }

// Tip returns the single-payer tip.
func (w *Workflow) Tip() TipSpec { return w.tip }

// Split returns the split configuration, or nil outside a split flow.
func (w *Workflow) Split() *SplitConfiguration { return w.split }

// Tracker returns the settlement tracker, or nil outside a split flow.
func (w *Workflow) Tracker() *SettlementTracker { return w.tracker }

// Received returns the cash amount tendered in the current cash step.
func (w *Workflow) Received() decimal.Decimal { return w.received }

// Change returns the change due in the current cash step.
func (w *Workflow) Change() decimal.Decimal { return w.change }

// Completed reports whether the completion callback has fired.
func (w *Workflow) Completed() bool { return w.completed }

// CurrentCustomer returns the split customer currently being charged.
func (w *Workflow) CurrentCustomer() (*SplitCustomer, bool) {
	if w.split == nil || w.current == uuid.Nil {
		return nil, false
	}
	return w.split.Customer(w.current)
}

// GrandTotal returns the single-payer amount due: order total + tip.
func (w *Workflow) GrandTotal() decimal.Decimal {
	return w.order.Total.Add(w.tip.Amount).Round(2)
}

// AmountDue returns the amount the current step must cover: the customer's
// total inside a split payment, the order grand total otherwise.
func (w *Workflow) AmountDue() decimal.Decimal {
	if c, ok := w.CurrentCustomer(); ok {
		return c.Total().Round(2)
	}
	return w.GrandTotal()
}

// --- Single-payer flow ---

// SetTip configures the single-payer tip against the order total. Only valid
// before a payment is submitted.
func (w *Workflow) SetTip(mode enum.TipMode, rawValue string) error {
	if w.status != enum.CheckoutIdle {
		return w.transitionErr("set tip")
	}
	if !isValidTipMode(mode) {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, mode)
	}
	w.tip = NewTipSpec(w.order.Total, mode, rawValue)
	return nil
}

// SubmitPayment starts the single-payer payment. Cash moves to CASH_INPUT;
// every other method settles after the simulated processing delay and lands
// in SUCCESS, firing the completion callback.
func (w *Workflow) SubmitPayment(method enum.PaymentMethod) error {
	if w.status != enum.CheckoutIdle {
		return w.transitionErr("submit payment")
	}
	if !isValidPaymentMethod(method) {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	w.method = method

	if method == enum.PaymentMethodCash {
		w.status = enum.CheckoutCashInput
		return nil
	}

	w.settle()
	w.status = enum.CheckoutSuccess
	w.fireComplete()
	return nil
}

// TenderCash records the cash amount handed over. It serves both the
// single-payer CASH_INPUT step and the per-customer CUSTOMER_CASH_INPUT step;
// the required amount is whatever AmountDue reports for the current state.
// An unparseable or insufficient amount returns ErrInvalidAmount and leaves
// the state untouched, mirroring the dialog's disabled confirm button.
func (w *Workflow) TenderCash(rawAmount string) error {
	var next enum.CheckoutStatus
	switch w.status {
	case enum.CheckoutCashInput:
		next = enum.CheckoutCashChange
	case enum.CheckoutCustomerCashInput:
		next = enum.CheckoutCustomerCashChange
	default:
		return w.transitionErr("tender cash")
	}

	received, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, rawAmount)
	}
	required := w.AmountDue()
	if !ValidateCash(received, required) {
		return fmt.Errorf("%w: received %s, required %s",
			ErrInvalidAmount, received.StringFixed(2), required.StringFixed(2))
	}

	w.received = received
	w.change = ChangeDue(received, required)
	w.status = next
	return nil
}

// ConfirmCash acknowledges that change was handed over. The single-payer step
// lands in SUCCESS and completes the checkout; the per-customer step marks
// that customer paid and shows their success screen.
func (w *Workflow) ConfirmCash() error {
	switch w.status {
	case enum.CheckoutCashChange:
		w.status = enum.CheckoutSuccess
		w.fireComplete()
		return nil
	case enum.CheckoutCustomerCashChange:
		if err := w.tracker.MarkPaid(w.current); err != nil {
			return err
		}
		w.status = enum.CheckoutCustomerSuccess
		return nil
	}
	return w.transitionErr("confirm cash")
}

// --- Split-bill flow ---

// RequestSplit opens split configuration with count customers (0 means the
// default of 2).
func (w *Workflow) RequestSplit(mode enum.SplitMode, count int) error {
	if w.status != enum.CheckoutIdle {
		return w.transitionErr("request split")
	}
	split, err := NewSplitConfiguration(w.order, mode, count)
	if err != nil {
		return err
	}
	w.split = split
	w.tracker = NewSettlementTracker(split)
	w.status = enum.CheckoutSplitBill
	return nil
}

// CancelSplit abandons split configuration and returns to IDLE, discarding
// the roster and any allocations.
func (w *Workflow) CancelSplit() error {
	if w.status != enum.CheckoutSplitBill {
		return w.transitionErr("cancel split")
	}
	w.split = nil
	w.tracker = nil
	w.status = enum.CheckoutIdle
	return nil
}

// SetSplitMode switches the split mode while configuring.
func (w *Workflow) SetSplitMode(mode enum.SplitMode) error {
	if w.status != enum.CheckoutSplitBill {
		return w.transitionErr("set split mode")
	}
	return w.split.SetMode(mode)
}

// AddCustomer grows the roster while configuring.
func (w *Workflow) AddCustomer() (*SplitCustomer, error) {
	if w.status != enum.CheckoutSplitBill {
		return nil, w.transitionErr("add customer")
	}
	return w.split.AddCustomer()
}

// RemoveCustomer shrinks the roster while configuring.
func (w *Workflow) RemoveCustomer(id uuid.UUID) error {
	if w.status != enum.CheckoutSplitBill {
		return w.transitionErr("remove customer")
	}
	return w.split.RemoveCustomer(id)
}

// RenameCustomer sets a customer's display name while configuring.
func (w *Workflow) RenameCustomer(id uuid.UUID, name string) error {
	if w.status != enum.CheckoutSplitBill {
		return w.transitionErr("rename customer")
	}
	return w.split.RenameCustomer(id, name)
}

// SetCustomerTip reconfigures one customer's tip while configuring.
func (w *Workflow) SetCustomerTip(id uuid.UUID, mode enum.TipMode, rawValue string) error {
	if w.status != enum.CheckoutSplitBill {
		return w.transitionErr("set customer tip")
	}
	return w.split.SetCustomerTip(id, mode, rawValue)
}

// AssignItem toggles an item assignment while configuring (CUSTOM mode).
func (w *Workflow) AssignItem(itemID, customerID uuid.UUID) error {
	if w.status != enum.CheckoutSplitBill {
		return w.transitionErr("assign item")
	}
	return w.split.AssignItem(itemID, customerID)
}

// ConfirmSplit leaves split configuration for the summary. CUSTOM mode is
// hard-gated on a zero unassigned remainder; the error is a no-op on state.
func (w *Workflow) ConfirmSplit() error {
	if w.status != enum.CheckoutSplitBill {
		return w.transitionErr("confirm split")
	}
	if remainder := w.split.RemainingUnassigned(); !remainder.IsZero() {
		return fmt.Errorf("%w: %s unassigned", ErrIncompleteAllocation, remainder.StringFixed(2))
	}
	w.status = enum.CheckoutSplitSummary
	return nil
}

// PayCustomer selects an unpaid customer from the summary and opens their
// payment step.
func (w *Workflow) PayCustomer(id uuid.UUID) error {
	if w.status != enum.CheckoutSplitSummary {
		return w.transitionErr("pay customer")
	}
	if _, ok := w.split.Customer(id); !ok {
		return ErrUnknownCustomer
	}
	if w.tracker.Paid(id) {
		return ErrAlreadyPaid
	}
	w.current = id
	w.received = decimal.Zero
	w.change = decimal.Zero
	w.status = enum.CheckoutCustomerPayment
	return nil
}

// SubmitCustomerPayment charges the selected customer their own total, not
// the order total. Cash moves to the customer cash step; everything else
// settles after the processing delay and marks the customer paid.
func (w *Workflow) SubmitCustomerPayment(method enum.PaymentMethod) error {
	if w.status != enum.CheckoutCustomerPayment {
		return w.transitionErr("submit customer payment")
	}
	if !isValidPaymentMethod(method) {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	w.method = method

	if method == enum.PaymentMethodCash {
		w.status = enum.CheckoutCustomerCashInput
		return nil
	}

	w.settle()
	if err := w.tracker.MarkPaid(w.current); err != nil {
		return err
	}
	w.status = enum.CheckoutCustomerSuccess
	return nil
}

// CancelCustomerPayment abandons the selected customer's payment step and
// returns to the summary without marking anyone paid. Valid while choosing a
// method or entering cash; once change is on screen the payment is committed.
func (w *Workflow) CancelCustomerPayment() error {
	switch w.status {
	case enum.CheckoutCustomerPayment, enum.CheckoutCustomerCashInput:
	default:
		return w.transitionErr("cancel customer payment")
	}
	w.current = uuid.Nil
	w.received = decimal.Zero
	w.change = decimal.Zero
	w.status = enum.CheckoutSplitSummary
	return nil
}

// ContinueSplit dismisses a customer's success screen and returns to the
// summary.
func (w *Workflow) ContinueSplit() error {
	if w.status != enum.CheckoutCustomerSuccess {
		return w.transitionErr("continue split")
	}
	w.current = uuid.Nil
	w.received = decimal.Zero
	w.change = decimal.Zero
	w.status = enum.CheckoutSplitSummary
	return nil
}

// CompleteSplit finishes the checkout once every customer has paid. The
// summary stays on screen; the completion callback fires exactly once.
func (w *Workflow) CompleteSplit() error {
	if w.status != enum.CheckoutSplitSummary {
		return w.transitionErr("complete split")
	}
	if !w.tracker.AllPaid() {
		return ErrUnsettled
	}
	w.fireComplete()
	return nil
}

// --- internals ---

// settle simulates the async gateway round trip. Every non-cash payment
// succeeds after the delay; there is no failure path because no real gateway
// is integrated.
func (w *Workflow) settle() {
	w.status = enum.CheckoutProcessing
	if w.processingDelay > 0 {
		w.sleep(w.processingDelay)
	}
}

func (w *Workflow) fireComplete() {
	if w.completed {
		return
	}
	w.completed = true
	if w.onComplete != nil {
		w.onComplete(w.method)
	}
}

func (w *Workflow) transitionErr(action string) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, w.status)
}

func isValidPaymentMethod(m enum.PaymentMethod) bool {
	switch m {
	case enum.PaymentMethodCash, enum.PaymentMethodCard,
		enum.PaymentMethodQRIS, enum.PaymentMethodTransfer:
		return true
	}
	return false
}
