package checkout

import (
	"fmt"

	"github.com/dapur-pos/checkout/internal/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Roster bounds for a split bill.
const (
	MinSplitCustomers = 2
	MaxSplitCustomers = 8
)

// SplitCustomer is one paying customer in a split bill. In CUSTOM mode its
// subtotal is the sum of its assigned line items; in EQUAL mode it is the
// order total divided by the roster size.
type SplitCustomer struct {
	ID       uuid.UUID
	Name     string
	Subtotal decimal.Decimal
	Tip      TipSpec

	// assigned maps item ID to the item's full order quantity. Partial-unit
	// splitting of a single line item is not supported.
	assigned map[uuid.UUID]int32
}

// Total returns subtotal + tip amount.
func (c *SplitCustomer) Total() decimal.Decimal {
	return c.Subtotal.Add(c.Tip.Amount)
}

// AssignedItems returns a copy of the customer's item assignments.
func (c *SplitCustomer) AssignedItems() map[uuid.UUID]int32 {
	out := make(map[uuid.UUID]int32, len(c.assigned))
	for id, qty := range c.assigned {
		out[id] = qty
	}
	return out
}

// SplitConfiguration owns the split-bill roster and all allocation state for
// one checkout dialog. It is created when the user opts to split the bill and
// discarded when the order is finalized or the dialog is cancelled; nothing
// is persisted.
type SplitConfiguration struct {
	order     Order
	mode      enum.SplitMode
	customers []*SplitCustomer

	// seq numbers default customer names for the session, so "Customer 3"
	// is never reused after a removal.
	seq int
}

// NewSplitConfiguration creates a split with count customers (0 means the
// default of 2). EQUAL mode immediately distributes order total / count to
// every customer; every customer starts with the default 15% tip.
func NewSplitConfiguration(order Order, mode enum.SplitMode, count int) (*SplitConfiguration, error) {
	if !isValidSplitMode(mode) {
		return nil, ErrInvalidSplitMode
	}
	if count == 0 {
		count = MinSplitCustomers
	}
	if count < MinSplitCustomers || count > MaxSplitCustomers {
		return nil, ErrCustomerLimit
	}

	s := &SplitConfiguration{order: order, mode: mode}
	for i := 0; i < count; i++ {
		s.customers = append(s.customers, s.newCustomer())
	}
	if mode == enum.SplitModeEqual {
		s.redistribute()
	}
	return s, nil
}

// Mode returns the current split mode.
func (s *SplitConfiguration) Mode() enum.SplitMode {
	return s.mode
}

// Customers returns the roster in order. The pointers are live; callers must
// not mutate them directly.
func (s *SplitConfiguration) Customers() []*SplitCustomer {
	out := make([]*SplitCustomer, len(s.customers))
	copy(out, s.customers)
	return out
}

// Customer looks up a roster member by ID.
func (s *SplitConfiguration) Customer(id uuid.UUID) (*SplitCustomer, bool) {
	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// CustomerCount returns the roster size.
func (s *SplitConfiguration) CustomerCount() int {
	return len(s.customers)
}

// SetMode switches between EQUAL and CUSTOM. Switching to EQUAL clears item
// assignments and redistributes evenly; switching to CUSTOM zeroes every
// subtotal and tip so the user re-allocates from scratch.
func (s *SplitConfiguration) SetMode(mode enum.SplitMode) error {
	if !isValidSplitMode(mode) {
		return ErrInvalidSplitMode
	}
	if mode == s.mode {
		return nil
	}
	s.mode = mode

	for _, c := range s.customers {
		c.assigned = nil
	}
	switch mode {
	case enum.SplitModeEqual:
		s.redistribute()
	case enum.SplitModeCustom:
		for _, c := range s.customers {
			c.Subtotal = decimal.Zero
			c.Tip = c.Tip.Rebase(decimal.Zero)
		}
	}
	return nil
}

// AddCustomer appends a customer to the roster. EQUAL mode redistributes with
// the new count; CUSTOM mode only grows the roster.
func (s *SplitConfiguration) AddCustomer() (*SplitCustomer, error) {
	if len(s.customers) >= MaxSplitCustomers {
		return nil, ErrCustomerLimit
	}
	c := s.newCustomer()
	s.customers = append(s.customers, c)
	if s.mode == enum.SplitModeEqual {
		s.redistribute()
	}
	return c, nil
}

// RemoveCustomer drops a customer from the roster. The removed customer's
// item assignments are dropped with it; EQUAL mode redistributes with the
// remaining count, CUSTOM mode leaves everyone else's allocations alone.
func (s *SplitConfiguration) RemoveCustomer(id uuid.UUID) error {
	if len(s.customers) <= MinSplitCustomers {
		return ErrCustomerLimit
	}
	for i, c := range s.customers {
		if c.ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			if s.mode == enum.SplitModeEqual {
				s.redistribute()
			}
			return nil
		}
	}
	return ErrUnknownCustomer
}

// RenameCustomer sets a customer's display name.
func (s *SplitConfiguration) RenameCustomer(id uuid.UUID, name string) error {
	c, ok := s.Customer(id)
	if !ok {
		return ErrUnknownCustomer
	}
	c.Name = name
	return nil
}

// SetCustomerTip reconfigures one customer's tip against that customer's
// current subtotal. Other customers are never touched.
func (s *SplitConfiguration) SetCustomerTip(id uuid.UUID, mode enum.TipMode, rawValue string) error {
	if !isValidTipMode(mode) {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, mode)
	}
	c, ok := s.Customer(id)
	if !ok {
		return ErrUnknownCustomer
	}
	c.Tip = NewTipSpec(c.Subtotal, mode, rawValue)
	return nil
}

// AssignItem toggles a line item onto a customer (CUSTOM mode only). If the
// item is already assigned to that customer it is unassigned; if it is
// assigned to someone else it is silently revoked there first. An item is
// always moved at its full order quantity.
func (s *SplitConfiguration) AssignItem(itemID, customerID uuid.UUID) error {
	if s.mode != enum.SplitModeCustom {
		return ErrCustomSplitOnly
	}
	item, ok := s.order.Item(itemID)
	if !ok {
		return ErrUnknownItem
	}
	target, ok := s.Customer(customerID)
	if !ok {
		return ErrUnknownCustomer
	}

	// Toggle off if the target already holds the item.
	if _, held := target.assigned[itemID]; held {
		delete(target.assigned, itemID)
		s.recompute(target)
		return nil
	}

	// Revoke from the previous owner, if any.
	for _, c := range s.customers {
		if _, held := c.assigned[itemID]; held {
			delete(c.assigned, itemID)
			s.recompute(c)
			break
		}
	}

	if target.assigned == nil {
		target.assigned = make(map[uuid.UUID]int32)
	}
	target.assigned[itemID] = item.Quantity
	s.recompute(target)
	return nil
}

// RemainingUnassigned returns order total minus the sum of customer subtotals
// in CUSTOM mode; the workflow requires this to be zero before leaving split
// configuration. EQUAL mode has no unassigned remainder.
func (s *SplitConfiguration) RemainingUnassigned() decimal.Decimal {
	if s.mode != enum.SplitModeCustom {
		return decimal.Zero
	}
	assigned := decimal.Zero
	for _, c := range s.customers {
		assigned = assigned.Add(c.Subtotal)
	}
	return s.order.Total.Sub(assigned)
}

// GrandTotal returns the sum of every customer's subtotal + tip.
func (s *SplitConfiguration) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.customers {
		total = total.Add(c.Total())
	}
	return total
}

// --- internals ---

func (s *SplitConfiguration) newCustomer() *SplitCustomer {
	s.seq++
	return &SplitCustomer{
		ID:       uuid.New(),
		Name:     fmt.Sprintf("Customer %d", s.seq),
		Subtotal: decimal.Zero,
		Tip:      NewTipSpec(decimal.Zero, defaultTipMode, defaultTipValue),
	}
}

// redistribute assigns order total / count to every customer and recomputes
// each tip against the new share.
func (s *SplitConfiguration) redistribute() {
	share := s.order.Total.Div(decimal.NewFromInt(int64(len(s.customers)))).Round(2)
	for _, c := range s.customers {
		c.Subtotal = share
		c.Tip = c.Tip.Rebase(share)
	}
}

// recompute rebuilds one customer's subtotal from its assigned items and
// rebases the tip.
func (s *SplitConfiguration) recompute(c *SplitCustomer) {
	subtotal := decimal.Zero
	for itemID := range c.assigned {
		if item, ok := s.order.Item(itemID); ok {
			subtotal = subtotal.Add(item.LineTotal())
		}
	}
	c.Subtotal = subtotal.Round(2)
	c.Tip = c.Tip.Rebase(c.Subtotal)
}

func isValidSplitMode(m enum.SplitMode) bool {
	switch m {
	case enum.SplitModeEqual, enum.SplitModeCustom:
		return true
	}
	return false
}
