package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dapur-pos/checkout/internal/checkout"
	"github.com/dapur-pos/checkout/internal/enum"
	"github.com/dapur-pos/checkout/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutSessions defines the session-service methods needed by checkout
// handlers. Satisfied by *service.SessionService; narrow interface for
// testability.
type CheckoutSessions interface {
	Open(order checkout.Order) *service.Session
	Get(id uuid.UUID) (*service.Session, error)
	Close(id uuid.UUID) error
	Update(id uuid.UUID, fn func(w *checkout.Workflow) error) (*service.Session, error)
}

// CheckoutHandler handles checkout session endpoints.
type CheckoutHandler struct {
	sessions CheckoutSessions
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(sessions CheckoutSessions) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions}
}

// RegisterRoutes registers checkout endpoints on the given Chi router.
// Expected to be mounted at /checkouts
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Open)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Discard)
		r.Post("/tip", h.SetTip)
		r.Post("/payment", h.SubmitPayment)
		r.Post("/cash", h.TenderCash)
		r.Post("/cash/confirm", h.ConfirmCash)
		r.Post("/complete", h.Complete)
		r.Route("/split", func(r chi.Router) {
			r.Post("/", h.RequestSplit)
			r.Patch("/", h.SetSplitMode)
			r.Delete("/", h.CancelSplit)
			r.Post("/confirm", h.ConfirmSplit)
			r.Post("/continue", h.ContinueSplit)
			r.Post("/assignments", h.AssignItem)
			r.Post("/customers", h.AddCustomer)
			r.Route("/customers/{cid}", func(r chi.Router) {
				r.Delete("/", h.RemoveCustomer)
				r.Patch("/", h.RenameCustomer)
				r.Put("/tip", h.SetCustomerTip)
				r.Post("/payment", h.PayCustomer)
				r.Delete("/payment", h.CancelCustomerPayment)
			})
		})
	})
}

// --- Request / Response types ---

type openCheckoutRequest struct {
	Order orderPayload `json:"order"`
}

type orderPayload struct {
	ID     string             `json:"id"`
	Number string             `json:"number"`
	Total  string             `json:"total"`
	Items  []orderItemPayload `json:"items"`
}

type orderItemPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int32  `json:"quantity"`
}

type tipRequest struct {
	Mode  string `json:"mode"`
	Value string `json:"value"`
}

type paymentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type cashRequest struct {
	AmountReceived string `json:"amount_received"`
}

type splitRequest struct {
	Mode          string `json:"mode"`
	CustomerCount int    `json:"customer_count"`
}

type splitModeRequest struct {
	Mode string `json:"mode"`
}

type renameCustomerRequest struct {
	Name string `json:"name"`
}

type assignmentRequest struct {
	ItemID     string `json:"item_id"`
	CustomerID string `json:"customer_id"`
}

type checkoutResponse struct {
	ID             uuid.UUID      `json:"id"`
	OrderID        uuid.UUID      `json:"order_id"`
	OrderNumber    string         `json:"order_number"`
	Status         string         `json:"status"`
	PaymentMethod  string         `json:"payment_method,omitempty"`
	OrderTotal     string         `json:"order_total"`
	Tip            tipResponse    `json:"tip"`
	AmountDue      string         `json:"amount_due"`
	AmountReceived string         `json:"amount_received"`
	ChangeAmount   string         `json:"change_amount"`
	Completed      bool           `json:"completed"`
	Split          *splitResponse `json:"split"`
}

type tipResponse struct {
	Mode   string `json:"mode,omitempty"`
	Value  string `json:"value,omitempty"`
	Amount string `json:"amount"`
}

type splitResponse struct {
	Mode                string                  `json:"mode"`
	CustomerCount       int                     `json:"customer_count"`
	RemainingUnassigned string                  `json:"remaining_unassigned"`
	AllPaid             bool                    `json:"all_paid"`
	Customers           []splitCustomerResponse `json:"customers"`
}

type splitCustomerResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Subtotal  string      `json:"subtotal"`
	TipAmount string      `json:"tip_amount"`
	Total     string      `json:"total"`
	Paid      bool        `json:"paid"`
	Items     []uuid.UUID `json:"items"`
}

// --- Handlers ---

// Open handles POST /checkouts. The body carries the order snapshot from the
// order system; the engine never reads it from anywhere else.
func (h *CheckoutHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := parseOrder(req.Order)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sess := h.sessions.Open(order)
	writeJSON(w, http.StatusCreated, snapshotOf(sess))
}

// Get handles GET /checkouts/{id}.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	sess, err := h.sessions.Get(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotOf(sess))
}

// Discard handles DELETE /checkouts/{id}. Cancelling the dialog throws the
// whole session away; nothing was ever persisted.
func (h *CheckoutHandler) Discard(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Close(id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetTip handles POST /checkouts/{id}/tip.
func (h *CheckoutHandler) SetTip(w http.ResponseWriter, r *http.Request) {
	var req tipRequest
	h.update(w, r, &req, func(wf *checkout.Workflow) error {
		return wf.SetTip(enum.TipMode(req.Mode), req.Value)
	})
}

// SubmitPayment handles POST /checkouts/{id}/payment.
func (h *CheckoutHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	h.update(w, r, &req, func(wf *checkout.Workflow) error {
		return wf.SubmitPayment(enum.PaymentMethod(req.PaymentMethod))
	})
}

// TenderCash handles POST /checkouts/{id}/cash. The same endpoint serves the
// single-payer and per-customer cash steps; the workflow state decides which
// total the amount must cover.
func (h *CheckoutHandler) TenderCash(w http.ResponseWriter, r *http.Request) {
	var req cashRequest
	h.update(w, r, &req, func(wf *checkout.Workflow) error {
		return wf.TenderCash(req.AmountReceived)
	})
}

// ConfirmCash handles POST /checkouts/{id}/cash/confirm.
func (h *CheckoutHandler) ConfirmCash(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, nil, func(wf *checkout.Workflow) error {
		return wf.ConfirmCash()
	})
}

// Complete handles POST /checkouts/{id}/complete.
func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, nil, func(wf *checkout.Workflow) error {
		return wf.CompleteSplit()
	})
}

// RequestSplit handles POST /checkouts/{id}/split.
func (h *CheckoutHandler) RequestSplit(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	h.update(w, r, &req, func(wf *checkout.Workflow) error {
		return wf.RequestSplit(enum.SplitMode(req.Mode), req.CustomerCount)
	})
}

// SetSplitMode handles PATCH /checkouts/{id}/split.
func (h *CheckoutHandler) SetSplitMode(w http.ResponseWriter, r *http.Request) {
	var req splitModeRequest
	h.update(w, r, &req, func(wf *checkout.Workflow) error {
		return wf.SetSplitMode(enum.SplitMode(req.Mode))
	})
}

// CancelSplit handles DELETE /checkouts/{id}/split.
func (h *CheckoutHandler) CancelSplit(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, nil, func(wf *checkout.Workflow) error {
		return wf.CancelSplit()
	})
}

// ConfirmSplit handles POST /checkouts/{id}/split/confirm.
func (h *CheckoutHandler) ConfirmSplit(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, nil, func(wf *checkout.Workflow) error {
		return wf.ConfirmSplit()
	})
}

// ContinueSplit handles POST /checkouts/{id}/split/continue.
func (h *CheckoutHandler) ContinueSplit(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, nil, func(wf *checkout.Workflow) error {
		return wf.ContinueSplit()
	})
}

// AssignItem handles POST /checkouts/{id}/split/assignments.
func (h *CheckoutHandler) AssignItem(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	h.update(w, r, &req, func(wf *checkout.Workflow) error {
		itemID, err := uuid.Parse(req.ItemID)
		if err != nil {
			return checkout.ErrUnknownItem
		}
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return checkout.ErrUnknownCustomer
		}
		return wf.AssignItem(itemID, customerID)
	})
}

// AddCustomer handles POST /checkouts/{id}/split/customers.
func (h *CheckoutHandler) AddCustomer(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, nil, func(wf *checkout.Workflow) error {
		_, err := wf.AddCustomer()
		return err
	})
}

// RemoveCustomer handles DELETE /checkouts/{id}/split/customers/{cid}.
func (h *CheckoutHandler) RemoveCustomer(w http.ResponseWriter, r *http.Request) {
	cid, ok := customerID(w, r)
	if !ok {
		return
	}
	h.update(w, r, nil, func(wf *checkout.Workflow) error {
		return wf.RemoveCustomer(cid)
	})
}

// RenameCustomer handles PATCH /checkouts/{id}/split/customers/{cid}.
func (h *CheckoutHandler) RenameCustomer(w http.ResponseWriter, r *http.Request) {
	cid, ok := customerID(w, r)
	if !ok {
		return
	}
	var req renameCustomerRequest
	h.update(w, r, &req, func(wf *checkout.Workflow) error {
		return wf.RenameCustomer(cid, req.Name)
	})
}

// SetCustomerTip handles PUT /checkouts/{id}/split/customers/{cid}/tip.
func (h *CheckoutHandler) SetCustomerTip(w http.ResponseWriter, r *http.Request) {
	cid, ok := customerID(w, r)
	if !ok {
		return
	}
	var req tipRequest
	h.update(w, r, &req, func(wf *checkout.Workflow) error {
		return wf.SetCustomerTip(cid, enum.TipMode(req.Mode), req.Value)
	})
}

// PayCustomer handles POST /checkouts/{id}/split/customers/{cid}/payment.
// Selecting the customer and submitting their payment is one action for the
// cashier, so it is one request here.
func (h *CheckoutHandler) PayCustomer(w http.ResponseWriter, r *http.Request) {
	cid, ok := customerID(w, r)
	if !ok {
		return
	}
	var req paymentRequest
	h.update(w, r, &req, func(wf *checkout.Workflow) error {
		if err := wf.PayCustomer(cid); err != nil {
			return err
		}
		if err := wf.SubmitCustomerPayment(enum.PaymentMethod(req.PaymentMethod)); err != nil {
			// Roll the selection back so a rejected method leaves the
			// summary reachable and the request is a net no-op.
			wf.CancelCustomerPayment()
			return err
		}
		return nil
	})
}

// CancelCustomerPayment handles DELETE /checkouts/{id}/split/customers/{cid}/payment.
// Backs out of a customer's cash-input step and returns to the summary.
func (h *CheckoutHandler) CancelCustomerPayment(w http.ResponseWriter, r *http.Request) {
	if _, ok := customerID(w, r); !ok {
		return
	}
	h.update(w, r, nil, func(wf *checkout.Workflow) error {
		return wf.CancelCustomerPayment()
	})
}

// --- Helpers ---

// update decodes the optional body into req, applies fn to the session's
// workflow, and writes the refreshed snapshot.
func (h *CheckoutHandler) update(w http.ResponseWriter, r *http.Request, req any, fn func(wf *checkout.Workflow) error) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if req != nil {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	sess, err := h.sessions.Update(id, fn)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotOf(sess))
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid checkout session ID"})
		return uuid.Nil, false
	}
	return id, true
}

func customerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "cid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer ID"})
		return uuid.Nil, false
	}
	return id, true
}

// parseOrder validates the order payload. A missing total is derived from the
// line items; a present one is trusted as pre-computed by the order system.
func parseOrder(p orderPayload) (checkout.Order, error) {
	orderID, err := uuid.Parse(p.ID)
	if err != nil {
		return checkout.Order{}, errors.New("invalid order id")
	}

	items := make([]checkout.OrderItem, 0, len(p.Items))
	lineSum := decimal.Zero
	for _, ip := range p.Items {
		itemID, err := uuid.Parse(ip.ID)
		if err != nil {
			return checkout.Order{}, errors.New("invalid item id")
		}
		if ip.Quantity <= 0 {
			return checkout.Order{}, errors.New("item quantity must be > 0")
		}
		price, err := decimal.NewFromString(ip.UnitPrice)
		if err != nil || price.IsNegative() {
			return checkout.Order{}, errors.New("invalid item unit_price")
		}
		item := checkout.OrderItem{
			ID:        itemID,
			Name:      ip.Name,
			UnitPrice: price,
			Quantity:  ip.Quantity,
		}
		items = append(items, item)
		lineSum = lineSum.Add(item.LineTotal())
	}

	total := lineSum
	if p.Total != "" {
		total, err = decimal.NewFromString(p.Total)
		if err != nil || total.IsNegative() {
			return checkout.Order{}, errors.New("invalid order total")
		}
	}
	if total.IsZero() && len(items) == 0 {
		return checkout.Order{}, errors.New("order has no items and no total")
	}

	return checkout.Order{
		ID:     orderID,
		Number: p.Number,
		Items:  items,
		Total:  total.Round(2),
	}, nil
}

// snapshotOf builds the full response under the session lock.
func snapshotOf(sess *service.Session) checkoutResponse {
	var resp checkoutResponse
	sess.View(func(wf *checkout.Workflow) {
		order := wf.Order()
		tip := wf.Tip()
		resp = checkoutResponse{
			ID:             sess.ID,
			OrderID:        order.ID,
			OrderNumber:    order.Number,
			Status:         string(wf.Status()),
			PaymentMethod:  string(wf.Method()),
			OrderTotal:     order.Total.StringFixed(2),
			AmountDue:      wf.AmountDue().StringFixed(2),
			AmountReceived: wf.Received().StringFixed(2),
			ChangeAmount:   wf.Change().StringFixed(2),
			Completed:      wf.Completed(),
			Tip: tipResponse{
				Mode:   string(tip.Mode),
				Value:  tip.RawValue,
				Amount: tip.Amount.StringFixed(2),
			},
		}
		if split := wf.Split(); split != nil {
			resp.Split = splitToResponse(split, wf.Tracker())
		}
	})
	return resp
}

func splitToResponse(split *checkout.SplitConfiguration, tracker *checkout.SettlementTracker) *splitResponse {
	customers := split.Customers()
	resp := &splitResponse{
		Mode:                string(split.Mode()),
		CustomerCount:       split.CustomerCount(),
		RemainingUnassigned: split.RemainingUnassigned().StringFixed(2),
		AllPaid:             tracker.AllPaid(),
		Customers:           make([]splitCustomerResponse, len(customers)),
	}
	for i, c := range customers {
		items := make([]uuid.UUID, 0, len(c.AssignedItems()))
		for itemID := range c.AssignedItems() {
			items = append(items, itemID)
		}
		resp.Customers[i] = splitCustomerResponse{
			ID:        c.ID,
			Name:      c.Name,
			Subtotal:  c.Subtotal.StringFixed(2),
			TipAmount: c.Tip.Amount.StringFixed(2),
			Total:     c.Total().StringFixed(2),
			Paid:      tracker.Paid(c.ID),
			Items:     items,
		}
	}
	return resp
}

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, checkout.ErrUnknownCustomer),
		errors.Is(err, checkout.ErrUnknownItem):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, checkout.ErrInvalidAmount),
		errors.Is(err, checkout.ErrInvalidMethod),
		errors.Is(err, checkout.ErrInvalidSplitMode),
		errors.Is(err, checkout.ErrCustomerLimit):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, checkout.ErrInvalidTransition),
		errors.Is(err, checkout.ErrIncompleteAllocation),
		errors.Is(err, checkout.ErrUnsettled),
		errors.Is(err, checkout.ErrAlreadyPaid),
		errors.Is(err, checkout.ErrCustomSplitOnly):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		slog.Error("checkout handler", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode JSON response", "error", err)
	}
}
