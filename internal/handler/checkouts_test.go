package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dapur-pos/checkout/internal/checkout"
	"github.com/dapur-pos/checkout/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestRouter() (http.Handler, *service.SessionService) {
	svc := service.NewSessionService(nil, 0)
	h := NewCheckoutHandler(svc)
	r := chi.NewRouter()
	r.Route("/checkouts", h.RegisterRoutes)
	return r, svc
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeCheckout(t *testing.T, rec *httptest.ResponseRecorder) checkoutResponse {
	t.Helper()
	var resp checkoutResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

// twoItemOrder builds a 100.00 order with known item IDs for assignment tests.
func twoItemOrder() checkout.Order {
	return checkout.Order{
		ID:     uuid.New(),
		Number: "A-204",
		Items: []checkout.OrderItem{
			{ID: uuid.New(), Name: "Nasi Bakar Komplit", UnitPrice: decimal.RequireFromString("60.00"), Quantity: 1},
			{ID: uuid.New(), Name: "Ayam Goreng", UnitPrice: decimal.RequireFromString("40.00"), Quantity: 1},
		},
		Total: decimal.RequireFromString("100.00"),
	}
}

func TestOpenCheckout(t *testing.T) {
	router, _ := newTestRouter()

	body := openCheckoutRequest{
		Order: orderPayload{
			ID:     uuid.New().String(),
			Number: "A-101",
			Total:  "100.00",
			Items: []orderItemPayload{
				{ID: uuid.New().String(), Name: "Nasi Bakar Ayam", UnitPrice: "60.00", Quantity: 1},
				{ID: uuid.New().String(), Name: "Es Teh Manis", UnitPrice: "20.00", Quantity: 2},
			},
		},
	}

	rec := doRequest(t, router, http.MethodPost, "/checkouts/", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeCheckout(t, rec)
	if resp.Status != "IDLE" {
		t.Errorf("expected status IDLE, got %s", resp.Status)
	}
	if resp.OrderTotal != "100.00" {
		t.Errorf("expected order_total 100.00, got %s", resp.OrderTotal)
	}
	if resp.OrderNumber != "A-101" {
		t.Errorf("expected order_number A-101, got %s", resp.OrderNumber)
	}
	if resp.Split != nil {
		t.Error("expected no split state on a fresh checkout")
	}
}

func TestOpenCheckoutDerivesTotalFromItems(t *testing.T) {
	router, _ := newTestRouter()

	body := openCheckoutRequest{
		Order: orderPayload{
			ID: uuid.New().String(),
			Items: []orderItemPayload{
				{ID: uuid.New().String(), Name: "Kopi Susu", UnitPrice: "18.50", Quantity: 2},
			},
		},
	}

	rec := doRequest(t, router, http.MethodPost, "/checkouts/", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decodeCheckout(t, rec); resp.OrderTotal != "37.00" {
		t.Errorf("expected derived total 37.00, got %s", resp.OrderTotal)
	}
}

func TestOpenCheckoutInvalidOrder(t *testing.T) {
	router, _ := newTestRouter()

	tests := []struct {
		name string
		body openCheckoutRequest
	}{
		{
			name: "bad order id",
			body: openCheckoutRequest{Order: orderPayload{ID: "not-a-uuid", Total: "10.00"}},
		},
		{
			name: "negative total",
			body: openCheckoutRequest{Order: orderPayload{ID: uuid.New().String(), Total: "-5.00"}},
		},
		{
			name: "zero quantity item",
			body: openCheckoutRequest{Order: orderPayload{
				ID:    uuid.New().String(),
				Items: []orderItemPayload{{ID: uuid.New().String(), UnitPrice: "10.00", Quantity: 0}},
			}},
		},
		{
			name: "empty order",
			body: openCheckoutRequest{Order: orderPayload{ID: uuid.New().String()}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/checkouts/", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetCheckoutNotFound(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/checkouts/"+uuid.New().String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestInvalidSessionID(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(t, router, http.MethodGet, "/checkouts/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSetTip(t *testing.T) {
	router, svc := newTestRouter()
	sess := svc.Open(twoItemOrder())
	base := "/checkouts/" + sess.ID.String()

	rec := doRequest(t, router, http.MethodPost, base+"/tip", tipRequest{Mode: "PERCENTAGE", Value: "10"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeCheckout(t, rec)
	if resp.Tip.Amount != "10.00" {
		t.Errorf("expected tip amount 10.00, got %s", resp.Tip.Amount)
	}
	if resp.AmountDue != "110.00" {
		t.Errorf("expected amount_due 110.00, got %s", resp.AmountDue)
	}
}

func TestCardPaymentCompletes(t *testing.T) {
	router, svc := newTestRouter()
	sess := svc.Open(twoItemOrder())
	base := "/checkouts/" + sess.ID.String()

	rec := doRequest(t, router, http.MethodPost, base+"/payment", paymentRequest{PaymentMethod: "CARD"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeCheckout(t, rec)
	if resp.Status != "SUCCESS" {
		t.Errorf("expected status SUCCESS, got %s", resp.Status)
	}
	if !resp.Completed {
		t.Error("expected checkout completed after card settlement")
	}
	if resp.PaymentMethod != "CARD" {
		t.Errorf("expected payment_method CARD, got %s", resp.PaymentMethod)
	}
}

func TestInvalidPaymentMethod(t *testing.T) {
	router, svc := newTestRouter()
	sess := svc.Open(twoItemOrder())

	rec := doRequest(t, router, http.MethodPost, "/checkouts/"+sess.ID.String()+"/payment",
		paymentRequest{PaymentMethod: "BARTER"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCashFlow(t *testing.T) {
	router, svc := newTestRouter()
	sess := svc.Open(twoItemOrder())
	base := "/checkouts/" + sess.ID.String()

	rec := doRequest(t, router, http.MethodPost, base+"/payment", paymentRequest{PaymentMethod: "CASH"})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit cash payment: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decodeCheckout(t, rec); resp.Status != "CASH_INPUT" {
		t.Fatalf("expected status CASH_INPUT, got %s", resp.Status)
	}

	// Insufficient cash is rejected without a state change
	rec = doRequest(t, router, http.MethodPost, base+"/cash", cashRequest{AmountReceived: "50.00"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("short cash: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPost, base+"/cash", cashRequest{AmountReceived: "120.00"})
	if rec.Code != http.StatusOK {
		t.Fatalf("tender cash: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeCheckout(t, rec)
	if resp.Status != "CASH_CHANGE" {
		t.Errorf("expected status CASH_CHANGE, got %s", resp.Status)
	}
	if resp.ChangeAmount != "20.00" {
		t.Errorf("expected change 20.00, got %s", resp.ChangeAmount)
	}

	rec = doRequest(t, router, http.MethodPost, base+"/cash/confirm", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm cash: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp = decodeCheckout(t, rec)
	if resp.Status != "SUCCESS" {
		t.Errorf("expected status SUCCESS, got %s", resp.Status)
	}
	if !resp.Completed {
		t.Error("expected checkout completed after confirming change")
	}
}

func TestSplitEqualFlow(t *testing.T) {
	router, svc := newTestRouter()
	sess := svc.Open(twoItemOrder())
	base := "/checkouts/" + sess.ID.String()

	rec := doRequest(t, router, http.MethodPost, base+"/split", splitRequest{Mode: "EQUAL", CustomerCount: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("request split: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeCheckout(t, rec)
	if resp.Status != "SPLIT_BILL" {
		t.Fatalf("expected status SPLIT_BILL, got %s", resp.Status)
	}
	if resp.Split == nil || len(resp.Split.Customers) != 2 {
		t.Fatalf("expected 2 split customers, got %+v", resp.Split)
	}
	for _, c := range resp.Split.Customers {
		if c.Subtotal != "50.00" {
			t.Errorf("customer %s: expected subtotal 50.00, got %s", c.Name, c.Subtotal)
		}
		// Default 15% tip applies to each share
		if c.TipAmount != "7.50" {
			t.Errorf("customer %s: expected tip 7.50, got %s", c.Name, c.TipAmount)
		}
	}

	rec = doRequest(t, router, http.MethodPost, base+"/split/confirm", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm split: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp = decodeCheckout(t, rec)
	if resp.Status != "SPLIT_SUMMARY" {
		t.Fatalf("expected status SPLIT_SUMMARY, got %s", resp.Status)
	}

	// Pay both customers by card, dismissing each success screen
	for i, c := range resp.Split.Customers {
		rec = doRequest(t, router, http.MethodPost,
			fmt.Sprintf("%s/split/customers/%s/payment", base, c.ID), paymentRequest{PaymentMethod: "CARD"})
		if rec.Code != http.StatusOK {
			t.Fatalf("pay customer %d: expected 200, got %d: %s", i+1, rec.Code, rec.Body.String())
		}
		payResp := decodeCheckout(t, rec)
		if payResp.Status != "CUSTOMER_SUCCESS" {
			t.Fatalf("expected status CUSTOMER_SUCCESS, got %s", payResp.Status)
		}

		rec = doRequest(t, router, http.MethodPost, base+"/split/continue", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("continue split: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	// Paying the same customer twice is a conflict
	rec = doRequest(t, router, http.MethodPost,
		fmt.Sprintf("%s/split/customers/%s/payment", base, resp.Split.Customers[0].ID),
		paymentRequest{PaymentMethod: "CARD"})
	if rec.Code != http.StatusConflict {
		t.Errorf("double payment: expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPost, base+"/complete", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp = decodeCheckout(t, rec)
	if !resp.Completed {
		t.Error("expected checkout completed after all customers paid")
	}
	if !resp.Split.AllPaid {
		t.Error("expected all_paid=true")
	}
}

func TestSplitCustomFlow(t *testing.T) {
	router, svc := newTestRouter()
	order := twoItemOrder()
	sess := svc.Open(order)
	base := "/checkouts/" + sess.ID.String()

	rec := doRequest(t, router, http.MethodPost, base+"/split", splitRequest{Mode: "CUSTOM", CustomerCount: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("request split: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeCheckout(t, rec)
	if resp.Split.RemainingUnassigned != "100.00" {
		t.Fatalf("expected 100.00 unassigned, got %s", resp.Split.RemainingUnassigned)
	}
	c1 := resp.Split.Customers[0]
	c2 := resp.Split.Customers[1]

	// Confirming before everything is assigned is a conflict
	rec = doRequest(t, router, http.MethodPost, base+"/split/confirm", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("premature confirm: expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPost, base+"/split/assignments",
		assignmentRequest{ItemID: order.Items[0].ID.String(), CustomerID: c1.ID.String()})
	if rec.Code != http.StatusOK {
		t.Fatalf("assign item 1: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(t, router, http.MethodPost, base+"/split/assignments",
		assignmentRequest{ItemID: order.Items[1].ID.String(), CustomerID: c2.ID.String()})
	if rec.Code != http.StatusOK {
		t.Fatalf("assign item 2: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp = decodeCheckout(t, rec)
	if resp.Split.RemainingUnassigned != "0.00" {
		t.Fatalf("expected 0.00 unassigned, got %s", resp.Split.RemainingUnassigned)
	}

	rec = doRequest(t, router, http.MethodPost, base+"/split/confirm", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm split: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decodeCheckout(t, rec); resp.Status != "SPLIT_SUMMARY" {
		t.Errorf("expected status SPLIT_SUMMARY, got %s", resp.Status)
	}
}

func TestSplitRosterManagement(t *testing.T) {
	router, svc := newTestRouter()
	sess := svc.Open(twoItemOrder())
	base := "/checkouts/" + sess.ID.String()

	rec := doRequest(t, router, http.MethodPost, base+"/split", splitRequest{Mode: "EQUAL"})
	if rec.Code != http.StatusOK {
		t.Fatalf("request split: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Grow to 3 and check redistribution
	rec = doRequest(t, router, http.MethodPost, base+"/split/customers", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("add customer: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeCheckout(t, rec)
	if got := resp.Split.CustomerCount; got != 3 {
		t.Fatalf("expected 3 customers, got %d", got)
	}
	for _, c := range resp.Split.Customers {
		if c.Subtotal != "33.33" {
			t.Errorf("customer %s: expected subtotal 33.33, got %s", c.Name, c.Subtotal)
		}
	}

	// Rename one customer
	target := resp.Split.Customers[1]
	rec = doRequest(t, router, http.MethodPatch,
		fmt.Sprintf("%s/split/customers/%s", base, target.ID), renameCustomerRequest{Name: "Budi"})
	if rec.Code != http.StatusOK {
		t.Fatalf("rename: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp = decodeCheckout(t, rec)
	if resp.Split.Customers[1].Name != "Budi" {
		t.Errorf("expected renamed customer Budi, got %s", resp.Split.Customers[1].Name)
	}

	// Remove back down to 2
	rec = doRequest(t, router, http.MethodDelete,
		fmt.Sprintf("%s/split/customers/%s", base, target.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp = decodeCheckout(t, rec)
	if got := resp.Split.CustomerCount; got != 2 {
		t.Fatalf("expected 2 customers after removal, got %d", got)
	}

	// The minimum roster size is enforced
	rec = doRequest(t, router, http.MethodDelete,
		fmt.Sprintf("%s/split/customers/%s", base, resp.Split.Customers[0].ID), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("remove below minimum: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSetCustomerTip(t *testing.T) {
	router, svc := newTestRouter()
	sess := svc.Open(twoItemOrder())
	base := "/checkouts/" + sess.ID.String()

	rec := doRequest(t, router, http.MethodPost, base+"/split", splitRequest{Mode: "EQUAL", CustomerCount: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("request split: expected 200, got %d", rec.Code)
	}
	resp := decodeCheckout(t, rec)
	target := resp.Split.Customers[0]

	rec = doRequest(t, router, http.MethodPut,
		fmt.Sprintf("%s/split/customers/%s/tip", base, target.ID),
		tipRequest{Mode: "FIXED_AMOUNT", Value: "5.00"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set customer tip: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp = decodeCheckout(t, rec)
	if resp.Split.Customers[0].TipAmount != "5.00" {
		t.Errorf("expected tip 5.00, got %s", resp.Split.Customers[0].TipAmount)
	}
	// The other customer keeps the default 15%
	if resp.Split.Customers[1].TipAmount != "7.50" {
		t.Errorf("expected untouched tip 7.50, got %s", resp.Split.Customers[1].TipAmount)
	}
}

func TestPayCustomerInvalidMethodIsNoOp(t *testing.T) {
	router, svc := newTestRouter()
	sess := svc.Open(twoItemOrder())
	base := "/checkouts/" + sess.ID.String()

	doRequest(t, router, http.MethodPost, base+"/split", splitRequest{Mode: "EQUAL", CustomerCount: 2})
	rec := doRequest(t, router, http.MethodPost, base+"/split/confirm", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm split: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	target := decodeCheckout(t, rec).Split.Customers[0]
	payPath := fmt.Sprintf("%s/split/customers/%s/payment", base, target.ID)

	// A lowercase method is rejected without touching the dialog
	rec = doRequest(t, router, http.MethodPost, payPath, paymentRequest{PaymentMethod: "card"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad method: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, base, nil)
	resp := decodeCheckout(t, rec)
	if resp.Status != "SPLIT_SUMMARY" {
		t.Fatalf("expected status SPLIT_SUMMARY after rejected method, got %s", resp.Status)
	}
	if resp.Split.Customers[0].Paid {
		t.Error("rejected payment marked the customer paid")
	}

	// A valid retry on the same customer goes through
	rec = doRequest(t, router, http.MethodPost, payPath, paymentRequest{PaymentMethod: "CARD"})
	if rec.Code != http.StatusOK {
		t.Fatalf("retry: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decodeCheckout(t, rec); resp.Status != "CUSTOMER_SUCCESS" {
		t.Errorf("expected status CUSTOMER_SUCCESS on retry, got %s", resp.Status)
	}
}

func TestCancelCustomerCashInput(t *testing.T) {
	router, svc := newTestRouter()
	sess := svc.Open(twoItemOrder())
	base := "/checkouts/" + sess.ID.String()

	doRequest(t, router, http.MethodPost, base+"/split", splitRequest{Mode: "EQUAL", CustomerCount: 2})
	rec := doRequest(t, router, http.MethodPost, base+"/split/confirm", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm split: expected 200, got %d", rec.Code)
	}
	target := decodeCheckout(t, rec).Split.Customers[0]
	payPath := fmt.Sprintf("%s/split/customers/%s/payment", base, target.ID)

	rec = doRequest(t, router, http.MethodPost, payPath, paymentRequest{PaymentMethod: "CASH"})
	if rec.Code != http.StatusOK {
		t.Fatalf("cash payment: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decodeCheckout(t, rec); resp.Status != "CUSTOMER_CASH_INPUT" {
		t.Fatalf("expected status CUSTOMER_CASH_INPUT, got %s", resp.Status)
	}

	// The customer changed their mind; back out to the summary
	rec = doRequest(t, router, http.MethodDelete, payPath, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel payment: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeCheckout(t, rec)
	if resp.Status != "SPLIT_SUMMARY" {
		t.Fatalf("expected status SPLIT_SUMMARY after cancel, got %s", resp.Status)
	}
	if resp.Split.Customers[0].Paid {
		t.Error("cancelled payment marked the customer paid")
	}

	rec = doRequest(t, router, http.MethodPost, payPath, paymentRequest{PaymentMethod: "QRIS"})
	if rec.Code != http.StatusOK {
		t.Fatalf("retry after cancel: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCancelSplitReturnsToIdle(t *testing.T) {
	router, svc := newTestRouter()
	sess := svc.Open(twoItemOrder())
	base := "/checkouts/" + sess.ID.String()

	rec := doRequest(t, router, http.MethodPost, base+"/split", splitRequest{Mode: "EQUAL"})
	if rec.Code != http.StatusOK {
		t.Fatalf("request split: expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodDelete, base+"/split", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel split: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeCheckout(t, rec)
	if resp.Status != "IDLE" {
		t.Errorf("expected status IDLE, got %s", resp.Status)
	}
	if resp.Split != nil {
		t.Error("expected split state discarded after cancel")
	}
}

func TestDiscardCheckout(t *testing.T) {
	router, svc := newTestRouter()
	sess := svc.Open(twoItemOrder())
	base := "/checkouts/" + sess.ID.String()

	rec := doRequest(t, router, http.MethodDelete, base, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, base, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after discard, got %d", rec.Code)
	}
}

func TestCompleteBeforeAllPaid(t *testing.T) {
	router, svc := newTestRouter()
	sess := svc.Open(twoItemOrder())
	base := "/checkouts/" + sess.ID.String()

	doRequest(t, router, http.MethodPost, base+"/split", splitRequest{Mode: "EQUAL", CustomerCount: 2})
	doRequest(t, router, http.MethodPost, base+"/split/confirm", nil)

	rec := doRequest(t, router, http.MethodPost, base+"/complete", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 with unpaid customers, got %d: %s", rec.Code, rec.Body.String())
	}
}
