package checkout

import "github.com/google/uuid"

// SettlementTracker records which split customers have settled their share.
// Paid status is keyed by customer ID rather than roster position, so
// removing a customer from the middle of the roster can never shift someone
// else's paid flag.
type SettlementTracker struct {
	split *SplitConfiguration
	paid  map[uuid.UUID]bool
}

// NewSettlementTracker creates a tracker over the given split roster with
// every customer unpaid.
func NewSettlementTracker(split *SplitConfiguration) *SettlementTracker {
	return &SettlementTracker{
		split: split,
		paid:  make(map[uuid.UUID]bool),
	}
}

// MarkPaid flags a customer as settled. The transition is one-way: marking an
// already-paid customer is a no-op and nothing ever clears the flag.
func (t *SettlementTracker) MarkPaid(id uuid.UUID) error {
	if _, ok := t.split.Customer(id); !ok {
		return ErrUnknownCustomer
	}
	t.paid[id] = true
	return nil
}

// Paid reports whether the customer has settled.
func (t *SettlementTracker) Paid(id uuid.UUID) bool {
	return t.paid[id]
}

// PaidCount returns how many current roster members have settled.
func (t *SettlementTracker) PaidCount() int {
	n := 0
	for _, c := range t.split.Customers() {
		if t.paid[c.ID] {
			n++
		}
	}
	return n
}

// AllPaid reports whether every customer currently on the roster has settled.
// This gates the final "complete all payments" action.
func (t *SettlementTracker) AllPaid() bool {
	for _, c := range t.split.Customers() {
		if !t.paid[c.ID] {
			return false
		}
	}
	return true
}
