package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the read-only snapshot of an order handed over by the order system
// when the checkout dialog opens. The engine never mutates it; the total is
// assumed pre-computed and non-negative.
type Order struct {
	ID     uuid.UUID
	Number string
	Items  []OrderItem
	Total  decimal.Decimal
}

// OrderItem is a single line item on the order.
type OrderItem struct {
	ID        uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int32
}

// LineTotal returns unit_price * quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt32(i.Quantity))
}

// Item looks up a line item by ID.
func (o Order) Item(id uuid.UUID) (OrderItem, bool) {
	for _, item := range o.Items {
		if item.ID == id {
			return item, true
		}
	}
	return OrderItem{}, false
}
