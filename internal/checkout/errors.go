package checkout

import "errors"

// Errors returned by the checkout engine. Callers assert on these with
// errors.Is; call sites wrap them with context.
var (
	ErrInvalidAmount        = errors.New("invalid or insufficient amount")
	ErrIncompleteAllocation = errors.New("order items are not fully allocated")

	ErrInvalidTransition = errors.New("invalid checkout transition")
	ErrInvalidMethod     = errors.New("invalid payment_method")
	ErrInvalidSplitMode  = errors.New("invalid split mode")
	ErrCustomerLimit     = errors.New("customer count must be between 2 and 8")
	ErrUnknownCustomer   = errors.New("customer not found in split")
	ErrUnknownItem       = errors.New("item not found in order")
	ErrAlreadyPaid       = errors.New("customer has already paid")
	ErrCustomSplitOnly   = errors.New("item assignment requires CUSTOM split mode")
	ErrUnsettled         = errors.New("not all customers have paid")
)
