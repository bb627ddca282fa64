package enum

// ── Checkout dialog states (closed set, transitions owned by checkout.Workflow) ──

type CheckoutStatus string

const (
	CheckoutIdle               CheckoutStatus = "IDLE"
	CheckoutProcessing         CheckoutStatus = "PROCESSING"
	CheckoutCashInput          CheckoutStatus = "CASH_INPUT"
	CheckoutCashChange         CheckoutStatus = "CASH_CHANGE"
	CheckoutSuccess            CheckoutStatus = "SUCCESS"
	CheckoutSplitBill          CheckoutStatus = "SPLIT_BILL"
	CheckoutSplitSummary       CheckoutStatus = "SPLIT_SUMMARY"
	CheckoutCustomerPayment    CheckoutStatus = "CUSTOMER_PAYMENT"
	CheckoutCustomerCashInput  CheckoutStatus = "CUSTOMER_CASH_INPUT"
	CheckoutCustomerCashChange CheckoutStatus = "CUSTOMER_CASH_CHANGE"
	CheckoutCustomerSuccess    CheckoutStatus = "CUSTOMER_SUCCESS"
)

// ── Configurable labels (no state machine behind them) ──

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodQRIS     PaymentMethod = "QRIS"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

type TipMode string

const (
	TipModePercentage TipMode = "PERCENTAGE"
	TipModeFixed      TipMode = "FIXED_AMOUNT"
)

type SplitMode string

const (
	SplitModeEqual  SplitMode = "EQUAL"
	SplitModeCustom SplitMode = "CUSTOM"
)
