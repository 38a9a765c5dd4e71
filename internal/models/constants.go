package models

// CollectionStatus values
const (
	CollectionStatusActive    = "active"
	CollectionStatusClosed    = "closed"
	CollectionStatusWithdrawn = "withdrawn"
)

// PaymentStatus values of a contributor
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// PaymentMethod values
const (
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCard         = "card"
	PaymentMethodUSSD         = "ussd"
)

// TransactionType values
const (
	TransactionTypePayment    = "payment"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeRefund     = "refund"
)

// TransactionStatus values
const (
	TransactionStatusPending = "pending"
	TransactionStatusSuccess = "success"
	TransactionStatusFailed  = "failed"
)

// WithdrawalStatus values
const (
	WithdrawalStatusPending    = "pending"
	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusCompleted  = "completed"
	WithdrawalStatusFailed     = "failed"
)

// ValidPaymentMethods lists accepted payment_method values.
var ValidPaymentMethods = map[string]struct{}{
	PaymentMethodBankTransfer: {},
	PaymentMethodCard:         {},
	PaymentMethodUSSD:         {},
}

// NotProvided is shown in place of empty bank details.
const NotProvided = "Not provided"
