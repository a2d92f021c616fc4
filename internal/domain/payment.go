package domain

import "github.com/shopspring/decimal"

type ChargeStatus string

const (
	ChargeStatusSuccess ChargeStatus = "SUCCESS"
	ChargeStatusFailed  ChargeStatus = "FAILED"
)

// RefusalReason explains why a charge was declined.
type RefusalReason int

const (
	RefusalUnknown RefusalReason = iota
	RefusalNoFunds
	RefusalCardExpired
	RefusalFraudSuspected
	RefusalLimitExceeded
	RefusalCardBlocked
)

var refusalNames = map[RefusalReason]string{
	RefusalUnknown:        "UNKNOWN",
	RefusalNoFunds:        "NO_FUNDS",
	RefusalCardExpired:    "CARD_EXPIRED",
	RefusalFraudSuspected: "FRAUD_SUSPECTED",
	RefusalLimitExceeded:  "LIMIT_EXCEEDED",
	RefusalCardBlocked:    "CARD_BLOCKED",
}

func (r RefusalReason) String() string {
	if name, ok := refusalNames[r]; ok {
		return name
	}
	return refusalNames[RefusalUnknown]
}

// Charge is the outcome of a payment attempt.
type Charge struct {
	TransactionID string          `json:"transaction_id"`
	Status        ChargeStatus    `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Refusal       RefusalReason   `json:"refusal,omitempty"`
	OtherReason   string          `json:"other_reason,omitempty"`
}
