package models

import (
	"time"

	recmodels "github.com/esteham/eland-portal/internal/records/models"
)

// PaymentMethod selects the credential shape of a payment attempt.
type PaymentMethod string

const (
	MethodMobileWallet PaymentMethod = "mobile_wallet"
	MethodCard         PaymentMethod = "card"
)

// Valid reports whether m names a supported method.
func (m PaymentMethod) Valid() bool {
	return m == MethodMobileWallet || m == MethodCard
}

// Credentials carries the method-specific fields entered by the payer. Only
// the fields of the chosen method are consulted; none of them is ever
// persisted.
type Credentials struct {
	// mobile wallet
	Phone string `json:"phone,omitempty"`
	PIN   string `json:"pin,omitempty"`
	// card
	CardNumber string `json:"card_number,omitempty"`
	Expiry     string `json:"expiry,omitempty"`
	CVV        string `json:"cvv,omitempty"`
}

// PaymentAttempt is the single-use payment of one submission cycle. It is
// owned by the workflow and discarded when the cycle ends; only the derived
// payer identifier, transaction id, and amount flow onward.
type PaymentAttempt struct {
	Method          PaymentMethod
	Credentials     Credentials
	Amount          int64
	PayerIdentifier string
	TransactionID   string
}

// ApplicationDraft is the payload assembled after payment validation and
// sent verbatim to the application service, which is the system of record
// thereafter.
type ApplicationDraft struct {
	LeafID          string             `json:"leaf_id"`
	LeafKind        recmodels.LeafKind `json:"leaf_kind"`
	FeeAmount       int64              `json:"fee_amount"`
	PaymentMethod   PaymentMethod      `json:"payment_method"`
	PayerIdentifier string             `json:"payer_identifier"`
	TransactionID   string             `json:"transaction_id"`
	ApplicantID     string             `json:"applicant_id"`
}

// Application is the persisted record returned by the application service.
type Application struct {
	ID          string           `json:"id"`
	Draft       ApplicationDraft `json:"draft"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

// State enumerates the submission workflow's states.
type State string

const (
	StateBrowsing        State = "browsing"
	StateDetailSelected  State = "detail_selected"
	StateMethodSelection State = "method_selection"
	StateCredentialEntry State = "credential_entry"
	StateValidating      State = "validating"
	StateSubmitted       State = "submitted"
	StateRejected        State = "rejected"
)
