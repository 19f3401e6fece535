package submission

import (
	"context"
	"regexp"

	"github.com/google/uuid"

	"github.com/esteham/eland-portal/internal/submission/models"
)

// FieldErrors maps a credential field name to its validation message.
// Validation is synchronous and never contacts a service.
type FieldErrors map[string]string

// PaymentGateway is the payment capability behind the submission workflow.
// The shipped implementation simulates a gateway; a real processor slots in
// without touching the state machine.
type PaymentGateway interface {
	// Validate checks credential formats for a method. An empty result means
	// the credentials are acceptable.
	Validate(method models.PaymentMethod, creds models.Credentials) FieldErrors
	// Authorize settles the attempt, filling in the payer identifier and
	// transaction id.
	Authorize(ctx context.Context, attempt *models.PaymentAttempt) error
}

var (
	walletPhoneRe = regexp.MustCompile(`^01\d{9}$`)
	walletPINRe   = regexp.MustCompile(`^\d{4,5}$`)
	cardNumberRe  = regexp.MustCompile(`^\d{1,13}$`)
	cardCVVRe     = regexp.MustCompile(`^\d{3}$`)
)

// MockGateway simulates the payment processor: credentials are checked
// against the format rules of the real operators, the payer identifier is
// taken from the credentials, and the transaction id is generated locally.
type MockGateway struct{}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (g *MockGateway) Validate(method models.PaymentMethod, creds models.Credentials) FieldErrors {
	errs := make(FieldErrors)
	switch method {
	case models.MethodMobileWallet:
		if !walletPhoneRe.MatchString(creds.Phone) {
			errs["phone"] = "phone must be 11 digits starting with 01"
		}
		if !walletPINRe.MatchString(creds.PIN) {
			errs["pin"] = "PIN must be 4 to 5 digits"
		}
	case models.MethodCard:
		if !cardNumberRe.MatchString(creds.CardNumber) {
			errs["card_number"] = "card number must be 1 to 13 digits"
		}
		if !cardCVVRe.MatchString(creds.CVV) {
			errs["cvv"] = "CVV must be exactly 3 digits"
		}
		// expiry is accepted as entered
	default:
		errs["method"] = "unsupported payment method"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (g *MockGateway) Authorize(_ context.Context, attempt *models.PaymentAttempt) error {
	switch attempt.Method {
	case models.MethodMobileWallet:
		attempt.PayerIdentifier = attempt.Credentials.Phone
	case models.MethodCard:
		attempt.PayerIdentifier = attempt.Credentials.CardNumber
	}
	attempt.TransactionID = uuid.NewString()
	return nil
}
