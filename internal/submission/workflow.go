package submission

import (
	"context"
	"log/slog"
	"sync"

	"github.com/esteham/eland-portal/internal/auth"
	"github.com/esteham/eland-portal/internal/records"
	recmodels "github.com/esteham/eland-portal/internal/records/models"
	"github.com/esteham/eland-portal/internal/submission/metrics"
	"github.com/esteham/eland-portal/internal/submission/models"
	domainerrors "github.com/esteham/eland-portal/pkg/domain-errors"
)

// Workflow is the payment-gated submission state machine:
//
//	Browsing → DetailSelected → MethodSelection → CredentialEntry →
//	Validating → Submitted | Rejected
//
// Method selection, credential entry, and validation are distinct states so
// every illegal transition is rejected structurally and validation errors
// attach to the exact sub-step. On success the payment sub-flow and the leaf
// selection are cleared while the geographic selection upstream stays put,
// so another application can be filed in the same geography.
type Workflow struct {
	mu sync.Mutex

	records   records.Lookup
	gateway   PaymentGateway
	submitter Submitter
	logger    *slog.Logger
	metrics   *metrics.Metrics
	fee       int64

	state     models.State
	leaf      *recmodels.LeafRecord
	actorID   string
	method    models.PaymentMethod
	creds     models.Credentials
	fieldErrs FieldErrors
	lastErr   string
	submitted *models.Application

	// onSubmitted lets the owning session clear the cascade's leaf
	// selection without the workflow holding a resolver reference.
	onSubmitted func()
}

// Config carries the workflow's collaborators. Metrics may be nil.
type Config struct {
	Records     records.Lookup
	Gateway     PaymentGateway
	Submitter   Submitter
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	FeeAmount   int64
	OnSubmitted func()
}

func NewWorkflow(cfg Config) *Workflow {
	return &Workflow{
		records:     cfg.Records,
		gateway:     cfg.Gateway,
		submitter:   cfg.Submitter,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		fee:         cfg.FeeAmount,
		state:       models.StateBrowsing,
		onSubmitted: cfg.OnSubmitted,
	}
}

// State returns the current workflow state.
func (w *Workflow) State() models.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Leaf returns the selected leaf with its detail, or nil outside a cycle.
func (w *Workflow) Leaf() *recmodels.LeafRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.leaf == nil {
		return nil
	}
	leaf := *w.leaf
	return &leaf
}

// FieldErrors returns the field-scoped validation errors of the last
// credential submission.
func (w *Workflow) FieldErrors() FieldErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(FieldErrors, len(w.fieldErrs))
	for k, v := range w.fieldErrs {
		out[k] = v
	}
	return out
}

// LastError returns the surfaced message of the last rejected submission.
func (w *Workflow) LastError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Application returns the persisted application of the last successful
// submission, or nil.
func (w *Workflow) Application() *models.Application {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitted == nil {
		return nil
	}
	app := *w.submitted
	return &app
}

// SelectLeaf starts a cycle: it fetches the leaf's detail and moves to
// DetailSelected. Allowed while browsing, re-picking, or after a completed
// submission.
func (w *Workflow) SelectLeaf(ctx context.Context, leaf recmodels.LeafRecord) error {
	w.mu.Lock()
	switch w.state {
	case models.StateBrowsing, models.StateDetailSelected, models.StateSubmitted:
	default:
		w.mu.Unlock()
		return domainerrors.Newf(domainerrors.CodeConflict,
			"cannot pick a record while payment is in progress (state %s)", w.state)
	}
	w.mu.Unlock()

	detail, err := w.records.Detail(ctx, leaf.ID, leaf.Kind)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "failed to load record detail")
	}
	leaf.Detail = detail

	w.mu.Lock()
	defer w.mu.Unlock()
	w.leaf = &leaf
	w.resetPaymentLocked()
	w.transitionLocked(models.StateDetailSelected)
	return nil
}

// RequestSubmission moves to method selection. It requires an authenticated
// actor on the context; without one the workflow aborts to Browsing and the
// caller is told to redirect to sign-in.
func (w *Workflow) RequestSubmission(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != models.StateDetailSelected {
		return domainerrors.Newf(domainerrors.CodeConflict,
			"no record selected for submission (state %s)", w.state)
	}
	actor, ok := auth.ActorFrom(ctx)
	if !ok {
		w.leaf = nil
		w.transitionLocked(models.StateBrowsing)
		return domainerrors.New(domainerrors.CodeUnauthorized, "authentication required")
	}
	w.actorID = actor.ID
	w.transitionLocked(models.StateMethodSelection)
	return nil
}

// ChooseMethod picks the payment method and opens credential entry.
func (w *Workflow) ChooseMethod(method models.PaymentMethod) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != models.StateMethodSelection {
		return domainerrors.Newf(domainerrors.CodeConflict,
			"method can only be chosen after requesting submission (state %s)", w.state)
	}
	if !method.Valid() {
		return domainerrors.Newf(domainerrors.CodeBadRequest, "unsupported payment method %q", method)
	}
	w.method = method
	w.transitionLocked(models.StateCredentialEntry)
	return nil
}

// SubmitCredentials validates the entered credentials and, when they pass,
// authorizes the simulated payment and submits the application. Validation
// failures are field-scoped and non-destructive: the state stays at
// CredentialEntry with the input preserved.
func (w *Workflow) SubmitCredentials(ctx context.Context, creds models.Credentials) (FieldErrors, error) {
	w.mu.Lock()
	if w.state != models.StateCredentialEntry && w.state != models.StateRejected {
		w.mu.Unlock()
		return nil, domainerrors.Newf(domainerrors.CodeConflict,
			"credentials can only be submitted during credential entry (state %s)", w.state)
	}
	w.creds = creds

	if errs := w.gateway.Validate(w.method, creds); len(errs) > 0 {
		for field := range errs {
			w.metrics.ObserveValidationFailure(field)
		}
		w.fieldErrs = errs
		w.transitionLocked(models.StateCredentialEntry)
		w.mu.Unlock()
		return errs, nil
	}
	w.fieldErrs = nil
	w.transitionLocked(models.StateValidating)
	w.mu.Unlock()

	return nil, w.settle(ctx)
}

// Retry re-runs authorization and submission with the preserved credentials
// after a rejection.
func (w *Workflow) Retry(ctx context.Context) error {
	w.mu.Lock()
	if w.state != models.StateRejected {
		w.mu.Unlock()
		return domainerrors.Newf(domainerrors.CodeConflict,
			"nothing to retry (state %s)", w.state)
	}
	w.transitionLocked(models.StateValidating)
	w.mu.Unlock()

	return w.settle(ctx)
}

// Cancel abandons the payment sub-flow, returning to the selected record
// (or to browsing when none is selected). Credentials are discarded.
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case models.StateMethodSelection, models.StateCredentialEntry, models.StateRejected:
	default:
		return domainerrors.Newf(domainerrors.CodeConflict,
			"nothing to cancel (state %s)", w.state)
	}
	w.resetPaymentLocked()
	if w.leaf != nil {
		w.transitionLocked(models.StateDetailSelected)
	} else {
		w.transitionLocked(models.StateBrowsing)
	}
	return nil
}

// settle runs the asynchronous half of a submission: authorize the payment
// attempt, build the draft, and call the application service. A fresh
// attempt (and transaction id) is created per try.
func (w *Workflow) settle(ctx context.Context) error {
	w.mu.Lock()
	attempt := &models.PaymentAttempt{
		Method:      w.method,
		Credentials: w.creds,
		Amount:      w.fee,
	}
	leaf := w.leaf
	actorID := w.actorID
	w.mu.Unlock()

	if err := w.gateway.Authorize(ctx, attempt); err != nil {
		return w.reject(err)
	}

	draft := models.ApplicationDraft{
		LeafID:          leaf.ID,
		LeafKind:        leaf.Kind,
		FeeAmount:       attempt.Amount,
		PaymentMethod:   attempt.Method,
		PayerIdentifier: attempt.PayerIdentifier,
		TransactionID:   attempt.TransactionID,
		ApplicantID:     actorID,
	}

	app, err := w.submitter.Submit(ctx, draft)
	if err != nil {
		return w.reject(err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitted = &app
	w.leaf = nil
	w.resetPaymentLocked()
	w.transitionLocked(models.StateSubmitted)
	w.metrics.ObserveSubmission("submitted")
	w.logger.Info("application submitted",
		"application_id", app.ID,
		"leaf_id", draft.LeafID,
		"leaf_kind", string(draft.LeafKind),
		"payment_method", string(draft.PaymentMethod),
	)
	if w.onSubmitted != nil {
		w.onSubmitted()
	}
	return nil
}

// reject surfaces a submission failure and returns to credential entry
// semantics: the state is Rejected, the message is kept verbatim, and the
// entered credentials survive for a retry.
func (w *Workflow) reject(err error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastErr = err.Error()
	w.transitionLocked(models.StateRejected)
	w.metrics.ObserveSubmission("rejected")
	w.logger.Warn("application submission rejected", "error", err)
	return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "application submission failed")
}

func (w *Workflow) resetPaymentLocked() {
	w.method = ""
	w.creds = models.Credentials{}
	w.fieldErrs = nil
	w.lastErr = ""
}

func (w *Workflow) transitionLocked(to models.State) {
	w.state = to
	w.metrics.ObserveTransition(string(to))
}
