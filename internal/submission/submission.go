// Package submission gates the creation of an application record behind a
// simulated payment step, modelled as an explicit state machine so illegal
// transitions (credentials before a method, submission before a leaf) are
// unrepresentable.
package submission

import (
	"context"

	"github.com/esteham/eland-portal/internal/submission/models"
)

//go:generate mockgen -source=submission.go -destination=mocks/mocks.go -package=mocks

// Submitter is the external application service that persists a validated
// draft and becomes the system of record for it.
type Submitter interface {
	Submit(ctx context.Context, draft models.ApplicationDraft) (models.Application, error)
}
