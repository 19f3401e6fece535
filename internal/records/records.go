// Package records defines the leaf-record lookup contract: dag and mouza-map
// lists scoped to a sheet and survey type, plus single-record detail.
package records

import (
	"context"

	"github.com/esteham/eland-portal/internal/records/models"
)

//go:generate mockgen -source=records.go -destination=mocks/mocks.go -package=mocks

// Lookup is the read-only record collaborator consumed by the cascade and
// the submission workflow.
type Lookup interface {
	// Leaves returns the leaf records scoped to (sheetID, surveyTypeID) in
	// registry order. The order is part of the contract: search fallback
	// picks the first candidate in this order.
	Leaves(ctx context.Context, sheetID, surveyTypeID string) ([]models.LeafRecord, error)
	// Detail fetches the kind-specific payload of one record.
	Detail(ctx context.Context, id string, kind models.LeafKind) (*models.LeafDetail, error)
}
