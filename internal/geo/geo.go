// Package geo defines the geographic lookup contract of the cascade: children
// of a node per level, and the survey types scoped to a sheet.
package geo

import (
	"context"

	"github.com/esteham/eland-portal/internal/geo/models"
)

// Lookup is the read-only geographic collaborator. Implementations are the
// in-memory and postgres stores, the remote HTTP client, and the Redis
// cache-aside decorator; the cascade resolver only sees this interface.
type Lookup interface {
	// Children returns the nodes at level whose parent is parentID. The
	// division level takes an empty parentID.
	Children(ctx context.Context, level models.Level, parentID string) ([]models.GeoNode, error)
	// SurveyTypes returns the survey-type options scoped to a sheet.
	SurveyTypes(ctx context.Context, sheetID string) ([]models.SurveyTypeOption, error)
}
