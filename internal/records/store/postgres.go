package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/esteham/eland-portal/internal/records/models"
	"github.com/esteham/eland-portal/pkg/platform/sentinel"
)

// Postgres serves leaf records from PostgreSQL. Records live in a single
// leaf_records table with the kind-specific payload in a jsonb column,
// mirroring the tagged-variant shape of the domain model.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Leaves(ctx context.Context, sheetID, surveyTypeID string) ([]models.LeafRecord, error) {
	query := `
		SELECT id, kind, display_key, sheet_id, survey_type_id
		FROM leaf_records
		WHERE sheet_id = $1 AND survey_type_id = $2
		ORDER BY position, id
	`
	rows, err := s.db.QueryContext(ctx, query, sheetID, surveyTypeID)
	if err != nil {
		return nil, fmt.Errorf("query leaf records: %w", err)
	}
	defer rows.Close()

	var leaves []models.LeafRecord
	for rows.Next() {
		var leaf models.LeafRecord
		if err := rows.Scan(&leaf.ID, &leaf.Kind, &leaf.DisplayKey, &leaf.SheetID, &leaf.SurveyTypeID); err != nil {
			return nil, fmt.Errorf("scan leaf record: %w", err)
		}
		leaves = append(leaves, leaf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaf records: %w", err)
	}
	return leaves, nil
}

func (s *Postgres) Detail(ctx context.Context, id string, kind models.LeafKind) (*models.LeafDetail, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT detail FROM leaf_records WHERE id = $1 AND kind = $2`, id, string(kind),
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query leaf detail: %w", err)
	}

	detail, err := unmarshalDetail(payload)
	if err != nil {
		return nil, err
	}
	if err := detail.Validate(kind); err != nil {
		return nil, err
	}
	return detail, nil
}
