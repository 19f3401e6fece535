package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/esteham/eland-portal/internal/geo/models"
)

// Postgres serves the geographic hierarchy from PostgreSQL. Rows live in a
// single geo_nodes table keyed by level name and parent, plus a
// survey_types table scoped by sheet.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Children(ctx context.Context, level models.Level, parentID string) ([]models.GeoNode, error) {
	query := `
		SELECT id, display_name, COALESCE(parent_id, '')
		FROM geo_nodes
		WHERE level = $1 AND COALESCE(parent_id, '') = $2
		ORDER BY position, id
	`
	rows, err := s.db.QueryContext(ctx, query, level.String(), parentID)
	if err != nil {
		return nil, fmt.Errorf("query geo children: %w", err)
	}
	defer rows.Close()

	var nodes []models.GeoNode
	for rows.Next() {
		node := models.GeoNode{Level: level, LevelName: level.String()}
		if err := rows.Scan(&node.ID, &node.DisplayName, &node.ParentID); err != nil {
			return nil, fmt.Errorf("scan geo node: %w", err)
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate geo nodes: %w", err)
	}
	return nodes, nil
}

func (s *Postgres) SurveyTypes(ctx context.Context, sheetID string) ([]models.SurveyTypeOption, error) {
	query := `
		SELECT id, code, sheet_id
		FROM survey_types
		WHERE sheet_id = $1
		ORDER BY position, id
	`
	rows, err := s.db.QueryContext(ctx, query, sheetID)
	if err != nil {
		return nil, fmt.Errorf("query survey types: %w", err)
	}
	defer rows.Close()

	var opts []models.SurveyTypeOption
	for rows.Next() {
		var opt models.SurveyTypeOption
		if err := rows.Scan(&opt.ID, &opt.Code, &opt.SheetID); err != nil {
			return nil, fmt.Errorf("scan survey type: %w", err)
		}
		opts = append(opts, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate survey types: %w", err)
	}
	return opts, nil
}
