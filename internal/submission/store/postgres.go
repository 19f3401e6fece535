package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	recmodels "github.com/esteham/eland-portal/internal/records/models"
	"github.com/esteham/eland-portal/internal/submission/models"
)

// Postgres persists submitted applications in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Submit(ctx context.Context, draft models.ApplicationDraft) (models.Application, error) {
	app := models.Application{
		ID:          uuid.NewString(),
		Draft:       draft,
		SubmittedAt: time.Now(),
	}
	query := `
		INSERT INTO applications
			(id, leaf_id, leaf_kind, fee_amount, payment_method,
			 payer_identifier, transaction_id, applicant_id, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		app.ID, draft.LeafID, string(draft.LeafKind), draft.FeeAmount,
		string(draft.PaymentMethod), draft.PayerIdentifier, draft.TransactionID,
		draft.ApplicantID, app.SubmittedAt,
	)
	if err != nil {
		return models.Application{}, fmt.Errorf("insert application: %w", err)
	}
	return app, nil
}

// ListByApplicant returns the applications filed by one actor, newest first.
func (s *Postgres) ListByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	query := `
		SELECT id, leaf_id, leaf_kind, fee_amount, payment_method,
		       payer_identifier, transaction_id, applicant_id, submitted_at
		FROM applications
		WHERE applicant_id = $1
		ORDER BY submitted_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, applicantID)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var out []models.Application
	for rows.Next() {
		var app models.Application
		var kind, method string
		if err := rows.Scan(&app.ID, &app.Draft.LeafID, &kind, &app.Draft.FeeAmount,
			&method, &app.Draft.PayerIdentifier, &app.Draft.TransactionID,
			&app.Draft.ApplicantID, &app.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		app.Draft.LeafKind = recmodels.LeafKind(kind)
		app.Draft.PaymentMethod = models.PaymentMethod(method)
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return out, nil
}
