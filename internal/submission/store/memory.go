package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/esteham/eland-portal/internal/submission/models"
)

// InMemory is the development stand-in for the application service: it
// persists submitted applications in memory and assigns ids.
type InMemory struct {
	mu   sync.RWMutex
	apps map[string]models.Application
	now  func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{
		apps: make(map[string]models.Application),
		now:  time.Now,
	}
}

func (s *InMemory) Submit(_ context.Context, draft models.ApplicationDraft) (models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app := models.Application{
		ID:          uuid.NewString(),
		Draft:       draft,
		SubmittedAt: s.now(),
	}
	s.apps[app.ID] = app
	return app, nil
}

// ListByApplicant returns the stored applications filed by one actor.
func (s *InMemory) ListByApplicant(_ context.Context, applicantID string) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Application
	for _, app := range s.apps {
		if app.Draft.ApplicantID == applicantID {
			out = append(out, app)
		}
	}
	return out, nil
}
