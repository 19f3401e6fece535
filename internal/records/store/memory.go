package store

import (
	"context"
	"sync"

	"github.com/esteham/eland-portal/internal/records/models"
	"github.com/esteham/eland-portal/pkg/platform/sentinel"
)

// InMemory holds leaf records keyed by their (sheet, survey type) scope.
// Registry order is insertion order.
type InMemory struct {
	mu      sync.RWMutex
	leaves  map[scopeKey][]models.LeafRecord
	details map[string]*models.LeafDetail
}

type scopeKey struct {
	sheetID      string
	surveyTypeID string
}

func NewInMemory() *InMemory {
	return &InMemory{
		leaves:  make(map[scopeKey][]models.LeafRecord),
		details: make(map[string]*models.LeafDetail),
	}
}

// AddLeaf registers a record under its scope along with its detail payload.
func (s *InMemory) AddLeaf(leaf models.LeafRecord, detail *models.LeafDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scopeKey{sheetID: leaf.SheetID, surveyTypeID: leaf.SurveyTypeID}
	leaf.Detail = nil // detail is served lazily through Detail
	s.leaves[key] = append(s.leaves[key], leaf)
	if detail != nil {
		s.details[leaf.ID] = detail
	}
}

func (s *InMemory) Leaves(_ context.Context, sheetID, surveyTypeID string) ([]models.LeafRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.leaves[scopeKey{sheetID: sheetID, surveyTypeID: surveyTypeID}]
	out := make([]models.LeafRecord, len(records))
	copy(out, records)
	return out, nil
}

func (s *InMemory) Detail(_ context.Context, id string, kind models.LeafKind) (*models.LeafDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	detail, ok := s.details[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := detail.Validate(kind); err != nil {
		return nil, err
	}
	return detail, nil
}
