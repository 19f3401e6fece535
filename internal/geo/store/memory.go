package store

import (
	"context"
	"sync"

	"github.com/esteham/eland-portal/internal/geo/models"
)

// InMemory keeps the geographic hierarchy in maps keyed by (level, parent).
// It backs development mode and tests; it intentionally favors clarity over
// performance.
type InMemory struct {
	mu          sync.RWMutex
	children    map[childKey][]models.GeoNode
	surveyTypes map[string][]models.SurveyTypeOption
}

type childKey struct {
	level  models.Level
	parent string
}

func NewInMemory() *InMemory {
	return &InMemory{
		children:    make(map[childKey][]models.GeoNode),
		surveyTypes: make(map[string][]models.SurveyTypeOption),
	}
}

// AddNode registers a node under its parent. Insertion order is preserved,
// which is what the cascade exposes to callers.
func (s *InMemory) AddNode(node models.GeoNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node.LevelName = node.Level.String()
	key := childKey{level: node.Level, parent: node.ParentID}
	s.children[key] = append(s.children[key], node)
}

// AddSurveyType registers a survey-type option under its sheet.
func (s *InMemory) AddSurveyType(opt models.SurveyTypeOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surveyTypes[opt.SheetID] = append(s.surveyTypes[opt.SheetID], opt)
}

func (s *InMemory) Children(_ context.Context, level models.Level, parentID string) ([]models.GeoNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nodes := s.children[childKey{level: level, parent: parentID}]
	out := make([]models.GeoNode, len(nodes))
	copy(out, nodes)
	return out, nil
}

func (s *InMemory) SurveyTypes(_ context.Context, sheetID string) ([]models.SurveyTypeOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opts := s.surveyTypes[sheetID]
	out := make([]models.SurveyTypeOption, len(opts))
	copy(out, opts)
	return out, nil
}
