// Package explorer binds one cascade resolver and one submission workflow
// per browsing session. Sessions live server-side for the duration of a
// visit and are evicted after idling.
package explorer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/esteham/eland-portal/internal/cascade"
	cascademetrics "github.com/esteham/eland-portal/internal/cascade/metrics"
	"github.com/esteham/eland-portal/internal/geo"
	"github.com/esteham/eland-portal/internal/records"
	"github.com/esteham/eland-portal/internal/submission"
	submissionmetrics "github.com/esteham/eland-portal/internal/submission/metrics"
	domainerrors "github.com/esteham/eland-portal/pkg/domain-errors"
)

// Session pairs the selection cascade with its submission workflow.
type Session struct {
	ID       string
	Resolver *cascade.Resolver
	Workflow *submission.Workflow

	lastUsed time.Time
}

// RegistryConfig carries the collaborators shared by all sessions.
type RegistryConfig struct {
	Geo               geo.Lookup
	Records           records.Lookup
	Gateway           submission.PaymentGateway
	Submitter         submission.Submitter
	Logger            *slog.Logger
	CascadeMetrics    *cascademetrics.Metrics
	SubmissionMetrics *submissionmetrics.Metrics
	FeeAmount         int64
	IdleTTL           time.Duration
}

// Registry owns the live sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      RegistryConfig
	now      func() time.Time
}

func NewRegistry(cfg RegistryConfig) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		now:      time.Now,
	}
}

// Create starts a fresh session. The workflow's completion hook clears the
// resolver's leaf selection, implementing the post-submission policy of
// returning to browsing within the same geography.
func (r *Registry) Create() *Session {
	resolver := cascade.New(r.cfg.Geo, r.cfg.Records, r.cfg.Logger, r.cfg.CascadeMetrics)
	workflow := submission.NewWorkflow(submission.Config{
		Records:     r.cfg.Records,
		Gateway:     r.cfg.Gateway,
		Submitter:   r.cfg.Submitter,
		Logger:      r.cfg.Logger,
		Metrics:     r.cfg.SubmissionMetrics,
		FeeAmount:   r.cfg.FeeAmount,
		OnSubmitted: resolver.ClearLeaf,
	})
	session := &Session{
		ID:       uuid.NewString(),
		Resolver: resolver,
		Workflow: workflow,
		lastUsed: r.now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return session
}

// Get returns a live session and refreshes its idle clock.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, domainerrors.Newf(domainerrors.CodeNotFound, "unknown session %q", id)
	}
	session.lastUsed = r.now()
	return session, nil
}

// Sweep evicts sessions idle past the TTL and releases their fetches.
// Returns the number evicted.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.cfg.IdleTTL)
	evicted := 0
	for id, session := range r.sessions {
		if session.lastUsed.Before(cutoff) {
			session.Resolver.Close()
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// SweepLoop runs Sweep periodically until stop is closed.
func (r *Registry) SweepLoop(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.cfg.Logger.Info("evicted idle explorer sessions", "count", n)
			}
		}
	}
}
