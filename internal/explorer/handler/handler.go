// Package handler is the thin HTTP layer over explorer sessions. Handlers
// decode, delegate to the domain, and translate errors; no business logic
// lives here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/esteham/eland-portal/internal/cascade"
	"github.com/esteham/eland-portal/internal/explorer"
	geomodels "github.com/esteham/eland-portal/internal/geo/models"
	recmodels "github.com/esteham/eland-portal/internal/records/models"
	submissionmodels "github.com/esteham/eland-portal/internal/submission/models"
	domainerrors "github.com/esteham/eland-portal/pkg/domain-errors"
)

type Handler struct {
	registry *explorer.Registry
	logger   *slog.Logger
}

func New(registry *explorer.Registry, logger *slog.Logger) *Handler {
	return &Handler{registry: registry, logger: logger}
}

// Register mounts the explorer routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/explorer/sessions", h.handleCreateSession)
	r.Route("/explorer/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetSession)
		r.Post("/select", h.handleSelect)
		r.Post("/survey-type", h.handleSelectSurveyType)
		r.Get("/leaves", h.handleLeaves)
		r.Post("/search", h.handleSearch)
		r.Post("/leaf", h.handleSelectLeaf)
		r.Route("/application", func(r chi.Router) {
			r.Get("/", h.handleApplicationState)
			r.Post("/request", h.handleRequestSubmission)
			r.Post("/method", h.handleChooseMethod)
			r.Post("/credentials", h.handleSubmitCredentials)
			r.Post("/retry", h.handleRetry)
			r.Post("/cancel", h.handleCancel)
		})
	})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.registry.Create()
	h.writeJSON(w, http.StatusCreated, map[string]string{"session_id": session.ID})
}

type sessionView struct {
	SessionID   string                         `json:"session_id"`
	Selection   cascade.Selection              `json:"selection"`
	Slots       map[string]cascade.SlotState   `json:"slots"`
	Options     map[string][]geomodels.GeoNode `json:"options"`
	SurveyTypes []geomodels.SurveyTypeOption   `json:"survey_types"`
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	options := make(map[string][]geomodels.GeoNode, len(geomodels.Levels))
	for _, level := range geomodels.Levels {
		options[level.String()] = session.Resolver.GeoOptions(level)
	}
	h.writeJSON(w, http.StatusOK, sessionView{
		SessionID:   session.ID,
		Selection:   session.Resolver.Selection(),
		Slots:       session.Resolver.SlotStates(),
		Options:     options,
		SurveyTypes: session.Resolver.SurveyTypeOptions(),
	})
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Level  string `json:"level"`
		NodeID string `json:"node_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	level, ok := geomodels.ParseLevel(req.Level)
	if !ok {
		h.writeError(w, r, domainerrors.Newf(domainerrors.CodeBadRequest, "unknown level %q", req.Level))
		return
	}
	if err := session.Resolver.SelectAt(level, req.NodeID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"selection": session.Resolver.Selection(),
		"slots":     session.Resolver.SlotStates(),
	})
}

func (h *Handler) handleSelectSurveyType(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		SurveyTypeID string `json:"survey_type_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := session.Resolver.SelectSurveyType(req.SurveyTypeID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"selection": session.Resolver.Selection(),
		"slots":     session.Resolver.SlotStates(),
	})
}

func (h *Handler) handleLeaves(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"leaves": session.Resolver.LeafRecords(),
	})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Query string `json:"query"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	result := session.Resolver.Search(req.Query)
	if result.Picked != nil {
		if err := session.Workflow.SelectLeaf(r.Context(), *result.Picked); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"outcome":    result.Outcome,
		"picked":     session.Workflow.Leaf(),
		"candidates": result.Candidates,
	})
}

func (h *Handler) handleSelectLeaf(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		LeafID string `json:"leaf_id"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	leaf, err := session.Resolver.SelectLeaf(req.LeafID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := session.Workflow.SelectLeaf(r.Context(), leaf); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"state": session.Workflow.State(),
		"leaf":  session.Workflow.Leaf(),
	})
}

type applicationView struct {
	State       submissionmodels.State        `json:"state"`
	Leaf        *recmodels.LeafRecord         `json:"leaf,omitempty"`
	FieldErrors map[string]string             `json:"field_errors,omitempty"`
	LastError   string                        `json:"last_error,omitempty"`
	Application *submissionmodels.Application `json:"application,omitempty"`
}

func (h *Handler) applicationState(session *explorer.Session) applicationView {
	return applicationView{
		State:       session.Workflow.State(),
		Leaf:        session.Workflow.Leaf(),
		FieldErrors: session.Workflow.FieldErrors(),
		LastError:   session.Workflow.LastError(),
		Application: session.Workflow.Application(),
	}
}

func (h *Handler) handleApplicationState(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.applicationState(session))
}

func (h *Handler) handleRequestSubmission(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := session.Workflow.RequestSubmission(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.applicationState(session))
}

func (h *Handler) handleChooseMethod(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Method string `json:"method"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := session.Workflow.ChooseMethod(submissionmodels.PaymentMethod(req.Method)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.applicationState(session))
}

func (h *Handler) handleSubmitCredentials(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var creds submissionmodels.Credentials
	if !h.decode(w, r, &creds) {
		return
	}
	fieldErrs, err := session.Workflow.SubmitCredentials(r.Context(), creds)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		h.writeJSON(w, http.StatusUnprocessableEntity, h.applicationState(session))
		return
	}
	h.writeJSON(w, http.StatusOK, h.applicationState(session))
}

func (h *Handler) handleRetry(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := session.Workflow.Retry(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.applicationState(session))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := session.Workflow.Cancel(); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.applicationState(session))
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*explorer.Session, bool) {
	session, err := h.registry.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return session, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		h.writeError(w, r, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("failed to write response", "error", err)
	}
}

// writeError translates coded domain errors to HTTP. Unauthorized responses
// carry a redirect hint so the UI can send the visitor to sign-in.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := domainerrors.CodeOf(err)
	status := domainerrors.ToHTTPStatus(code)
	body := map[string]string{
		"error":   string(code),
		"message": err.Error(),
	}
	if code == domainerrors.CodeUnauthorized {
		body["redirect"] = "sign_in"
	}
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
