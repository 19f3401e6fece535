// Package cascade implements the dependent-selection chain of the land
// explorer: five nested geographic levels, a survey-type filter, and the
// leaf-record list the two scope, together with the search that resolves a
// free-text query to a single leaf.
package cascade

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/esteham/eland-portal/internal/cascade/metrics"
	"github.com/esteham/eland-portal/internal/geo"
	geomodels "github.com/esteham/eland-portal/internal/geo/models"
	"github.com/esteham/eland-portal/internal/records"
	recmodels "github.com/esteham/eland-portal/internal/records/models"
	domainerrors "github.com/esteham/eland-portal/pkg/domain-errors"
)

// Slots of the selection tuple. The five geographic levels map onto their
// own values; survey type and leaf extend the tuple past the geography.
const (
	slotDivision = int(geomodels.LevelDivision)
	slotDistrict = int(geomodels.LevelDistrict)
	slotUpazila  = int(geomodels.LevelUpazila)
	slotMouza    = int(geomodels.LevelMouza)
	slotSheet    = int(geomodels.LevelSheet)
	slotSurvey   = slotSheet + 1
	slotLeaf     = slotSurvey + 1
	numSlots     = slotLeaf + 1
)

var slotNames = [numSlots]string{
	"division", "district", "upazila", "mouza", "sheet", "survey_type", "leaf",
}

// Selection is the current tuple of selected ids. A non-empty value at any
// position implies every position before it is non-empty.
type Selection struct {
	DivisionID   string `json:"division_id,omitempty"`
	DistrictID   string `json:"district_id,omitempty"`
	UpazilaID    string `json:"upazila_id,omitempty"`
	MouzaID      string `json:"mouza_id,omitempty"`
	SheetID      string `json:"sheet_id,omitempty"`
	SurveyTypeID string `json:"survey_type_id,omitempty"`
	LeafID       string `json:"leaf_id,omitempty"`
}

// SlotState is the render model of one slot: whether its option list is
// being fetched and the error message of the last failed fetch, if any.
type SlotState struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Resolver owns the selection and every derived option list. All mutation
// happens behind its mutex; fetches run asynchronously and are tagged with a
// per-slot generation so a response for a superseded selection is dropped
// instead of clobbering current state.
type Resolver struct {
	mu sync.Mutex

	geo     geo.Lookup
	records records.Lookup

	selection [numSlots]string
	nodes     [numSlots][]geomodels.GeoNode // geo slots only
	surveys   []geomodels.SurveyTypeOption
	leaves    []recmodels.LeafRecord

	loading [numSlots]bool
	errs    [numSlots]string
	gen     [numSlots]uint64
	cancels [numSlots]context.CancelFunc

	baseCtx context.Context
	close   context.CancelFunc

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// New builds a resolver and starts loading the division list. mets may be
// nil.
func New(geoLookup geo.Lookup, recordLookup records.Lookup, logger *slog.Logger, mets *metrics.Metrics) *Resolver {
	baseCtx, cancel := context.WithCancel(context.Background())
	r := &Resolver{
		geo:     geoLookup,
		records: recordLookup,
		baseCtx: baseCtx,
		close:   cancel,
		logger:  logger,
		metrics: mets,
		tracer:  otel.Tracer("eland.cascade"),
	}
	r.mu.Lock()
	r.fetchGeoLocked(geomodels.LevelDivision, "")
	r.mu.Unlock()
	return r
}

// Close cancels every in-flight fetch. The resolver must not be used after.
func (r *Resolver) Close() {
	r.close()
}

// SelectAt sets the selection at a geographic level. Selecting the value
// already in place is a no-op. Any other value clears everything below the
// level, cancels fetches for the cleared slots, and, for a non-empty id,
// kicks off the fetch of the next list down (children, or survey types when
// the sheet was just picked).
func (r *Resolver) SelectAt(level geomodels.Level, nodeID string) error {
	if !level.Valid() {
		return domainerrors.Newf(domainerrors.CodeBadRequest, "unknown level %d", level)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	slot := int(level)
	if level != geomodels.LevelDivision && r.selection[slot-1] == "" {
		return domainerrors.Newf(domainerrors.CodeBadRequest,
			"cannot select %s before its parent", level)
	}
	if r.selection[slot] == nodeID {
		return nil
	}

	r.clearBelowLocked(slot + 1)
	r.selection[slot] = nodeID
	r.errs[slot] = ""
	if nodeID == "" {
		return nil
	}

	if child, ok := level.Child(); ok {
		r.fetchGeoLocked(child, nodeID)
	} else {
		r.fetchSurveyTypesLocked(nodeID)
	}
	return nil
}

// SelectSurveyType sets the survey-type filter for the selected sheet. Only
// the leaf list is invalidated; the geography above stays put.
func (r *Resolver) SelectSurveyType(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.selection[slotSheet] == "" {
		return domainerrors.New(domainerrors.CodeBadRequest, "cannot select survey type before a sheet")
	}
	if r.selection[slotSurvey] == id {
		return nil
	}

	r.clearBelowLocked(slotLeaf)
	r.selection[slotSurvey] = id
	r.errs[slotSurvey] = ""
	if id == "" {
		return nil
	}
	r.fetchLeavesLocked(r.selection[slotSheet], id)
	return nil
}

// SelectLeaf picks a leaf directly from the loaded list.
func (r *Resolver) SelectLeaf(id string) (recmodels.LeafRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, leaf := range r.leaves {
		if leaf.ID == id {
			r.selection[slotLeaf] = id
			return leaf, nil
		}
	}
	return recmodels.LeafRecord{}, domainerrors.Newf(domainerrors.CodeNotFound,
		"record %q is not in the current list", id)
}

// Search resolves a free-text query against the loaded leaf list and, on a
// hit, selects the picked leaf. The candidate set is returned either way for
// incremental-search rendering.
func (r *Resolver) Search(query string) MatchResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := Match(query, r.leaves)
	r.metrics.ObserveSearch(string(result.Outcome))
	if result.Picked != nil {
		r.selection[slotLeaf] = result.Picked.ID
	}
	return result
}

// ClearLeaf drops only the leaf selection, keeping the loaded list. Used
// when a submission completes and the operator returns to browsing.
func (r *Resolver) ClearLeaf() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selection[slotLeaf] = ""
}

// Selection returns the current selection tuple.
func (r *Resolver) Selection() Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Selection{
		DivisionID:   r.selection[slotDivision],
		DistrictID:   r.selection[slotDistrict],
		UpazilaID:    r.selection[slotUpazila],
		MouzaID:      r.selection[slotMouza],
		SheetID:      r.selection[slotSheet],
		SurveyTypeID: r.selection[slotSurvey],
		LeafID:       r.selection[slotLeaf],
	}
}

// GeoOptions returns the loaded option list at a geographic level.
func (r *Resolver) GeoOptions(level geomodels.Level) []geomodels.GeoNode {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !level.Valid() {
		return nil
	}
	out := make([]geomodels.GeoNode, len(r.nodes[int(level)]))
	copy(out, r.nodes[int(level)])
	return out
}

// SurveyTypeOptions returns the survey types of the selected sheet.
func (r *Resolver) SurveyTypeOptions() []geomodels.SurveyTypeOption {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]geomodels.SurveyTypeOption, len(r.surveys))
	copy(out, r.surveys)
	return out
}

// LeafRecords returns the leaf list for the active (sheet, survey type)
// pair; empty until both are selected and the fetch has landed.
func (r *Resolver) LeafRecords() []recmodels.LeafRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]recmodels.LeafRecord, len(r.leaves))
	copy(out, r.leaves)
	return out
}

// SlotStates returns the loading/error state of every slot keyed by name.
func (r *Resolver) SlotStates() map[string]SlotState {
	r.mu.Lock()
	defer r.mu.Unlock()
	states := make(map[string]SlotState, numSlots)
	for i := 0; i < numSlots; i++ {
		states[slotNames[i]] = SlotState{Loading: r.loading[i], Error: r.errs[i]}
	}
	return states
}

// clearBelowLocked resets every slot from `from` down: selection, cached
// lists, errors, and in-flight fetches. Bumping the generation guarantees a
// late response for the old selection is discarded.
func (r *Resolver) clearBelowLocked(from int) {
	for s := from; s < numSlots; s++ {
		r.selection[s] = ""
		r.errs[s] = ""
		r.loading[s] = false
		r.gen[s]++
		if r.cancels[s] != nil {
			r.cancels[s]()
			r.cancels[s] = nil
		}
		if s <= slotSheet {
			r.nodes[s] = nil
		}
	}
	if from <= slotSurvey {
		r.surveys = nil
	}
	if from <= slotLeaf {
		r.leaves = nil
	}
}

// beginFetchLocked arms a slot for an async fetch and returns the generation
// and context the completion must present.
func (r *Resolver) beginFetchLocked(slot int) (uint64, context.Context) {
	r.gen[slot]++
	gen := r.gen[slot]
	ctx, cancel := context.WithCancel(r.baseCtx)
	if r.cancels[slot] != nil {
		r.cancels[slot]()
	}
	r.cancels[slot] = cancel
	r.loading[slot] = true
	r.errs[slot] = ""
	r.metrics.ObserveFetch(slotNames[slot])
	return gen, ctx
}

// finishFetch applies a fetch result if the slot generation still matches.
// apply runs under the lock with current==true only for fresh responses.
func (r *Resolver) finishFetch(slot int, gen uint64, err error, apply func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen[slot] != gen {
		r.metrics.ObserveStaleDrop()
		return
	}
	r.loading[slot] = false
	if r.cancels[slot] != nil {
		r.cancels[slot]()
		r.cancels[slot] = nil
	}
	if err != nil {
		r.metrics.ObserveFetchFailure(slotNames[slot])
		r.errs[slot] = "failed to load " + slotNames[slot] + " options"
		r.logger.Warn("cascade fetch failed", "slot", slotNames[slot], "error", err)
		return
	}
	apply()
}

func (r *Resolver) fetchGeoLocked(level geomodels.Level, parentID string) {
	slot := int(level)
	gen, ctx := r.beginFetchLocked(slot)
	go func() {
		ctx, span := r.tracer.Start(ctx, "cascade.fetch_children",
			trace.WithAttributes(
				attribute.String("geo.level", level.String()),
				attribute.String("geo.parent_id", parentID),
			))
		nodes, err := r.geo.Children(ctx, level, parentID)
		span.End()
		r.finishFetch(slot, gen, err, func() {
			r.nodes[slot] = nodes
		})
	}()
}

func (r *Resolver) fetchSurveyTypesLocked(sheetID string) {
	gen, ctx := r.beginFetchLocked(slotSurvey)
	go func() {
		ctx, span := r.tracer.Start(ctx, "cascade.fetch_survey_types",
			trace.WithAttributes(attribute.String("geo.sheet_id", sheetID)))
		opts, err := r.geo.SurveyTypes(ctx, sheetID)
		span.End()
		r.finishFetch(slotSurvey, gen, err, func() {
			r.surveys = opts
		})
	}()
}

func (r *Resolver) fetchLeavesLocked(sheetID, surveyTypeID string) {
	gen, ctx := r.beginFetchLocked(slotLeaf)
	go func() {
		ctx, span := r.tracer.Start(ctx, "cascade.fetch_leaves",
			trace.WithAttributes(
				attribute.String("geo.sheet_id", sheetID),
				attribute.String("geo.survey_type_id", surveyTypeID),
			))
		leaves, err := r.records.Leaves(ctx, sheetID, surveyTypeID)
		span.End()
		r.finishFetch(slotLeaf, gen, err, func() {
			r.leaves = leaves
		})
	}()
}
