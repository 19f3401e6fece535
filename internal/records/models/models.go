package models

import (
	"encoding/json"
	"fmt"
)

// LeafKind tags the two terminal record variants of the explorer.
type LeafKind string

const (
	KindDag      LeafKind = "dag"
	KindMouzaMap LeafKind = "mouza_map"
)

// Valid reports whether k names a known leaf kind.
func (k LeafKind) Valid() bool {
	return k == KindDag || k == KindMouzaMap
}

// LeafRecord is a terminal selectable entity: a dag (plot/khatiyan) or a
// mouza map. Shared fields live on the record; kind-specific payload lives in
// Detail and is lazily fetched once a leaf is selected. Consumers dispatch on
// Kind through this one variant instead of branching on strings elsewhere.
type LeafRecord struct {
	ID           string      `json:"id"`
	Kind         LeafKind    `json:"kind"`
	DisplayKey   string      `json:"display_key"`
	SheetID      string      `json:"sheet_id"`
	SurveyTypeID string      `json:"survey_type_id"`
	Detail       *LeafDetail `json:"detail,omitempty"`
}

// LeafDetail carries the kind-specific payload of a selected leaf. Exactly
// one of Dag/MouzaMap is set, matching the record's Kind.
type LeafDetail struct {
	Dag      *DagDetail      `json:"dag,omitempty"`
	MouzaMap *MouzaMapDetail `json:"mouza_map,omitempty"`
}

// DagDetail describes a land plot record.
type DagDetail struct {
	DagNumber     string `json:"dag_number"`
	KhatianNumber string `json:"khatian_number"`
	OwnerName     string `json:"owner_name"`
	AreaDecimals  string `json:"area_decimals"`
	LandClass     string `json:"land_class"`
}

// MouzaMapDetail describes a mouza map record.
type MouzaMapDetail struct {
	MapName     string `json:"map_name"`
	SurveyYear  string `json:"survey_year"`
	SheetNumber string `json:"sheet_number"`
}

// Validate checks that the detail payload matches the declared kind.
func (d *LeafDetail) Validate(kind LeafKind) error {
	switch kind {
	case KindDag:
		if d.Dag == nil {
			return fmt.Errorf("dag leaf missing dag detail")
		}
	case KindMouzaMap:
		if d.MouzaMap == nil {
			return fmt.Errorf("mouza map leaf missing map detail")
		}
	default:
		return fmt.Errorf("unknown leaf kind %q", kind)
	}
	return nil
}

// String renders the detail for logs without dumping the whole payload.
func (d *LeafDetail) String() string {
	payload, _ := json.Marshal(d)
	return string(payload)
}
