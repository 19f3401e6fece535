package models

// Level identifies one step of the administrative-geography cascade, from
// division down to the survey sheet ("zil") under which records are scoped.
type Level int

const (
	LevelDivision Level = iota
	LevelDistrict
	LevelUpazila
	LevelMouza
	LevelSheet
)

// Levels lists the cascade levels in selection order.
var Levels = []Level{LevelDivision, LevelDistrict, LevelUpazila, LevelMouza, LevelSheet}

func (l Level) String() string {
	switch l {
	case LevelDivision:
		return "division"
	case LevelDistrict:
		return "district"
	case LevelUpazila:
		return "upazila"
	case LevelMouza:
		return "mouza"
	case LevelSheet:
		return "sheet"
	default:
		return "unknown"
	}
}

// ParseLevel resolves the wire name of a level. ok is false for unknown names.
func ParseLevel(name string) (Level, bool) {
	for _, l := range Levels {
		if l.String() == name {
			return l, true
		}
	}
	return 0, false
}

// Valid reports whether l is a real cascade level.
func (l Level) Valid() bool {
	return l >= LevelDivision && l <= LevelSheet
}

// Child returns the next level down. ok is false at the sheet level.
func (l Level) Child() (Level, bool) {
	if l >= LevelSheet {
		return 0, false
	}
	return l + 1, true
}

// GeoNode is one selectable entry of the cascade. Immutable once fetched.
type GeoNode struct {
	ID          string `json:"id"`
	Level       Level  `json:"-"`
	LevelName   string `json:"level"`
	DisplayName string `json:"display_name"`
	ParentID    string `json:"parent_id,omitempty"`
}

// SurveyTypeOption partitions leaf records within a sheet (CS/SA/RS/BS).
// Valid only while its owning sheet remains selected.
type SurveyTypeOption struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	SheetID string `json:"sheet_id"`
}
