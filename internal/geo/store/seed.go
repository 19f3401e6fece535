package store

import "github.com/esteham/eland-portal/internal/geo/models"

// Seed fills the store with a small but realistic slice of the Bangladeshi
// administrative hierarchy so the server is browsable out of the box.
func Seed(s *InMemory) {
	divisions := []models.GeoNode{
		{ID: "div-dhaka", Level: models.LevelDivision, DisplayName: "Dhaka"},
		{ID: "div-chattogram", Level: models.LevelDivision, DisplayName: "Chattogram"},
		{ID: "div-rajshahi", Level: models.LevelDivision, DisplayName: "Rajshahi"},
	}
	for _, d := range divisions {
		s.AddNode(d)
	}

	districts := []models.GeoNode{
		{ID: "dist-dhaka", Level: models.LevelDistrict, DisplayName: "Dhaka", ParentID: "div-dhaka"},
		{ID: "dist-gazipur", Level: models.LevelDistrict, DisplayName: "Gazipur", ParentID: "div-dhaka"},
		{ID: "dist-chattogram", Level: models.LevelDistrict, DisplayName: "Chattogram", ParentID: "div-chattogram"},
		{ID: "dist-rajshahi", Level: models.LevelDistrict, DisplayName: "Rajshahi", ParentID: "div-rajshahi"},
	}
	for _, d := range districts {
		s.AddNode(d)
	}

	upazilas := []models.GeoNode{
		{ID: "upz-savar", Level: models.LevelUpazila, DisplayName: "Savar", ParentID: "dist-dhaka"},
		{ID: "upz-dhamrai", Level: models.LevelUpazila, DisplayName: "Dhamrai", ParentID: "dist-dhaka"},
		{ID: "upz-sreepur", Level: models.LevelUpazila, DisplayName: "Sreepur", ParentID: "dist-gazipur"},
		{ID: "upz-patiya", Level: models.LevelUpazila, DisplayName: "Patiya", ParentID: "dist-chattogram"},
	}
	for _, u := range upazilas {
		s.AddNode(u)
	}

	mouzas := []models.GeoNode{
		{ID: "mz-birulia", Level: models.LevelMouza, DisplayName: "Birulia", ParentID: "upz-savar"},
		{ID: "mz-aminbazar", Level: models.LevelMouza, DisplayName: "Amin Bazar", ParentID: "upz-savar"},
		{ID: "mz-kushura", Level: models.LevelMouza, DisplayName: "Kushura", ParentID: "upz-dhamrai"},
	}
	for _, m := range mouzas {
		s.AddNode(m)
	}

	sheets := []models.GeoNode{
		{ID: "sheet-1", Level: models.LevelSheet, DisplayName: "Zil 1", ParentID: "mz-birulia"},
		{ID: "sheet-2", Level: models.LevelSheet, DisplayName: "Zil 2", ParentID: "mz-birulia"},
		{ID: "sheet-3", Level: models.LevelSheet, DisplayName: "Zil 1", ParentID: "mz-aminbazar"},
	}
	for _, sh := range sheets {
		s.AddNode(sh)
	}

	for _, sheet := range []string{"sheet-1", "sheet-2", "sheet-3"} {
		for _, code := range []string{"CS", "SA", "RS", "BS"} {
			s.AddSurveyType(models.SurveyTypeOption{
				ID:      sheet + "-" + code,
				Code:    code,
				SheetID: sheet,
			})
		}
	}
}
