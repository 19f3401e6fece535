package store

import "github.com/esteham/eland-portal/internal/records/models"

// Seed loads dag and mouza-map records under the sheets created by the geo
// seed, covering every survey type on sheet-1 plus a map record for variety.
func Seed(s *InMemory) {
	dags := []struct {
		id, sheet, survey, dagNo, khatian, owner string
	}{
		{"dag-101", "sheet-1", "sheet-1-CS", "45", "120", "Abdul Karim"},
		{"dag-102", "sheet-1", "sheet-1-CS", "46", "121", "Rahima Begum"},
		{"dag-103", "sheet-1", "sheet-1-CS", "460", "122", "Jashim Uddin"},
		{"dag-104", "sheet-1", "sheet-1-SA", "45", "88", "Abdul Karim"},
		{"dag-105", "sheet-2", "sheet-2-RS", "12", "15", "Monir Hossain"},
		{"dag-106", "sheet-2", "sheet-2-RS", "120", "16", "Selina Akter"},
	}
	for _, d := range dags {
		s.AddLeaf(models.LeafRecord{
			ID:           d.id,
			Kind:         models.KindDag,
			DisplayKey:   d.dagNo,
			SheetID:      d.sheet,
			SurveyTypeID: d.survey,
		}, &models.LeafDetail{
			Dag: &models.DagDetail{
				DagNumber:     d.dagNo,
				KhatianNumber: d.khatian,
				OwnerName:     d.owner,
				AreaDecimals:  "33.5",
				LandClass:     "agricultural",
			},
		})
	}

	maps := []struct {
		id, sheet, survey, name, year string
	}{
		{"map-201", "sheet-1", "sheet-1-CS", "Birulia CS Sheet 1", "1915"},
		{"map-202", "sheet-1", "sheet-1-RS", "Birulia RS Sheet 1", "1962"},
	}
	for _, m := range maps {
		s.AddLeaf(models.LeafRecord{
			ID:           m.id,
			Kind:         models.KindMouzaMap,
			DisplayKey:   m.name,
			SheetID:      m.sheet,
			SurveyTypeID: m.survey,
		}, &models.LeafDetail{
			MouzaMap: &models.MouzaMapDetail{
				MapName:     m.name,
				SurveyYear:  m.year,
				SheetNumber: "1",
			},
		})
	}
}
