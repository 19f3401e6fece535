package store

import (
	"encoding/json"
	"fmt"

	"github.com/esteham/eland-portal/internal/records/models"
)

func unmarshalDetail(payload []byte) (*models.LeafDetail, error) {
	var detail models.LeafDetail
	if err := json.Unmarshal(payload, &detail); err != nil {
		return nil, fmt.Errorf("decode leaf detail: %w", err)
	}
	return &detail, nil
}
