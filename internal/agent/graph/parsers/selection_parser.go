package parsers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fitpal-core/agent/internal/agent/model"
	errx "github.com/fitpal-core/agent/internal/core/error"
)

// ParseSelectionResult decodes and validates the selection model's raw
// output. Schema-level rules live here; the status/candidate contract
// (e.g. ESTIMATED required on empty search results) is enforced by the
// selection node, which knows the candidate set.
func ParseSelectionResult(content string) (*model.FoodSelectionResult, error) {
	raw, err := extractJSONObject(content)
	if err != nil {
		return nil, errx.Validation(err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var res model.FoodSelectionResult
	if err := dec.Decode(&res); err != nil {
		return nil, errx.Validation(fmt.Errorf("decode selection result: %w", err))
	}
	if err := validate.Struct(&res); err != nil {
		return nil, errx.Validation(fmt.Errorf("selection result schema: %w", err))
	}

	// Status-conditional field rules.
	switch res.Status {
	case model.StatusSelected:
		if res.FoodID == nil {
			return nil, errx.Validation(fmt.Errorf("SELECTED without food_id"))
		}
		if hasEstimates(&res) {
			return nil, errx.Validation(fmt.Errorf("SELECTED carries estimated macros"))
		}
	case model.StatusNoMatch:
		if res.FoodID != nil || hasEstimates(&res) {
			return nil, errx.Validation(fmt.Errorf("NO_MATCH carries selection or estimation fields"))
		}
	case model.StatusEstimated:
		if res.FoodID != nil {
			return nil, errx.Validation(fmt.Errorf("ESTIMATED carries food_id"))
		}
		if res.EstimatedCal == nil || res.EstimatedProtein == nil ||
			res.EstimatedCarbs == nil || res.EstimatedFat == nil {
			return nil, errx.Validation(fmt.Errorf("ESTIMATED with incomplete macro estimates"))
		}
	}

	return &res, nil
}

func hasEstimates(r *model.FoodSelectionResult) bool {
	return r.EstimatedCal != nil || r.EstimatedProtein != nil ||
		r.EstimatedCarbs != nil || r.EstimatedFat != nil
}
