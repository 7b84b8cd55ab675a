package analyses

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("fixture does not parse: %v", err)
	}
	return v
}

func TestValidateAnalysisJSONAcceptsFullDocument(t *testing.T) {
	if err := validateAnalysisJSON(decode(t, validAnalysisJSON)); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}
}

func TestValidateAnalysisJSONRejectsMissingRequired(t *testing.T) {
	if err := validateAnalysisJSON(decode(t, `{"title": "x"}`)); err == nil {
		t.Fatal("document missing required fields should be rejected")
	}
}

func TestValidateAnalysisJSONRejectsBadEnums(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"finding status", `{"parameter": "Hb", "value": "13", "status": "weird"}`},
		{"risk level", `{"level": "catastrophic", "followUpRequired": true}`},
	}

	base := decode(t, validAnalysisJSON).(map[string]any)
	for _, tc := range cases {
		doc := decode(t, validAnalysisJSON).(map[string]any)
		switch tc.name {
		case "finding status":
			doc["findings"] = []any{decode(t, tc.raw)}
		case "risk level":
			doc["riskAssessment"] = decode(t, tc.raw)
		}
		if err := validateAnalysisJSON(doc); err == nil {
			t.Errorf("%s outside enum should be rejected", tc.name)
		}
	}
	// Base fixture stays valid.
	if err := validateAnalysisJSON(base); err != nil {
		t.Errorf("base fixture rejected: %v", err)
	}
}

func TestValidateAnalysisJSONAcceptsLegacyRecommendations(t *testing.T) {
	doc := decode(t, validAnalysisJSON).(map[string]any)
	doc["recommendations"] = []any{"Drink water", "Sleep well"}
	if err := validateAnalysisJSON(doc); err != nil {
		t.Fatalf("legacy recommendation list rejected: %v", err)
	}
}
