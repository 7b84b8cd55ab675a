package analyses

import (
	"bytes"
	"encoding/json"
	"time"
)

// Finding status values.
const (
	StatusNormal   = "normal"
	StatusLow      = "low"
	StatusHigh     = "high"
	StatusCritical = "critical"
)

// Abnormal value severities.
const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// Risk levels.
const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
)

// Verdict is the classifier's decision plus supporting metadata. Confidence
// is a percentage; models occasionally return fractional values.
type Verdict struct {
	IsHealthDocument bool    `json:"isHealthDocument"`
	Confidence       float64 `json:"confidence"`
	DocumentType     string  `json:"documentType"`
	Reason           string  `json:"reason"`
}

// Finding is one measured parameter and its interpretation.
type Finding struct {
	Parameter            string `json:"parameter"`
	Value                string `json:"value"`
	Unit                 string `json:"unit,omitempty"`
	ReferenceRange       string `json:"referenceRange,omitempty"`
	Status               string `json:"status"`
	ClinicalSignificance string `json:"clinicalSignificance,omitempty"`
}

// AbnormalValue is a finding flagged outside its expected range.
type AbnormalValue struct {
	Parameter          string   `json:"parameter"`
	Value              string   `json:"value"`
	ExpectedRange      string   `json:"expectedRange,omitempty"`
	Severity           string   `json:"severity"`
	Meaning            string   `json:"meaning,omitempty"`
	PossibleCauses     []string `json:"possibleCauses,omitempty"`
	RecommendedActions []string `json:"recommendedActions,omitempty"`
}

// CategorizedRecommendations groups guidance under the fixed category labels.
type CategorizedRecommendations struct {
	ImmediateActions       []string `json:"immediateActions"`
	LifestyleModifications []string `json:"lifestyleModifications"`
	FollowUpCare           []string `json:"followUpCare"`
}

// Recommendations is a tagged union: either categorized groups or the legacy
// flat string list. Exactly one side is populated; consumers branch on which.
type Recommendations struct {
	Categorized *CategorizedRecommendations
	Legacy      []string
}

// UnmarshalJSON accepts either the categorized object shape or the legacy
// flat array shape, branching on the leading token.
func (r *Recommendations) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*r = Recommendations{}
		return nil
	}
	if trimmed[0] == '[' {
		var legacy []string
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return err
		}
		*r = Recommendations{Legacy: legacy}
		return nil
	}
	var categorized CategorizedRecommendations
	if err := json.Unmarshal(trimmed, &categorized); err != nil {
		return err
	}
	*r = Recommendations{Categorized: &categorized}
	return nil
}

// MarshalJSON emits whichever side is populated.
func (r Recommendations) MarshalJSON() ([]byte, error) {
	if r.Categorized != nil {
		return json.Marshal(r.Categorized)
	}
	if r.Legacy != nil {
		return json.Marshal(r.Legacy)
	}
	return []byte("null"), nil
}

// RiskAssessment summarizes overall risk and follow-up guidance.
type RiskAssessment struct {
	Level             string   `json:"level"`
	Factors           []string `json:"factors,omitempty"`
	FollowUpRequired  bool     `json:"followUpRequired"`
	RecommendedTiming string   `json:"recommendedTiming,omitempty"`
}

// HealthAnalysis is the structured record extracted from a health document.
type HealthAnalysis struct {
	Title            string          `json:"title"`
	DocumentType     string          `json:"documentType"`
	Date             string          `json:"date,omitempty"`
	PatientName      string          `json:"patientName,omitempty"`
	Findings         []Finding       `json:"findings"`
	AbnormalValues   []AbnormalValue `json:"abnormalValues"`
	Summary          string          `json:"summary"`
	DetailedAnalysis string          `json:"detailedAnalysis"`
	MedicalContext   string          `json:"medicalContext"`
	Recommendations  Recommendations `json:"recommendations"`
	RiskAssessment   RiskAssessment  `json:"riskAssessment"`
	Confidence       float64         `json:"confidence"`
	Disclaimer       string          `json:"disclaimer"`
}

// Analysis is the persisted record for one completed analysis.
type Analysis struct {
	ID            string         `json:"analysisId"`
	WalletAddress string         `json:"walletAddress"`
	FileName      string         `json:"fileName"`
	FileSize      int64          `json:"fileSize"`
	FileType      string         `json:"fileType"`
	Format        string         `json:"format"`
	Result        HealthAnalysis `json:"result"`
	StorageKey    string         `json:"-"`
	CreatedAt     time.Time      `json:"createdAt"`
}
