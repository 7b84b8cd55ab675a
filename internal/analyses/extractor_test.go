package analyses

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExtractParsesFencedAnalysis(t *testing.T) {
	fake := &scriptedLLM{responses: []string{"```json\n" + validAnalysisJSON + "\n```"}}
	extractor := Extractor{LLM: fake}

	analysis, err := extractor.Extract(context.Background(), testUpload())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if analysis.Title != "Complete Blood Count Analysis" {
		t.Errorf("Title = %q", analysis.Title)
	}
	if len(analysis.Findings) != 1 || analysis.Findings[0].Status != StatusNormal {
		t.Errorf("Findings = %+v", analysis.Findings)
	}
	if analysis.Recommendations.Categorized == nil {
		t.Fatal("expected categorized recommendations")
	}
	if analysis.RiskAssessment.Level != RiskLow {
		t.Errorf("RiskAssessment.Level = %q", analysis.RiskAssessment.Level)
	}
}

func TestExtractFailsHardOnUnparseableReply(t *testing.T) {
	raw := "The document shows mostly normal values but I could not format it."
	fake := &scriptedLLM{responses: []string{raw}}
	extractor := Extractor{LLM: fake}

	_, err := extractor.Extract(context.Background(), testUpload())
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if perr.Kind != KindAnalysisParse {
		t.Errorf("Kind = %s, want %s", perr.Kind, KindAnalysisParse)
	}
	if perr.Status != 500 {
		t.Errorf("Status = %d, want 500", perr.Status)
	}
	if !strings.Contains(perr.Details, raw) {
		t.Errorf("Details should carry the raw reply, got %q", perr.Details)
	}
}

func TestExtractTruncatesLongRawReply(t *testing.T) {
	raw := strings.Repeat("x", rawExcerptLimit+100)
	fake := &scriptedLLM{responses: []string{raw}}
	extractor := Extractor{LLM: fake}

	_, err := extractor.Extract(context.Background(), testUpload())
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if !strings.HasSuffix(perr.Details, "...") {
		t.Errorf("Details should end with ellipsis, got %q", perr.Details[len(perr.Details)-20:])
	}
	wantExcerpt := strings.Repeat("x", rawExcerptLimit) + "..."
	if !strings.Contains(perr.Details, wantExcerpt) {
		t.Error("Details should carry exactly the truncated excerpt")
	}
	if strings.Contains(perr.Details, strings.Repeat("x", rawExcerptLimit+1)) {
		t.Error("Details carries more than the excerpt limit")
	}
}

func TestExtractRejectsSchemaMismatch(t *testing.T) {
	// Valid JSON, wrong shape: riskAssessment level outside the enum and
	// several required fields missing.
	fake := &scriptedLLM{responses: []string{`{"title": "x", "riskAssessment": {"level": "catastrophic"}}`}}
	extractor := Extractor{LLM: fake}

	_, err := extractor.Extract(context.Background(), testUpload())
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if perr.Kind != KindSchemaMismatch {
		t.Errorf("Kind = %s, want %s", perr.Kind, KindSchemaMismatch)
	}
}

func TestExtractAcceptsLegacyRecommendationList(t *testing.T) {
	legacy := strings.Replace(validAnalysisJSON,
		`"recommendations": {
    "immediateActions": [],
    "lifestyleModifications": ["Maintain a balanced diet rich in iron."],
    "followUpCare": ["Repeat the panel at the next annual checkup."]
  }`,
		`"recommendations": ["Maintain a balanced diet.", "Repeat the panel next year."]`, 1)
	if legacy == validAnalysisJSON {
		t.Fatal("test fixture replacement failed")
	}

	fake := &scriptedLLM{responses: []string{legacy}}
	extractor := Extractor{LLM: fake}
	analysis, err := extractor.Extract(context.Background(), testUpload())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if analysis.Recommendations.Categorized != nil {
		t.Error("legacy list should not populate categorized side")
	}
	if len(analysis.Recommendations.Legacy) != 2 {
		t.Errorf("Legacy = %v", analysis.Recommendations.Legacy)
	}
}

func TestExtractPropagatesTransportError(t *testing.T) {
	boom := errors.New("dial tcp: i/o timeout")
	fake := &scriptedLLM{errs: []error{boom}}
	extractor := Extractor{LLM: fake}

	_, err := extractor.Extract(context.Background(), testUpload())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want transport error to propagate", err)
	}
}
