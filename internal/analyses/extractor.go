package analyses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"healthscan-backend/internal/llm"
)

// rawExcerptLimit bounds how much raw model output a parse-failure envelope
// may carry for diagnostics.
const rawExcerptLimit = 500

// Extractor produces the structured health analysis for a positively
// classified document.
type Extractor struct {
	LLM llm.Client
}

// Extract sends the document with the detailed extraction instruction and
// parses the reply. Unlike classification, a malformed reply is a hard
// failure: a bad extraction cannot be safely guessed.
func (e *Extractor) Extract(ctx context.Context, up Upload) (HealthAnalysis, error) {
	out, err := e.LLM.GenerateContent(ctx, []llm.Part{
		llm.TextPart(extractionPrompt),
		llm.DataPart(up.MIMEType, up.Content),
	})
	if err != nil {
		return HealthAnalysis{}, err
	}

	cleaned := stripCodeFences(out)

	var generic any
	if err := json.Unmarshal([]byte(cleaned), &generic); err != nil {
		return HealthAnalysis{}, &Error{
			Kind:    KindAnalysisParse,
			Status:  http.StatusInternalServerError,
			Details: fmt.Sprintf("Failed to parse analysis response: %s", excerpt(out)),
		}
	}

	if err := validateAnalysisJSON(generic); err != nil {
		return HealthAnalysis{}, &Error{
			Kind:    KindSchemaMismatch,
			Status:  http.StatusInternalServerError,
			Details: fmt.Sprintf("Analysis response did not match the expected schema: %v", err),
		}
	}

	var analysis HealthAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return HealthAnalysis{}, &Error{
			Kind:    KindSchemaMismatch,
			Status:  http.StatusInternalServerError,
			Details: fmt.Sprintf("Analysis response did not match the expected schema: %v", err),
		}
	}
	return analysis, nil
}

func excerpt(raw string) string {
	if len(raw) <= rawExcerptLimit {
		return raw
	}
	return raw[:rawExcerptLimit] + "..."
}
