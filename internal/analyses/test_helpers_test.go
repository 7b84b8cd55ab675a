package analyses

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"healthscan-backend/internal/llm"
)

// scriptedLLM returns queued responses in order and records every call.
type scriptedLLM struct {
	responses []string
	errs      []error
	calls     int
	gotParts  [][]llm.Part
}

func (s *scriptedLLM) GenerateContent(ctx context.Context, parts []llm.Part) (string, error) {
	_ = ctx
	i := s.calls
	s.calls++
	s.gotParts = append(s.gotParts, parts)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", nil
}

const healthyVerdictJSON = `{"isHealthDocument": true, "confidence": 95, "documentType": "Blood Test Report", "reason": "Contains lab parameters with reference ranges"}`

const validAnalysisJSON = `{
  "title": "Complete Blood Count Analysis",
  "documentType": "Blood Test Report",
  "date": "2026-05-14",
  "findings": [
    {"parameter": "Hemoglobin", "value": "13.5", "unit": "g/dL", "referenceRange": "13.0-17.0", "status": "normal", "clinicalSignificance": "Within the expected range for an adult."}
  ],
  "abnormalValues": [],
  "summary": "All measured values fall within their reference ranges.",
  "detailedAnalysis": "The panel shows no deviation from expected values. Hemoglobin sits comfortably inside the reference interval.",
  "medicalContext": "A complete blood count screens for anemia, infection, and several blood disorders.",
  "recommendations": {
    "immediateActions": [],
    "lifestyleModifications": ["Maintain a balanced diet rich in iron."],
    "followUpCare": ["Repeat the panel at the next annual checkup."]
  },
  "riskAssessment": {"level": "low", "factors": [], "followUpRequired": false, "recommendedTiming": "12 months"},
  "confidence": 92,
  "disclaimer": "This analysis is informational and not a substitute for professional medical advice."
}`

func testUpload() Upload {
	return Upload{
		Content:       []byte("%PDF-1.4 test"),
		MIMEType:      "application/pdf",
		SizeBytes:     13,
		FileName:      "cbc.pdf",
		WalletAddress: "0xabc123",
	}
}

// multipartRequest builds a POST with a file part carrying the given MIME
// type plus optional form fields.
func multipartRequest(t *testing.T, fileName, contentType string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
