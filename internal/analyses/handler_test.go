package analyses

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"healthscan-backend/internal/rewards"
	"healthscan-backend/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T, llmClient *scriptedLLM) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := &Service{
		Repo:    NewMemoryRepo(),
		Store:   local.New(t.TempDir()),
		LLM:     llmClient,
		Rewards: rewards.NewService(),
	}
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestAnalyzeEndpointSuccess(t *testing.T) {
	fake := &scriptedLLM{responses: []string{healthyVerdictJSON, validAnalysisJSON}}
	router := newTestRouter(t, fake)

	req := multipartRequest(t, "cbc.pdf", "application/pdf", []byte("%PDF-1.4"), map[string]string{
		"walletAddress": "0xabc123",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Success    bool           `json:"success"`
		AnalysisID string         `json:"analysisId"`
		Analysis   HealthAnalysis `json:"analysis"`
		FileInfo   struct {
			Name string `json:"name"`
			Size int64  `json:"size"`
			Type string `json:"type"`
		} `json:"fileInfo"`
		TokenReward rewards.Reward `json:"tokenReward"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success {
		t.Error("success = false")
	}
	if body.AnalysisID == "" {
		t.Error("analysisId missing")
	}
	if body.Analysis.Title != "Complete Blood Count Analysis" {
		t.Errorf("analysis.title = %q", body.Analysis.Title)
	}
	if body.FileInfo.Name != "cbc.pdf" || body.FileInfo.Type != "application/pdf" {
		t.Errorf("fileInfo = %+v", body.FileInfo)
	}
	if body.TokenReward.Earned != rewards.BaseReward+rewards.NewUserBonus || !body.TokenReward.IsNewUser {
		t.Errorf("tokenReward = %+v", body.TokenReward)
	}
}

func TestAnalyzeEndpointRejectsNonHealthDocument(t *testing.T) {
	fake := &scriptedLLM{responses: []string{
		`{"isHealthDocument": false, "confidence": 91, "documentType": "Invoice", "reason": "Itemized charges and totals"}`,
	}}
	router := newTestRouter(t, fake)

	req := multipartRequest(t, "invoice.pdf", "application/pdf", []byte("%PDF-1.4"), map[string]string{
		"walletAddress": "0xabc123",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Error   string         `json:"error"`
		Details string         `json:"details"`
		Meta    map[string]any `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != string(KindNotHealthDocument) {
		t.Errorf("error = %q", body.Error)
	}
	if !strings.Contains(body.Details, "Invoice") || !strings.Contains(body.Details, "91%") {
		t.Errorf("details = %q", body.Details)
	}
	if body.Meta["documentType"] != "Invoice" {
		t.Errorf("meta = %+v", body.Meta)
	}
	if _, ok := body.Meta["acceptedDocuments"]; !ok {
		t.Error("meta.acceptedDocuments missing")
	}
	if fake.calls != 1 {
		t.Errorf("LLM calls = %d, extraction must not run", fake.calls)
	}
}

func TestAnalyzeEndpointValidationErrors(t *testing.T) {
	router := newTestRouter(t, &scriptedLLM{})

	cases := []struct {
		name     string
		req      func(t *testing.T) *http.Request
		wantKind Kind
	}{
		{
			name: "missing file",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "", "", nil, map[string]string{"walletAddress": "0xabc"})
			},
			wantKind: KindMissingFile,
		},
		{
			name: "missing wallet",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "doc.pdf", "application/pdf", []byte("x"), nil)
			},
			wantKind: KindMissingWallet,
		},
		{
			name: "unsupported type",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "doc.txt", "text/plain", []byte("x"), map[string]string{"walletAddress": "0xabc"})
			},
			wantKind: KindUnsupportedFileType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, tc.req(t))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var body struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != string(tc.wantKind) {
				t.Errorf("error = %q, want %q", body.Error, tc.wantKind)
			}
		})
	}
}

func TestAnalyzeEndpointRejectsFilePastReaderCap(t *testing.T) {
	fake := &scriptedLLM{}
	router := newTestRouter(t, fake)

	// Well past both the 20 MiB ceiling and the request reader cap.
	content := bytes.Repeat([]byte("a"), 25<<20)
	req := multipartRequest(t, "huge.pdf", "application/pdf", content, map[string]string{
		"walletAddress": "0xabc123",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != string(KindFileTooLarge) {
		t.Errorf("error = %q, want %q", body.Error, KindFileTooLarge)
	}
	if !strings.Contains(body.Details, "25.00MB") {
		t.Errorf("details should carry the actual size, got %q", body.Details)
	}
	if !strings.Contains(body.Details, "Maximum allowed size is 20MB") {
		t.Errorf("details should name the ceiling, got %q", body.Details)
	}
	if fake.calls != 0 {
		t.Errorf("LLM calls = %d, oversized upload must not reach the pipeline", fake.calls)
	}
}

func TestAnalyzeEndpointParseFailureReturns500(t *testing.T) {
	fake := &scriptedLLM{responses: []string{healthyVerdictJSON, "not json at all"}}
	router := newTestRouter(t, fake)

	req := multipartRequest(t, "cbc.pdf", "application/pdf", []byte("%PDF-1.4"), map[string]string{
		"walletAddress": "0xabc123",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != string(KindAnalysisParse) {
		t.Errorf("error = %q", body.Error)
	}
	if !strings.Contains(body.Details, "not json at all") {
		t.Errorf("details should carry the raw excerpt, got %q", body.Details)
	}
}

func TestReadinessEndpoint(t *testing.T) {
	router := newTestRouter(t, &scriptedLLM{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyze", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Status           string   `json:"status"`
		SupportedFormats []string `json:"supportedFormats"`
		MaxFileSize      string   `json:"maxFileSize"`
		ResponseFormat   string   `json:"responseFormat"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "ready" {
		t.Errorf("status = %q", body.Status)
	}
	if body.MaxFileSize != "20MB" {
		t.Errorf("maxFileSize = %q, want 20MB", body.MaxFileSize)
	}
	if body.ResponseFormat != "structured-json" {
		t.Errorf("responseFormat = %q, want structured-json", body.ResponseFormat)
	}
	want := AllowedMIMETypes()
	if len(body.SupportedFormats) != len(want) {
		t.Fatalf("supportedFormats = %v, want %v", body.SupportedFormats, want)
	}
	for i, f := range want {
		if body.SupportedFormats[i] != f {
			t.Errorf("supportedFormats[%d] = %q, want %q", i, body.SupportedFormats[i], f)
		}
	}
}

func TestListEndpointRequiresWallet(t *testing.T) {
	router := newTestRouter(t, &scriptedLLM{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetEndpointNotFound(t *testing.T) {
	router := newTestRouter(t, &scriptedLLM{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/no-such-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
