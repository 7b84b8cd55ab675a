package analyses

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"healthscan-backend/internal/llm"
	"healthscan-backend/internal/rewards"
	"healthscan-backend/internal/shared/metrics"
	"healthscan-backend/internal/shared/storage/object"
	"healthscan-backend/internal/shared/telemetry"
)

// Rewarder credits a wallet after a completed analysis.
type Rewarder interface {
	RewardForAnalysis(ctx context.Context, wallet string) (rewards.Reward, error)
}

// Service runs the analysis pipeline: classify, extract, persist, reward.
// Stages are strictly sequential and terminal on first failure.
type Service struct {
	Repo    Repo
	Store   object.ObjectStore
	LLM     llm.Client
	Rewards Rewarder
}

// Outcome is the successful result of one pipeline run.
type Outcome struct {
	Analysis Analysis
	Reward   rewards.Reward
}

// Analyze runs the full pipeline for a validated upload.
func (s *Service) Analyze(ctx context.Context, up Upload) (Outcome, error) {
	metrics.IncAnalysisStarted()
	startedAt := time.Now()

	outcome, err := s.analyze(ctx, up)
	metrics.ObserveAnalysisDurationMs(float64(time.Since(startedAt).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncAnalysisFailed()
		return Outcome{}, err
	}
	metrics.IncAnalysisCompleted()
	return outcome, nil
}

func (s *Service) analyze(ctx context.Context, up Upload) (Outcome, error) {
	classifier := Classifier{LLM: s.LLM}
	verdict, err := classifier.Classify(ctx, up)
	if err != nil {
		return Outcome{}, ClassifyUpstream(err)
	}
	if !verdict.IsHealthDocument {
		telemetry.Info("analysis.rejected", map[string]any{
			"wallet":        up.WalletAddress,
			"file":          up.FileName,
			"document_type": verdict.DocumentType,
			"confidence":    verdict.Confidence,
		})
		return Outcome{}, notHealthDocumentError(verdict)
	}

	extractor := Extractor{LLM: s.LLM}
	result, err := extractor.Extract(ctx, up)
	if err != nil {
		return Outcome{}, ClassifyUpstream(err)
	}

	// Archive the raw upload alongside the analysis row. Best-effort: a
	// storage outage must not fail an analysis the user already paid for
	// in model time.
	storageKey := ""
	if s.Store != nil {
		key, _, _, err := s.Store.Save(ctx, up.WalletAddress, up.FileName, bytes.NewReader(up.Content))
		if err != nil {
			telemetry.Error("analysis.archive_failed", map[string]any{
				"wallet": up.WalletAddress,
				"file":   up.FileName,
				"err":    err.Error(),
			})
		} else {
			storageKey = key
		}
	}

	analysis := Analysis{
		ID:            uuid.NewString(),
		WalletAddress: up.WalletAddress,
		FileName:      up.FileName,
		FileSize:      up.SizeBytes,
		FileType:      up.MIMEType,
		Format:        "json",
		Result:        result,
		StorageKey:    storageKey,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		telemetry.Error("analysis.persist_failed", map[string]any{
			"wallet": up.WalletAddress,
			"err":    err.Error(),
		})
		return Outcome{}, newError(KindPersistence, http.StatusInternalServerError,
			"Failed to save the analysis. Please try again.")
	}

	reward, err := s.Rewards.RewardForAnalysis(ctx, up.WalletAddress)
	if err != nil {
		telemetry.Error("analysis.reward_failed", map[string]any{
			"wallet": up.WalletAddress,
			"err":    err.Error(),
		})
		return Outcome{}, newError(KindReward, http.StatusInternalServerError,
			"Analysis saved but token reward could not be credited.")
	}

	return Outcome{Analysis: analysis, Reward: reward}, nil
}

// Get returns a persisted analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	if analysisID == "" {
		return Analysis{}, fmt.Errorf("analysisID is required")
	}
	return s.Repo.GetByID(ctx, analysisID)
}

// List returns analyses for a wallet ordered newest-first.
func (s *Service) List(ctx context.Context, wallet string, limit, offset int) ([]Analysis, error) {
	if wallet == "" {
		return nil, fmt.Errorf("wallet is required")
	}
	return s.Repo.ListByWallet(ctx, wallet, limit, offset)
}

var acceptedDocumentCategories = []string{
	"Blood test reports",
	"Lab results",
	"Medical imaging reports",
	"Prescriptions",
	"Vaccination records",
	"Health checkup reports",
}

var rejectionSuggestions = []string{
	"Make sure the document contains medical or health-related information",
	"Upload a clearer copy if the document is a scanned image",
	"Convert unsupported formats to PDF before uploading",
}

func notHealthDocumentError(verdict Verdict) *Error {
	return &Error{
		Kind:   KindNotHealthDocument,
		Status: http.StatusBadRequest,
		Details: fmt.Sprintf(
			"This file appears to be: %s (confidence: %.0f%%). %s Please upload a health-related document such as blood test reports, lab results, medical imaging reports, prescriptions, or vaccination records.",
			verdict.DocumentType, verdict.Confidence, verdict.Reason),
		Meta: map[string]any{
			"documentType":      verdict.DocumentType,
			"confidence":        verdict.Confidence,
			"acceptedDocuments": acceptedDocumentCategories,
			"suggestions":       rejectionSuggestions,
		},
	}
}
