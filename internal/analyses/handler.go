package analyses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"healthscan-backend/internal/shared/server/respond"
)

// multipart encoding overhead allowance on top of the document ceiling
const maxRequestBytes = MaxUploadBytes + (1 << 20)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.GET("/analyze", h.readiness)
	rg.GET("/analyses", h.list)
	rg.GET("/analyses/:id", h.get)
}

type fileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

type successEnvelope struct {
	Success     bool           `json:"success"`
	AnalysisID  string         `json:"analysisId"`
	Analysis    HealthAnalysis `json:"analysis"`
	FileInfo    fileInfo       `json:"fileInfo"`
	TokenReward any            `json:"tokenReward"`
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	up, perr := ParseUpload(c.Request)
	if perr != nil {
		respondPipelineError(c, perr)
		return
	}
	c.Set("walletAddress", up.WalletAddress)

	outcome, err := h.Svc.Analyze(c.Request.Context(), up)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	c.Set("analysisId", outcome.Analysis.ID)
	c.Set("pipelineStage", "completed")

	respond.JSON(c, http.StatusOK, successEnvelope{
		Success:    true,
		AnalysisID: outcome.Analysis.ID,
		Analysis:   outcome.Analysis.Result,
		FileInfo: fileInfo{
			Name: outcome.Analysis.FileName,
			Size: outcome.Analysis.FileSize,
			Type: outcome.Analysis.FileType,
		},
		TokenReward: outcome.Reward,
	})
}

func (h *Handler) readiness(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{
		"status":           "ready",
		"message":          "Health document analysis API is ready",
		"supportedFormats": AllowedMIMETypes(),
		"maxFileSize":      "20MB",
		"responseFormat":   "structured-json",
	})
}

func (h *Handler) get(c *gin.Context) {
	analysis, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Analysis not found.", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, string(KindInternal), "Failed to fetch analysis.", nil)
		return
	}
	respond.JSON(c, http.StatusOK, analysis)
}

func (h *Handler) list(c *gin.Context) {
	wallet := c.Query("walletAddress")
	if wallet == "" {
		respond.Error(c, http.StatusBadRequest, string(KindMissingWallet),
			"walletAddress query parameter is required.", nil)
		return
	}
	c.Set("walletAddress", wallet)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	list, err := h.Svc.List(c.Request.Context(), wallet, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, string(KindInternal), "Failed to list analyses.", nil)
		return
	}

	resp := make([]gin.H, 0, len(list))
	for _, analysis := range list {
		resp = append(resp, gin.H{
			"analysisId": analysis.ID,
			"fileName":   analysis.FileName,
			"fileSize":   analysis.FileSize,
			"fileType":   analysis.FileType,
			"title":      analysis.Result.Title,
			"createdAt":  analysis.CreatedAt,
		})
	}
	respond.JSON(c, http.StatusOK, resp)
}

// respondPipelineError maps any pipeline error onto the failure envelope.
// Typed errors carry their own label/status/details; anything else goes
// through the upstream substring rules.
func respondPipelineError(c *gin.Context, err error) {
	perr := ClassifyUpstream(err)
	respond.Error(c, perr.Status, string(perr.Kind), perr.Details, perr.Meta)
}
