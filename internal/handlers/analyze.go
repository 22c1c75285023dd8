package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/textlens/textlens-api/internal/analysis"
	"github.com/textlens/textlens-api/internal/apierror"
	"github.com/textlens/textlens-api/internal/logger"
)

// Provider performs the outbound analysis call.
type Provider interface {
	Analyze(ctx context.Context, source analysis.Source, opts analysis.Options) (analysis.Result, error)
}

// AnalyzeHandler runs the validation pipeline and forwards to the provider.
type AnalyzeHandler struct {
	provider Provider
	logger   *logger.Logger
}

func NewAnalyzeHandler(log *logger.Logger, provider Provider) *AnalyzeHandler {
	if log == nil {
		log = logger.Production()
	}
	return &AnalyzeHandler{
		provider: provider,
		logger:   log,
	}
}

// Analyze handles POST /api/text-intelligence. Validation failures are
// recovered locally and never reach the provider.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req analysis.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.Respond(c, analysis.ErrMalformedBody)
		return
	}

	source, err := analysis.ParseSource(req)
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	opts, err := analysis.BuildOptions(c.Request.URL.Query())
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	result, err := h.provider.Analyze(c.Request.Context(), source, opts)
	if err != nil {
		h.logger.Error("Analysis request failed", "error", err)
		apierror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": result})
}
