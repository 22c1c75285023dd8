package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/textlens/textlens-api/internal/apierror"
	"github.com/textlens/textlens-api/internal/logger"
	"github.com/textlens/textlens-api/internal/metadata"
)

// MetadataHandler serves the static configuration-derived metadata object.
// A nil gateway means loading failed at startup; the route stays
// registered and answers with the generic internal-error envelope.
type MetadataHandler struct {
	gateway *metadata.Gateway
	logger  *logger.Logger
}

func NewMetadataHandler(log *logger.Logger, gateway *metadata.Gateway) *MetadataHandler {
	if log == nil {
		log = logger.Production()
	}
	return &MetadataHandler{
		gateway: gateway,
		logger:  log,
	}
}

// GetMetadata handles GET /api/metadata.
func (h *MetadataHandler) GetMetadata(c *gin.Context) {
	if h.gateway == nil {
		h.logger.Error("Metadata requested but none was loaded at startup")
		apierror.Respond(c, errors.New("metadata unavailable"))
		return
	}

	c.JSON(http.StatusOK, h.gateway)
}
