package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apimodels "github.com/mlandesman/SAMS-sub005/internal/pkg/models"
	"github.com/mlandesman/SAMS-sub005/internal/service/importer"
)

// ImportRunner loads a legacy data batch into the live collections.
type ImportRunner interface {
	RunImport(ctx context.Context, clientID string, req *apimodels.ImportRequest) (*importer.ImportResult, error)
}

type ImportHandler struct {
	service ImportRunner
}

func NewImportHandler(service ImportRunner) *ImportHandler {
	return &ImportHandler{service: service}
}

// RunImport ingests a legacy batch, either inline in the request body or
// pulled from the SFTP drop directory when sftpFile is set. Reruns of the
// same batch skip records already imported.
func (h *ImportHandler) RunImport(c *gin.Context) {
	clientID := c.Param("clientId")

	var req apimodels.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SFTPFile == "" {
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.service.RunImport(c.Request.Context(), clientID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
