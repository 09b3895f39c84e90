package handler

import (
	"fmt"
	"net/http"

	"github.com/practicelog/practicelog/internal/ctxkeys"
	"github.com/practicelog/practicelog/internal/service"
)

type exportLinkResponse struct {
	URL              string `json:"url"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
}

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	result, err := h.exportService.Export(user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if result.Document == nil {
		writeJSON(w, http.StatusOK, exportLinkResponse{
			URL:              result.URL,
			ExpiresInSeconds: int(result.ExpiresIn.Seconds()),
		})
		return
	}

	filename := fmt.Sprintf("practicelog-%s.json", result.Document.ExportedAt.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, http.StatusOK, result.Document)
}
