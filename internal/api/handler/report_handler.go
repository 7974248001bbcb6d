package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/autoaccessories/pos-gateway/internal/core/ports"
)

// ReportHandler serves the binary export path: report files streamed from
// the backend and relayed to the UI as a download, bypassing the JSON
// envelope entirely.
type ReportHandler struct {
	backend ports.Backend
}

func NewReportHandler(backend ports.Backend) *ReportHandler {
	return &ReportHandler{backend: backend}
}

// Export fetches a report export (CSV, PDF) and triggers a local save.
//
// @Summary      Download a report export
// @Tags         screens
// @Produce      application/octet-stream
// @Success      200  {file}    file
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/reports/export/{kind} [get]
func (h *ReportHandler) Export(c echo.Context) error {
	path := strings.TrimPrefix(c.Request().URL.Path, "/api")
	if q := c.QueryString(); q != "" {
		path += "?" + q
	}

	att, err := h.backend.Download(c.Request().Context(), path)
	if err != nil {
		return err
	}

	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
	return c.Blob(http.StatusOK, contentType, att.Content)
}
