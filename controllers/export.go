package controllers

import (
	"fmt"
	"net/http"

	"laptop-request-api/middleware"
	"laptop-request-api/services"

	"github.com/gin-gonic/gin"
)

// ExportController serves CSV exports of the admin's requests.
type ExportController struct {
	exports *services.ExportService
	auth    *services.AuthService
}

func NewExportController(exports *services.ExportService, auth *services.AuthService) *ExportController {
	return &ExportController{exports: exports, auth: auth}
}

// DownloadCSV streams the export as an attachment.
func (ctl *ExportController) DownloadCSV(c *gin.Context) {
	csv, _, err := ctl.exports.BuildCSV(c.Request.Context(), middleware.AdminID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.ExportFilename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", csv)
}

// EmailCSV mails the export to the admin's registered address.
func (ctl *ExportController) EmailCSV(c *gin.Context) {
	ctx := c.Request.Context()
	admin, err := ctl.auth.Profile(ctx, middleware.AdminID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	count, err := ctl.exports.EmailCSV(ctx, admin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Export with %d requests sent to %s", count, admin.Email),
	})
}
