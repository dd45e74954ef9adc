package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/social-service/internal/services"
	"github.com/SAP-F-2025/social-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CertificationHandler struct {
	BaseHandler
	service services.CertificationService
}

func NewCertificationHandler(service services.CertificationService, logger utils.Logger) *CertificationHandler {
	return &CertificationHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListCertifications lists the courses a profile has completed
// @Summary List certifications
// @Tags certifications
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} map[string]interface{} "Course list"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /profiles/{id}/certifications [get]
func (h *CertificationHandler) ListCertifications(c *gin.Context) {
	profileID := c.Param("id")
	h.LogRequest(c, "Listing certifications", "profile_id", profileID)

	records, err := h.service.List(c.Request.Context(), profileID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courses": records,
		"total":   len(records),
	})
}

// ExportCertifications downloads the course list as a spreadsheet
// @Summary Export certifications
// @Tags certifications
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Profile ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /profiles/{id}/certifications/export [get]
func (h *CertificationHandler) ExportCertifications(c *gin.Context) {
	profileID := c.Param("id")
	h.LogRequest(c, "Exporting certifications", "profile_id", profileID)

	data, err := h.service.Export(c.Request.Context(), profileID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="certifications-%s.xlsx"`, profileID))
	c.Data(http.StatusOK, xlsxContentType, data)
}
