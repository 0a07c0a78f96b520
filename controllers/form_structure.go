package controllers

import (
	"net/http"

	"laptop-request-api/middleware"
	"laptop-request-api/models"
	"laptop-request-api/services"

	"github.com/gin-gonic/gin"
)

// FormStructureController serves the intake form schema.
type FormStructureController struct {
	forms *services.FormStructureService
}

func NewFormStructureController(forms *services.FormStructureService) *FormStructureController {
	return &FormStructureController{forms: forms}
}

// GetPublicFormStructure returns the form a submitter fills for :adminId.
func (ctl *FormStructureController) GetPublicFormStructure(c *gin.Context) {
	adminID := c.Param("adminId")
	structure, err := ctl.forms.GetFormStructure(c.Request.Context(), adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"admin_id":  adminID,
		"structure": structure,
	})
}

// GetMyFormStructure returns the authenticated admin's form.
func (ctl *FormStructureController) GetMyFormStructure(c *gin.Context) {
	structure, err := ctl.forms.GetFormStructure(c.Request.Context(), middleware.AdminID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"structure": structure,
	})
}

// SaveFormStructure replaces the authenticated admin's form wholesale.
func (ctl *FormStructureController) SaveFormStructure(c *gin.Context) {
	var structure models.FormStructure
	if err := c.ShouldBindJSON(&structure); err != nil {
		respondBindError(c, err)
		return
	}

	if err := ctl.forms.SaveFormStructure(c.Request.Context(), middleware.AdminID(c), structure); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ResultFromError(nil, "Form structure saved successfully."))
}
