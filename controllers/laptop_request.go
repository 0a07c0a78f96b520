// controllers/laptop_request.go - Laptop request submission, listing and return

package controllers

import (
	"net/http"

	"laptop-request-api/middleware"
	"laptop-request-api/services"

	"github.com/gin-gonic/gin"
)

// LaptopRequestController serves submissions and the admin request dashboard.
type LaptopRequestController struct {
	forms    *services.FormStructureService
	requests *services.LaptopRequestService
}

func NewLaptopRequestController(forms *services.FormStructureService, requests *services.LaptopRequestService) *LaptopRequestController {
	return &LaptopRequestController{forms: forms, requests: requests}
}

// SubmitLaptopRequest validates a filled form against :adminId's current
// structure and stores it as Checked Out.
func (ctl *LaptopRequestController) SubmitLaptopRequest(c *gin.Context) {
	var input services.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	input.AdminID = c.Param("adminId")

	ctx := c.Request.Context()
	structure, err := ctl.forms.GetFormStructure(ctx, input.AdminID)
	if err != nil {
		respondError(c, err)
		return
	}

	input = services.PrepareSubmission(structure, input)
	if err := services.ValidateSubmission(structure, input); err != nil {
		respondError(c, err)
		return
	}

	record, err := ctl.requests.Submit(ctx, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Laptop request submitted successfully.",
		"id":      record.ID,
	})
}

// ListLaptopRequests returns the admin's requests, newest first.
func (ctl *LaptopRequestController) ListLaptopRequests(c *gin.Context) {
	records, err := ctl.requests.ListSubmissions(c.Request.Context(), middleware.AdminID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"requests": records,
		"total":    len(records),
	})
}

// GetLaptopRequest returns one of the admin's requests.
func (ctl *LaptopRequestController) GetLaptopRequest(c *gin.Context) {
	record, err := ctl.requests.GetSubmission(c.Request.Context(), middleware.AdminID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"request": record,
	})
}

// RecordLaptopReturn marks a request Returned.
func (ctl *LaptopRequestController) RecordLaptopReturn(c *gin.Context) {
	var input services.ReturnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	input.AdminID = middleware.AdminID(c)
	input.ID = c.Param("id")

	if err := ctl.requests.RecordReturn(c.Request.Context(), input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ResultFromError(nil, "Laptop return updated successfully."))
}
