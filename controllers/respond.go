package controllers

import (
	"errors"
	"net/http"

	"laptop-request-api/services"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrLaptopRequestNotFound), errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyReturned):
		return http.StatusConflict
	}
	switch services.KindOf(err) {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindConfiguration:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondError writes {success:false, message[, fields]}.
func respondError(c *gin.Context, err error) {
	result := services.ResultFromError(err, "")
	body := gin.H{
		"success": false,
		"message": result.Message,
	}
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) && len(svcErr.Fields) > 0 {
		body["fields"] = svcErr.Fields
	}
	c.JSON(statusFor(err), body)
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Invalid request payload",
		"details": err.Error(),
	})
}
