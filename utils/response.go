// File: /utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Code    int               `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Data  interface{} `json:"data"`
	Page  int         `json:"page,omitempty"`
	Limit int         `json:"limit,omitempty"`
}

func SendError(c *gin.Context, status int, err, message string) {
	c.JSON(status, ErrorResponse{
		Error:   err,
		Message: message,
		Code:    status,
	})
}

// SendValidationError reports one message per offending field.
func SendValidationError(c *gin.Context, message string, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Message: message,
		Code:    http.StatusBadRequest,
		Fields:  fields,
	})
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	response := SuccessResponse{
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(http.StatusOK, response)
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

func SendList(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, ListResponse{Data: data, Page: p.Page, Limit: p.Limit})
}
