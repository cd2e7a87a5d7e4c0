package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet-api/middleware"
	"socialnet-api/services"
	"socialnet-api/utils"
)

// respondError maps the service error taxonomy to a status code. Unknown
// errors are attached to the context for logging and Sentry and answered
// with a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.SendValidationError(c, "One or more fields are invalid", verr.Fields)
	case errors.Is(err, services.ErrUnauthorized):
		utils.SendError(c, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.SendError(c, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.SendError(c, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, services.ErrInvalidOperation):
		utils.SendError(c, http.StatusBadRequest, "Invalid operation", err.Error())
	case errors.Is(err, services.ErrTransient):
		utils.SendError(c, http.StatusServiceUnavailable, "Service unavailable", "Please retry shortly")
	default:
		_ = c.Error(err)
		utils.SendError(c, http.StatusInternalServerError, "Internal server error", "An unexpected error occurred")
	}
}

func badRequest(c *gin.Context, message string) {
	utils.SendError(c, http.StatusBadRequest, "Bad request", message)
}

func principal(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

func pathUserID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !utils.IsValidUserID(id) {
		badRequest(c, "Invalid user id")
		return "", false
	}
	return id, true
}

func pathID(c *gin.Context) (uint, bool) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		badRequest(c, "Invalid id")
	}
	return id, ok
}

func pagination(c *gin.Context) (utils.Pagination, services.PageRequest, bool) {
	p, err := utils.ParsePagination(c)
	if err != nil {
		badRequest(c, err.Error())
		return p, services.PageRequest{}, false
	}
	return p, services.PageRequest{Page: p.Page, Limit: p.Limit}, true
}
