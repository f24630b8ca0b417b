package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"coleta-agenda/services"
	"coleta-agenda/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service error categories to status codes. Anything
// uncategorised is logged and answered with the fallback message.
func respondError(c *gin.Context, log *zap.Logger, err error, fallback string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error(fallback,
			zap.String("request_id", c.GetString("requestId")),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		utils.RespondWithError(c, status, fallback)
		return
	}
	utils.RespondWithError(c, status, err.Error())
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return false
	}
	return true
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "ID inválido")
		return 0, false
	}
	return uint(id), true
}

// actor builds the event-log actor from the request context.
func actor(c *gin.Context, source string, userID *uint) services.Actor {
	a := services.Actor{Source: source, UserID: userID}
	if id, ok := utils.CurrentAdminID(c); ok {
		a.AdminID = &id
	}
	return a
}

func parseDateField(c *gin.Context, field, value string) (time.Time, bool) {
	d, err := utils.ParseDate(value)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Campo "+field+" com data inválida")
		return time.Time{}, false
	}
	return d, true
}
