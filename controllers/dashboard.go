package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard returns the landing page counters, the pickups due in the next
// seven days and the latest clients.
func (rc *ReportController) Dashboard(c *gin.Context) {
	overview, err := rc.Reports.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, rc.Log, err, "Erro ao carregar o painel")
		return
	}
	c.JSON(http.StatusOK, overview)
}
