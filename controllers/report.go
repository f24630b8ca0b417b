package controllers

import (
	"fmt"
	"net/http"

	"coleta-agenda/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportController serves the reconciliation reports and the dashboard.
type ReportController struct {
	Reports *services.ReportService
	Log     *zap.Logger
}

func periodQuery(c *gin.Context) services.PeriodQuery {
	return services.PeriodQuery{
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
		ClientName: c.Query("nomeCliente"),
		ZoneName:   c.Query("nomeZona"),
	}
}

// Expected returns the per-client calendar for a period of at most 31 days.
func (rc *ReportController) Expected(c *gin.Context) {
	rows, err := rc.Reports.ExpectedReport(c.Request.Context(), periodQuery(c))
	if err != nil {
		respondError(c, rc.Log, err, "Erro ao gerar relatório de coletas previstas")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (rc *ReportController) Totals(c *gin.Context) {
	rows, err := rc.Reports.TotalsReport(c.Request.Context(), periodQuery(c))
	if err != nil {
		respondError(c, rc.Log, err, "Erro ao gerar relatório de coletas por cliente")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (rc *ReportController) ExportTotals(c *gin.Context) {
	q := periodQuery(c)
	data, err := rc.Reports.ExportTotals(c.Request.Context(), q)
	if err != nil {
		respondError(c, rc.Log, err, "Erro ao exportar relatório")
		return
	}
	filename := fmt.Sprintf("coletas_%s_%s.xlsx", q.StartDate, q.EndDate)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (rc *ReportController) Realized(c *gin.Context) {
	rows, err := rc.Reports.RealizedReport(c.Request.Context(), periodQuery(c))
	if err != nil {
		respondError(c, rc.Log, err, "Erro ao gerar relatório de coletas realizadas")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (rc *ReportController) Cancelled(c *gin.Context) {
	rows, err := rc.Reports.CancelledReport(c.Request.Context(), c.Query("nomeCliente"))
	if err != nil {
		respondError(c, rc.Log, err, "Erro ao gerar relatório de agendamentos cancelados")
		return
	}
	c.JSON(http.StatusOK, rows)
}
