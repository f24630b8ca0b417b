package controllers

import (
	"net/http"

	"coleta-agenda/services"
	"coleta-agenda/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ZoneController struct {
	Zones *services.ZoneService
	Log   *zap.Logger
}

type ZoneInput struct {
	Name                string   `json:"nome_da_zona" binding:"required"`
	Color               string   `json:"cor"`
	ExpectedCollections *int     `json:"qtd_coletas_esperadas" binding:"required"`
	Days                []string `json:"dias" binding:"required"`
}

func (in ZoneInput) toService() services.ZoneInput {
	return services.ZoneInput{
		Name:                in.Name,
		Color:               in.Color,
		ExpectedCollections: in.ExpectedCollections,
		Days:                in.Days,
	}
}

func (zc *ZoneController) List(c *gin.Context) {
	zones, err := zc.Zones.List(c.Request.Context())
	if err != nil {
		respondError(c, zc.Log, err, "Erro ao listar zonas")
		return
	}
	c.JSON(http.StatusOK, zones)
}

func (zc *ZoneController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	zone, err := zc.Zones.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, zc.Log, err, "Erro ao buscar zona")
		return
	}
	c.JSON(http.StatusOK, zone)
}

func (zc *ZoneController) Create(c *gin.Context) {
	var input ZoneInput
	if !bindJSON(c, &input) {
		return
	}
	zone, err := zc.Zones.Create(c.Request.Context(), input.toService())
	if err != nil {
		respondError(c, zc.Log, err, "Erro ao criar zona")
		return
	}
	c.JSON(http.StatusCreated, zone)
}

func (zc *ZoneController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input ZoneInput
	if !bindJSON(c, &input) {
		return
	}
	zone, err := zc.Zones.Update(c.Request.Context(), id, input.toService())
	if err != nil {
		respondError(c, zc.Log, err, "Erro ao atualizar zona")
		return
	}
	c.JSON(http.StatusOK, zone)
}

func (zc *ZoneController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := zc.Zones.Delete(c.Request.Context(), id); err != nil {
		respondError(c, zc.Log, err, "Erro ao excluir zona")
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Zona excluída com sucesso")
}
