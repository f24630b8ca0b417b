package controllers

import (
	"net/http"

	"coleta-agenda/models"
	"coleta-agenda/services"
	"coleta-agenda/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ClientController struct {
	Clients *services.ClientService
	Log     *zap.Logger
}

type AddressInput struct {
	Street       string `json:"nome_rua" binding:"required"`
	Neighborhood string `json:"bairro" binding:"required"`
	Number       string `json:"numero" binding:"required"`
}

// ClientInput is the full client payload; update requires it too.
type ClientInput struct {
	Name    string       `json:"nome_cliente" binding:"required"`
	Type    string       `json:"tipo" binding:"required"`
	Phone   string       `json:"telefone_cliente" binding:"required"`
	QRCode  string       `json:"qr_code"`
	ZoneID  uint         `json:"id_zona" binding:"required"`
	Address AddressInput `json:"endereco" binding:"required"`
}

func (in ClientInput) toService() services.ClientInput {
	return services.ClientInput{
		Name:   in.Name,
		Type:   models.ClientType(in.Type),
		Phone:  in.Phone,
		QRCode: in.QRCode,
		ZoneID: in.ZoneID,
		Address: services.AddressInput{
			Street:       in.Address.Street,
			Neighborhood: in.Address.Neighborhood,
			Number:       in.Address.Number,
		},
	}
}

func (cc *ClientController) List(c *gin.Context) {
	page, paged := utils.ParsePagination(c)
	var pp *utils.Pagination
	if paged {
		pp = &page
	}
	clients, total, err := cc.Clients.List(c.Request.Context(), services.ClientFilter{Name: c.Query("nome")}, pp)
	if err != nil {
		respondError(c, cc.Log, err, "Erro ao listar clientes")
		return
	}
	if paged {
		c.JSON(http.StatusOK, gin.H{"data": clients, "meta": utils.NewPageMeta(page, total)})
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (cc *ClientController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	client, err := cc.Clients.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, cc.Log, err, "Erro ao buscar cliente")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (cc *ClientController) GetByQRCode(c *gin.Context) {
	client, err := cc.Clients.GetByQRCode(c.Request.Context(), c.Param("qr_code"))
	if err != nil {
		respondError(c, cc.Log, err, "Erro ao buscar cliente")
		return
	}
	c.JSON(http.StatusOK, client)
}

// LookupByPhone is the chatbot's view of a client: identity plus pending
// appointments.
func (cc *ClientController) LookupByPhone(c *gin.Context) {
	summary, err := cc.Clients.PendingByPhone(c.Request.Context(), c.Param("telefone"))
	if err != nil {
		respondError(c, cc.Log, err, "Erro ao buscar cliente")
		return
	}
	pending := make([]gin.H, 0, len(summary.Pending))
	for _, a := range summary.Pending {
		pending = append(pending, gin.H{
			"id_agendamento": a.ID,
			"dia_agendado":   utils.FormatDate(a.ScheduledDate),
			"turno_agendado": a.Shift,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"id_cliente":      summary.Client.ID,
		"nome_cliente":    summary.Client.Name,
		"tem_agendamento": len(pending) > 0,
		"agendamentos":    pending,
	})
}

func (cc *ClientController) Create(c *gin.Context) {
	var input ClientInput
	if !bindJSON(c, &input) {
		return
	}
	client, err := cc.Clients.Create(c.Request.Context(), input.toService())
	if err != nil {
		respondError(c, cc.Log, err, "Erro ao criar cliente")
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (cc *ClientController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input ClientInput
	if !bindJSON(c, &input) {
		return
	}
	client, err := cc.Clients.Update(c.Request.Context(), id, input.toService())
	if err != nil {
		respondError(c, cc.Log, err, "Erro ao atualizar cliente")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (cc *ClientController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := cc.Clients.Delete(c.Request.Context(), id); err != nil {
		respondError(c, cc.Log, err, "Erro ao excluir cliente")
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Cliente excluído com sucesso")
}
