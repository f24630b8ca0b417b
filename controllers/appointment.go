package controllers

import (
	"net/http"

	"coleta-agenda/models"
	"coleta-agenda/services"
	"coleta-agenda/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AppointmentController struct {
	Appointments *services.AppointmentService
	Log          *zap.Logger
}

type AppointmentInput struct {
	Date     string `json:"dia_agendado" binding:"required"`
	Shift    string `json:"turno_agendado" binding:"required"`
	Notes    string `json:"observacoes"`
	ClientID uint   `json:"id_cliente" binding:"required"`
	UserID   *uint  `json:"id_usuario"`
}

type PhoneAppointmentInput struct {
	Phone string `json:"telefone_cliente" binding:"required"`
	Date  string `json:"dia_agendado" binding:"required"`
	Shift string `json:"turno_agendado" binding:"required"`
	Notes string `json:"observacoes"`
}

type RegisterInput struct {
	QRCode string `json:"qr_code" binding:"required"`
	Date   string `json:"dia_realizado" binding:"required"`
	Time   string `json:"hora_realizado"`
	UserID *uint  `json:"id_usuario"`
	Shift  string `json:"turno_agendado"`
}

type CompleteInput struct {
	Date   string `json:"dia_realizado" binding:"required"`
	Time   string `json:"hora_realizado"`
	UserID *uint  `json:"id_usuario"`
}

type RescheduleInput struct {
	Date  string `json:"dia_agendado" binding:"required"`
	Shift string `json:"turno_agendado" binding:"required"`
	Notes string `json:"observacoes"`
}

// AppointmentView is the flattened shape the panel lists.
type AppointmentView struct {
	ID            uint    `json:"id_agendamento"`
	ClientID      uint    `json:"id_cliente"`
	ClientName    string  `json:"nome_cliente"`
	QRCode        string  `json:"qr_code"`
	Phone         string  `json:"telefone_cliente"`
	Zone          string  `json:"zona"`
	ZoneColor     string  `json:"cor"`
	ScheduledDate string  `json:"data_agendada"`
	Shift         string  `json:"turno"`
	Responsible   string  `json:"responsavel"`
	Notes         string  `json:"observacoes"`
	Status        string  `json:"status"`
	RealizedDate  *string `json:"dia_realizado"`
	RealizedTime  *string `json:"horario_realizado"`
}

func newAppointmentView(a *models.Appointment) AppointmentView {
	v := AppointmentView{
		ID:            a.ID,
		ClientID:      a.ClientID,
		ScheduledDate: utils.FormatDate(a.ScheduledDate),
		Shift:         a.Shift,
		Notes:         a.Notes,
		Status:        string(a.Status),
		RealizedTime:  a.RealizedTime,
		Zone:          "Não atribuída",
		Responsible:   "Não atribuído",
	}
	if a.Client != nil {
		v.ClientName = a.Client.Name
		v.QRCode = a.Client.QRCode
		v.Phone = a.Client.Phone
	}
	if a.Zone != nil {
		v.Zone = a.Zone.Name
		v.ZoneColor = a.Zone.Color
	}
	if a.User != nil {
		v.Responsible = a.User.Name
	}
	if a.RealizedDate != nil {
		d := utils.FormatDate(*a.RealizedDate)
		v.RealizedDate = &d
	}
	return v
}

func newAppointmentViews(appts []models.Appointment) []AppointmentView {
	out := make([]AppointmentView, 0, len(appts))
	for i := range appts {
		out = append(out, newAppointmentView(&appts[i]))
	}
	return out
}

func (ac *AppointmentController) List(c *gin.Context) {
	filter := services.AppointmentFilter{Status: models.AppointmentStatus(c.Query("status"))}
	appts, err := ac.Appointments.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao listar agendamentos")
		return
	}
	c.JSON(http.StatusOK, newAppointmentViews(appts))
}

func (ac *AppointmentController) ListPending(c *gin.Context) {
	appts, err := ac.Appointments.List(c.Request.Context(), services.AppointmentFilter{Status: models.StatusPending})
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao listar agendamentos pendentes")
		return
	}
	c.JSON(http.StatusOK, newAppointmentViews(appts))
}

func (ac *AppointmentController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	appt, err := ac.Appointments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao buscar agendamento")
		return
	}
	c.JSON(http.StatusOK, newAppointmentView(appt))
}

func (ac *AppointmentController) History(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	events, err := ac.Appointments.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao buscar histórico")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (ac *AppointmentController) Create(c *gin.Context) {
	var input AppointmentInput
	if !bindJSON(c, &input) {
		return
	}
	date, ok := parseDateField(c, "dia_agendado", input.Date)
	if !ok {
		return
	}
	appt, err := ac.Appointments.Create(c.Request.Context(), services.AppointmentInput{
		ClientID: input.ClientID,
		Date:     date,
		Shift:    input.Shift,
		Notes:    input.Notes,
		UserID:   input.UserID,
	}, actor(c, models.SourcePanel, nil))
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao criar agendamento")
		return
	}
	c.JSON(http.StatusCreated, newAppointmentView(appt))
}

func (ac *AppointmentController) CreateByPhone(c *gin.Context) {
	var input PhoneAppointmentInput
	if !bindJSON(c, &input) {
		return
	}
	date, ok := parseDateField(c, "dia_agendado", input.Date)
	if !ok {
		return
	}
	appt, err := ac.Appointments.CreateByPhone(c.Request.Context(), input.Phone, services.AppointmentInput{
		Date:  date,
		Shift: input.Shift,
		Notes: input.Notes,
	}, actor(c, models.SourceChatbot, nil))
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao criar agendamento")
		return
	}
	c.JSON(http.StatusCreated, newAppointmentView(appt))
}

// Register records a pickup scanned by QR code. 201 when a new record was
// created, 200 when an existing one was completed or already done.
func (ac *AppointmentController) Register(c *gin.Context) {
	var input RegisterInput
	if !bindJSON(c, &input) {
		return
	}
	date, ok := parseDateField(c, "dia_realizado", input.Date)
	if !ok {
		return
	}
	appt, created, err := ac.Appointments.RegisterByQRCode(c.Request.Context(), input.QRCode, services.CompletionInput{
		Date:   date,
		Time:   input.Time,
		UserID: input.UserID,
		Shift:  input.Shift,
	}, actor(c, models.SourceQRCode, input.UserID))
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao registrar coleta")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, newAppointmentView(appt))
}

func (ac *AppointmentController) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input CompleteInput
	if !bindJSON(c, &input) {
		return
	}
	date, ok := parseDateField(c, "dia_realizado", input.Date)
	if !ok {
		return
	}
	appt, err := ac.Appointments.MarkDone(c.Request.Context(), id, services.CompletionInput{
		Date:   date,
		Time:   input.Time,
		UserID: input.UserID,
	}, actor(c, models.SourcePanel, input.UserID))
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao concluir agendamento")
		return
	}
	c.JSON(http.StatusOK, newAppointmentView(appt))
}

func (ac *AppointmentController) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	appt, err := ac.Appointments.Cancel(c.Request.Context(), id, actor(c, models.SourcePanel, nil))
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao cancelar agendamento")
		return
	}
	c.JSON(http.StatusOK, newAppointmentView(appt))
}

func (ac *AppointmentController) RescheduleByPhone(c *gin.Context) {
	var input RescheduleInput
	if !bindJSON(c, &input) {
		return
	}
	date, ok := parseDateField(c, "dia_agendado", input.Date)
	if !ok {
		return
	}
	appt, err := ac.Appointments.RescheduleByPhone(c.Request.Context(), c.Param("telefone"), services.RescheduleInput{
		Date:  date,
		Shift: input.Shift,
		Notes: input.Notes,
	}, actor(c, models.SourceChatbot, nil))
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao reagendar")
		return
	}
	c.JSON(http.StatusOK, newAppointmentView(appt))
}

func (ac *AppointmentController) CancelByPhone(c *gin.Context) {
	appt, err := ac.Appointments.CancelByPhone(c.Request.Context(), c.Param("telefone"), actor(c, models.SourceChatbot, nil))
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao cancelar agendamento")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Agendamento cancelado com sucesso",
		"agendamento": newAppointmentView(appt),
	})
}

type CollectionQRInput struct {
	QRCode string `json:"qr_code" binding:"required"`
	Date   string `json:"diaRealizado" binding:"required"`
	Time   string `json:"horarioRealizado"`
	UserID *uint  `json:"id_usuario"`
}

// Collections lists realized pickups under the legacy /coletas path.
func (ac *AppointmentController) Collections(c *gin.Context) {
	appts, err := ac.Appointments.Collections(c.Request.Context())
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao listar coletas")
		return
	}
	c.JSON(http.StatusOK, newAppointmentViews(appts))
}

func (ac *AppointmentController) Collection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	appt, err := ac.Appointments.Collection(c.Request.Context(), id)
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao buscar coleta")
		return
	}
	c.JSON(http.StatusOK, newAppointmentView(appt))
}

// CollectByQRCode keeps the legacy collection payload and records the pickup
// through the same path as PUT /agendamentos/registro.
func (ac *AppointmentController) CollectByQRCode(c *gin.Context) {
	var input CollectionQRInput
	if !bindJSON(c, &input) {
		return
	}
	date, ok := parseDateField(c, "diaRealizado", input.Date)
	if !ok {
		return
	}
	appt, created, err := ac.Appointments.RegisterByQRCode(c.Request.Context(), input.QRCode, services.CompletionInput{
		Date:   date,
		Time:   input.Time,
		UserID: input.UserID,
	}, actor(c, models.SourceQRCode, input.UserID))
	if err != nil {
		respondError(c, ac.Log, err, "Erro ao registrar coleta")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, newAppointmentView(appt))
}
