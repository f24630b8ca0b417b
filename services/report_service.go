package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coleta-agenda/models"
	"coleta-agenda/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// MaxExpectedReportDays bounds the calendar report, counted as end minus start.
	MaxExpectedReportDays = 31
	MaxTotalsReportDays   = 366

	undefinedZoneName  = "Não definida"
	undefinedZoneColor = "cinza"
)

// PeriodQuery is the raw filter set shared by the report endpoints.
type PeriodQuery struct {
	StartDate  string
	EndDate    string
	ClientName string
	ZoneName   string
}

type Period struct {
	Start time.Time
	End   time.Time
}

// Days counts the dates in the period, both ends included.
func (p Period) Days() int {
	return utils.DaysBetween(p.Start, p.End) + 1
}

// ParsePeriod validates startDate and endDate. The period may span at most
// maxDays days past its start; zero means no cap.
func ParsePeriod(startRaw, endRaw string, maxDays int) (Period, error) {
	if strings.TrimSpace(startRaw) == "" || strings.TrimSpace(endRaw) == "" {
		return Period{}, ErrMissingPeriod
	}
	start, err := utils.ParseDate(startRaw)
	if err != nil {
		return Period{}, validationf("Data inicial inválida")
	}
	end, err := utils.ParseDate(endRaw)
	if err != nil {
		return Period{}, validationf("Data final inválida")
	}
	p := Period{Start: start, End: end}
	if end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	if maxDays > 0 && utils.DaysBetween(start, end) > maxDays {
		return Period{}, validationf("O intervalo entre as datas não pode ultrapassar %d dias.", maxDays)
	}
	return p, nil
}

type ZoneTag struct {
	Name  string `json:"nome_da_zona"`
	Color string `json:"cor"`
}

func zoneTag(z *models.Zone) ZoneTag {
	if z == nil {
		return ZoneTag{Name: undefinedZoneName, Color: undefinedZoneColor}
	}
	return ZoneTag{Name: z.Name, Color: z.Color}
}

func clientZoneOf(c *models.Client) *models.Zone {
	if c.Address == nil {
		return nil
	}
	return c.Address.Zone
}

type ExpectedRow struct {
	ClientID   uint      `json:"id_cliente"`
	ClientName string    `json:"nome_cliente"`
	Zone       string    `json:"zona"`
	Color      string    `json:"cor"`
	Dates      []string  `json:"datas_previstas"`
	Realized   []string  `json:"datas_realizadas"`
	Cancelled  []string  `json:"datas_canceladas"`
	Pending    []string  `json:"datas_pendentes"`
	Total      int       `json:"total_previstos"`
	Calendar   []DayMark `json:"calendario"`
}

type TotalsRow struct {
	ClientID   uint   `json:"id_cliente"`
	ClientName string `json:"nome_cliente"`
	Zone       string `json:"zona"`
	Color      string `json:"cor"`
	Totals
}

type RealizedRow struct {
	ClientID   uint     `json:"id_cliente"`
	ClientName string   `json:"nome_cliente"`
	Zone       ZoneTag  `json:"zona"`
	Count      int      `json:"realizadas"`
	Days       []string `json:"dias_realizados"`
}

type CancelledRow struct {
	ID      uint    `json:"id"`
	Client  string  `json:"cliente"`
	Date    string  `json:"data_agendada"`
	Shift   string  `json:"turno"`
	Status  string  `json:"status"`
	Address string  `json:"endereco"`
	Zone    ZoneTag `json:"zona"`
	Notes   string  `json:"observacoes"`
}

type ReportService struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewReportService(db *gorm.DB, log *zap.Logger) *ReportService {
	return &ReportService{db: db, log: log, now: time.Now}
}

// scopeClients loads the clients matching the optional name substring and
// exact zone name. An unknown zone name is ErrZoneNotFound.
func (s *ReportService) scopeClients(ctx context.Context, clientName, zoneName string) ([]models.Client, error) {
	db := s.db.WithContext(ctx)
	q := db.Model(&models.Client{}).Preload("Address.Zone")

	if zoneName = strings.TrimSpace(zoneName); zoneName != "" {
		var zone models.Zone
		err := db.Where("name = ?", zoneName).Limit(1).Find(&zone).Error
		if err != nil {
			return nil, storeError("find zone", err)
		}
		if zone.ID == 0 {
			return nil, ErrZoneNotFound
		}
		q = q.Where("address_id IN (?)", db.Model(&models.Address{}).Select("id").Where("zone_id = ?", zone.ID))
	}
	if clientName = strings.TrimSpace(clientName); clientName != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(clientName)+"%")
	}

	var clients []models.Client
	if err := q.Order("name ASC, id ASC").Find(&clients).Error; err != nil {
		return nil, storeError("list report clients", err)
	}
	return clients, nil
}

// appointmentsInPeriod groups, by client, the appointments whose effective
// date falls in the period.
func (s *ReportService) appointmentsInPeriod(ctx context.Context, clients []models.Client, p Period) (map[uint][]models.Appointment, error) {
	out := make(map[uint][]models.Appointment, len(clients))
	if len(clients) == 0 {
		return out, nil
	}
	ids := make([]uint, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ID)
	}
	var appts []models.Appointment
	if err := s.db.WithContext(ctx).
		Where("client_id IN ?", ids).
		Where("COALESCE(realized_date, scheduled_date) BETWEEN ? AND ?", p.Start, p.End).
		Order("id ASC").
		Find(&appts).Error; err != nil {
		return nil, storeError("list period appointments", err)
	}
	for _, a := range appts {
		out[a.ClientID] = append(out[a.ClientID], a)
	}
	return out, nil
}

func (s *ReportService) reconcile(ctx context.Context, q PeriodQuery, maxDays int, each func(models.Client, *models.Zone, *Reconciliation)) error {
	period, err := ParsePeriod(q.StartDate, q.EndDate, maxDays)
	if err != nil {
		return err
	}
	clients, err := s.scopeClients(ctx, q.ClientName, q.ZoneName)
	if err != nil {
		return err
	}
	byClient, err := s.appointmentsInPeriod(ctx, clients, period)
	if err != nil {
		return err
	}
	for _, c := range clients {
		zone := clientZoneOf(&c)
		var days WeekdaySet
		if zone != nil {
			days = ParseWeekdays(zone.Days)
		}
		r, err := Reconcile(days, period.Start, period.End, byClient[c.ID])
		if err != nil {
			return fmt.Errorf("reconcile client %d: %w", c.ID, err)
		}
		each(c, zone, r)
	}
	return nil
}

// ExpectedReport is the calendar view: for each client, every reportable
// date with its classification.
func (s *ReportService) ExpectedReport(ctx context.Context, q PeriodQuery) ([]ExpectedRow, error) {
	today := s.now()
	rows := []ExpectedRow{}
	err := s.reconcile(ctx, q, MaxExpectedReportDays, func(c models.Client, zone *models.Zone, r *Reconciliation) {
		tag := zoneTag(zone)
		dates := r.Dates()
		rows = append(rows, ExpectedRow{
			ClientID:   c.ID,
			ClientName: c.Name,
			Zone:       tag.Name,
			Color:      tag.Color,
			Dates:      dates,
			Realized:   r.Realized(),
			Cancelled:  r.Cancelled(),
			Pending:    r.Pending(),
			Total:      len(dates),
			Calendar:   r.Calendar(today),
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TotalsReport reduces each client's expected dates to three counts.
func (s *ReportService) TotalsReport(ctx context.Context, q PeriodQuery) ([]TotalsRow, error) {
	rows := []TotalsRow{}
	err := s.reconcile(ctx, q, MaxTotalsReportDays, func(c models.Client, zone *models.Zone, r *Reconciliation) {
		tag := zoneTag(zone)
		rows = append(rows, TotalsRow{
			ClientID:   c.ID,
			ClientName: c.Name,
			Zone:       tag.Name,
			Color:      tag.Color,
			Totals:     r.Totals(),
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RealizedReport groups realized pickups by client. The period is optional
// here; when given it applies to the realized date.
func (s *ReportService) RealizedReport(ctx context.Context, q PeriodQuery) ([]RealizedRow, error) {
	var period *Period
	if q.StartDate != "" || q.EndDate != "" {
		p, err := ParsePeriod(q.StartDate, q.EndDate, 0)
		if err != nil {
			return nil, err
		}
		period = &p
	}
	clients, err := s.scopeClients(ctx, q.ClientName, q.ZoneName)
	if err != nil {
		return nil, err
	}
	rows := []RealizedRow{}
	if len(clients) == 0 {
		return rows, nil
	}
	ids := make([]uint, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ID)
	}

	query := s.db.WithContext(ctx).
		Where("client_id IN ?", ids).
		Where("status = ?", models.StatusRealized)
	if period != nil {
		query = query.Where("COALESCE(realized_date, scheduled_date) BETWEEN ? AND ?", period.Start, period.End)
	}
	var appts []models.Appointment
	if err := query.Order("id ASC").Find(&appts).Error; err != nil {
		return nil, storeError("list realized appointments", err)
	}

	byClient := make(map[uint][]models.Appointment)
	for _, a := range appts {
		byClient[a.ClientID] = append(byClient[a.ClientID], a)
	}
	for _, c := range clients {
		done := byClient[c.ID]
		if len(done) == 0 {
			continue
		}
		days := dateSet{}
		for _, a := range done {
			days.add(utils.FormatDate(utils.CivilDate(a.EffectiveDate())))
		}
		rows = append(rows, RealizedRow{
			ClientID:   c.ID,
			ClientName: c.Name,
			Zone:       zoneTag(clientZoneOf(&c)),
			Count:      len(done),
			Days:       days.sorted(),
		})
	}
	return rows, nil
}

// CancelledReport lists cancelled appointments, optionally filtered by a
// client name substring.
func (s *ReportService) CancelledReport(ctx context.Context, clientName string) ([]CancelledRow, error) {
	db := s.db.WithContext(ctx)
	q := db.Preload("Client.Address").Preload("Zone").
		Where("status = ?", models.StatusCancelled)
	if name := strings.TrimSpace(clientName); name != "" {
		q = q.Where("client_id IN (?)", db.Model(&models.Client{}).Select("id").
			Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%"))
	}
	var appts []models.Appointment
	if err := q.Order("id ASC").Find(&appts).Error; err != nil {
		return nil, storeError("list cancelled appointments", err)
	}

	rows := make([]CancelledRow, 0, len(appts))
	for _, a := range appts {
		row := CancelledRow{
			ID:     a.ID,
			Date:   utils.FormatDate(a.ScheduledDate),
			Shift:  a.Shift,
			Status: string(a.Status),
			Zone:   ZoneTag{Name: "Não atribuída", Color: "default"},
			Notes:  a.Notes,
		}
		if a.Zone != nil {
			row.Zone = zoneTag(a.Zone)
		}
		if a.Client != nil {
			row.Client = a.Client.Name
			if addr := a.Client.Address; addr != nil {
				row.Address = fmt.Sprintf("%s, %s, %s", addr.Street, addr.Number, addr.Neighborhood)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type UpcomingAppointment struct {
	ID     uint   `json:"id_agendamento"`
	Client string `json:"nome_cliente"`
	Shift  string `json:"turno"`
	Date   string `json:"data"`
	When   string `json:"quando"`
}

type RecentClient struct {
	ID        uint   `json:"id_cliente"`
	Name      string `json:"nome_cliente"`
	CreatedAt string `json:"cadastrado"`
}

type DashboardOverview struct {
	TotalClients         int64                 `json:"totalClientes"`
	TotalZones           int64                 `json:"totalZonas"`
	TotalUsers           int64                 `json:"totalUsuarios"`
	PendingAppointments  int64                 `json:"agendamentosPendentes"`
	RealizedThisMonth    int64                 `json:"realizadasNoMes"`
	CancelledThisMonth   int64                 `json:"canceladasNoMes"`
	UpcomingAppointments []UpcomingAppointment `json:"proximosAgendamentos"`
	RecentClients        []RecentClient        `json:"clientesRecentes"`
}

func relativeDay(days int) string {
	switch {
	case days == 0:
		return "Hoje"
	case days == 1:
		return "Amanhã"
	case days == -1:
		return "Ontem"
	case days < 0:
		return fmt.Sprintf("há %d dias", -days)
	default:
		return fmt.Sprintf("em %d dias", days)
	}
}

// Dashboard gathers the counters shown on the landing page.
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardOverview, error) {
	db := s.db.WithContext(ctx)
	today := utils.CivilDate(s.now())
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	var out DashboardOverview
	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&out.TotalClients, db.Model(&models.Client{})},
		{&out.TotalZones, db.Model(&models.Zone{})},
		{&out.TotalUsers, db.Model(&models.User{})},
		{&out.PendingAppointments, db.Model(&models.Appointment{}).Where("status = ?", models.StatusPending)},
		{&out.RealizedThisMonth, db.Model(&models.Appointment{}).
			Where("status = ? AND realized_date BETWEEN ? AND ?", models.StatusRealized, firstOfMonth, lastOfMonth)},
		{&out.CancelledThisMonth, db.Model(&models.Appointment{}).
			Where("status = ? AND scheduled_date BETWEEN ? AND ?", models.StatusCancelled, firstOfMonth, lastOfMonth)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, storeError("dashboard count", err)
		}
	}

	var upcoming []models.Appointment
	if err := db.Preload("Client").
		Where("status = ? AND scheduled_date BETWEEN ? AND ?", models.StatusPending, today, today.AddDate(0, 0, 6)).
		Order("scheduled_date ASC, id ASC").
		Limit(7).
		Find(&upcoming).Error; err != nil {
		return nil, storeError("dashboard upcoming", err)
	}
	out.UpcomingAppointments = make([]UpcomingAppointment, 0, len(upcoming))
	for _, a := range upcoming {
		item := UpcomingAppointment{
			ID:    a.ID,
			Shift: a.Shift,
			Date:  utils.FormatDate(a.ScheduledDate),
			When:  relativeDay(utils.DaysBetween(today, a.ScheduledDate)),
		}
		if a.Client != nil {
			item.Client = a.Client.Name
		}
		out.UpcomingAppointments = append(out.UpcomingAppointments, item)
	}

	var recent []models.Client
	if err := db.Order("created_at DESC, id DESC").Limit(3).Find(&recent).Error; err != nil {
		return nil, storeError("dashboard recent clients", err)
	}
	out.RecentClients = make([]RecentClient, 0, len(recent))
	for _, c := range recent {
		out.RecentClients = append(out.RecentClients, RecentClient{
			ID:        c.ID,
			Name:      c.Name,
			CreatedAt: relativeDay(utils.DaysBetween(today, c.CreatedAt)),
		})
	}
	return &out, nil
}
