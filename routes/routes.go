package routes

import (
	"net/http"
	"time"

	"coleta-agenda/config"
	"coleta-agenda/controllers"
	"coleta-agenda/services"
	"coleta-agenda/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the router needs to build its controllers.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	Notifier services.Notifier
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", utils.APIKeyHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(config.PerformanceLogger(d.Log))
	r.Use(gin.Recovery())

	secret := d.Config.JWTSecret
	bearer := utils.AuthMiddleware(secret)
	chatbot := utils.BearerOrAPIKey(secret, d.Config.APIKey)

	admins := &controllers.AdminController{
		Admins: services.NewAdminService(d.DB, d.Log, services.TokenIssuer{Secret: secret, TTL: d.Config.JWTExpiry}),
		Log:    d.Log,
	}
	users := &controllers.UserController{Users: services.NewUserService(d.DB, d.Log), Log: d.Log}
	zones := &controllers.ZoneController{Zones: services.NewZoneService(d.DB, d.Log), Log: d.Log}
	clients := &controllers.ClientController{Clients: services.NewClientService(d.DB, d.Log), Log: d.Log}
	appointments := &controllers.AppointmentController{
		Appointments: services.NewAppointmentService(d.DB, d.Log, d.Notifier),
		Log:          d.Log,
	}
	reports := &controllers.ReportController{Reports: services.NewReportService(d.DB, d.Log), Log: d.Log}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "online"})
	})

	admin := r.Group("/admin")
	{
		admin.POST("/login", admins.Login)
		admin.POST("/redefinir", admins.Reset)

		admin.Use(bearer)
		admin.POST("/register", admins.Register)
		admin.GET("/me", admins.Me)
		admin.GET("", admins.List)
		admin.GET("/:id", admins.Get)
		admin.PUT("/:id", admins.Update)
		admin.DELETE("/:id", admins.Delete)
	}

	usuarios := r.Group("/usuarios")
	{
		usuarios.POST("/login", users.Login)

		usuarios.Use(bearer)
		usuarios.GET("", users.List)
		usuarios.POST("", users.Create)
		usuarios.POST("/excluir-lote", users.BulkDelete)
		usuarios.GET("/:id", users.Get)
		usuarios.PUT("/:id", users.Update)
		usuarios.DELETE("/:id", users.Delete)
	}

	zonas := r.Group("/zonas", bearer)
	{
		zonas.GET("", zones.List)
		zonas.POST("", zones.Create)
		zonas.GET("/:id", zones.Get)
		zonas.PUT("/:id", zones.Update)
		zonas.DELETE("/:id", zones.Delete)
	}

	clientes := r.Group("/clientes")
	{
		clientes.GET("/telefone/:telefone", chatbot, clients.LookupByPhone)
		clientes.GET("/qrcode/:qr_code", bearer, clients.GetByQRCode)
		clientes.GET("", bearer, clients.List)
		clientes.POST("", bearer, clients.Create)
		clientes.GET("/:id", bearer, clients.Get)
		clientes.PUT("/:id", bearer, clients.Update)
		clientes.DELETE("/:id", bearer, clients.Delete)
	}

	agendamentos := r.Group("/agendamentos")
	{
		// Chatbot routes take either a bearer token or the API key.
		agendamentos.POST("/telefone", chatbot, appointments.CreateByPhone)
		agendamentos.PUT("/telefone/:telefone", chatbot, appointments.RescheduleByPhone)
		agendamentos.DELETE("/telefone/:telefone", chatbot, appointments.CancelByPhone)
		agendamentos.GET("/pendentes", chatbot, appointments.ListPending)
		// Collectors scan QR codes from the field app, which holds the API key.
		agendamentos.PUT("/registro", chatbot, appointments.Register)

		agendamentos.GET("", bearer, appointments.List)
		agendamentos.POST("", bearer, appointments.Create)
		agendamentos.GET("/:id", bearer, appointments.Get)
		agendamentos.GET("/:id/historico", bearer, appointments.History)
		agendamentos.PUT("/:id/realizar", bearer, appointments.Complete)
		agendamentos.PUT("/:id/cancelar", bearer, appointments.Cancel)
	}

	coletas := r.Group("/coletas")
	{
		coletas.GET("", bearer, appointments.Collections)
		coletas.GET("/:id", bearer, appointments.Collection)
		coletas.POST("/coleta-qrcode", chatbot, appointments.CollectByQRCode)
	}

	relatorios := r.Group("/relatorios", bearer)
	{
		relatorios.GET("/painel", reports.Dashboard)
		relatorios.GET("/coletas-previstas", reports.Expected)
		relatorios.GET("/coletas-por-cliente", reports.Totals)
		relatorios.GET("/coletas-por-cliente/exportar", reports.ExportTotals)
		relatorios.GET("/coletas-realizadas", reports.Realized)
		relatorios.GET("/agendamentos-cancelados", reports.Cancelled)
	}

	return r
}
