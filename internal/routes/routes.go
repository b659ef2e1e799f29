package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-facil/internal/audit"
	"github.com/BruksfildServices01/agenda-facil/internal/auth"
	"github.com/BruksfildServices01/agenda-facil/internal/config"
	"github.com/BruksfildServices01/agenda-facil/internal/handlers"
	infraRepo "github.com/BruksfildServices01/agenda-facil/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-facil/internal/metrics"
	"github.com/BruksfildServices01/agenda-facil/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/agenda-facil/internal/usecase/appointment"
)

// Deps are the process-wide collaborators built in main. Hold, Checkout and
// Photos are optional.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Audit    *audit.Dispatcher
	Registry *prometheus.Registry

	Hold     ucAppointment.SlotHolder
	Checkout handlers.CheckoutCreator
	Photos   handlers.PhotoStore
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.CORSMiddleware(),
	)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	issuer := auth.NewIssuer(d.Config.JWTSecret, auth.DefaultTTL)
	var reg prometheus.Registerer
	if d.Registry != nil {
		reg = d.Registry
	}
	m := metrics.New("agenda", reg)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	bookUC := ucAppointment.NewBookAppointment(appointmentRepo, d.Hold, d.Audit, m, d.Log)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)
	datesUC := ucAppointment.NewListBookableDates(appointmentRepo)
	statusUC := ucAppointment.NewUpdateStatus(appointmentRepo, d.Audit, m, d.Log)
	listUC := ucAppointment.NewListAppointments(appointmentRepo)
	dashboardUC := ucAppointment.NewDashboard(appointmentRepo)
	reminderUC := ucAppointment.NewReminderLink(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, issuer, d.Log)
	meHandler := handlers.NewMeHandler(d.DB, d.Photos, d.Config.PublicBaseURL, d.Log)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Audit)
	hoursHandler := handlers.NewAvailableHoursHandler(d.DB, d.Audit)
	clientHandler := handlers.NewClientHandler(d.DB)
	appointmentHandler := handlers.NewAppointmentHandler(listUC, statusUC, dashboardUC, reminderUC)
	publicHandler := handlers.NewPublicHandler(d.DB, bookUC, availabilityUC, datesUC)
	billingHandler := handlers.NewBillingHandler(d.Checkout)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(middleware.NewIPRateLimiter(d.Config.PublicPerMin).Middleware())
		{
			publicAPI.GET("/:slug", publicHandler.Profile)
			publicAPI.GET("/:slug/dates", publicHandler.Dates)
			publicAPI.GET("/:slug/slots", publicHandler.Slots)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(issuer))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me/profile", meHandler.UpdateProfile)
			secured.PUT("/me/profile/photo", meHandler.UploadPhoto)
			secured.GET("/me/booking-link", meHandler.BookingLink)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)
			secured.DELETE("/me/services/:id", serviceHandler.Delete)

			secured.GET("/me/available-hours", hoursHandler.List)
			secured.POST("/me/available-hours", hoursHandler.Create)
			secured.DELETE("/me/available-hours/:id", hoursHandler.Delete)

			secured.GET("/me/clients", clientHandler.List)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/me/appointments", appointmentHandler.List)
			secured.PATCH("/me/appointments/:id/status", appointmentHandler.UpdateStatus)
			secured.GET("/me/appointments/:id/reminder", appointmentHandler.Reminder)
			secured.GET("/me/dashboard", appointmentHandler.Dashboard)

			secured.POST("/billing/checkout", billingHandler.Checkout)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
