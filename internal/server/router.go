// Package server assembles the HTTP router from services and infrastructure.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "clinic/internal/docs" // swagger spec
	"clinic/internal/handlers"
	"clinic/internal/mailer"
	"clinic/internal/middleware"
	"clinic/internal/ratelimit"
	"clinic/internal/services"
	"clinic/internal/storage"
)

// Deps carries everything the router needs. Store and AuthLimiter may be nil:
// uploads then answer 503 and auth routes are not throttled.
type Deps struct {
	DB                 *gorm.DB
	Store              storage.ObjectStore
	Mailer             mailer.Sender
	AuthLimiter        ratelimit.Limiter
	CORSOrigin         string
	RegistrationSecret string
	CookieSecure       bool
}

// NewRouter wires services, handlers and middleware into a gin engine.
func NewRouter(deps Deps) *gin.Engine {
	db := deps.DB
	sender := deps.Mailer
	if sender == nil {
		sender = mailer.LogMailer{}
	}

	// Services
	userService := services.NewUserService(db)
	clientService := services.NewClientService(db)
	appointmentService := services.NewAppointmentService(db)
	invoiceService := services.NewInvoiceService(db)
	historyService := services.NewHistoryService(db, deps.Store)
	settingService := services.NewSettingService(db)
	reportService := services.NewReportService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService, sender, handlers.AuthOptions{
		RegistrationSecret: deps.RegistrationSecret,
		CookieSecure:       deps.CookieSecure,
	})
	userHandler := handlers.NewUserHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService, auditService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService, auditService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, auditService)
	historyHandler := handlers.NewHistoryHandler(historyService, auditService)
	settingHandler := handlers.NewSettingHandler(settingService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(deps.CORSOrigin))
	router.NoRoute(middleware.NotFound())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public auth routes
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(deps.AuthLimiter, "auth"))
	auth.POST("/register-user", authHandler.Register)
	auth.POST("/login-user", authHandler.Login)
	auth.POST("/refresh-token", authHandler.RefreshToken)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.POST("/logout-user", middleware.AuthMiddleware(), authHandler.Logout)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())

	users := protected.Group("/users")
	users.GET("/me", userHandler.GetMe)
	users.PUT("/me", userHandler.UpdateMe)
	users.GET("/:id", userHandler.GetUserByID)

	clients := protected.Group("/clients")
	clients.POST("", clientHandler.AddClient)
	clients.GET("", clientHandler.SearchClients)
	clients.GET("/all", clientHandler.GetAllClients)
	clients.GET("/:id", clientHandler.GetClientByID)
	clients.PUT("/:id", clientHandler.UpdateClient)
	clients.DELETE("/:id", clientHandler.DeleteClient)

	appointments := protected.Group("/appointments")
	appointments.POST("", appointmentHandler.CreateAppointment)
	appointments.GET("", appointmentHandler.GetAppointments)
	appointments.PUT("/:id", appointmentHandler.UpdateAppointment)
	appointments.DELETE("/:id", appointmentHandler.DeleteAppointment)
	appointments.GET("/client/:clientId", appointmentHandler.GetClientAppointments)

	invoices := protected.Group("/invoices")
	invoices.POST("", invoiceHandler.CreateInvoice)
	invoices.GET("", invoiceHandler.GetInvoices)
	invoices.GET("/client/:clientId", invoiceHandler.GetClientInvoices)
	invoices.GET("/:id", invoiceHandler.GetInvoiceByID)
	invoices.PUT("/:id", invoiceHandler.UpdateInvoiceStatus)
	invoices.DELETE("/:id", invoiceHandler.DeleteInvoice)

	history := protected.Group("/history")
	history.POST("", historyHandler.CreateHistory)
	history.POST("/upload", historyHandler.UploadHistory)
	history.GET("", historyHandler.GetHistories)
	history.GET("/record/:id/download", historyHandler.GetDownloadURL)
	history.GET("/:clientId", historyHandler.GetClientHistories)
	history.DELETE("/:id", historyHandler.DeleteHistory)

	reports := protected.Group("/reports")
	reports.GET("/appointments", reportHandler.GetAppointmentReport)
	reports.GET("/payments", reportHandler.GetPaymentReport)
	reports.GET("/payments/export", reportHandler.ExportPayments)
	reports.GET("/clients", reportHandler.GetClientReport)

	settings := protected.Group("/settings")
	settings.POST("", settingHandler.CreateSettings)
	settings.PUT("", settingHandler.UpdateSettings)
	settings.GET("", settingHandler.GetSettings)

	return router
}
