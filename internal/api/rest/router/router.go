package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/amcbunq-server/internal/api/rest/handler"
	"github.com/dtroode/amcbunq-server/internal/api/rest/middleware"
	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/model"
	"github.com/dtroode/amcbunq-server/internal/service"
)

// Services groups the business services exposed over HTTP.
type Services struct {
	Users             *service.UserGateway
	Documents         *service.Document
	Budgets           *service.Budget
	Tickets           *service.SupportTicket
	EmailVerification *service.EmailVerification
}

// Router wires handlers and middleware into a gin engine.
type Router struct {
	services       Services
	tokenParser    middleware.TokenParser
	pinger         handler.Pinger
	contextManager model.ContextManager
	maxUploadBytes int64
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	services Services,
	tokenParser middleware.TokenParser,
	pinger handler.Pinger,
	contextManager model.ContextManager,
	maxUploadBytes int64,
	logger *logger.Logger,
) *Router {
	return &Router{
		services:       services,
		tokenParser:    tokenParser,
		pinger:         pinger,
		contextManager: contextManager,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Register builds the engine with request logging on every route and
// authentication on everything under /api.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenParser, r.contextManager, r.logger)

	engine := gin.New()
	engine.Use(logging.Handle, gin.Recovery())
	engine.MaxMultipartMemory = 8 << 20

	health := handler.NewHealth(r.pinger, r.logger)
	engine.GET("/health", health.Check)

	api := engine.Group("/api", authenticate.Handle)
	r.registerUserRoutes(api)
	r.registerNotificationRoutes(api)
	r.registerDocumentRoutes(api)
	r.registerBudgetRoutes(api)
	r.registerTicketRoutes(api)
	r.registerEmailVerificationRoutes(api)

	return engine
}

func (r *Router) registerUserRoutes(api *gin.RouterGroup) {
	h := handler.NewUser(r.services.Users, r.contextManager, r.logger)

	users := api.Group("/users")
	users.GET("", h.FindUser)
	users.GET("/:userId", h.GetUser)
	users.PUT("/:userId/verification-status", h.UpdateVerificationStatus)
	users.POST("/:userId/email-verified", h.MarkEmailVerified)
	users.POST("/:userId/accounts", h.AppendAccount)
}

func (r *Router) registerNotificationRoutes(api *gin.RouterGroup) {
	h := handler.NewNotification(r.services.Users, r.contextManager, r.logger)

	api.GET("/notifications/:userId", h.ListNotifications)
	api.POST("/notifications", h.AppendNotifications)
}

func (r *Router) registerDocumentRoutes(api *gin.RouterGroup) {
	h := handler.NewDocument(r.services.Documents, r.contextManager, r.maxUploadBytes, r.logger)

	documents := api.Group("/documents")
	documents.GET("/:userId", h.ListDocuments)
	documents.GET("/:userId/:documentId/content", h.DownloadDocument)
	documents.POST("/upload/", h.UploadDocument)
}

func (r *Router) registerBudgetRoutes(api *gin.RouterGroup) {
	h := handler.NewBudget(r.services.Budgets, r.contextManager)

	api.GET("/budgets/:userId", h.ListBudgets)
}

func (r *Router) registerTicketRoutes(api *gin.RouterGroup) {
	h := handler.NewTicket(r.services.Tickets, r.contextManager, r.logger)

	tickets := api.Group("/support/tickets")
	tickets.GET("", h.ListTickets)
	tickets.GET("/:ticketId", h.GetTicket)
	tickets.POST("", h.CreateTicket)
	tickets.POST("/:ticketId/replies", h.AddReply)
}

func (r *Router) registerEmailVerificationRoutes(api *gin.RouterGroup) {
	h := handler.NewEmailVerification(r.services.EmailVerification, r.contextManager)

	api.POST("/email-verification/send", h.SendCode)
	api.POST("/email-verification/verify", h.VerifyCode)
}
