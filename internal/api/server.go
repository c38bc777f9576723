package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "github.com/eventboard/eventboard-api/internal/api/handler/v1"
	"github.com/eventboard/eventboard-api/internal/api/middleware"
	"github.com/eventboard/eventboard-api/internal/config"
	"github.com/eventboard/eventboard-api/internal/repository"
	"github.com/eventboard/eventboard-api/internal/repository/dao"
	"github.com/eventboard/eventboard-api/internal/service"
	"github.com/eventboard/eventboard-api/internal/stats"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, postgresDB *gorm.DB) *Server {
	if conf.Gin.Mode != "" {
		gin.SetMode(conf.Gin.Mode)
	}

	s := &Server{
		Config: conf,
		Router: gin.Default(),
	}

	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(conf.API.AllowedCORSDomains))

	eventDAO := dao.NewEventDAO(postgresDB)
	requestDAO := dao.NewRequestDAO(postgresDB)
	userDAO := dao.NewUserDAO(postgresDB)
	categoryDAO := dao.NewCategoryDAO(postgresDB)
	compilationDAO := dao.NewCompilationDAO(postgresDB)
	subscriptionDAO := dao.NewSubscriptionDAO(postgresDB)
	statsDAO := dao.NewStatsDAO(postgresDB)

	eventRepo := repository.NewEventRepository(eventDAO)
	requestRepo := repository.NewRequestRepository(requestDAO, eventDAO)
	userRepo := repository.NewUserRepository(userDAO)
	categoryRepo := repository.NewCategoryRepository(categoryDAO)
	compilationRepo := repository.NewCompilationRepository(compilationDAO)
	subscriptionRepo := repository.NewSubscriptionRepository(subscriptionDAO)
	statsRepo := repository.NewStatsRepository(statsDAO)

	viewCounter := stats.NewClient(conf.Stats.ServerURL, conf.Stats.AppName)

	eventSvc := service.NewEventService(eventRepo, categoryRepo, userRepo, requestRepo, viewCounter)
	requestSvc := service.NewRequestService(requestRepo, userRepo)
	categorySvc := service.NewCategoryService(categoryRepo, eventRepo)
	userSvc := service.NewUserService(userRepo)
	compilationSvc := service.NewCompilationService(compilationRepo, eventRepo)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, userRepo, eventSvc)
	statsSvc := service.NewStatsService(statsRepo)

	eventHandler := v1.NewEventHandler(eventSvc)
	requestHandler := v1.NewRequestHandler(requestSvc)
	categoryHandler := v1.NewCategoryHandler(categorySvc)
	userHandler := v1.NewUserHandler(userSvc)
	compilationHandler := v1.NewCompilationHandler(compilationSvc)
	subscriptionHandler := v1.NewSubscriptionHandler(subscriptionSvc)
	statsHandler := v1.NewStatsHandler(statsSvc)

	s.Router.GET("/", v1.HandleHealthcheck)

	s.Router.GET("/events", eventHandler.HandleSearchPublicEvents)
	s.Router.GET("/events/:eventID", eventHandler.HandleGetPublicEvent)
	s.Router.GET("/categories", categoryHandler.HandleListCategories)
	s.Router.GET("/categories/:catID", categoryHandler.HandleGetCategory)
	s.Router.GET("/compilations", compilationHandler.HandleListCompilations)
	s.Router.GET("/compilations/:compID", compilationHandler.HandleGetCompilation)

	s.Router.POST("/hit", statsHandler.HandleSaveHit)
	s.Router.GET("/stats", statsHandler.HandleGetStats)

	users := s.Router.Group("/users/:userID")
	{
		users.POST("/events", eventHandler.HandleCreateEvent)
		users.GET("/events", eventHandler.HandleGetUserEvents)
		users.GET("/events/:eventID", eventHandler.HandleGetUserEvent)
		users.PATCH("/events/:eventID", eventHandler.HandleUpdateEventByUser)
		users.GET("/events/:eventID/requests", requestHandler.HandleGetEventRequests)
		users.PATCH("/events/:eventID/requests", requestHandler.HandleUpdateRequestStatuses)

		users.POST("/requests", requestHandler.HandleCreateRequest)
		users.GET("/requests", requestHandler.HandleGetUserRequests)
		users.PATCH("/requests/:requestID/cancel", requestHandler.HandleCancelRequest)

		users.GET("/subscriptions", subscriptionHandler.HandleGetSubscriptions)
		users.GET("/subscriptions/feed", subscriptionHandler.HandleGetFeed)
		users.POST("/subscriptions/:authorID", subscriptionHandler.HandleSubscribe)
		users.DELETE("/subscriptions/:authorID", subscriptionHandler.HandleUnsubscribe)
	}

	admin := s.Router.Group("/admin", middleware.AdminAuth(conf.API.AdminSigningKey))
	{
		admin.GET("/events", eventHandler.HandleSearchAdminEvents)
		admin.PATCH("/events/:eventID", eventHandler.HandleUpdateEventByAdmin)

		admin.POST("/users", userHandler.HandleCreateUser)
		admin.GET("/users", userHandler.HandleListUsers)
		admin.DELETE("/users/:userID", userHandler.HandleDeleteUser)

		admin.POST("/categories", categoryHandler.HandleCreateCategory)
		admin.PATCH("/categories/:catID", categoryHandler.HandleUpdateCategory)
		admin.DELETE("/categories/:catID", categoryHandler.HandleDeleteCategory)

		admin.POST("/compilations", compilationHandler.HandleCreateCompilation)
		admin.PATCH("/compilations/:compID", compilationHandler.HandleUpdateCompilation)
		admin.DELETE("/compilations/:compID", compilationHandler.HandleDeleteCompilation)
	}

	return s
}
