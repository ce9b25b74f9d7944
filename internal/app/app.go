// Package app assembles repositories, services, handlers and middleware into the HTTP router.
package app

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/prmhq/prm-backend/internal/config"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/handler"
	"github.com/prmhq/prm-backend/internal/mail"
	"github.com/prmhq/prm-backend/internal/middleware"
	"github.com/prmhq/prm-backend/internal/repository"
	"github.com/prmhq/prm-backend/internal/routes"
	"github.com/prmhq/prm-backend/internal/service"
	"github.com/prmhq/prm-backend/pkg/cache"
	"github.com/prmhq/prm-backend/pkg/jwt"
	"github.com/prmhq/prm-backend/pkg/storage"
)

// Deps are the process-wide collaborators of the API
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client // nil disables the session cache and rate limiting
	JWT    *jwt.Manager
	Outbox mail.Enqueuer
	// Uploader stores pictures; nil answers picture uploads with 503
	Uploader storage.Uploader
	Now      func() time.Time
}

// Services are the business services built from Deps
type Services struct {
	Auth         service.AuthService
	Pictures     service.PictureService
	Contacts     *service.ResourceService[domain.Contact, *domain.Contact]
	Activities   *service.Roster[domain.Activity, *domain.Activity]
	ActivityLogs *service.ActivityLogService
	Events       *service.Roster[domain.Event, *domain.Event]
	Moods        service.MoodService
}

// NewServices wires repositories into services
func NewServices(d Deps) *Services {
	db := d.DB
	members := repository.NewMembershipRepository(db)

	contactStore := repository.NewStore[domain.Contact](db, "contact",
		repository.WithBeforeDelete(repository.DetachContact))
	activityStore := repository.NewStore[domain.Activity](db, "activity",
		repository.WithPreload("Partners"),
		repository.WithBeforeDelete(repository.DetachActivityLogs))
	logStore := repository.NewStore[domain.ActivityLog](db, "activity log",
		repository.WithPreload("Activity", "Companions"),
		repository.WithOrder("date DESC, id DESC"))
	eventStore := repository.NewStore[domain.Event](db, "event",
		repository.WithPreload("Contacts"),
		repository.WithOrder("date ASC, start_time ASC, id ASC"))
	moodStore := repository.NewStore[domain.Mood](db, "mood",
		repository.WithOrder("date ASC"))

	contacts := service.NewResourceService(contactStore)
	activities := service.NewRoster(activityStore, contactStore, members, service.ActivityPartners)
	logs := service.NewRoster(logStore, contactStore, members, service.ActivityLogCompanions)

	users := repository.NewUserRepository(db)
	sessions := cache.NewService(d.Redis, d.Config.Auth.SessionCacheTTL)

	return &Services{
		Auth: service.NewAuthService(users, repository.NewAuthTokenRepository(db), d.JWT, d.Outbox, sessions,
			service.AuthOptions{
				VerificationTTL: d.Config.Auth.VerificationTTL,
				MailFrom:        d.Config.Mail.From,
				VerifyURL:       d.Config.Mail.VerifyURL,
			}),
		Pictures:     service.NewPictureService(d.Uploader, users, contacts, d.Config.Storage.MaxPictureSize),
		Contacts:     contacts,
		Activities:   activities,
		ActivityLogs: service.NewActivityLogService(logs, activities.ResourceService),
		Events:       service.NewRoster(eventStore, contactStore, members, service.EventContacts),
		Moods:        service.NewMoodService(repository.NewMoodRepository(db), moodStore, d.Now),
	}
}

// NewRouter builds the gin engine with middleware, ops endpoints and API routes
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	svc := NewServices(d)

	router := gin.New()
	router.Use(gin.Recovery())

	origins := cfg.CORS.Origins()
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.SecurityHeaders("/swagger/"))
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	if cfg.RateLimit.Enabled && d.Redis != nil {
		rl := middleware.DefaultRateLimitConfig()
		rl.Requests = cfg.RateLimit.Requests
		rl.Window = cfg.RateLimit.Window
		router.Use(middleware.RateLimit(d.Redis, rl))
	}

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if sqlDB, err := d.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": "prm-backend",
			"time":    time.Now().Unix(),
		})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, routes.Handlers{
		User:        handler.NewUserHandler(svc.Auth, svc.Pictures),
		Contact:     handler.NewContactHandler(svc.Contacts, svc.Pictures),
		Activity:    handler.NewActivityHandler(svc.Activities),
		ActivityLog: handler.NewActivityLogHandler(svc.ActivityLogs),
		Event:       handler.NewEventHandler(svc.Events),
		Mood:        handler.NewMoodHandler(svc.Moods),
	}, middleware.TokenAuth(svc.Auth))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "NOT_FOUND", "message": "not found"}})
	})
	return router
}
