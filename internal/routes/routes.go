package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/prmhq/prm-backend/internal/handler"
)

// Handlers groups every API handler
type Handlers struct {
	User        *handler.UserHandler
	Contact     *handler.ContactHandler
	Activity    *handler.ActivityHandler
	ActivityLog *handler.ActivityLogHandler
	Event       *handler.EventHandler
	Mood        *handler.MoodHandler
}

// Setup configures all API routes. auth guards every route except signup, verify and login.
func Setup(router gin.IRouter, h Handlers, auth gin.HandlerFunc) {
	// Account endpoints (no auth required)
	users := router.Group("/users")
	users.POST("/signup", h.User.Signup)
	users.POST("/verify", h.User.Verify)
	users.POST("/login", h.User.Login)

	// Account endpoints (auth required)
	me := users.Group("", auth)
	me.POST("/logout", h.User.Logout)
	me.GET("/profile", h.User.Profile)
	me.POST("/profile/picture", h.User.UploadPicture)
	me.GET("/:username", h.User.Get)
	me.PUT("/:username", h.User.Update)
	me.PATCH("/:username", h.User.Update)

	contacts := router.Group("/contacts", auth)
	{
		contacts.GET("", h.Contact.List)
		contacts.POST("", h.Contact.Create)
		contacts.GET("/:code", h.Contact.Get)
		contacts.PUT("/:code", h.Contact.Update)
		contacts.PATCH("/:code", h.Contact.Update)
		contacts.DELETE("/:code", h.Contact.Delete)
		contacts.POST("/:code/picture", h.Contact.UploadPicture)
	}

	activities := router.Group("/activities", auth)
	{
		activities.GET("", h.Activity.List)
		activities.POST("", h.Activity.Create)
		activities.GET("/:code", h.Activity.Get)
		activities.PUT("/:code", h.Activity.Update)
		activities.PATCH("/:code", h.Activity.Update)
		activities.DELETE("/:code", h.Activity.Delete)

		// Logs nested under their activity
		activities.GET("/:code/logs", h.ActivityLog.ListForActivity)
		activities.POST("/:code/logs", h.ActivityLog.CreateForActivity)
	}

	logs := router.Group("/activity-logs", auth)
	{
		logs.GET("/:code", h.ActivityLog.Get)
		logs.PUT("/:code", h.ActivityLog.Update)
		logs.PATCH("/:code", h.ActivityLog.Update)
		logs.DELETE("/:code", h.ActivityLog.Delete)
	}

	events := router.Group("/events", auth)
	{
		events.GET("", h.Event.List)
		events.POST("", h.Event.Create)
		events.GET("/:code", h.Event.Get)
		events.PUT("/:code", h.Event.Update)
		events.PATCH("/:code", h.Event.Update)
		events.DELETE("/:code", h.Event.Delete)
	}

	moods := router.Group("/moods", auth)
	{
		moods.GET("", h.Mood.List)
		moods.POST("", h.Mood.Save)
		moods.GET("/:date", h.Mood.GetByDate)
		moods.DELETE("/:date", h.Mood.DeleteByDate)
	}
}
