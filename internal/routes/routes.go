package routes

import (
	"net/http"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/events"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/handlers"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/middleware"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/models"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/realtime"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/store"

	"github.com/gin-gonic/gin"
)

// NetlifyPrefix keeps the paths of the former serverless deployment working.
const NetlifyPrefix = "/.netlify/functions"

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	Users store.Repository[models.User]
	Tools store.Repository[models.Tool]
	// Hub is optional; without it /events is not served.
	Hub *realtime.Hub
	// Events receives every change; defaults to the hub (if any).
	Events events.Publisher
}

func SetupRoutes(deps Dependencies) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.HandleMethodNotAllowed = true

	ginRouter.Use(gin.Logger(), middleware.RequestID(), middleware.Recovery(), middleware.CORS())

	pub := deps.Events
	if pub == nil {
		if deps.Hub != nil {
			pub = deps.Hub
		} else {
			pub = events.Nop{}
		}
	}

	users := handlers.NewUserResource(deps.Users, pub)
	tools := handlers.NewToolResource(deps.Tools, pub)

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Werkzeugverwaltung API is running",
		})
	})

	for _, prefix := range []string{"", NetlifyPrefix} {
		group := ginRouter.Group(prefix)
		users.Register(group, "/"+handlers.UsersCollection)
		tools.Register(group, "/"+handlers.ToolsCollection)
	}

	if deps.Hub != nil {
		ginRouter.GET("/events", handlers.EventsHandler(deps.Hub))
	}

	ginRouter.NoMethod(handlers.MethodNotAllowed)
	ginRouter.NoRoute(handlers.NotFound)

	return ginRouter
}
