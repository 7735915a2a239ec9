package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"github.com/p-udaykiran/noteapp/docs"
	"github.com/p-udaykiran/noteapp/internal/auth"
	dom "github.com/p-udaykiran/noteapp/internal/domain"
	"github.com/p-udaykiran/noteapp/internal/handlers"
	"github.com/p-udaykiran/noteapp/internal/repo"
	"github.com/p-udaykiran/noteapp/internal/service"
)

// setup registers all routes on the given engine. Requests no explicit route
// matches fall through to the conventional controller/action route.
func (a *App) setup(r *gin.Engine) {
	docs.SwaggerInfo.Version = a.cfg.App.Version

	r.GET("/health", a.healthHandler())
	r.GET("/version", a.versionHandler())
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	var policy auth.Policy = auth.AllowAll{}
	if a.sessions != nil {
		policy = auth.NewSessionPolicy(a.sessions)
		users := service.NewUserService(repo.NewStaticUserRepo(dom.User{
			Username:     a.cfg.Auth.Username,
			PasswordHash: a.cfg.Auth.PasswordHash,
		}))
		registerAuthRoutes(r, handlers.NewAuthHandler(a.sessions, users))
	}
	authorize := auth.Authorize(policy)

	noteHandler := handlers.NewNoteHandler(service.NewNoteService(a.notes))
	registerNoteRoutes(r.Group("", authorize), noteHandler)
	r.NoRoute(handlers.Conventional(noteHandler, authorize))
}

func (a *App) healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := a.notes.Ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "env": a.cfg.App.Env, "store": "unavailable"})
			return
		}
		if a.sessions != nil {
			if err := a.sessions.Ping(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "env": a.cfg.App.Env, "sessions": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": a.cfg.App.Env})
	}
}

func (a *App) versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": a.cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerNoteRoutes(g *gin.RouterGroup, h *handlers.NoteHandler) {
	g.GET("/notes", h.List)
	g.HEAD("/notes", h.List)
	g.GET("/notes/:id", h.Get)
	g.HEAD("/notes/:id", h.Get)
	g.POST("/notes", h.Create)
	g.POST("/notes/:id/edit", h.Update)
	g.POST("/notes/:id/delete", h.Delete)
}

func registerAuthRoutes(r *gin.Engine, h *handlers.AuthHandler) {
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
}
