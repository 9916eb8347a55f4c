package server

import (
	"net/http"

	"github.com/bdybsjord/Echomedic/internal/audit"
	"github.com/bdybsjord/Echomedic/internal/config"
	"github.com/bdybsjord/Echomedic/internal/handlers"
	"github.com/bdybsjord/Echomedic/internal/middleware"
	"github.com/bdybsjord/Echomedic/internal/models"
	"github.com/bdybsjord/Echomedic/internal/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// API bundles the services the router exposes.
type API struct {
	Risks    *service.RiskService
	Controls *service.ControlService
	Policies *service.PolicyService
	Audit    *audit.Recorder
}

func NewRouter(cfg *config.Config, api API) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("echomedic_session", store))

	r.Use(middleware.InjectUser())

	// AUTH
	r.POST("/login", handlers.Login)
	r.POST("/logout", handlers.Logout)

	authd := r.Group("/api")
	authd.Use(middleware.RequireAuth())

	authd.GET("/me", handlers.Me)

	// RISKS
	risks := handlers.NewRiskHandler(api.Risks)
	authd.GET("/risks", risks.List)
	authd.GET("/risks/:id", risks.Get)
	authd.POST("/risks",
		middleware.RequireRole(models.RoleManager),
		risks.Create,
	)
	authd.PUT("/risks/:id",
		middleware.RequireRole(models.RoleManager),
		risks.Update,
	)
	authd.DELETE("/risks/:id",
		middleware.RequireRole(models.RoleManager),
		risks.Delete,
	)

	// CONTROLS
	controls := handlers.NewControlHandler(api.Controls)
	authd.GET("/controls", controls.List)
	authd.GET("/controls/:id", controls.Get)
	authd.POST("/controls",
		middleware.RequireRole(models.RoleManager),
		controls.Create,
	)
	authd.PUT("/controls/:id",
		middleware.RequireRole(models.RoleManager),
		controls.Update,
	)
	authd.DELETE("/controls/:id",
		middleware.RequireRole(models.RoleManager),
		controls.Delete,
	)

	// POLICIES
	policies := handlers.NewPolicyHandler(api.Policies)
	authd.GET("/policies", policies.List)
	authd.GET("/policies/:id", policies.Get)
	authd.POST("/policies",
		middleware.RequireRole(models.RoleManager),
		policies.Create,
	)
	authd.PUT("/policies/:id",
		middleware.RequireRole(models.RoleManager),
		policies.Update,
	)
	authd.DELETE("/policies/:id",
		middleware.RequireRole(models.RoleManager),
		policies.Delete,
	)

	// AUDIT VIEWER
	auditH := handlers.NewAuditHandler(api.Audit)
	authd.GET("/audit",
		middleware.RequireRole(models.RoleManager),
		auditH.List,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
