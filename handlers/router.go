package handlers

import (
	"projecthub/lifecycle"
	"projecthub/metrics"

	"github.com/gin-gonic/gin"
)

// RouterConfig carries the collaborators the routes are wired to.
type RouterConfig struct {
	Engine *lifecycle.Engine
	// Auth resolves the caller; every /api/v1 route runs behind it.
	Auth gin.HandlerFunc
	// ApplyLimit throttles application submission. Optional.
	ApplyLimit gin.HandlerFunc
}

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
	})
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware())

	r.GET("/health", HealthCheck)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	e := cfg.Engine
	api := r.Group("/api/v1", cfg.Auth)

	api.POST("/projects", CreateProject(e))
	api.GET("/projects", ListProjects(e))
	api.GET("/projects/:id", GetProject(e))
	api.PUT("/projects/:id", EditProject(e))
	api.DELETE("/projects/:id", DeleteProject(e))
	api.POST("/projects/:id/publish", PublishDraft(e))
	api.POST("/projects/:id/archive", ArchiveProject(e))
	api.POST("/projects/:id/unarchive", UnarchiveProject(e))
	api.POST("/projects/:id/cancel", CancelProject(e))
	api.POST("/projects/:id/status", AdvanceProjectStatus(e))

	apply := []gin.HandlerFunc{SubmitApplication(e)}
	if cfg.ApplyLimit != nil {
		apply = append([]gin.HandlerFunc{cfg.ApplyLimit}, apply...)
	}
	api.POST("/projects/:id/applications", apply...)
	api.GET("/projects/:id/applications", ListProjectApplications(e))

	api.GET("/applications/mine", ListMyApplications(e))
	api.POST("/applications/:id/approve", ApproveApplication(e))
	api.POST("/applications/:id/reject", RejectApplication(e))
	api.POST("/applications/:id/withdraw", WithdrawApplication(e))
	api.POST("/applications/:id/acknowledge", AcknowledgeApplication(e))

	return r
}
