package handlers

import (
	"context"
	"net/http"

	"projecthub/lifecycle"
	"projecthub/middleware"
	"projecthub/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func CreateProject(engine *lifecycle.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		project, err := engine.CreateProject(c.Request.Context(), middleware.ActorFromContext(c), req.ProjectFields, req.Draft)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, project)
	}
}

func ListProjects(engine *lifecycle.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ProjectFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			badRequest(c, err)
			return
		}

		actor := middleware.ActorFromContext(c)
		if c.Query("mine") == "true" && actor != nil {
			filter.OwnerID = &actor.ID
		}

		projects, total, err := engine.ListProjects(c.Request.Context(), actor, filter)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ProjectsResponse{
			Projects: projects,
			Total:    total,
			Limit:    filter.Limit,
			Offset:   filter.Offset,
			HasMore:  int64(filter.Offset+len(projects)) < total,
		})
	}
}

func GetProject(engine *lifecycle.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := parseID(c)
		if !ok {
			return
		}

		project, err := engine.GetProject(c.Request.Context(), middleware.ActorFromContext(c), projectID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

func EditProject(engine *lifecycle.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := parseID(c)
		if !ok {
			return
		}

		var fields models.ProjectFields
		if err := c.ShouldBindJSON(&fields); err != nil {
			badRequest(c, err)
			return
		}

		project, err := engine.EditProject(c.Request.Context(), middleware.ActorFromContext(c), projectID, fields)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

func DeleteProject(engine *lifecycle.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := parseID(c)
		if !ok {
			return
		}

		if err := engine.DeleteProject(c.Request.Context(), middleware.ActorFromContext(c), projectID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
	}
}

type projectOp func(ctx context.Context, actor *models.Actor, projectID uuid.UUID) (*models.Project, error)

func projectAction(op projectOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := parseID(c)
		if !ok {
			return
		}

		project, err := op(c.Request.Context(), middleware.ActorFromContext(c), projectID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

func PublishDraft(engine *lifecycle.Engine) gin.HandlerFunc {
	return projectAction(engine.PublishDraft)
}

func ArchiveProject(engine *lifecycle.Engine) gin.HandlerFunc {
	return projectAction(engine.ArchiveProject)
}

func UnarchiveProject(engine *lifecycle.Engine) gin.HandlerFunc {
	return projectAction(engine.UnarchiveProject)
}

func CancelProject(engine *lifecycle.Engine) gin.HandlerFunc {
	return projectAction(engine.CancelProject)
}

func AdvanceProjectStatus(engine *lifecycle.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := parseID(c)
		if !ok {
			return
		}

		var req models.AdvanceStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		project, err := engine.AdvanceProjectStatus(c.Request.Context(), middleware.ActorFromContext(c), projectID, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, project)
	}
}
