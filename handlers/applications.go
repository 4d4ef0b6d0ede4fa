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

func SubmitApplication(engine *lifecycle.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := parseID(c)
		if !ok {
			return
		}

		var req models.SubmitApplicationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		app, err := engine.SubmitApplication(c.Request.Context(), middleware.ActorFromContext(c), projectID, req.CoverLetter)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, app)
	}
}

func ListProjectApplications(engine *lifecycle.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := parseID(c)
		if !ok {
			return
		}

		apps, err := engine.ListProjectApplications(c.Request.Context(), middleware.ActorFromContext(c), projectID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ApplicationsResponse{Applications: apps, Total: len(apps)})
	}
}

func ListMyApplications(engine *lifecycle.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		apps, err := engine.ListMyApplications(c.Request.Context(), middleware.ActorFromContext(c))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ApplicationsResponse{Applications: apps, Total: len(apps)})
	}
}

func ApproveApplication(engine *lifecycle.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		applicationID, ok := parseID(c)
		if !ok {
			return
		}

		app, project, err := engine.ApproveApplication(c.Request.Context(), middleware.ActorFromContext(c), applicationID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"application": app, "project": project})
	}
}

type applicationOp func(ctx context.Context, actor *models.Actor, applicationID uuid.UUID) (*models.Application, error)

func applicationAction(op applicationOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		applicationID, ok := parseID(c)
		if !ok {
			return
		}

		app, err := op(c.Request.Context(), middleware.ActorFromContext(c), applicationID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, app)
	}
}

func RejectApplication(engine *lifecycle.Engine) gin.HandlerFunc {
	return applicationAction(engine.RejectApplication)
}

func WithdrawApplication(engine *lifecycle.Engine) gin.HandlerFunc {
	return applicationAction(engine.WithdrawApplication)
}

func AcknowledgeApplication(engine *lifecycle.Engine) gin.HandlerFunc {
	return applicationAction(engine.AcknowledgeApplication)
}
