package handlers

import (
	"errors"
	"net/http"

	"projecthub/lifecycle"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var kindStatus = map[lifecycle.Kind]int{
	lifecycle.KindUnauthenticated:      http.StatusUnauthorized,
	lifecycle.KindForbidden:            http.StatusForbidden,
	lifecycle.KindNotFound:             http.StatusNotFound,
	lifecycle.KindInvalidTransition:    http.StatusConflict,
	lifecycle.KindDuplicateApplication: http.StatusConflict,
	lifecycle.KindProjectUnavailable:   http.StatusConflict,
	lifecycle.KindProfileIncomplete:    http.StatusUnprocessableEntity,
	lifecycle.KindInvalid:              http.StatusBadRequest,
}

// respondError renders an engine error with the failed precondition.
// Unclassified errors are logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	var le *lifecycle.Error
	status, ok := 0, false
	if errors.As(err, &le) {
		status, ok = kindStatus[le.Kind]
	}
	if !ok {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "internal error"})
		return
	}

	body := gin.H{"error": le.Kind, "message": le.Message}
	if len(le.Missing) > 0 {
		body["missing"] = le.Missing
	}
	if len(le.Fields) > 0 {
		body["fields"] = le.Fields
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": lifecycle.KindInvalid, "message": err.Error()})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": lifecycle.KindInvalid, "message": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
