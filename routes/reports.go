package routes

import (
	"errors"
	"net/http"

	"notebin-app/notebin/database"
	"notebin-app/notebin/services"

	"github.com/gin-gonic/gin"
)

// ReportNoteRequest is the typed body for abuse reports.
type ReportNoteRequest struct {
	Reason  string `json:"reason"`
	Details string `json:"details"`
}

func RegisterReportRoutes(group *gin.RouterGroup, db *database.Database, reportService services.ReportServiceInterface, reportLimiter gin.HandlerFunc) {
	group.POST("/notes/:id/report", reportLimiter, func(c *gin.Context) { SubmitReport(c, db, reportService) })
}

func SubmitReport(c *gin.Context, db *database.Database, reportService services.ReportServiceInterface) {
	var req ReportNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	_, err := reportService.SubmitReport(
		db,
		c.Param("id"),
		req.Reason,
		req.Details,
		c.ClientIP(),
		c.GetHeader("User-Agent"),
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Note not found."})
		case errors.Is(err, services.ErrAlreadyReported):
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "You have already reported this note recently."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while submitting report."})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Report submitted. Thank you."})
}
