package routes

import (
	"errors"
	"net/http"
	"strconv"

	"notebin-app/notebin/database"
	"notebin-app/notebin/services"

	"github.com/gin-gonic/gin"
)

// AdminLoginRequest exchanges the static admin token for a session JWT.
type AdminLoginRequest struct {
	Token string `json:"token"`
}

func RegisterAdminRoutes(
	group *gin.RouterGroup,
	db *database.Database,
	authService services.AuthServiceInterface,
	reportService services.ReportServiceInterface,
	moderationService services.ModerationServiceInterface,
	streamService services.StreamServiceInterface,
	authMiddleware gin.HandlerFunc,
) {
	group.POST("/login", func(c *gin.Context) { AdminLogin(c, authService) })

	protected := group.Group("", authMiddleware)
	protected.GET("/reports", func(c *gin.Context) { ListReports(c, db, reportService) })
	protected.POST("/reports/:id/close", func(c *gin.Context) { CloseReport(c, db, reportService) })
	protected.GET("/reports/stream", func(c *gin.Context) { streamService.HandleConnection(c) })
	protected.GET("/notes/:id", func(c *gin.Context) { GetNoteForAdmin(c, db, moderationService) })
	protected.POST("/notes/:id/delete", func(c *gin.Context) { DeleteNote(c, db, moderationService) })
	protected.POST("/notes/:id/restore", func(c *gin.Context) { RestoreNote(c, db, moderationService) })
	protected.GET("/moderation-log", func(c *gin.Context) { ListModerationLog(c, db, moderationService) })
}

func AdminLogin(c *gin.Context, authService services.AuthServiceInterface) {
	var req AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	sessionToken, expiresAt, err := authService.Login(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Admin authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     sessionToken,
		"expiresAt": expiresAt,
	})
}

// actorFrom returns the acting identity set by the auth middleware.
func actorFrom(c *gin.Context) string {
	if actor, exists := c.Get("actor"); exists {
		if s, ok := actor.(string); ok {
			return s
		}
	}
	return "admin"
}

func ListReports(c *gin.Context, db *database.Database, reportService services.ReportServiceInterface) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	reports, err := reportService.ListReports(db, c.Query("status"), c.Query("shortId"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while listing reports."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": reports})
}

func CloseReport(c *gin.Context, db *database.Database, reportService services.ReportServiceInterface) {
	if err := reportService.CloseReport(db, c.Param("id")); err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Report not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while closing report."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report closed."})
}

func GetNoteForAdmin(c *gin.Context, db *database.Database, moderationService services.ModerationServiceInterface) {
	view, err := moderationService.GetNoteForAdmin(db, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Note not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while fetching note."})
		return
	}

	c.JSON(http.StatusOK, view)
}

func DeleteNote(c *gin.Context, db *database.Database, moderationService services.ModerationServiceInterface) {
	if err := moderationService.DeleteNote(db, c.Param("id"), actorFrom(c)); err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Note not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while deleting note."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted."})
}

func RestoreNote(c *gin.Context, db *database.Database, moderationService services.ModerationServiceInterface) {
	if err := moderationService.RestoreNote(db, c.Param("id"), actorFrom(c)); err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Note not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while restoring note."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note restored."})
}

func ListModerationLog(c *gin.Context, db *database.Database, moderationService services.ModerationServiceInterface) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := moderationService.ListModerationLog(db, c.Query("noteId"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while listing moderation log."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": entries})
}
