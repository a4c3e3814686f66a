package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"notebin-app/notebin/database"
	"notebin-app/notebin/services"

	"github.com/gin-gonic/gin"
)

// CreateNoteRequest is the typed body for note creation.
type CreateNoteRequest struct {
	Content string `json:"content"`
}

// UpdateNoteRequest is the typed body for note updates.
type UpdateNoteRequest struct {
	Content  string `json:"content"`
	EditCode string `json:"editCode"`
}

func RegisterNoteRoutes(group *gin.RouterGroup, db *database.Database, noteService services.NoteServiceInterface, createLimiter, updateLimiter gin.HandlerFunc) {
	group.POST("/notes", createLimiter, func(c *gin.Context) { CreateNote(c, db, noteService) })

	group.GET("/notes/:id", func(c *gin.Context) { GetNoteByID(c, db, noteService) })
	group.GET("/notes/:id/raw", func(c *gin.Context) { GetRawContent(c, db, noteService) })
	group.GET("/notes/:id/html", func(c *gin.Context) { GetRenderedHTML(c, db, noteService) })
	group.GET("/notes/s/:shortId", func(c *gin.Context) { GetNoteByShortID(c, db, noteService) })
	group.PUT("/notes/:id", updateLimiter, func(c *gin.Context) { UpdateNote(c, db, noteService) })
}

// respondContentError translates the shared validation failures of create
// and update; returns false if err was not one of them.
func respondContentError(c *gin.Context, err error) bool {
	var tooLarge *services.ContentTooLargeError
	switch {
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"message":     "Content exceeds the maximum allowed size.",
			"currentSize": fmt.Sprintf("%.1fKB", float64(tooLarge.SizeBytes)/1024),
			"maxSize":     fmt.Sprintf("%dKB", tooLarge.LimitBytes/1024),
		})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Content cannot be empty."})
	default:
		return false
	}
	return true
}

func bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Request body too large."})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		}
		return false
	}
	return true
}

func CreateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	var req CreateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := noteService.CreateNote(db, req.Content)
	if err != nil {
		if respondContentError(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while creating note."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       note.ID,
		"shortId":  note.ShortID,
		"editCode": note.EditCode,
		"message":  "Note created successfully.",
	})
}

func GetNoteByID(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	view, err := noteService.GetNoteByID(db, c.Param("id"))
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

func GetNoteByShortID(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	view, err := noteService.GetNoteByShortID(db, c.Param("shortId"))
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

func GetRawContent(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	content, err := noteService.GetRawContent(db, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Note not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while fetching note."})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

func GetRenderedHTML(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	html, err := noteService.GetRenderedHTML(db, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Note not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while rendering note."})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func UpdateNote(c *gin.Context, db *database.Database, noteService services.NoteServiceInterface) {
	var req UpdateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.EditCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Edit code is required."})
		return
	}

	note, err := noteService.UpdateNote(db, c.Param("id"), req.Content, req.EditCode)
	if err != nil {
		switch {
		case respondContentError(c, err):
		case errors.Is(err, services.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Note not found."})
		case errors.Is(err, services.ErrInvalidEditCode):
			c.JSON(http.StatusForbidden, gin.H{"message": "Invalid edit code. You are not authorized to edit this note."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while updating note."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Note updated successfully.",
		"id":      note.ID,
	})
}
