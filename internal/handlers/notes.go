package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyforge/studyforge-backend/internal/middleware"
	"github.com/studyforge/studyforge-backend/internal/services"
)

type NotesHandler struct {
	notesService services.NotesService
}

func NewNotesHandler(notesService services.NotesService) *NotesHandler {
	return &NotesHandler{notesService: notesService}
}

func (nh *NotesHandler) Generate(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	lectureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	run, doc, err := nh.notesService.GenerateNotes(c.Request.Context(), userID, lectureID)
	if err != nil {
		RespondError(c, statusForError(err), "notes_failed", err)
		return
	}
	RespondOK(c, gin.H{"run": run, "result": doc})
}

func (nh *NotesHandler) GetLatest(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	lectureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	doc, err := nh.notesService.GetLatestNotes(c.Request.Context(), userID, lectureID)
	if err != nil {
		RespondError(c, statusForError(err), "notes_failed", err)
		return
	}
	RespondOK(c, doc)
}

func (nh *NotesHandler) ListRuns(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	lectureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	runs, err := nh.notesService.ListRuns(c.Request.Context(), userID, lectureID)
	if err != nil {
		RespondError(c, statusForError(err), "runs_failed", err)
		return
	}
	RespondOK(c, runs)
}
