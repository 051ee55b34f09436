package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyforge/studyforge-backend/internal/middleware"
	"github.com/studyforge/studyforge-backend/internal/services"
)

type LectureHandler struct {
	lectureService services.LectureService
}

func NewLectureHandler(lectureService services.LectureService) *LectureHandler {
	return &LectureHandler{lectureService: lectureService}
}

func (lh *LectureHandler) Upload(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	defer file.Close()

	title := c.PostForm("title")
	mimeType := fileHeader.Header.Get("Content-Type")

	lecture, err := lh.lectureService.UploadLecture(c.Request.Context(), userID, title, fileHeader.Filename, mimeType, file)
	if err != nil {
		RespondError(c, statusForError(err), "upload_failed", err)
		return
	}
	RespondOK(c, lecture)
}

func (lh *LectureHandler) Transcribe(c *gin.Context) {
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
	lecture, err := lh.lectureService.TranscribeLecture(c.Request.Context(), userID, lectureID)
	if err != nil {
		RespondError(c, statusForError(err), "transcribe_failed", err)
		return
	}
	RespondOK(c, lecture)
}

func (lh *LectureHandler) SubmitTranscript(c *gin.Context) {
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
	var req struct {
		Transcript string `json:"transcript"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	lecture, err := lh.lectureService.SubmitTranscript(c.Request.Context(), userID, lectureID, req.Transcript)
	if err != nil {
		RespondError(c, statusForError(err), "transcript_failed", err)
		return
	}
	RespondOK(c, lecture)
}

func (lh *LectureHandler) Get(c *gin.Context) {
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
	lecture, err := lh.lectureService.GetLecture(c.Request.Context(), userID, lectureID)
	if err != nil {
		RespondError(c, statusForError(err), "lecture_failed", err)
		return
	}
	RespondOK(c, lecture)
}

func (lh *LectureHandler) Delete(c *gin.Context) {
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
	if err := lh.lectureService.DeleteLecture(c.Request.Context(), userID, lectureID); err != nil {
		RespondError(c, statusForError(err), "delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (lh *LectureHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	lectures, err := lh.lectureService.ListLectures(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, statusForError(err), "lectures_failed", err)
		return
	}
	RespondOK(c, lectures)
}
