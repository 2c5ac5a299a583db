package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"photo-quiz-service/internal/app"
	"photo-quiz-service/internal/storage"
)

const (
	maxQuestionBody = 1 << 20
	maxBulkBody     = 8 << 20
	maxUploadBody   = 50 << 20
)

var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".ogg": true, ".m4a": true, ".aac": true,
}

type AdminHandler struct {
	service     *app.QuizService
	uploads     *storage.FSStore
	uploadLimit int64
}

func NewAdminHandler(service *app.QuizService, uploads *storage.FSStore) *AdminHandler {
	return &AdminHandler{service: service, uploads: uploads, uploadLimit: maxUploadBody}
}

type bulkRequest struct {
	Text *string `json:"text"`
}

type bulkResponse struct {
	Message string `json:"message"`
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
}

type uploadResponse struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

func (h *AdminHandler) Add(w http.ResponseWriter, r *http.Request) {
	var in app.QuestionInput
	if !decodeBody(w, r, maxQuestionBody, &in) {
		return
	}
	if err := h.service.Add(r.Context(), in); err != nil {
		writeDomainError(w, err, "failed to save question")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Question added"})
}

func (h *AdminHandler) BulkAdd(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !decodeBody(w, r, maxBulkBody, &req) {
		return
	}
	text := ""
	if req.Text != nil {
		text = *req.Text
	}
	res, err := h.service.BulkAdd(r.Context(), text)
	if err != nil {
		writeDomainError(w, err, "failed to save questions")
		return
	}
	writeJSON(w, http.StatusOK, bulkResponse{
		Message: "Bulk added",
		Added:   len(res.Questions),
		Skipped: len(res.Skipped),
	})
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.List(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to load questions")
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *AdminHandler) Edit(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}
	var in app.QuestionInput
	if !decodeBody(w, r, maxQuestionBody, &in) {
		return
	}
	if err := h.service.Edit(r.Context(), index, in); err != nil {
		writeDomainError(w, err, "failed to save question")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Question updated"})
}

func (h *AdminHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAll(r.Context()); err != nil {
		writeDomainError(w, err, "failed to delete questions")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "All deleted"})
}

// UploadMusic stores the multipart "music" file as the front end's background track.
func (h *AdminHandler) UploadMusic(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadLimit)
	f, header, err := r.FormFile("music")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !audioExtensions[ext] {
		ext = ".mp3"
	}
	key, err := h.uploads.Put("music/bgmusic"+ext, f)
	if err != nil {
		log.Printf("store background music: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{Message: "Background music uploaded", Path: "/" + key})
}

func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
