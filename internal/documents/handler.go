package documents

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/QualitasTechnologies/bom-tracker/internal/identity"
	"github.com/QualitasTechnologies/bom-tracker/internal/observability"
	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

const maxUploadBytes = 32 << 20

// Handler manages document endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// MountRoutes registers document routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/projects/{projectID}/documents", h.handleList)
	r.Post("/projects/{projectID}/documents", h.handleUpload)
	r.Get("/documents/{docID}", h.handleGet)
	r.Get("/documents/{docID}/download", h.handleDownload)
	r.Get("/documents/{docID}/delete-check", h.handleCheckDelete)
	r.Delete("/documents/{docID}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.List(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		verr := &shared.ValidationError{}
		verr.Add("Upload must be multipart form data within the size limit")
		shared.RespondError(w, h.logger, verr)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		verr := &shared.ValidationError{}
		verr.Add("A file part is required")
		shared.RespondError(w, h.logger, verr)
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	doc, err := h.service.Upload(r.Context(), chi.URLParam(r, "projectID"), UploadInput{
		Name:        name,
		Type:        Type(r.FormValue("type")),
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		UploadedBy:  identity.UserID(r.Context()),
	}, file)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	h.metrics.RecordDocumentStored()
	shared.RespondJSON(w, http.StatusCreated, doc)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Get(r.Context(), chi.URLParam(r, "docID"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	url, err := h.service.DownloadURL(r.Context(), chi.URLParam(r, "docID"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *Handler) handleCheckDelete(w http.ResponseWriter, r *http.Request) {
	check, err := h.service.CheckDelete(r.Context(), chi.URLParam(r, "docID"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, check)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "docID"), identity.UserID(r.Context())); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
