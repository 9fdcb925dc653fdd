package vendors

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/QualitasTechnologies/bom-tracker/internal/identity"
	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// Handler wires HTTP endpoints for the vendor master list.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers vendor routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/vendors", h.handleList)
	r.Post("/vendors", h.handleCreate)
	r.Post("/vendors/import", h.handleImport)
	r.Get("/vendors/{vendorID}", h.handleGet)
	r.Put("/vendors/{vendorID}", h.handleUpdate)
	r.Delete("/vendors/{vendorID}", h.handleDelete)
	r.Post("/vendors/{vendorID}/verify-gstin", h.handleVerifyGSTIN)
}

type vendorForm struct {
	Name          string   `json:"name" validate:"required"`
	GSTIN         string   `json:"gstin" validate:"omitempty,len=15"`
	StateCode     string   `json:"stateCode" validate:"omitempty,len=2"`
	StateName     string   `json:"stateName"`
	Address       string   `json:"address"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Phone         string   `json:"phone"`
	ContactPerson string   `json:"contactPerson"`
	Categories    []string `json:"categories"`
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (vendorForm, error) {
	var form vendorForm
	if err := shared.DecodeJSON(w, r, &form); err != nil {
		return form, err
	}
	if err := h.validator.Struct(form); err != nil {
		verr := &shared.ValidationError{}
		for _, fieldErr := range err.(validator.ValidationErrors) {
			verr.Add("Field %s failed validation rule %s", fieldErr.Field(), fieldErr.Tag())
		}
		return form, verr
	}
	return form, nil
}

func (f vendorForm) toInput() CreateInput {
	return CreateInput{
		Name:          f.Name,
		GSTIN:         f.GSTIN,
		StateCode:     f.StateCode,
		StateName:     f.StateName,
		Address:       f.Address,
		Email:         f.Email,
		Phone:         f.Phone,
		ContactPerson: f.ContactPerson,
		Categories:    f.Categories,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("perPage"))
	list, pg, err := h.service.List(r.Context(), q.Get("q"), page, perPage)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"vendors": list, "pagination": pg})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	form, err := h.decodeForm(w, r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	v, err := h.service.Create(r.Context(), form.toInput(), identity.UserID(r.Context()))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		verr := &shared.ValidationError{}
		verr.Add("Import must be multipart form data with a file part")
		shared.RespondError(w, h.logger, verr)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		verr := &shared.ValidationError{}
		verr.Add("A CSV file part is required")
		shared.RespondError(w, h.logger, verr)
		return
	}
	defer file.Close()

	report, err := h.service.ImportCSV(r.Context(), file, identity.UserID(r.Context()))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, report)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Get(r.Context(), chi.URLParam(r, "vendorID"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, v)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	form, err := h.decodeForm(w, r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	v, err := h.service.Update(r.Context(), chi.URLParam(r, "vendorID"), form.toInput(), identity.UserID(r.Context()))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, v)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "vendorID"), identity.UserID(r.Context())); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleVerifyGSTIN(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.VerifyGSTIN(r.Context(), chi.URLParam(r, "vendorID"), identity.UserID(r.Context()))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, v)
}
