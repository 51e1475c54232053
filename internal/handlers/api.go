package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	apperrors "resale-dashboard/internal/errors"
	"resale-dashboard/internal/models"
	"resale-dashboard/internal/observability"
	"resale-dashboard/internal/services"
	"resale-dashboard/internal/store"
)

type APIHandlers struct {
	store     *store.Store
	importer  *services.Importer
	generator *services.Generator
	logger    *slog.Logger
	maxUpload int64
}

func NewAPIHandlers(st *store.Store, importer *services.Importer, generator *services.Generator, logger *slog.Logger, maxUpload int64) *APIHandlers {
	return &APIHandlers{
		store:     st,
		importer:  importer,
		generator: generator,
		logger:    logger,
		maxUpload: maxUpload,
	}
}

func (h *APIHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

// mapStoreError converts store sentinels into wire errors.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NotFound("Item not found")
	case errors.Is(err, store.ErrAlreadySold):
		return apperrors.Conflict("Item is already sold")
	case errors.Is(err, store.ErrEmptyPatch):
		return apperrors.BadRequest("No fields to update")
	default:
		return apperrors.InternalWrap(err, "An unexpected error occurred")
	}
}

func itemID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, apperrors.BadRequest("Invalid item id")
	}
	return id, nil
}

func (h *APIHandlers) HandleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.writeError(w, r, mapStoreError(err))
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, items)
}

func (h *APIHandlers) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	var draft models.ItemDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.writeError(w, r, apperrors.ValidationWrap(err, "Invalid request body"))
		return
	}
	if err := draft.Validate(); err != nil {
		h.writeError(w, r, apperrors.Validation(err.Error()))
		return
	}

	item, err := h.store.Create(r.Context(), draft)
	if err != nil {
		h.writeError(w, r, mapStoreError(err))
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, item)
}

func (h *APIHandlers) HandleEditItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var patch models.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, r, apperrors.ValidationWrap(err, "Invalid request body"))
		return
	}
	if err := patch.Validate(); err != nil {
		h.writeError(w, r, apperrors.Validation(err.Error()))
		return
	}

	item, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, r, mapStoreError(err))
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, item)
}

func (h *APIHandlers) HandleSellItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req models.SellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.ValidationWrap(err, "Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, r, apperrors.Validation(err.Error()))
		return
	}

	item, err := h.store.Sell(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, mapStoreError(err))
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, item)
}

func (h *APIHandlers) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, mapStoreError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandlers) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.store.Analysis(r.Context())
	if err != nil {
		h.writeError(w, r, mapStoreError(err))
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, analysis)
}

func (h *APIHandlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, r, apperrors.BadRequest("Missing file upload"))
		return
	}
	defer file.Close()

	summary, err := h.importer.Import(r.Context(), header.Filename, file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusCreated, summary)
}

// formUpload pulls an optional uploaded file out of a multipart form.
func formUpload(r *http.Request, field string) (*services.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.BadRequest("Invalid file upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.BadRequest("Invalid file upload")
	}
	return &services.Upload{Filename: header.Filename, Data: data}, nil
}

func (h *APIHandlers) HandleGenerateDescription(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil && !errors.Is(err, multipart.ErrMessageTooLarge) {
		h.writeError(w, r, apperrors.BadRequest("Invalid multipart form"))
		return
	}

	image, err := formUpload(r, "image")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.generator.GenerateDescription(r.Context(), r.FormValue("notes"), image)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) HandleGenerateImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil && !errors.Is(err, multipart.ErrMessageTooLarge) {
		h.writeError(w, r, apperrors.BadRequest("Invalid multipart form"))
		return
	}

	image, err := formUpload(r, "image")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if image == nil {
		h.writeError(w, r, apperrors.BadRequest("Missing image upload"))
		return
	}

	result, err := h.generator.GenerateImage(r.Context(), image)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, mapStoreError(err))
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, stats)
}
