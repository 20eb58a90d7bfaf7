package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	instrumentdomain "gear-tracker-go/internal/domain/instrument"
)

// maxImageUpload caps multipart uploads at 10 MiB.
const maxImageUpload = 10 << 20

func (h *Handlers) ListInstrumentImages(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	images, err := h.Instruments.ListImages(r.Context(), user.ID, instrumentID)
	if err != nil {
		if errors.Is(err, instrumentdomain.ErrInstrumentNotFound) {
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
			return
		}
		h.log.InternalError("images.list: query failed", err, "user_id", user.ID, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, images)
}

// UploadInstrumentImage accepts a multipart form with an "image" file part
// and an optional "caption" field. The original and a thumbnail are pushed
// to object storage before the row is written.
func (h *Handlers) UploadInstrumentImage(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	if h.images == nil {
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "image storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		writeValidationError(w, "image", "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeValidationError(w, "image", "image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeValidationError(w, "image", "file must be an image")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageUpload))
	if err != nil {
		h.log.InternalError("images.upload: read failed", err, "user_id", user.ID, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result, err := h.images.UploadInstrumentImage(r.Context(), user.ID, header.Filename, contentType, data)
	if err != nil {
		h.log.InternalError("images.upload: storage write failed", err, "user_id", user.ID, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "storage_error", "failed to store image")
		return
	}

	input := instrumentdomain.AddImageInput{ImageURL: result.ImageURL}
	if result.ThumbnailURL != "" {
		input.ThumbnailURL = &result.ThumbnailURL
	}
	if caption := strings.TrimSpace(r.FormValue("caption")); caption != "" {
		input.Caption = &caption
	}

	image, err := h.Instruments.AddImage(r.Context(), user.ID, instrumentID, input)
	if err != nil {
		if errors.Is(err, instrumentdomain.ErrInstrumentNotFound) {
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
			return
		}
		h.log.InternalError("images.upload: insert failed", err, "user_id", user.ID, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, image)
}

type reorderImagesRequest struct {
	ImageIDs []uint `json:"image_ids"`
}

func (h *Handlers) ReorderInstrumentImages(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	var req reorderImagesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if len(req.ImageIDs) == 0 {
		writeValidationError(w, "image_ids", "image_ids is required")
		return
	}

	if err := h.Instruments.ReorderImages(r.Context(), user.ID, instrumentID, req.ImageIDs); err != nil {
		switch {
		case errors.Is(err, instrumentdomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		case errors.Is(err, instrumentdomain.ErrImageNotFound):
			writeError(w, http.StatusNotFound, "image_not_found", "image not found")
		default:
			h.log.InternalError("images.reorder: update failed", err, "user_id", user.ID, "instrument_id", instrumentID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteInstrumentImage(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}
	imageID, err := parseIDParam(r, "imageID")
	if err != nil {
		writeValidationError(w, "imageID", err.Error())
		return
	}

	if err := h.Instruments.DeleteImage(r.Context(), user.ID, instrumentID, imageID); err != nil {
		switch {
		case errors.Is(err, instrumentdomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		case errors.Is(err, instrumentdomain.ErrImageNotFound):
			writeError(w, http.StatusNotFound, "image_not_found", "image not found")
		default:
			h.log.InternalError("images.delete: delete failed", err, "user_id", user.ID, "instrument_id", instrumentID, "image_id", imageID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
