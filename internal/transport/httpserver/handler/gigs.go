package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	banddomain "gear-tracker-go/internal/domain/band"
	gigdomain "gear-tracker-go/internal/domain/gig"
)

type gigRequest struct {
	BandID      *uint   `json:"band_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Venue       *string `json:"venue"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Country     *string `json:"country"`
	PostalCode  *string `json:"postal_code"`
	Notes       *string `json:"notes"`
}

type addGearRequest struct {
	InstrumentID uint    `json:"instrument_id"`
	Notes        *string `json:"notes"`
}

type gearPackedRequest struct {
	IsPacked *bool `json:"is_packed"`
}

// ListGigs responds with the caller's gigs across all their bands, or a
// single band's gigs when ?band_id= is present.
func (h *Handlers) ListGigs(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var bandID *uint
	if raw := r.URL.Query().Get("band_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			writeValidationError(w, "band_id", "band_id must be a positive integer")
			return
		}
		id := uint(parsed)
		bandID = &id
	}

	gigs, err := h.Gigs.ListGigs(r.Context(), user.ID, bandID)
	if err != nil {
		if errors.Is(err, banddomain.ErrBandNotFound) {
			writeError(w, http.StatusNotFound, "band_not_found", "band not found")
			return
		}
		h.log.InternalError("gigs.list: query failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, gigs)
}

func (h *Handlers) GetGig(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	gigID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	gig, err := h.Gigs.GetGig(r.Context(), user.ID, gigID)
	if err != nil {
		if errors.Is(err, gigdomain.ErrGigNotFound) {
			writeError(w, http.StatusNotFound, "gig_not_found", "gig not found")
			return
		}
		h.log.InternalError("gigs.get: query failed", err, "user_id", user.ID, "gig_id", gigID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, gig)
}

func (h *Handlers) CreateGig(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req gigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if req.BandID == nil || *req.BandID == 0 {
		writeValidationError(w, "band_id", "band_id is required")
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		writeValidationError(w, "title", "title is required")
		return
	}
	if req.StartTime == nil {
		writeValidationError(w, "start_time", "start_time is required")
		return
	}
	startTime, err := parseTimestamp(*req.StartTime)
	if err != nil {
		writeValidationError(w, "start_time", "invalid start time")
		return
	}
	endTime, err := parseTimestampPtr(req.EndTime)
	if err != nil {
		writeValidationError(w, "end_time", "invalid end time")
		return
	}
	if endTime != nil && endTime.Before(startTime) {
		writeValidationError(w, "end_time", "end_time cannot precede start_time")
		return
	}

	input := gigdomain.CreateGigInput{
		BandID:      *req.BandID,
		CreatedBy:   user.ID,
		Title:       *req.Title,
		Description: req.Description,
		StartTime:   startTime,
		EndTime:     endTime,
		Venue:       req.Venue,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		PostalCode:  req.PostalCode,
		Notes:       req.Notes,
	}

	gig, err := h.Gigs.CreateGig(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, banddomain.ErrBandNotFound):
			writeError(w, http.StatusNotFound, "band_not_found", "band not found")
		case errors.Is(err, gigdomain.ErrInvalidTimeRange):
			writeValidationError(w, "end_time", "end_time cannot precede start_time")
		default:
			h.log.InternalError("gigs.create: create failed", err, "user_id", user.ID, "band_id", *req.BandID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, gig)
}

func (h *Handlers) UpdateGig(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	gigID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	var req gigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeValidationError(w, "title", "title cannot be empty")
		return
	}
	startTime, err := parseTimestampPtr(req.StartTime)
	if err != nil {
		writeValidationError(w, "start_time", "invalid start time")
		return
	}
	endTime, err := parseTimestampPtr(req.EndTime)
	if err != nil {
		writeValidationError(w, "end_time", "invalid end time")
		return
	}
	if startTime != nil && endTime != nil && endTime.Before(*startTime) {
		writeValidationError(w, "end_time", "end_time cannot precede start_time")
		return
	}

	input := gigdomain.UpdateGigInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   startTime,
		EndTime:     endTime,
		Venue:       req.Venue,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		PostalCode:  req.PostalCode,
		Notes:       req.Notes,
	}

	gig, err := h.Gigs.UpdateGig(r.Context(), user.ID, gigID, input)
	if err != nil {
		switch {
		case errors.Is(err, gigdomain.ErrGigNotFound):
			writeError(w, http.StatusNotFound, "gig_not_found", "gig not found")
		case errors.Is(err, gigdomain.ErrInvalidTimeRange):
			writeValidationError(w, "end_time", "end_time cannot precede start_time")
		default:
			h.log.InternalError("gigs.update: update failed", err, "user_id", user.ID, "gig_id", gigID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, gig)
}

func (h *Handlers) DeleteGig(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	gigID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	if err := h.Gigs.DeleteGig(r.Context(), user.ID, gigID); err != nil {
		if errors.Is(err, gigdomain.ErrGigNotFound) {
			writeError(w, http.StatusNotFound, "gig_not_found", "gig not found")
			return
		}
		h.log.InternalError("gigs.delete: delete failed", err, "user_id", user.ID, "gig_id", gigID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListGigGear(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	gigID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	gear, err := h.Gigs.ListGear(r.Context(), user.ID, gigID)
	if err != nil {
		if errors.Is(err, gigdomain.ErrGigNotFound) {
			writeError(w, http.StatusNotFound, "gig_not_found", "gig not found")
			return
		}
		h.log.InternalError("gear.list: query failed", err, "user_id", user.ID, "gig_id", gigID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, gear)
}

func (h *Handlers) AddGigGear(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	gigID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	var req addGearRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.InstrumentID == 0 {
		writeValidationError(w, "instrument_id", "instrument_id is required")
		return
	}

	gear, err := h.Gigs.AddGear(r.Context(), user.ID, gigID, req.InstrumentID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, gigdomain.ErrGigNotFound):
			writeError(w, http.StatusNotFound, "gig_not_found", "gig not found")
		case errors.Is(err, gigdomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		case errors.Is(err, gigdomain.ErrGearAlreadyListed):
			writeError(w, http.StatusConflict, "gear_already_listed", "instrument is already on this gig's packing list")
		default:
			h.log.InternalError("gear.add: insert failed", err, "user_id", user.ID, "gig_id", gigID, "instrument_id", req.InstrumentID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, gear)
}

func (h *Handlers) SetGigGearPacked(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	gigID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}
	instrumentID, err := parseIDParam(r, "instrumentID")
	if err != nil {
		writeValidationError(w, "instrumentID", err.Error())
		return
	}

	var req gearPackedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.IsPacked == nil {
		writeValidationError(w, "is_packed", "is_packed is required")
		return
	}

	if err := h.Gigs.SetGearPacked(r.Context(), user.ID, gigID, instrumentID, *req.IsPacked); err != nil {
		switch {
		case errors.Is(err, gigdomain.ErrGigNotFound):
			writeError(w, http.StatusNotFound, "gig_not_found", "gig not found")
		case errors.Is(err, gigdomain.ErrGearNotFound):
			writeError(w, http.StatusNotFound, "gear_not_found", "gear not found")
		default:
			h.log.InternalError("gear.pack: update failed", err, "user_id", user.ID, "gig_id", gigID, "instrument_id", instrumentID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RemoveGigGear(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	gigID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}
	instrumentID, err := parseIDParam(r, "instrumentID")
	if err != nil {
		writeValidationError(w, "instrumentID", err.Error())
		return
	}

	if err := h.Gigs.RemoveGear(r.Context(), user.ID, gigID, instrumentID); err != nil {
		switch {
		case errors.Is(err, gigdomain.ErrGigNotFound):
			writeError(w, http.StatusNotFound, "gig_not_found", "gig not found")
		case errors.Is(err, gigdomain.ErrGearNotFound):
			writeError(w, http.StatusNotFound, "gear_not_found", "gear not found")
		default:
			h.log.InternalError("gear.remove: delete failed", err, "user_id", user.ID, "gig_id", gigID, "instrument_id", instrumentID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
