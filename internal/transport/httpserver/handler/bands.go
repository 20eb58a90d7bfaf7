package handler

import (
	"errors"
	"net/http"
	"strings"

	banddomain "gear-tracker-go/internal/domain/band"
	"github.com/go-chi/chi/v5"
)

type bandRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PhotoURL    *string `json:"photo_url"`
}

type memberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type memberRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handlers) ListBands(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	bands, err := h.Bands.ListBands(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("bands.list: query failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, bands)
}

func (h *Handlers) GetBand(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	bandID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	band, err := h.Bands.GetBand(r.Context(), user.ID, bandID)
	if err != nil {
		if errors.Is(err, banddomain.ErrBandNotFound) {
			writeError(w, http.StatusNotFound, "band_not_found", "band not found")
			return
		}
		h.log.InternalError("bands.get: query failed", err, "user_id", user.ID, "band_id", bandID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, band)
}

func (h *Handlers) CreateBand(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req bandRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeValidationError(w, "name", "name is required")
		return
	}

	input := banddomain.CreateBandInput{
		OwnerID:     user.ID,
		Name:        *req.Name,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
	}

	band, err := h.Bands.CreateBand(r.Context(), input)
	if err != nil {
		h.log.InternalError("bands.create: create failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, band)
}

func (h *Handlers) UpdateBand(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	bandID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	var req bandRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeValidationError(w, "name", "name cannot be empty")
		return
	}

	input := banddomain.UpdateBandInput{
		Name:        req.Name,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
	}

	band, err := h.Bands.UpdateBand(r.Context(), user.ID, bandID, input)
	if err != nil {
		if h.writeBandError(w, err) {
			return
		}
		h.log.InternalError("bands.update: update failed", err, "user_id", user.ID, "band_id", bandID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, band)
}

func (h *Handlers) DeleteBand(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	bandID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	if err := h.Bands.DeleteBand(r.Context(), user.ID, bandID); err != nil {
		if h.writeBandError(w, err) {
			return
		}
		h.log.InternalError("bands.delete: delete failed", err, "user_id", user.ID, "band_id", bandID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListBandMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	bandID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	members, err := h.Bands.ListMembers(r.Context(), user.ID, bandID)
	if err != nil {
		if errors.Is(err, banddomain.ErrBandNotFound) {
			writeError(w, http.StatusNotFound, "band_not_found", "band not found")
			return
		}
		h.log.InternalError("members.list: query failed", err, "user_id", user.ID, "band_id", bandID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, members)
}

func (h *Handlers) AddBandMember(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	bandID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if strings.TrimSpace(req.UserID) == "" {
		writeValidationError(w, "user_id", "user_id is required")
		return
	}
	if req.Role != "" && (req.Role == banddomain.MemberRoleOwner || !banddomain.ValidMemberRole(req.Role)) {
		writeValidationError(w, "role", "invalid member role")
		return
	}

	member, err := h.Bands.AddMember(r.Context(), user.ID, bandID, req.UserID, req.Role)
	if err != nil {
		if h.writeBandError(w, err) {
			return
		}
		if errors.Is(err, banddomain.ErrAlreadyMember) {
			writeError(w, http.StatusConflict, "already_member", "user is already a member of this band")
			return
		}
		h.log.InternalError("members.add: insert failed", err, "user_id", user.ID, "band_id", bandID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

func (h *Handlers) UpdateBandMemberRole(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	bandID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}
	memberUserID := chi.URLParam(r, "userID")
	if memberUserID == "" {
		writeValidationError(w, "userID", "userID is required")
		return
	}

	var req memberRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Role == banddomain.MemberRoleOwner || !banddomain.ValidMemberRole(req.Role) {
		writeValidationError(w, "role", "invalid member role")
		return
	}

	if err := h.Bands.UpdateMemberRole(r.Context(), user.ID, bandID, memberUserID, req.Role); err != nil {
		if h.writeMemberError(w, err) {
			return
		}
		h.log.InternalError("members.update: update failed", err, "user_id", user.ID, "band_id", bandID, "member_user_id", memberUserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RemoveBandMember(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	bandID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}
	memberUserID := chi.URLParam(r, "userID")
	if memberUserID == "" {
		writeValidationError(w, "userID", "userID is required")
		return
	}

	if err := h.Bands.RemoveMember(r.Context(), user.ID, bandID, memberUserID); err != nil {
		if h.writeMemberError(w, err) {
			return
		}
		h.log.InternalError("members.remove: delete failed", err, "user_id", user.ID, "band_id", bandID, "member_user_id", memberUserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeBandError handles the sentinels common to band-scoped operations.
// It returns true when a response was written.
func (h *Handlers) writeBandError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, banddomain.ErrBandNotFound):
		writeError(w, http.StatusNotFound, "band_not_found", "band not found")
		return true
	case errors.Is(err, banddomain.ErrNotBandOwner):
		writeError(w, http.StatusForbidden, "not_band_owner", "only the band owner can do this")
		return true
	}
	return false
}

func (h *Handlers) writeMemberError(w http.ResponseWriter, err error) bool {
	if h.writeBandError(w, err) {
		return true
	}
	switch {
	case errors.Is(err, banddomain.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		return true
	case errors.Is(err, banddomain.ErrCannotRemoveOwner):
		writeError(w, http.StatusConflict, "cannot_modify_owner", "the band owner's membership cannot be changed")
		return true
	}
	return false
}
