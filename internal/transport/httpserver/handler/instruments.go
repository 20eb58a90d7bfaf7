package handler

import (
	"errors"
	"net/http"
	"strings"

	instrumentdomain "gear-tracker-go/internal/domain/instrument"
	"github.com/shopspring/decimal"
)

// instrumentRequest covers both create and update bodies; every field
// is a pointer so updates can distinguish "absent" from "zero".
type instrumentRequest struct {
	Name            *string          `json:"name"`
	Type            *string          `json:"type"`
	Make            *string          `json:"make"`
	Model           *string          `json:"model"`
	SerialNumber    *string          `json:"serial_number"`
	PurchaseDate    *string          `json:"purchase_date"`
	PurchasePrice   *decimal.Decimal `json:"purchase_price"`
	CurrentValue    *decimal.Decimal `json:"current_value"`
	Description     *string          `json:"description"`
	Condition       *string          `json:"condition"`
	Insured         *bool            `json:"insured"`
	InsurancePolicy *string          `json:"insurance_policy"`
	Notes           *string          `json:"notes"`
	StorageLocation *string          `json:"storage_location"`
	BandID          *uint            `json:"band_id"`
	IsActive        *bool            `json:"is_active"`
}

func (h *Handlers) ListInstruments(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	items, err := h.Instruments.List(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("instruments.list: query failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) GetInstrument(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	detail, err := h.Instruments.GetDetail(r.Context(), user.ID, instrumentID)
	if err != nil {
		if errors.Is(err, instrumentdomain.ErrInstrumentNotFound) {
			h.log.BusinessError("instruments.get: not found", err, "user_id", user.ID, "instrument_id", instrumentID)
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
			return
		}
		h.log.InternalError("instruments.get: query failed", err, "user_id", user.ID, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *Handlers) CreateInstrument(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req instrumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeValidationError(w, "name", "name is required")
		return
	}
	if req.Type == nil || strings.TrimSpace(*req.Type) == "" {
		writeValidationError(w, "type", "type is required")
		return
	}
	purchaseDate, err := parseDatePtr(req.PurchaseDate)
	if err != nil {
		writeValidationError(w, "purchase_date", "invalid purchase date")
		return
	}

	input := instrumentdomain.CreateInstrumentInput{
		OwnerID:         user.ID,
		Name:            *req.Name,
		Type:            *req.Type,
		Make:            req.Make,
		Model:           req.Model,
		SerialNumber:    req.SerialNumber,
		PurchaseDate:    purchaseDate,
		PurchasePrice:   req.PurchasePrice,
		CurrentValue:    req.CurrentValue,
		Description:     req.Description,
		Condition:       req.Condition,
		Insured:         req.Insured,
		InsurancePolicy: req.InsurancePolicy,
		Notes:           req.Notes,
		StorageLocation: req.StorageLocation,
		BandID:          req.BandID,
	}

	created, err := h.Instruments.Create(r.Context(), input)
	if err != nil {
		h.log.InternalError("instruments.create: create failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateInstrument(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	var req instrumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeValidationError(w, "name", "name cannot be empty")
		return
	}
	if req.Type != nil && strings.TrimSpace(*req.Type) == "" {
		writeValidationError(w, "type", "type cannot be empty")
		return
	}
	purchaseDate, err := parseDatePtr(req.PurchaseDate)
	if err != nil {
		writeValidationError(w, "purchase_date", "invalid purchase date")
		return
	}

	input := instrumentdomain.UpdateInstrumentInput{
		Name:            req.Name,
		Type:            req.Type,
		Make:            req.Make,
		Model:           req.Model,
		SerialNumber:    req.SerialNumber,
		PurchaseDate:    purchaseDate,
		PurchasePrice:   req.PurchasePrice,
		CurrentValue:    req.CurrentValue,
		Description:     req.Description,
		Condition:       req.Condition,
		Insured:         req.Insured,
		InsurancePolicy: req.InsurancePolicy,
		Notes:           req.Notes,
		StorageLocation: req.StorageLocation,
		BandID:          req.BandID,
		IsActive:        req.IsActive,
	}

	updated, err := h.Instruments.Update(r.Context(), user.ID, instrumentID, input)
	if err != nil {
		if errors.Is(err, instrumentdomain.ErrInstrumentNotFound) {
			h.log.BusinessError("instruments.update: not found", err, "user_id", user.ID, "instrument_id", instrumentID)
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
			return
		}
		h.log.InternalError("instruments.update: update failed", err, "user_id", user.ID, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteInstrument(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	if err := h.Instruments.Delete(r.Context(), user.ID, instrumentID); err != nil {
		if errors.Is(err, instrumentdomain.ErrInstrumentNotFound) {
			h.log.BusinessError("instruments.delete: not found", err, "user_id", user.ID, "instrument_id", instrumentID)
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
			return
		}
		h.log.InternalError("instruments.delete: delete failed", err, "user_id", user.ID, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
