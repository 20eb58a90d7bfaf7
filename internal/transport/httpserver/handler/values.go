package handler

import (
	"errors"
	"net/http"

	instrumentdomain "gear-tracker-go/internal/domain/instrument"
	"github.com/shopspring/decimal"
)

type addValueRequest struct {
	Value  *decimal.Decimal `json:"value"`
	Date   *string          `json:"date"`
	Source *string          `json:"source"`
	Notes  *string          `json:"notes"`
}

func (h *Handlers) ListValueHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	entries, err := h.Instruments.ListValues(r.Context(), user.ID, instrumentID)
	if err != nil {
		if errors.Is(err, instrumentdomain.ErrInstrumentNotFound) {
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
			return
		}
		h.log.InternalError("values.list: query failed", err, "user_id", user.ID, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *Handlers) AddValueEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	var req addValueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if req.Value == nil {
		writeValidationError(w, "value", "value is required")
		return
	}
	if req.Value.IsNegative() {
		writeValidationError(w, "value", "value cannot be negative")
		return
	}
	source := instrumentdomain.SourceManual
	if req.Source != nil {
		source = *req.Source
	}
	if !instrumentdomain.ValidSource(source) {
		writeValidationError(w, "source", "invalid source")
		return
	}
	date, err := parseDatePtr(req.Date)
	if err != nil {
		writeValidationError(w, "date", "invalid date")
		return
	}

	input := instrumentdomain.AddValueInput{
		Value:  *req.Value,
		Date:   date,
		Source: source,
		Notes:  req.Notes,
	}

	entry, err := h.Instruments.AddValueEntry(r.Context(), user.ID, instrumentID, input)
	if err != nil {
		if errors.Is(err, instrumentdomain.ErrInstrumentNotFound) {
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
			return
		}
		h.log.InternalError("values.add: insert failed", err, "user_id", user.ID, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}
