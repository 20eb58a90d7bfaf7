package handler

import (
	"errors"
	"net/http"
	"strings"

	instrumentdomain "gear-tracker-go/internal/domain/instrument"
	"github.com/shopspring/decimal"
)

type maintenanceRecordRequest struct {
	Type        *string          `json:"type"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Date        *string          `json:"date"`
	Cost        *decimal.Decimal `json:"cost"`
	PerformedBy *string          `json:"performed_by"`
	Location    *string          `json:"location"`
	Notes       *string          `json:"notes"`
}

type scheduleEntryRequest struct {
	Type               *string `json:"type"`
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	DueDate            *string `json:"due_date"`
	RecurrenceType     *string `json:"recurrence_type"`
	RecurrenceInterval *int    `json:"recurrence_interval"`
	ReminderEnabled    *bool   `json:"reminder_enabled"`
	ReminderDaysBefore *int    `json:"reminder_days_before"`
}

func (h *Handlers) ListMaintenanceRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	records, err := h.Instruments.ListRecords(r.Context(), user.ID, instrumentID)
	if err != nil {
		if errors.Is(err, instrumentdomain.ErrInstrumentNotFound) {
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
			return
		}
		h.log.InternalError("maintenance.list: query failed", err, "user_id", user.ID, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *Handlers) CreateMaintenanceRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	var req maintenanceRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if req.Type == nil || strings.TrimSpace(*req.Type) == "" {
		writeValidationError(w, "type", "type is required")
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		writeValidationError(w, "title", "title is required")
		return
	}
	if req.Date == nil {
		writeValidationError(w, "date", "date is required")
		return
	}
	date, err := parseDate(*req.Date)
	if err != nil {
		writeValidationError(w, "date", "invalid date")
		return
	}

	input := instrumentdomain.RecordInput{
		Type:        *req.Type,
		Title:       *req.Title,
		Description: req.Description,
		Date:        date,
		Cost:        req.Cost,
		PerformedBy: req.PerformedBy,
		Location:    req.Location,
		Notes:       req.Notes,
	}

	record, err := h.Instruments.AddRecord(r.Context(), user.ID, instrumentID, input)
	if err != nil {
		if errors.Is(err, instrumentdomain.ErrInstrumentNotFound) {
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
			return
		}
		h.log.InternalError("maintenance.create: insert failed", err, "user_id", user.ID, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (h *Handlers) UpdateMaintenanceRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}
	recordID, err := parseIDParam(r, "recordID")
	if err != nil {
		writeValidationError(w, "recordID", err.Error())
		return
	}

	var req maintenanceRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if req.Type != nil && strings.TrimSpace(*req.Type) == "" {
		writeValidationError(w, "type", "type cannot be empty")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeValidationError(w, "title", "title cannot be empty")
		return
	}
	date, err := parseDatePtr(req.Date)
	if err != nil {
		writeValidationError(w, "date", "invalid date")
		return
	}

	input := instrumentdomain.UpdateRecordInput{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Cost:        req.Cost,
		PerformedBy: req.PerformedBy,
		Location:    req.Location,
		Notes:       req.Notes,
	}

	record, err := h.Instruments.UpdateRecord(r.Context(), user.ID, instrumentID, recordID, input)
	if err != nil {
		switch {
		case errors.Is(err, instrumentdomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		case errors.Is(err, instrumentdomain.ErrRecordNotFound):
			writeError(w, http.StatusNotFound, "maintenance_record_not_found", "maintenance record not found")
		default:
			h.log.InternalError("maintenance.update: update failed", err, "user_id", user.ID, "instrument_id", instrumentID, "record_id", recordID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *Handlers) DeleteMaintenanceRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}
	recordID, err := parseIDParam(r, "recordID")
	if err != nil {
		writeValidationError(w, "recordID", err.Error())
		return
	}

	if err := h.Instruments.DeleteRecord(r.Context(), user.ID, instrumentID, recordID); err != nil {
		switch {
		case errors.Is(err, instrumentdomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		case errors.Is(err, instrumentdomain.ErrRecordNotFound):
			writeError(w, http.StatusNotFound, "maintenance_record_not_found", "maintenance record not found")
		default:
			h.log.InternalError("maintenance.delete: delete failed", err, "user_id", user.ID, "instrument_id", instrumentID, "record_id", recordID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListScheduleEntries(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	entries, err := h.Instruments.ListSchedule(r.Context(), user.ID, instrumentID)
	if err != nil {
		if errors.Is(err, instrumentdomain.ErrInstrumentNotFound) {
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
			return
		}
		h.log.InternalError("schedule.list: query failed", err, "user_id", user.ID, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *Handlers) CreateScheduleEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}

	var req scheduleEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if req.Type == nil || strings.TrimSpace(*req.Type) == "" {
		writeValidationError(w, "type", "type is required")
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		writeValidationError(w, "title", "title is required")
		return
	}
	if req.DueDate == nil {
		writeValidationError(w, "due_date", "due_date is required")
		return
	}
	dueDate, err := parseDate(*req.DueDate)
	if err != nil {
		writeValidationError(w, "due_date", "invalid due date")
		return
	}
	recurrence := instrumentdomain.RecurrenceNone
	if req.RecurrenceType != nil {
		recurrence = *req.RecurrenceType
	}
	if !instrumentdomain.ValidRecurrence(recurrence) {
		writeValidationError(w, "recurrence_type", "invalid recurrence type")
		return
	}

	input := instrumentdomain.ScheduleInput{
		Type:               *req.Type,
		Title:              *req.Title,
		Description:        req.Description,
		DueDate:            dueDate,
		RecurrenceType:     recurrence,
		RecurrenceInterval: req.RecurrenceInterval,
		ReminderEnabled:    req.ReminderEnabled,
		ReminderDaysBefore: req.ReminderDaysBefore,
	}

	entry, err := h.Instruments.AddScheduleEntry(r.Context(), user.ID, instrumentID, input)
	if err != nil {
		if errors.Is(err, instrumentdomain.ErrInstrumentNotFound) {
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
			return
		}
		h.log.InternalError("schedule.create: insert failed", err, "user_id", user.ID, "instrument_id", instrumentID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handlers) UpdateScheduleEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}
	entryID, err := parseIDParam(r, "entryID")
	if err != nil {
		writeValidationError(w, "entryID", err.Error())
		return
	}

	var req scheduleEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if req.Type != nil && strings.TrimSpace(*req.Type) == "" {
		writeValidationError(w, "type", "type cannot be empty")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeValidationError(w, "title", "title cannot be empty")
		return
	}
	if req.RecurrenceType != nil && !instrumentdomain.ValidRecurrence(*req.RecurrenceType) {
		writeValidationError(w, "recurrence_type", "invalid recurrence type")
		return
	}
	dueDate, err := parseDatePtr(req.DueDate)
	if err != nil {
		writeValidationError(w, "due_date", "invalid due date")
		return
	}

	input := instrumentdomain.UpdateScheduleInput{
		Type:               req.Type,
		Title:              req.Title,
		Description:        req.Description,
		DueDate:            dueDate,
		RecurrenceType:     req.RecurrenceType,
		RecurrenceInterval: req.RecurrenceInterval,
		ReminderEnabled:    req.ReminderEnabled,
		ReminderDaysBefore: req.ReminderDaysBefore,
	}

	entry, err := h.Instruments.UpdateScheduleEntry(r.Context(), user.ID, instrumentID, entryID, input)
	if err != nil {
		switch {
		case errors.Is(err, instrumentdomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		case errors.Is(err, instrumentdomain.ErrScheduleEntryNotFound):
			writeError(w, http.StatusNotFound, "schedule_entry_not_found", "schedule entry not found")
		default:
			h.log.InternalError("schedule.update: update failed", err, "user_id", user.ID, "instrument_id", instrumentID, "entry_id", entryID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *Handlers) DeleteScheduleEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	instrumentID, err := parseIDParam(r, "id")
	if err != nil {
		writeValidationError(w, "id", err.Error())
		return
	}
	entryID, err := parseIDParam(r, "entryID")
	if err != nil {
		writeValidationError(w, "entryID", err.Error())
		return
	}

	if err := h.Instruments.DeleteScheduleEntry(r.Context(), user.ID, instrumentID, entryID); err != nil {
		switch {
		case errors.Is(err, instrumentdomain.ErrInstrumentNotFound):
			writeError(w, http.StatusNotFound, "instrument_not_found", "instrument not found")
		case errors.Is(err, instrumentdomain.ErrScheduleEntryNotFound):
			writeError(w, http.StatusNotFound, "schedule_entry_not_found", "schedule entry not found")
		default:
			h.log.InternalError("schedule.delete: delete failed", err, "user_id", user.ID, "instrument_id", instrumentID, "entry_id", entryID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
