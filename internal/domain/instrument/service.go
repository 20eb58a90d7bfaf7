package instrument

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	noteInitialValue = "Initial value set during creation"
	noteValueUpdated = "Value updated"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// List returns every instrument the owner has, name ascending.
func (s *Service) List(ctx context.Context, ownerID string) ([]Instrument, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// GetDetail assembles the instrument with its four child collections.
// The child reads are independent queries; they are not snapshot
// consistent with the instrument row.
func (s *Service) GetDetail(ctx context.Context, ownerID string, instrumentID uint) (*Detail, error) {
	record, err := s.repo.GetByID(ctx, ownerID, instrumentID)
	if err != nil {
		return nil, err
	}

	images, err := s.repo.ListImages(ctx, instrumentID)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListRecords(ctx, instrumentID)
	if err != nil {
		return nil, err
	}
	schedule, err := s.repo.ListSchedule(ctx, instrumentID)
	if err != nil {
		return nil, err
	}
	values, err := s.repo.ListValues(ctx, instrumentID)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Instrument:          *record,
		Images:              images,
		MaintenanceRecords:  records,
		MaintenanceSchedule: schedule,
		ValueHistory:        values,
	}, nil
}

func (s *Service) Create(ctx context.Context, input CreateInstrumentInput) (*Instrument, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	instrumentType := strings.TrimSpace(input.Type)
	if instrumentType == "" {
		return nil, fmt.Errorf("type is required")
	}

	record := Instrument{
		Name:            name,
		Type:            instrumentType,
		Make:            input.Make,
		Model:           input.Model,
		SerialNumber:    input.SerialNumber,
		PurchaseDate:    input.PurchaseDate,
		PurchasePrice:   input.PurchasePrice,
		CurrentValue:    input.CurrentValue,
		Description:     input.Description,
		Condition:       input.Condition,
		InsurancePolicy: input.InsurancePolicy,
		Notes:           input.Notes,
		StorageLocation: input.StorageLocation,
		IsActive:        true,
		OwnerID:         input.OwnerID,
		BandID:          input.BandID,
	}
	if input.Insured != nil {
		record.Insured = *input.Insured
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}

	// Deliberately a second statement, not a transaction: a crash in
	// between leaves the instrument without its initial history row.
	if input.CurrentValue != nil {
		notes := noteInitialValue
		entry := ValueEntry{
			InstrumentID: record.ID,
			Value:        *input.CurrentValue,
			Date:         s.now(),
			Source:       SourceManual,
			Notes:        &notes,
		}
		if err := s.repo.AddValueEntry(ctx, &entry); err != nil {
			return nil, err
		}
	}

	return &record, nil
}

// Update applies only the supplied fields. The write itself carries
// the owner predicate, so the earlier read cannot be raced into
// mutating someone else's row. A value history entry is appended only
// when current_value is supplied and actually changes.
func (s *Service) Update(ctx context.Context, ownerID string, instrumentID uint, input UpdateInstrumentInput) (*Instrument, error) {
	previous, err := s.repo.GetByID(ctx, ownerID, instrumentID)
	if err != nil {
		return nil, err
	}

	fields, err := updateFields(input)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		updated, err := s.repo.Update(ctx, instrumentID, ownerID, fields)
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, ErrInstrumentNotFound
		}
	}

	if input.CurrentValue != nil && valueChanged(previous, input) {
		notes := noteValueUpdated
		entry := ValueEntry{
			InstrumentID: instrumentID,
			Value:        *input.CurrentValue,
			Date:         s.now(),
			Source:       SourceManual,
			Notes:        &notes,
		}
		if err := s.repo.AddValueEntry(ctx, &entry); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, ownerID, instrumentID)
}

// Delete removes the owned instrument; images, maintenance, schedule,
// value history and gig gear rows go with it by cascade.
func (s *Service) Delete(ctx context.Context, ownerID string, instrumentID uint) error {
	deleted, err := s.repo.Delete(ctx, instrumentID, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrInstrumentNotFound
	}
	return nil
}

func (s *Service) ListImages(ctx context.Context, ownerID string, instrumentID uint) ([]Image, error) {
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return nil, err
	}
	return s.repo.ListImages(ctx, instrumentID)
}

func (s *Service) AddImage(ctx context.Context, ownerID string, instrumentID uint, input AddImageInput) (*Image, error) {
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, fmt.Errorf("image_url is required")
	}
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return nil, err
	}

	order := 0
	if input.DisplayOrder != nil {
		order = *input.DisplayOrder
	} else {
		count, err := s.repo.CountImages(ctx, instrumentID)
		if err != nil {
			return nil, err
		}
		order = int(count)
	}

	image := Image{
		InstrumentID: instrumentID,
		ImageURL:     input.ImageURL,
		ThumbnailURL: input.ThumbnailURL,
		Caption:      input.Caption,
		DisplayOrder: order,
	}
	if err := s.repo.AddImage(ctx, &image); err != nil {
		return nil, err
	}
	return &image, nil
}

func (s *Service) ReorderImages(ctx context.Context, ownerID string, instrumentID uint, orderedIDs []uint) error {
	if len(orderedIDs) == 0 {
		return fmt.Errorf("image_ids is required")
	}
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return err
	}
	return s.repo.ReorderImages(ctx, instrumentID, orderedIDs)
}

func (s *Service) DeleteImage(ctx context.Context, ownerID string, instrumentID, imageID uint) error {
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteImage(ctx, instrumentID, imageID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrImageNotFound
	}
	return nil
}

func (s *Service) ListRecords(ctx context.Context, ownerID string, instrumentID uint) ([]MaintenanceRecord, error) {
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return nil, err
	}
	return s.repo.ListRecords(ctx, instrumentID)
}

func (s *Service) AddRecord(ctx context.Context, ownerID string, instrumentID uint, input RecordInput) (*MaintenanceRecord, error) {
	if strings.TrimSpace(input.Type) == "" {
		return nil, fmt.Errorf("type is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("date is required")
	}
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return nil, err
	}

	record := MaintenanceRecord{
		InstrumentID: instrumentID,
		Type:         strings.TrimSpace(input.Type),
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Date:         input.Date,
		Cost:         input.Cost,
		PerformedBy:  input.PerformedBy,
		Location:     input.Location,
		Notes:        input.Notes,
		UserID:       ownerID,
	}
	if err := s.repo.AddRecord(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) UpdateRecord(ctx context.Context, ownerID string, instrumentID, recordID uint, input UpdateRecordInput) (*MaintenanceRecord, error) {
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Type != nil {
		if strings.TrimSpace(*input.Type) == "" {
			return nil, fmt.Errorf("type cannot be empty")
		}
		fields["type"] = strings.TrimSpace(*input.Type)
	}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, fmt.Errorf("title cannot be empty")
		}
		fields["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Date != nil {
		fields["date"] = *input.Date
	}
	if input.Cost != nil {
		fields["cost"] = *input.Cost
	}
	if input.PerformedBy != nil {
		fields["performed_by"] = *input.PerformedBy
	}
	if input.Location != nil {
		fields["location"] = *input.Location
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}

	if len(fields) > 0 {
		updated, err := s.repo.UpdateRecord(ctx, instrumentID, recordID, fields)
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, ErrRecordNotFound
		}
	}

	return s.repo.GetRecord(ctx, instrumentID, recordID)
}

func (s *Service) DeleteRecord(ctx context.Context, ownerID string, instrumentID, recordID uint) error {
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteRecord(ctx, instrumentID, recordID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRecordNotFound
	}
	return nil
}

func (s *Service) ListSchedule(ctx context.Context, ownerID string, instrumentID uint) ([]ScheduleEntry, error) {
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return nil, err
	}
	return s.repo.ListSchedule(ctx, instrumentID)
}

func (s *Service) AddScheduleEntry(ctx context.Context, ownerID string, instrumentID uint, input ScheduleInput) (*ScheduleEntry, error) {
	if strings.TrimSpace(input.Type) == "" {
		return nil, fmt.Errorf("type is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if input.DueDate.IsZero() {
		return nil, fmt.Errorf("due_date is required")
	}
	recurrence := input.RecurrenceType
	if recurrence == "" {
		recurrence = RecurrenceNone
	}
	if !ValidRecurrence(recurrence) {
		return nil, fmt.Errorf("invalid recurrence_type %q", recurrence)
	}
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return nil, err
	}

	entry := ScheduleEntry{
		InstrumentID:       instrumentID,
		Type:               strings.TrimSpace(input.Type),
		Title:              strings.TrimSpace(input.Title),
		Description:        input.Description,
		DueDate:            input.DueDate,
		RecurrenceType:     recurrence,
		RecurrenceInterval: input.RecurrenceInterval,
		ReminderEnabled:    true,
		ReminderDaysBefore: 7,
		UserID:             ownerID,
	}
	if input.ReminderEnabled != nil {
		entry.ReminderEnabled = *input.ReminderEnabled
	}
	if input.ReminderDaysBefore != nil {
		entry.ReminderDaysBefore = *input.ReminderDaysBefore
	}

	if err := s.repo.AddScheduleEntry(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Service) UpdateScheduleEntry(ctx context.Context, ownerID string, instrumentID, entryID uint, input UpdateScheduleInput) (*ScheduleEntry, error) {
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Type != nil {
		if strings.TrimSpace(*input.Type) == "" {
			return nil, fmt.Errorf("type cannot be empty")
		}
		fields["type"] = strings.TrimSpace(*input.Type)
	}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, fmt.Errorf("title cannot be empty")
		}
		fields["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.DueDate != nil {
		fields["due_date"] = *input.DueDate
	}
	if input.RecurrenceType != nil {
		if !ValidRecurrence(*input.RecurrenceType) {
			return nil, fmt.Errorf("invalid recurrence_type %q", *input.RecurrenceType)
		}
		fields["recurrence_type"] = *input.RecurrenceType
	}
	if input.RecurrenceInterval != nil {
		fields["recurrence_interval"] = *input.RecurrenceInterval
	}
	if input.ReminderEnabled != nil {
		fields["reminder_enabled"] = *input.ReminderEnabled
	}
	if input.ReminderDaysBefore != nil {
		fields["reminder_days_before"] = *input.ReminderDaysBefore
	}

	if len(fields) > 0 {
		updated, err := s.repo.UpdateScheduleEntry(ctx, instrumentID, entryID, fields)
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, ErrScheduleEntryNotFound
		}
	}

	return s.repo.GetScheduleEntry(ctx, instrumentID, entryID)
}

func (s *Service) DeleteScheduleEntry(ctx context.Context, ownerID string, instrumentID, entryID uint) error {
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteScheduleEntry(ctx, instrumentID, entryID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrScheduleEntryNotFound
	}
	return nil
}

func (s *Service) ListValues(ctx context.Context, ownerID string, instrumentID uint) ([]ValueEntry, error) {
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return nil, err
	}
	return s.repo.ListValues(ctx, instrumentID)
}

// AddValueEntry appends a valuation. When the entry is the newest one
// it also refreshes the instrument's current value, in the same
// transaction so history and the denormalized value cannot diverge.
func (s *Service) AddValueEntry(ctx context.Context, ownerID string, instrumentID uint, input AddValueInput) (*ValueEntry, error) {
	source := input.Source
	if source == "" {
		source = SourceManual
	}
	if !ValidSource(source) {
		return nil, fmt.Errorf("invalid source %q", source)
	}
	if _, err := s.repo.GetByID(ctx, ownerID, instrumentID); err != nil {
		return nil, err
	}

	date := s.now()
	if input.Date != nil {
		date = *input.Date
	}

	entry := ValueEntry{
		InstrumentID: instrumentID,
		Value:        input.Value,
		Date:         date,
		Source:       source,
		Notes:        input.Notes,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		latest, err := tx.LatestValue(ctx, instrumentID)
		if err != nil {
			return err
		}
		if err := tx.AddValueEntry(ctx, &entry); err != nil {
			return err
		}
		if latest == nil || !entry.Date.Before(latest.Date) {
			updated, err := tx.Update(ctx, instrumentID, ownerID, map[string]any{"current_value": entry.Value})
			if err != nil {
				return err
			}
			if !updated {
				return ErrInstrumentNotFound
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func updateFields(input UpdateInstrumentInput) (map[string]any, error) {
	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Type != nil {
		instrumentType := strings.TrimSpace(*input.Type)
		if instrumentType == "" {
			return nil, fmt.Errorf("type cannot be empty")
		}
		fields["type"] = instrumentType
	}
	if input.Make != nil {
		fields["make"] = *input.Make
	}
	if input.Model != nil {
		fields["model"] = *input.Model
	}
	if input.SerialNumber != nil {
		fields["serial_number"] = *input.SerialNumber
	}
	if input.PurchaseDate != nil {
		fields["purchase_date"] = *input.PurchaseDate
	}
	if input.PurchasePrice != nil {
		fields["purchase_price"] = *input.PurchasePrice
	}
	if input.CurrentValue != nil {
		fields["current_value"] = *input.CurrentValue
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Condition != nil {
		fields["condition"] = *input.Condition
	}
	if input.Insured != nil {
		fields["insured"] = *input.Insured
	}
	if input.InsurancePolicy != nil {
		fields["insurance_policy"] = *input.InsurancePolicy
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}
	if input.StorageLocation != nil {
		fields["storage_location"] = *input.StorageLocation
	}
	if input.BandID != nil {
		fields["band_id"] = *input.BandID
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}
	return fields, nil
}

func valueChanged(previous *Instrument, input UpdateInstrumentInput) bool {
	if input.CurrentValue == nil {
		return false
	}
	if previous.CurrentValue == nil {
		return true
	}
	return !previous.CurrentValue.Equal(*input.CurrentValue)
}
