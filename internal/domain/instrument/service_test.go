package instrument

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeInstrumentRepo struct {
	instruments map[uint]*Instrument
	images      map[uint][]Image
	records     map[uint][]MaintenanceRecord
	schedule    map[uint][]ScheduleEntry
	values      map[uint][]ValueEntry
	nextID      uint
}

func newFakeInstrumentRepo() *fakeInstrumentRepo {
	return &fakeInstrumentRepo{
		instruments: make(map[uint]*Instrument),
		images:      make(map[uint][]Image),
		records:     make(map[uint][]MaintenanceRecord),
		schedule:    make(map[uint][]ScheduleEntry),
		values:      make(map[uint][]ValueEntry),
	}
}

func (r *fakeInstrumentRepo) allocID() uint {
	r.nextID++
	return r.nextID
}

func (r *fakeInstrumentRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeInstrumentRepo) ListByOwner(ctx context.Context, ownerID string) ([]Instrument, error) {
	items := make([]Instrument, 0)
	for _, record := range r.instruments {
		if record.OwnerID == ownerID {
			items = append(items, *record)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *fakeInstrumentRepo) GetByID(ctx context.Context, ownerID string, instrumentID uint) (*Instrument, error) {
	record, ok := r.instruments[instrumentID]
	if !ok || record.OwnerID != ownerID {
		return nil, ErrInstrumentNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakeInstrumentRepo) Create(ctx context.Context, record *Instrument) error {
	record.ID = r.allocID()
	stored := *record
	r.instruments[record.ID] = &stored
	return nil
}

func (r *fakeInstrumentRepo) Update(ctx context.Context, instrumentID uint, ownerID string, fields map[string]any) (bool, error) {
	record, ok := r.instruments[instrumentID]
	if !ok || record.OwnerID != ownerID {
		return false, nil
	}
	for key, value := range fields {
		switch key {
		case "name":
			record.Name = value.(string)
		case "type":
			record.Type = value.(string)
		case "current_value":
			v := value.(decimal.Decimal)
			record.CurrentValue = &v
		case "is_active":
			record.IsActive = value.(bool)
		case "band_id":
			v := value.(uint)
			record.BandID = &v
		}
	}
	return true, nil
}

func (r *fakeInstrumentRepo) Delete(ctx context.Context, instrumentID uint, ownerID string) (bool, error) {
	record, ok := r.instruments[instrumentID]
	if !ok || record.OwnerID != ownerID {
		return false, nil
	}
	delete(r.instruments, instrumentID)
	delete(r.images, instrumentID)
	delete(r.records, instrumentID)
	delete(r.schedule, instrumentID)
	delete(r.values, instrumentID)
	return true, nil
}

func (r *fakeInstrumentRepo) ListImages(ctx context.Context, instrumentID uint) ([]Image, error) {
	items := append([]Image{}, r.images[instrumentID]...)
	sort.Slice(items, func(i, j int) bool { return items[i].DisplayOrder < items[j].DisplayOrder })
	return items, nil
}

func (r *fakeInstrumentRepo) CountImages(ctx context.Context, instrumentID uint) (int64, error) {
	return int64(len(r.images[instrumentID])), nil
}

func (r *fakeInstrumentRepo) AddImage(ctx context.Context, image *Image) error {
	image.ID = r.allocID()
	r.images[image.InstrumentID] = append(r.images[image.InstrumentID], *image)
	return nil
}

func (r *fakeInstrumentRepo) ReorderImages(ctx context.Context, instrumentID uint, orderedIDs []uint) error {
	images := r.images[instrumentID]
	for position, id := range orderedIDs {
		for i := range images {
			if images[i].ID == id {
				images[i].DisplayOrder = position
			}
		}
	}
	return nil
}

func (r *fakeInstrumentRepo) GetImage(ctx context.Context, instrumentID, imageID uint) (*Image, error) {
	for _, image := range r.images[instrumentID] {
		if image.ID == imageID {
			copied := image
			return &copied, nil
		}
	}
	return nil, ErrImageNotFound
}

func (r *fakeInstrumentRepo) DeleteImage(ctx context.Context, instrumentID, imageID uint) (bool, error) {
	images := r.images[instrumentID]
	for i := range images {
		if images[i].ID == imageID {
			r.images[instrumentID] = append(images[:i], images[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInstrumentRepo) ListRecords(ctx context.Context, instrumentID uint) ([]MaintenanceRecord, error) {
	return append([]MaintenanceRecord{}, r.records[instrumentID]...), nil
}

func (r *fakeInstrumentRepo) GetRecord(ctx context.Context, instrumentID, recordID uint) (*MaintenanceRecord, error) {
	for _, record := range r.records[instrumentID] {
		if record.ID == recordID {
			copied := record
			return &copied, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (r *fakeInstrumentRepo) AddRecord(ctx context.Context, record *MaintenanceRecord) error {
	record.ID = r.allocID()
	r.records[record.InstrumentID] = append(r.records[record.InstrumentID], *record)
	return nil
}

func (r *fakeInstrumentRepo) UpdateRecord(ctx context.Context, instrumentID, recordID uint, fields map[string]any) (bool, error) {
	records := r.records[instrumentID]
	for i := range records {
		if records[i].ID == recordID {
			if title, ok := fields["title"].(string); ok {
				records[i].Title = title
			}
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInstrumentRepo) DeleteRecord(ctx context.Context, instrumentID, recordID uint) (bool, error) {
	records := r.records[instrumentID]
	for i := range records {
		if records[i].ID == recordID {
			r.records[instrumentID] = append(records[:i], records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInstrumentRepo) ListSchedule(ctx context.Context, instrumentID uint) ([]ScheduleEntry, error) {
	return append([]ScheduleEntry{}, r.schedule[instrumentID]...), nil
}

func (r *fakeInstrumentRepo) GetScheduleEntry(ctx context.Context, instrumentID, entryID uint) (*ScheduleEntry, error) {
	for _, entry := range r.schedule[instrumentID] {
		if entry.ID == entryID {
			copied := entry
			return &copied, nil
		}
	}
	return nil, ErrScheduleEntryNotFound
}

func (r *fakeInstrumentRepo) AddScheduleEntry(ctx context.Context, entry *ScheduleEntry) error {
	entry.ID = r.allocID()
	r.schedule[entry.InstrumentID] = append(r.schedule[entry.InstrumentID], *entry)
	return nil
}

func (r *fakeInstrumentRepo) UpdateScheduleEntry(ctx context.Context, instrumentID, entryID uint, fields map[string]any) (bool, error) {
	entries := r.schedule[instrumentID]
	for i := range entries {
		if entries[i].ID == entryID {
			if title, ok := fields["title"].(string); ok {
				entries[i].Title = title
			}
			if due, ok := fields["due_date"].(time.Time); ok {
				entries[i].DueDate = due
			}
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInstrumentRepo) DeleteScheduleEntry(ctx context.Context, instrumentID, entryID uint) (bool, error) {
	entries := r.schedule[instrumentID]
	for i := range entries {
		if entries[i].ID == entryID {
			r.schedule[instrumentID] = append(entries[:i], entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInstrumentRepo) ListValues(ctx context.Context, instrumentID uint) ([]ValueEntry, error) {
	items := append([]ValueEntry{}, r.values[instrumentID]...)
	sort.Slice(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return items, nil
}

func (r *fakeInstrumentRepo) LatestValue(ctx context.Context, instrumentID uint) (*ValueEntry, error) {
	items, _ := r.ListValues(ctx, instrumentID)
	if len(items) == 0 {
		return nil, nil
	}
	copied := items[0]
	return &copied, nil
}

func (r *fakeInstrumentRepo) AddValueEntry(ctx context.Context, entry *ValueEntry) error {
	entry.ID = r.allocID()
	r.values[entry.InstrumentID] = append(r.values[entry.InstrumentID], *entry)
	return nil
}

func newTestService(repo *fakeInstrumentRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateAppendsInitialValueEntry(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	value := dec("1500")
	created, err := svc.Create(context.Background(), CreateInstrumentInput{
		OwnerID:      "user-1",
		Name:         "Les Paul",
		Type:         "guitar",
		CurrentValue: &value,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	entries := repo.values[created.ID]
	if len(entries) != 1 {
		t.Fatalf("expected 1 value entry, got %d", len(entries))
	}
	if !entries[0].Value.Equal(value) {
		t.Fatalf("expected value 1500, got %s", entries[0].Value)
	}
	if entries[0].Source != SourceManual {
		t.Fatalf("expected source manual, got %q", entries[0].Source)
	}
	if entries[0].Notes == nil || *entries[0].Notes != noteInitialValue {
		t.Fatalf("expected initial value note, got %v", entries[0].Notes)
	}
}

func TestCreateWithoutValueSkipsHistory(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateInstrumentInput{
		OwnerID: "user-1",
		Name:    "Jazz Bass",
		Type:    "bass",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.values[created.ID]) != 0 {
		t.Fatalf("expected no value entries, got %d", len(repo.values[created.ID]))
	}
}

func TestCreateRequiresName(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	if _, err := svc.Create(context.Background(), CreateInstrumentInput{OwnerID: "user-1", Name: "  ", Type: "guitar"}); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestUpdateUnchangedValueSkipsHistory(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	value := dec("500")
	created, err := svc.Create(context.Background(), CreateInstrumentInput{
		OwnerID:      "user-1",
		Name:         "Strat",
		Type:         "guitar",
		CurrentValue: &value,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	same := dec("500.00")
	if _, err := svc.Update(context.Background(), "user-1", created.ID, UpdateInstrumentInput{CurrentValue: &same}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.values[created.ID]) != 1 {
		t.Fatalf("expected history untouched, got %d entries", len(repo.values[created.ID]))
	}
}

func TestUpdateChangedValueAppendsHistory(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	value := dec("500")
	created, err := svc.Create(context.Background(), CreateInstrumentInput{
		OwnerID:      "user-1",
		Name:         "Strat",
		Type:         "guitar",
		CurrentValue: &value,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	next := dec("600")
	updated, err := svc.Update(context.Background(), "user-1", created.ID, UpdateInstrumentInput{CurrentValue: &next})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.CurrentValue == nil || !updated.CurrentValue.Equal(next) {
		t.Fatalf("expected current value 600, got %v", updated.CurrentValue)
	}

	entries := repo.values[created.ID]
	if len(entries) != 2 {
		t.Fatalf("expected 2 value entries, got %d", len(entries))
	}
	last := entries[len(entries)-1]
	if !last.Value.Equal(next) {
		t.Fatalf("expected appended value 600, got %s", last.Value)
	}
	if last.Notes == nil || *last.Notes != noteValueUpdated {
		t.Fatalf("expected update note, got %v", last.Notes)
	}
}

func TestUpdateOtherOwnersInstrument(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateInstrumentInput{OwnerID: "user-1", Name: "Strat", Type: "guitar"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	name := "Stolen"
	if _, err := svc.Update(context.Background(), "user-2", created.ID, UpdateInstrumentInput{Name: &name}); !errors.Is(err, ErrInstrumentNotFound) {
		t.Fatalf("expected ErrInstrumentNotFound, got %v", err)
	}
	if repo.instruments[created.ID].Name != "Strat" {
		t.Fatalf("expected name untouched, got %q", repo.instruments[created.ID].Name)
	}
}

func TestListScopedToOwner(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	if _, err := svc.Create(context.Background(), CreateInstrumentInput{OwnerID: "user-1", Name: "Strat", Type: "guitar"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInstrumentInput{OwnerID: "user-2", Name: "Tele", Type: "guitar"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	items, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 || items[0].Name != "Strat" {
		t.Fatalf("expected only user-1's instrument, got %+v", items)
	}
}

func TestGetDetailScopedToOwner(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateInstrumentInput{OwnerID: "user-1", Name: "Strat", Type: "guitar"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.GetDetail(context.Background(), "user-2", created.ID); !errors.Is(err, ErrInstrumentNotFound) {
		t.Fatalf("expected ErrInstrumentNotFound, got %v", err)
	}
}

func TestGetDetailCollectsChildren(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	value := dec("900")
	created, err := svc.Create(context.Background(), CreateInstrumentInput{
		OwnerID:      "user-1",
		Name:         "Strat",
		Type:         "guitar",
		CurrentValue: &value,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.AddImage(context.Background(), "user-1", created.ID, AddImageInput{ImageURL: "https://cdn.example.com/a.jpg"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.AddRecord(context.Background(), "user-1", created.ID, RecordInput{
		Type:  "repair",
		Title: "Fret level",
		Date:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	detail, err := svc.GetDetail(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(detail.Images) != 1 || len(detail.MaintenanceRecords) != 1 || len(detail.ValueHistory) != 1 {
		t.Fatalf("unexpected detail children: %d images, %d records, %d values",
			len(detail.Images), len(detail.MaintenanceRecords), len(detail.ValueHistory))
	}
}

func TestDeleteCascadesChildren(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	value := dec("900")
	created, err := svc.Create(context.Background(), CreateInstrumentInput{
		OwnerID:      "user-1",
		Name:         "Strat",
		Type:         "guitar",
		CurrentValue: &value,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.AddImage(context.Background(), "user-1", created.ID, AddImageInput{ImageURL: "https://cdn.example.com/a.jpg"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.Delete(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.images[created.ID]) != 0 || len(repo.values[created.ID]) != 0 {
		t.Fatalf("expected children removed with the instrument")
	}

	if err := svc.Delete(context.Background(), "user-1", created.ID); !errors.Is(err, ErrInstrumentNotFound) {
		t.Fatalf("expected ErrInstrumentNotFound on second delete, got %v", err)
	}
}

func TestAddImageDefaultsDisplayOrder(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateInstrumentInput{OwnerID: "user-1", Name: "Strat", Type: "guitar"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	first, err := svc.AddImage(context.Background(), "user-1", created.ID, AddImageInput{ImageURL: "https://cdn.example.com/a.jpg"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := svc.AddImage(context.Background(), "user-1", created.ID, AddImageInput{ImageURL: "https://cdn.example.com/b.jpg"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.DisplayOrder != 0 || second.DisplayOrder != 1 {
		t.Fatalf("expected orders 0 and 1, got %d and %d", first.DisplayOrder, second.DisplayOrder)
	}
}

func TestAddValueEntryRefreshesCurrentValue(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	value := dec("1000")
	created, err := svc.Create(context.Background(), CreateInstrumentInput{
		OwnerID:      "user-1",
		Name:         "Strat",
		Type:         "guitar",
		CurrentValue: &value,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	appraised := dec("1200")
	later := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.AddValueEntry(context.Background(), "user-1", created.ID, AddValueInput{
		Value:  appraised,
		Date:   &later,
		Source: SourceAppraisal,
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	stored := repo.instruments[created.ID]
	if stored.CurrentValue == nil || !stored.CurrentValue.Equal(appraised) {
		t.Fatalf("expected current value refreshed to 1200, got %v", stored.CurrentValue)
	}
}

func TestAddValueEntryBackdatedKeepsCurrentValue(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	value := dec("1000")
	created, err := svc.Create(context.Background(), CreateInstrumentInput{
		OwnerID:      "user-1",
		Name:         "Strat",
		Type:         "guitar",
		CurrentValue: &value,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	old := dec("400")
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.AddValueEntry(context.Background(), "user-1", created.ID, AddValueInput{
		Value:  old,
		Date:   &past,
		Source: SourceAppraisal,
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	stored := repo.instruments[created.ID]
	if stored.CurrentValue == nil || !stored.CurrentValue.Equal(value) {
		t.Fatalf("expected current value unchanged at 1000, got %v", stored.CurrentValue)
	}
	if len(repo.values[created.ID]) != 2 {
		t.Fatalf("expected 2 value entries, got %d", len(repo.values[created.ID]))
	}
}

func TestAddValueEntryRejectsUnknownSource(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateInstrumentInput{OwnerID: "user-1", Name: "Strat", Type: "guitar"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.AddValueEntry(context.Background(), "user-1", created.ID, AddValueInput{
		Value:  dec("100"),
		Source: "guesswork",
	}); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestDeleteRecordNotFound(t *testing.T) {
	repo := newFakeInstrumentRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateInstrumentInput{OwnerID: "user-1", Name: "Strat", Type: "guitar"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.DeleteRecord(context.Background(), "user-1", created.ID, 999); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
