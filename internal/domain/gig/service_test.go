package gig

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	banddomain "gear-tracker-go/internal/domain/band"
)

type gearKey struct {
	gigID        uint
	instrumentID uint
}

type fakeGigRepo struct {
	gigs   map[uint]*Gig
	gear   map[gearKey]*GigGear
	nextID uint
}

func newFakeGigRepo() *fakeGigRepo {
	return &fakeGigRepo{
		gigs: make(map[uint]*Gig),
		gear: make(map[gearKey]*GigGear),
	}
}

func (r *fakeGigRepo) CreateGig(ctx context.Context, record *Gig) error {
	r.nextID++
	record.ID = r.nextID
	stored := *record
	r.gigs[record.ID] = &stored
	return nil
}

func (r *fakeGigRepo) GetGigByID(ctx context.Context, gigID uint) (*Gig, error) {
	record, ok := r.gigs[gigID]
	if !ok {
		return nil, ErrGigNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakeGigRepo) ListGigsByBand(ctx context.Context, bandID uint) ([]Gig, error) {
	items := make([]Gig, 0)
	for _, record := range r.gigs {
		if record.BandID == bandID {
			items = append(items, *record)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakeGigRepo) ListGigsByUser(ctx context.Context, userID string) ([]Gig, error) {
	// The fake has no membership table; tests route user-wide listing
	// through the membership checker's band set instead.
	items := make([]Gig, 0)
	for _, record := range r.gigs {
		items = append(items, *record)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakeGigRepo) UpdateGig(ctx context.Context, gigID uint, fields map[string]any) (bool, error) {
	record, ok := r.gigs[gigID]
	if !ok {
		return false, nil
	}
	if title, ok := fields["title"].(string); ok {
		record.Title = title
	}
	if venue, ok := fields["venue"].(string); ok {
		record.Venue = &venue
	}
	if start, ok := fields["start_time"].(time.Time); ok {
		record.StartTime = start
	}
	if end, ok := fields["end_time"].(time.Time); ok {
		record.EndTime = &end
	}
	return true, nil
}

func (r *fakeGigRepo) DeleteGig(ctx context.Context, gigID uint) (bool, error) {
	if _, ok := r.gigs[gigID]; !ok {
		return false, nil
	}
	delete(r.gigs, gigID)
	for key := range r.gear {
		if key.gigID == gigID {
			delete(r.gear, key)
		}
	}
	return true, nil
}

func (r *fakeGigRepo) ListGear(ctx context.Context, gigID uint) ([]GearItem, error) {
	items := make([]GearItem, 0)
	for key, gear := range r.gear {
		if key.gigID == gigID {
			items = append(items, GearItem{GigGear: *gear})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakeGigRepo) GetGear(ctx context.Context, gigID, instrumentID uint) (*GigGear, error) {
	gear, ok := r.gear[gearKey{gigID: gigID, instrumentID: instrumentID}]
	if !ok {
		return nil, ErrGearNotFound
	}
	copied := *gear
	return &copied, nil
}

func (r *fakeGigRepo) AddGear(ctx context.Context, gear *GigGear) error {
	r.nextID++
	gear.ID = r.nextID
	stored := *gear
	r.gear[gearKey{gigID: gear.GigID, instrumentID: gear.InstrumentID}] = &stored
	return nil
}

func (r *fakeGigRepo) UpdateGear(ctx context.Context, gigID, instrumentID uint, fields map[string]any) (bool, error) {
	gear, ok := r.gear[gearKey{gigID: gigID, instrumentID: instrumentID}]
	if !ok {
		return false, nil
	}
	if packed, ok := fields["is_packed"].(bool); ok {
		gear.IsPacked = packed
	}
	return true, nil
}

func (r *fakeGigRepo) DeleteGear(ctx context.Context, gigID, instrumentID uint) (bool, error) {
	key := gearKey{gigID: gigID, instrumentID: instrumentID}
	if _, ok := r.gear[key]; !ok {
		return false, nil
	}
	delete(r.gear, key)
	return true, nil
}

type membershipKey struct {
	bandID uint
	userID string
}

type fakeMembership map[membershipKey]bool

func (f fakeMembership) IsMember(ctx context.Context, bandID uint, userID string) (bool, error) {
	return f[membershipKey{bandID: bandID, userID: userID}], nil
}

type ownershipKey struct {
	ownerID      string
	instrumentID uint
}

type fakeOwnership map[ownershipKey]bool

func (f fakeOwnership) OwnsInstrument(ctx context.Context, ownerID string, instrumentID uint) (bool, error) {
	return f[ownershipKey{ownerID: ownerID, instrumentID: instrumentID}], nil
}

func gigStart() time.Time {
	return time.Date(2026, 5, 10, 20, 0, 0, 0, time.UTC)
}

func TestCreateGigRequiresMembership(t *testing.T) {
	repo := newFakeGigRepo()
	members := fakeMembership{{bandID: 1, userID: "user-1"}: true}
	svc := NewService(repo, members, fakeOwnership{})

	if _, err := svc.CreateGig(context.Background(), CreateGigInput{
		BandID:    1,
		CreatedBy: "user-2",
		Title:     "Spring Show",
		StartTime: gigStart(),
	}); !errors.Is(err, banddomain.ErrBandNotFound) {
		t.Fatalf("expected ErrBandNotFound, got %v", err)
	}

	gig, err := svc.CreateGig(context.Background(), CreateGigInput{
		BandID:    1,
		CreatedBy: "user-1",
		Title:     "Spring Show",
		StartTime: gigStart(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.gigs[gig.ID] == nil {
		t.Fatalf("gig not stored")
	}
}

func TestCreateGigRejectsEndBeforeStart(t *testing.T) {
	repo := newFakeGigRepo()
	members := fakeMembership{{bandID: 1, userID: "user-1"}: true}
	svc := NewService(repo, members, fakeOwnership{})

	end := gigStart().Add(-time.Hour)
	if _, err := svc.CreateGig(context.Background(), CreateGigInput{
		BandID:    1,
		CreatedBy: "user-1",
		Title:     "Spring Show",
		StartTime: gigStart(),
		EndTime:   &end,
	}); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestGetGigHiddenFromNonMembers(t *testing.T) {
	repo := newFakeGigRepo()
	members := fakeMembership{{bandID: 1, userID: "user-1"}: true}
	svc := NewService(repo, members, fakeOwnership{})

	gig, err := svc.CreateGig(context.Background(), CreateGigInput{
		BandID:    1,
		CreatedBy: "user-1",
		Title:     "Spring Show",
		StartTime: gigStart(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.GetGig(context.Background(), "user-2", gig.ID); !errors.Is(err, ErrGigNotFound) {
		t.Fatalf("expected ErrGigNotFound, got %v", err)
	}
}

func TestListGigsByBandRequiresMembership(t *testing.T) {
	repo := newFakeGigRepo()
	members := fakeMembership{{bandID: 1, userID: "user-1"}: true}
	svc := NewService(repo, members, fakeOwnership{})

	if _, err := svc.CreateGig(context.Background(), CreateGigInput{
		BandID:    1,
		CreatedBy: "user-1",
		Title:     "Spring Show",
		StartTime: gigStart(),
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	bandID := uint(1)
	items, err := svc.ListGigs(context.Background(), "user-1", &bandID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 gig, got %d", len(items))
	}

	if _, err := svc.ListGigs(context.Background(), "user-2", &bandID); !errors.Is(err, banddomain.ErrBandNotFound) {
		t.Fatalf("expected ErrBandNotFound, got %v", err)
	}
}

func TestAddGearRequiresOwnedInstrument(t *testing.T) {
	repo := newFakeGigRepo()
	members := fakeMembership{{bandID: 1, userID: "user-1"}: true}
	owned := fakeOwnership{{ownerID: "user-1", instrumentID: 7}: true}
	svc := NewService(repo, members, owned)

	gig, err := svc.CreateGig(context.Background(), CreateGigInput{
		BandID:    1,
		CreatedBy: "user-1",
		Title:     "Spring Show",
		StartTime: gigStart(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.AddGear(context.Background(), "user-1", gig.ID, 8, nil); !errors.Is(err, ErrInstrumentNotFound) {
		t.Fatalf("expected ErrInstrumentNotFound, got %v", err)
	}

	gear, err := svc.AddGear(context.Background(), "user-1", gig.ID, 7, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gear.IsPacked {
		t.Fatalf("expected gear unpacked by default")
	}
}

func TestAddGearDuplicateRejected(t *testing.T) {
	repo := newFakeGigRepo()
	members := fakeMembership{{bandID: 1, userID: "user-1"}: true}
	owned := fakeOwnership{{ownerID: "user-1", instrumentID: 7}: true}
	svc := NewService(repo, members, owned)

	gig, err := svc.CreateGig(context.Background(), CreateGigInput{
		BandID:    1,
		CreatedBy: "user-1",
		Title:     "Spring Show",
		StartTime: gigStart(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.AddGear(context.Background(), "user-1", gig.ID, 7, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.AddGear(context.Background(), "user-1", gig.ID, 7, nil); !errors.Is(err, ErrGearAlreadyListed) {
		t.Fatalf("expected ErrGearAlreadyListed, got %v", err)
	}
}

func TestSetGearPacked(t *testing.T) {
	repo := newFakeGigRepo()
	members := fakeMembership{{bandID: 1, userID: "user-1"}: true}
	owned := fakeOwnership{{ownerID: "user-1", instrumentID: 7}: true}
	svc := NewService(repo, members, owned)

	gig, err := svc.CreateGig(context.Background(), CreateGigInput{
		BandID:    1,
		CreatedBy: "user-1",
		Title:     "Spring Show",
		StartTime: gigStart(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.AddGear(context.Background(), "user-1", gig.ID, 7, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.SetGearPacked(context.Background(), "user-1", gig.ID, 7, true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	gear, err := repo.GetGear(context.Background(), gig.ID, 7)
	if err != nil {
		t.Fatalf("expected gear, got %v", err)
	}
	if !gear.IsPacked {
		t.Fatalf("expected gear packed")
	}

	if err := svc.SetGearPacked(context.Background(), "user-1", gig.ID, 99, true); !errors.Is(err, ErrGearNotFound) {
		t.Fatalf("expected ErrGearNotFound, got %v", err)
	}
}

func TestUpdateGigValidatesEndTime(t *testing.T) {
	repo := newFakeGigRepo()
	members := fakeMembership{{bandID: 1, userID: "user-1"}: true}
	svc := NewService(repo, members, fakeOwnership{})

	gig, err := svc.CreateGig(context.Background(), CreateGigInput{
		BandID:    1,
		CreatedBy: "user-1",
		Title:     "Spring Show",
		StartTime: gigStart(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	end := gigStart().Add(-time.Hour)
	if _, err := svc.UpdateGig(context.Background(), "user-1", gig.ID, UpdateGigInput{EndTime: &end}); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}

	title := "Summer Show"
	updated, err := svc.UpdateGig(context.Background(), "user-1", gig.ID, UpdateGigInput{Title: &title})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Title != "Summer Show" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
}

func TestUpdateGigStartCannotPassStoredEnd(t *testing.T) {
	repo := newFakeGigRepo()
	members := fakeMembership{{bandID: 1, userID: "user-1"}: true}
	svc := NewService(repo, members, fakeOwnership{})

	end := gigStart().Add(2 * time.Hour)
	gig, err := svc.CreateGig(context.Background(), CreateGigInput{
		BandID:    1,
		CreatedBy: "user-1",
		Title:     "Spring Show",
		StartTime: gigStart(),
		EndTime:   &end,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	late := end.Add(time.Hour)
	if _, err := svc.UpdateGig(context.Background(), "user-1", gig.ID, UpdateGigInput{StartTime: &late}); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}

	earlier := gigStart().Add(time.Hour)
	updated, err := svc.UpdateGig(context.Background(), "user-1", gig.ID, UpdateGigInput{StartTime: &earlier})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !updated.StartTime.Equal(earlier) {
		t.Fatalf("expected start %v, got %v", earlier, updated.StartTime)
	}
}

func TestDeleteGigRemovesGear(t *testing.T) {
	repo := newFakeGigRepo()
	members := fakeMembership{{bandID: 1, userID: "user-1"}: true}
	owned := fakeOwnership{{ownerID: "user-1", instrumentID: 7}: true}
	svc := NewService(repo, members, owned)

	gig, err := svc.CreateGig(context.Background(), CreateGigInput{
		BandID:    1,
		CreatedBy: "user-1",
		Title:     "Spring Show",
		StartTime: gigStart(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.AddGear(context.Background(), "user-1", gig.ID, 7, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.DeleteGig(context.Background(), "user-1", gig.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.gear) != 0 {
		t.Fatalf("expected gear removed with gig")
	}
}
