package instrument

import "errors"

// ErrInstrumentNotFound covers both a missing row and a row owned by
// someone else; callers cannot tell the two apart.
var (
	ErrInstrumentNotFound    = errors.New("instrument not found")
	ErrImageNotFound         = errors.New("instrument image not found")
	ErrRecordNotFound        = errors.New("maintenance record not found")
	ErrScheduleEntryNotFound = errors.New("maintenance schedule entry not found")
)
