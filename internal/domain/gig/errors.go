package gig

import "errors"

var (
	ErrGigNotFound        = errors.New("gig not found")
	ErrGearNotFound       = errors.New("gig gear not found")
	ErrGearAlreadyListed  = errors.New("instrument already listed for gig")
	ErrInstrumentNotFound = errors.New("instrument not found")
	ErrInvalidTimeRange   = errors.New("end_time cannot precede start_time")
)
