package band

import "errors"

var (
	ErrBandNotFound      = errors.New("band not found")
	ErrNotBandOwner      = errors.New("not band owner")
	ErrAlreadyMember     = errors.New("already a band member")
	ErrMemberNotFound    = errors.New("band member not found")
	ErrCannotRemoveOwner = errors.New("cannot remove band owner")
)
