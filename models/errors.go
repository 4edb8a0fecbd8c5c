package models

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrStateMismatch     = errors.New("state mismatch")
	ErrInvalidAction     = errors.New("invalid action (only 'signup' and 'login' are allowed)")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotExists     = errors.New("user not exists")
	ErrTokenNotExists    = errors.New("no spotify access, try to login again")
	ErrNotPlaylistOwner  = errors.New("playlist does not belong to this user")
)

// Generation workflow error classes. Every step wraps its failure in one of
// these so the orchestrator can report a single class to the user.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrCompression       = errors.New("image compression failed")
	ErrSeedResolution    = errors.New("seed resolution failed")
	ErrPlaylistCreate    = errors.New("playlist creation failed")
	ErrRecommendation    = errors.New("fetching recommendations failed")
	ErrStorageUpload     = errors.New("image upload failed")
	ErrPersistence       = errors.New("saving playlist failed")
	ErrUnknown           = errors.New("unknown error")
)
