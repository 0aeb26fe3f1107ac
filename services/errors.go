package services

import "errors"

// Service errors carry the client-facing message; the controllers map them to
// HTTP status codes.
var (
	ErrMissingData   = errors.New("Fale podaci")
	ErrMissingStatus = errors.New("Status je obavezan")
	ErrInvalidStatus = errors.New("Nevazeci status")
	ErrOrderNotFound = errors.New("Narudzba ne postoji")
	ErrUserExists    = errors.New("User vec postoji")
	ErrUserNotFound  = errors.New("User ne postoji")
	ErrWrongPassword = errors.New("Pogresan password")
)
