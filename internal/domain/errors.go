package domain

import "errors"

// Ошибки взаимодействия с API
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Ошибки хранилища состояния посетителя
var (
	ErrStateNotFound = errors.New("state not found")
)

// Ошибки сценариев витрины
var (
	ErrEmptySelection     = errors.New("no numbers selected")
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrDrawUnavailable    = errors.New("draw is not available for this raffle")
	ErrDrawInFlight       = errors.New("draw already in progress")
	ErrDrawNotConfirmed   = errors.New("draw was not confirmed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
