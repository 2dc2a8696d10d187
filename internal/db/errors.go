package db

import "errors"

// Domain-level database error sentinels.
var (
	// Crew errors
	ErrCrewNotFound = errors.New("crew not found")

	// Account errors
	ErrAccountNotFound = errors.New("crew account not found")

	// Edit request errors
	ErrEditRequestNotFound     = errors.New("edit request not found")
	ErrAlreadyProcessed        = errors.New("edit request has already been processed")
	ErrDuplicatePendingRequest = errors.New("this crew already has a pending edit request")
)
