package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Allocation errors
	ErrEmptyName         = errors.New("name must not be empty")
	ErrAlreadyRegistered = errors.New("player is already registered")
	ErrSlotsExhausted    = errors.New("all slots are taken")
	ErrRaceLost          = errors.New("slot was claimed by another player")
	ErrSlotTaken         = errors.New("slot is already taken")

	// Import/export errors
	ErrInvalidFormat    = errors.New("import data is not a valid roster export")
	ErrDuplicateNumbers = errors.New("import contains duplicate numbers")

	// Admin errors
	ErrAuthDenied     = errors.New("invalid admin secret")
	ErrInvalidSession = errors.New("invalid or expired admin session")
)

// AlreadyRegisteredError reports a duplicate-player rejection and carries the
// player's existing assignment unchanged
type AlreadyRegisteredError struct {
	Existing *Assignment
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("player %q already holds number %d", e.Existing.Name, e.Existing.Number)
}

// Is makes errors.Is(err, ErrAlreadyRegistered) match
func (e *AlreadyRegisteredError) Is(target error) bool {
	return target == ErrAlreadyRegistered
}

// RaceLostError reports that the drawn slot was committed by a concurrent
// writer between the snapshot read and the write
type RaceLostError struct {
	Number  int
	TakenBy string
}

func (e *RaceLostError) Error() string {
	if e.TakenBy == "" {
		return fmt.Sprintf("number %d was claimed by another player", e.Number)
	}
	return fmt.Sprintf("number %d was claimed by %q", e.Number, e.TakenBy)
}

// Is makes errors.Is(err, ErrRaceLost) match
func (e *RaceLostError) Is(target error) bool {
	return target == ErrRaceLost
}

// SlotTakenError is the storage-level conditional-insert rejection
type SlotTakenError struct {
	Number  int
	TakenBy string
}

func (e *SlotTakenError) Error() string {
	return fmt.Sprintf("slot %d is already taken", e.Number)
}

// Is makes errors.Is(err, ErrSlotTaken) match
func (e *SlotTakenError) Is(target error) bool {
	return target == ErrSlotTaken
}
