package schedule

import (
	"errors"
	"fmt"
)

// Business rejections. Each failed operation returns exactly one of these
// (possibly wrapped in *NotFoundError) or a *StorageError.
var (
	ErrNotFound                = errors.New("not found")
	ErrInvalidTimeRange        = errors.New("invalid time range")
	ErrInvalidCapacity         = errors.New("capacity must be a positive integer")
	ErrTrainerUnavailable      = errors.New("trainer is not available during this time")
	ErrRoomConflict            = errors.New("room is already booked at that time")
	ErrTrainerConflict         = errors.New("trainer is already booked at that time")
	ErrWindowOverlap           = errors.New("availability overlaps with an existing window")
	ErrDuplicateEnrollment     = errors.New("member is already registered for this class")
	ErrClassFull               = errors.New("class is already full")
	ErrInvalidStatusTransition = errors.New("invalid pt session status transition")

	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Entity kinds reported by NotFoundError.
const (
	EntityMember       = "member"
	EntityTrainer      = "trainer"
	EntityRoom         = "room"
	EntityClassSession = "class session"
	EntityPTSession    = "pt session"
)

type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// StorageError wraps a datastore failure (connection loss, aborted
// transaction) with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

var businessErrors = []error{
	ErrNotFound,
	ErrInvalidTimeRange,
	ErrInvalidCapacity,
	ErrTrainerUnavailable,
	ErrRoomConflict,
	ErrTrainerConflict,
	ErrWindowOverlap,
	ErrDuplicateEnrollment,
	ErrClassFull,
	ErrInvalidStatusTransition,
}

// IsRejection reports whether err is a business rejection rather than a
// storage failure.
func IsRejection(err error) bool {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return false
	}
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func classify(op string, err error) error {
	if err == nil || IsRejection(err) {
		return err
	}
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
