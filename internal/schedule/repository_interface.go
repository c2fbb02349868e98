package schedule

import (
	"context"
	"time"
)

// Store hands out a transaction scoped to exactly one operation.
// RunInTx commits when fn returns nil and rolls back otherwise.
type Store interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the transactional view of the booking tables. Lookups of a single
// missing row return sql.ErrNoRows.
type Tx interface {
	MemberExists(ctx context.Context, id int) (bool, error)
	TrainerExists(ctx context.Context, id int) (bool, error)
	RoomExists(ctx context.Context, id int) (bool, error)

	// LockResource serializes writers touching the same room or trainer
	// until the transaction ends.
	LockResource(ctx context.Context, kind ResourceKind, id int) error

	ListResourceBookings(ctx context.Context, kind ResourceKind, id int) ([]Booking, error)
	ListAvailability(ctx context.Context, trainerID int) ([]AvailabilityWindow, error)

	InsertClassSession(ctx context.Context, s *ClassSession) error
	// LockClassSession reads the session and holds its row until the
	// transaction ends.
	LockClassSession(ctx context.Context, id int) (*ClassSession, error)
	UpdateClassSessionRoom(ctx context.Context, id, roomID int) error
	ListClassSessions(ctx context.Context, from time.Time) ([]ClassSessionWithAvailability, error)
	ListTrainerClassSessions(ctx context.Context, trainerID int, from time.Time) ([]ClassSession, error)

	InsertPTSession(ctx context.Context, s *PTSession) error
	GetPTSession(ctx context.Context, id int) (*PTSession, error)
	UpdatePTSessionRoom(ctx context.Context, id, roomID int) error
	UpdatePTSessionStatus(ctx context.Context, id int, status PTStatus) error
	ListPTSessions(ctx context.Context) ([]PTSession, error)
	ListTrainerPTSessions(ctx context.Context, trainerID int, from time.Time) ([]PTSession, error)

	RegistrationExists(ctx context.Context, memberID, classSessionID int) (bool, error)
	CountRegistrations(ctx context.Context, classSessionID int) (int, error)
	InsertRegistration(ctx context.Context, r *ClassRegistration) error

	InsertAvailability(ctx context.Context, w *AvailabilityWindow) error
}
