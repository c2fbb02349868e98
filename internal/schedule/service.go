package schedule

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

type Service interface {
	CreateClassSession(ctx context.Context, in CreateClassSessionInput) (*ClassSession, error)
	CreatePTSession(ctx context.Context, in CreatePTSessionInput) (*PTSession, error)
	MoveClassSessionRoom(ctx context.Context, classSessionID, newRoomID int) (*ClassSession, error)
	MovePTSessionRoom(ctx context.Context, ptSessionID, newRoomID int) (*PTSession, error)
	SetPTSessionStatus(ctx context.Context, ptSessionID int, status PTStatus) (*PTSession, error)
	RegisterForClass(ctx context.Context, memberID, classSessionID int) (*ClassRegistration, error)
	AddTrainerAvailability(ctx context.Context, trainerID int, start, end string) (*AvailabilityWindow, error)
	GetTrainerSchedule(ctx context.Context, trainerID int, from time.Time) (*TrainerSchedule, error)
	ListUpcomingClasses(ctx context.Context, from time.Time) ([]ClassSessionWithAvailability, error)
	ListClassSessions(ctx context.Context) ([]ClassSessionWithAvailability, error)
	ListPTSessions(ctx context.Context) ([]PTSession, error)
}

type service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) Service {
	return &service{
		store: store,
		now:   time.Now,
	}
}

func (s *service) CreateClassSession(ctx context.Context, in CreateClassSessionInput) (*ClassSession, error) {
	const op = "schedule.CreateClassSession"

	var created *ClassSession
	err := s.store.RunInTx(ctx, func(tx Tx) error {
		if err := requireExists(ctx, tx.TrainerExists, EntityTrainer, in.TrainerID); err != nil {
			return err
		}
		if err := requireExists(ctx, tx.RoomExists, EntityRoom, in.RoomID); err != nil {
			return err
		}

		iv, err := ParseInterval(in.Start, in.End)
		if err != nil {
			return err
		}

		if err := checkResources(ctx, tx, in.RoomID, in.TrainerID, iv, Exclusion{}); err != nil {
			return err
		}

		if in.Capacity <= 0 {
			return ErrInvalidCapacity
		}
		session := &ClassSession{
			Title:     strings.TrimSpace(in.Title),
			TrainerID: in.TrainerID,
			RoomID:    in.RoomID,
			StartTime: iv.Start,
			EndTime:   iv.End,
			Capacity:  in.Capacity,
		}
		if err := tx.InsertClassSession(ctx, session); err != nil {
			return err
		}
		created = session
		return nil
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return created, nil
}

func (s *service) CreatePTSession(ctx context.Context, in CreatePTSessionInput) (*PTSession, error) {
	const op = "schedule.CreatePTSession"

	var created *PTSession
	err := s.store.RunInTx(ctx, func(tx Tx) error {
		if err := requireExists(ctx, tx.MemberExists, EntityMember, in.MemberID); err != nil {
			return err
		}
		if err := requireExists(ctx, tx.TrainerExists, EntityTrainer, in.TrainerID); err != nil {
			return err
		}
		if err := requireExists(ctx, tx.RoomExists, EntityRoom, in.RoomID); err != nil {
			return err
		}

		iv, err := ParseInterval(in.Start, in.End)
		if err != nil {
			return err
		}

		windows, err := tx.ListAvailability(ctx, in.TrainerID)
		if err != nil {
			return err
		}
		if !IsWithinAvailability(windows, iv) {
			return ErrTrainerUnavailable
		}

		if err := checkResources(ctx, tx, in.RoomID, in.TrainerID, iv, Exclusion{}); err != nil {
			return err
		}

		session := &PTSession{
			MemberID:  in.MemberID,
			TrainerID: in.TrainerID,
			RoomID:    in.RoomID,
			StartTime: iv.Start,
			EndTime:   iv.End,
			Status:    PTStatusScheduled,
		}
		if err := tx.InsertPTSession(ctx, session); err != nil {
			return err
		}
		created = session
		return nil
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return created, nil
}

func (s *service) MoveClassSessionRoom(ctx context.Context, classSessionID, newRoomID int) (*ClassSession, error) {
	const op = "schedule.MoveClassSessionRoom"

	var moved *ClassSession
	err := s.store.RunInTx(ctx, func(tx Tx) error {
		session, err := tx.LockClassSession(ctx, classSessionID)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(EntityClassSession, classSessionID)
		}
		if err != nil {
			return err
		}
		if err := requireExists(ctx, tx.RoomExists, EntityRoom, newRoomID); err != nil {
			return err
		}

		if err := tx.LockResource(ctx, ResourceRoom, newRoomID); err != nil {
			return err
		}
		if err := checkRoom(ctx, tx, newRoomID, session.Interval(), Exclusion{ClassSessionID: session.ID}); err != nil {
			return err
		}

		if err := tx.UpdateClassSessionRoom(ctx, session.ID, newRoomID); err != nil {
			return err
		}
		session.RoomID = newRoomID
		moved = session
		return nil
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return moved, nil
}

func (s *service) MovePTSessionRoom(ctx context.Context, ptSessionID, newRoomID int) (*PTSession, error) {
	const op = "schedule.MovePTSessionRoom"

	var moved *PTSession
	err := s.store.RunInTx(ctx, func(tx Tx) error {
		session, err := tx.GetPTSession(ctx, ptSessionID)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(EntityPTSession, ptSessionID)
		}
		if err != nil {
			return err
		}
		if err := requireExists(ctx, tx.RoomExists, EntityRoom, newRoomID); err != nil {
			return err
		}

		// A cancelled session holds no room, so there is nothing to check.
		if session.Status != PTStatusCancelled {
			if err := tx.LockResource(ctx, ResourceRoom, newRoomID); err != nil {
				return err
			}
			if err := checkRoom(ctx, tx, newRoomID, session.Interval(), Exclusion{PTSessionID: session.ID}); err != nil {
				return err
			}
		}

		if err := tx.UpdatePTSessionRoom(ctx, session.ID, newRoomID); err != nil {
			return err
		}
		session.RoomID = newRoomID
		moved = session
		return nil
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return moved, nil
}

func (s *service) SetPTSessionStatus(ctx context.Context, ptSessionID int, status PTStatus) (*PTSession, error) {
	const op = "schedule.SetPTSessionStatus"

	var updated *PTSession
	err := s.store.RunInTx(ctx, func(tx Tx) error {
		session, err := tx.GetPTSession(ctx, ptSessionID)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(EntityPTSession, ptSessionID)
		}
		if err != nil {
			return err
		}
		if !session.Status.CanTransitionTo(status) {
			return ErrInvalidStatusTransition
		}

		if err := tx.UpdatePTSessionStatus(ctx, session.ID, status); err != nil {
			return err
		}
		session.Status = status
		updated = session
		return nil
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return updated, nil
}

func (s *service) RegisterForClass(ctx context.Context, memberID, classSessionID int) (*ClassRegistration, error) {
	const op = "schedule.RegisterForClass"

	var created *ClassRegistration
	err := s.store.RunInTx(ctx, func(tx Tx) error {
		if err := requireExists(ctx, tx.MemberExists, EntityMember, memberID); err != nil {
			return err
		}

		// Enrollments for one session queue on its row lock. The reads below
		// run after the lock is granted and see every committed registration.
		session, err := tx.LockClassSession(ctx, classSessionID)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(EntityClassSession, classSessionID)
		}
		if err != nil {
			return err
		}

		registered, err := tx.RegistrationExists(ctx, memberID, classSessionID)
		if err != nil {
			return err
		}
		if registered {
			return ErrDuplicateEnrollment
		}

		count, err := tx.CountRegistrations(ctx, classSessionID)
		if err != nil {
			return err
		}
		if count >= session.Capacity {
			return ErrClassFull
		}

		reg := &ClassRegistration{
			MemberID:       memberID,
			ClassSessionID: classSessionID,
			RegisteredAt:   WallClock(s.now()),
		}
		if err := tx.InsertRegistration(ctx, reg); err != nil {
			return err
		}
		created = reg
		return nil
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return created, nil
}

func (s *service) AddTrainerAvailability(ctx context.Context, trainerID int, start, end string) (*AvailabilityWindow, error) {
	const op = "schedule.AddTrainerAvailability"

	var created *AvailabilityWindow
	err := s.store.RunInTx(ctx, func(tx Tx) error {
		if err := requireExists(ctx, tx.TrainerExists, EntityTrainer, trainerID); err != nil {
			return err
		}

		iv, err := ParseInterval(start, end)
		if err != nil {
			return err
		}

		if err := tx.LockResource(ctx, ResourceTrainer, trainerID); err != nil {
			return err
		}
		windows, err := tx.ListAvailability(ctx, trainerID)
		if err != nil {
			return err
		}
		if overlapsAnyWindow(windows, iv) {
			return ErrWindowOverlap
		}

		window := &AvailabilityWindow{
			TrainerID: trainerID,
			StartTime: iv.Start,
			EndTime:   iv.End,
		}
		if err := tx.InsertAvailability(ctx, window); err != nil {
			return err
		}
		created = window
		return nil
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return created, nil
}

func (s *service) GetTrainerSchedule(ctx context.Context, trainerID int, from time.Time) (*TrainerSchedule, error) {
	const op = "schedule.GetTrainerSchedule"

	var sched *TrainerSchedule
	err := s.store.RunInTx(ctx, func(tx Tx) error {
		if err := requireExists(ctx, tx.TrainerExists, EntityTrainer, trainerID); err != nil {
			return err
		}

		classes, err := tx.ListTrainerClassSessions(ctx, trainerID, from)
		if err != nil {
			return err
		}
		pts, err := tx.ListTrainerPTSessions(ctx, trainerID, from)
		if err != nil {
			return err
		}
		windows, err := tx.ListAvailability(ctx, trainerID)
		if err != nil {
			return err
		}

		sched = &TrainerSchedule{
			TrainerID:    trainerID,
			Classes:      nonNil(classes),
			PTSessions:   nonNil(pts),
			Availability: nonNil(windows),
		}
		return nil
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return sched, nil
}

func (s *service) ListUpcomingClasses(ctx context.Context, from time.Time) ([]ClassSessionWithAvailability, error) {
	const op = "schedule.ListUpcomingClasses"

	var classes []ClassSessionWithAvailability
	err := s.store.RunInTx(ctx, func(tx Tx) error {
		var err error
		classes, err = tx.ListClassSessions(ctx, from)
		return err
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return withAvailability(classes), nil
}

func (s *service) ListClassSessions(ctx context.Context) ([]ClassSessionWithAvailability, error) {
	return s.ListUpcomingClasses(ctx, time.Time{})
}

func (s *service) ListPTSessions(ctx context.Context) ([]PTSession, error) {
	const op = "schedule.ListPTSessions"

	var sessions []PTSession
	err := s.store.RunInTx(ctx, func(tx Tx) error {
		var err error
		sessions, err = tx.ListPTSessions(ctx)
		return err
	})
	if err != nil {
		return nil, classify(op, err)
	}
	return nonNil(sessions), nil
}

// checkResources runs the room gate then the trainer gate. Both resources are
// locked first, room before trainer, so concurrent writers queue up.
func checkResources(ctx context.Context, tx Tx, roomID, trainerID int, iv Interval, exclude Exclusion) error {
	if err := tx.LockResource(ctx, ResourceRoom, roomID); err != nil {
		return err
	}
	if err := tx.LockResource(ctx, ResourceTrainer, trainerID); err != nil {
		return err
	}

	if err := checkRoom(ctx, tx, roomID, iv, exclude); err != nil {
		return err
	}

	trainerBookings, err := tx.ListResourceBookings(ctx, ResourceTrainer, trainerID)
	if err != nil {
		return err
	}
	if HasConflict(trainerBookings, iv, exclude) {
		return ErrTrainerConflict
	}
	return nil
}

func checkRoom(ctx context.Context, tx Tx, roomID int, iv Interval, exclude Exclusion) error {
	roomBookings, err := tx.ListResourceBookings(ctx, ResourceRoom, roomID)
	if err != nil {
		return err
	}
	if HasConflict(roomBookings, iv, exclude) {
		return ErrRoomConflict
	}
	return nil
}

func requireExists(ctx context.Context, exists func(context.Context, int) (bool, error), entity string, id int) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(entity, id)
	}
	return nil
}

func withAvailability(classes []ClassSessionWithAvailability) []ClassSessionWithAvailability {
	out := make([]ClassSessionWithAvailability, 0, len(classes))
	for _, c := range classes {
		c.Available = c.Capacity - c.RegisteredCount
		if c.Available < 0 {
			c.Available = 0
		}
		c.IsFull = c.Available == 0
		out = append(out, c)
	}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
