package schedule

import "time"

type PTStatus string

const (
	PTStatusScheduled PTStatus = "Scheduled"
	PTStatusCompleted PTStatus = "Completed"
	PTStatusCancelled PTStatus = "Cancelled"
)

func (s PTStatus) Valid() bool {
	switch s {
	case PTStatusScheduled, PTStatusCompleted, PTStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a session in status s may move to next.
// Only scheduled sessions change state.
func (s PTStatus) CanTransitionTo(next PTStatus) bool {
	return s == PTStatusScheduled && (next == PTStatusCompleted || next == PTStatusCancelled)
}

type ClassSession struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	TrainerID int       `db:"trainer_id" json:"trainer_id"`
	RoomID    int       `db:"room_id" json:"room_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Capacity  int       `db:"capacity" json:"capacity"`
}

func (c ClassSession) Interval() Interval {
	return Interval{Start: c.StartTime, End: c.EndTime}
}

type ClassSessionWithAvailability struct {
	ClassSession
	RegisteredCount int  `db:"registered_count" json:"registered_count"`
	Available       int  `json:"available"`
	IsFull          bool `json:"is_full"`
}

type PTSession struct {
	ID        int       `db:"id" json:"id"`
	MemberID  int       `db:"member_id" json:"member_id"`
	TrainerID int       `db:"trainer_id" json:"trainer_id"`
	RoomID    int       `db:"room_id" json:"room_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Status    PTStatus  `db:"status" json:"status"`
}

func (p PTSession) Interval() Interval {
	return Interval{Start: p.StartTime, End: p.EndTime}
}

type ClassRegistration struct {
	ID             int       `db:"id" json:"id"`
	MemberID       int       `db:"member_id" json:"member_id"`
	ClassSessionID int       `db:"class_session_id" json:"class_session_id"`
	RegisteredAt   time.Time `db:"registered_at" json:"registered_at"`
}

type AvailabilityWindow struct {
	ID        int       `db:"id" json:"id"`
	TrainerID int       `db:"trainer_id" json:"trainer_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
}

func (w AvailabilityWindow) Interval() Interval {
	return Interval{Start: w.StartTime, End: w.EndTime}
}

// ResourceKind selects the foreign key a conflict scan filters on.
type ResourceKind string

const (
	ResourceRoom    ResourceKind = "room"
	ResourceTrainer ResourceKind = "trainer"
)

// BookingKind tells class and PT rows apart inside a Booking.
type BookingKind string

const (
	BookingClass BookingKind = "class"
	BookingPT    BookingKind = "pt"
)

// Booking is the slice of a class or PT session that conflict checks need.
type Booking struct {
	Kind      BookingKind `db:"kind"`
	ID        int         `db:"id"`
	RoomID    int         `db:"room_id"`
	TrainerID int         `db:"trainer_id"`
	StartTime time.Time   `db:"start_time"`
	EndTime   time.Time   `db:"end_time"`
	Status    PTStatus    `db:"status"`
}

func (b Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// Exclusion names sessions a conflict scan must skip. Zero ids exclude nothing.
type Exclusion struct {
	ClassSessionID int
	PTSessionID    int
}

func (e Exclusion) excludes(b Booking) bool {
	switch b.Kind {
	case BookingClass:
		return e.ClassSessionID != 0 && b.ID == e.ClassSessionID
	case BookingPT:
		return e.PTSessionID != 0 && b.ID == e.PTSessionID
	}
	return false
}

type TrainerSchedule struct {
	TrainerID    int                  `json:"trainer_id"`
	Classes      []ClassSession       `json:"classes"`
	PTSessions   []PTSession          `json:"pt_sessions"`
	Availability []AvailabilityWindow `json:"availability"`
}

type CreateClassSessionInput struct {
	Title     string
	TrainerID int
	RoomID    int
	Start     string
	End       string
	Capacity  int
}

type CreatePTSessionInput struct {
	MemberID  int
	TrainerID int
	RoomID    int
	Start     string
	End       string
}

type CreateClassSessionRequest struct {
	Title     string `json:"title" binding:"required,max=120"`
	TrainerID int    `json:"trainer_id" binding:"required,gt=0"`
	RoomID    int    `json:"room_id" binding:"required,gt=0"`
	StartTime string `json:"start_time" binding:"required" example:"2026-11-02T09:00"`
	EndTime   string `json:"end_time" binding:"required" example:"2026-11-02T10:00"`
	Capacity  *int   `json:"capacity,omitempty" example:"12"`
}

type CreatePTSessionRequest struct {
	MemberID  int    `json:"member_id" binding:"required,gt=0"`
	TrainerID int    `json:"trainer_id" binding:"required,gt=0"`
	RoomID    int    `json:"room_id" binding:"required,gt=0"`
	StartTime string `json:"start_time" binding:"required" example:"2026-11-02T11:00"`
	EndTime   string `json:"end_time" binding:"required" example:"2026-11-02T12:00"`
}

type MoveRoomRequest struct {
	RoomID int `json:"room_id" binding:"required,gt=0"`
}

type UpdatePTStatusRequest struct {
	Status PTStatus `json:"status" binding:"required,oneof=Scheduled Completed Cancelled"`
}

type RegisterForClassRequest struct {
	MemberID int `json:"member_id" binding:"required,gt=0"`
}

type AddAvailabilityRequest struct {
	StartTime string `json:"start_time" binding:"required" example:"2026-11-02T08:00"`
	EndTime   string `json:"end_time" binding:"required" example:"2026-11-02T12:00"`
}
