package schedule

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"
)

// memStore is a Store double that runs transactions one at a time against
// in-memory tables and restores a snapshot when fn fails.
type memStore struct {
	mu sync.Mutex

	members  map[int]bool
	trainers map[int]bool
	rooms    map[int]bool

	classes       map[int]ClassSession
	pts           map[int]PTSession
	registrations []ClassRegistration
	windows       []AvailabilityWindow

	nextID int
}

func newMemStore() *memStore {
	return &memStore{
		members:  map[int]bool{},
		trainers: map[int]bool{},
		rooms:    map[int]bool{},
		classes:  map[int]ClassSession{},
		pts:      map[int]PTSession{},
		nextID:   100,
	}
}

func (m *memStore) addMembers(ids ...int) {
	for _, id := range ids {
		m.members[id] = true
	}
}

func (m *memStore) addTrainers(ids ...int) {
	for _, id := range ids {
		m.trainers[id] = true
	}
}

func (m *memStore) addRooms(ids ...int) {
	for _, id := range ids {
		m.rooms[id] = true
	}
}

type memSnapshot struct {
	classes       map[int]ClassSession
	pts           map[int]PTSession
	registrations []ClassRegistration
	windows       []AvailabilityWindow
	nextID        int
}

func (m *memStore) snapshot() memSnapshot {
	s := memSnapshot{
		classes:       make(map[int]ClassSession, len(m.classes)),
		pts:           make(map[int]PTSession, len(m.pts)),
		registrations: append([]ClassRegistration(nil), m.registrations...),
		windows:       append([]AvailabilityWindow(nil), m.windows...),
		nextID:        m.nextID,
	}
	for k, v := range m.classes {
		s.classes[k] = v
	}
	for k, v := range m.pts {
		s.pts[k] = v
	}
	return s
}

func (m *memStore) restore(s memSnapshot) {
	m.classes = s.classes
	m.pts = s.pts
	m.registrations = s.registrations
	m.windows = s.windows
	m.nextID = s.nextID
}

func (m *memStore) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	if err := fn(&memTx{m: m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *memStore) allBookings() []Booking {
	var out []Booking
	for _, c := range m.classes {
		out = append(out, Booking{Kind: BookingClass, ID: c.ID, RoomID: c.RoomID, TrainerID: c.TrainerID,
			StartTime: c.StartTime, EndTime: c.EndTime, Status: PTStatusScheduled})
	}
	for _, p := range m.pts {
		out = append(out, Booking{Kind: BookingPT, ID: p.ID, RoomID: p.RoomID, TrainerID: p.TrainerID,
			StartTime: p.StartTime, EndTime: p.EndTime, Status: p.Status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

type memTx struct {
	m *memStore
}

func (t *memTx) id() int {
	t.m.nextID++
	return t.m.nextID
}

func (t *memTx) MemberExists(ctx context.Context, id int) (bool, error) {
	return t.m.members[id], nil
}

func (t *memTx) TrainerExists(ctx context.Context, id int) (bool, error) {
	return t.m.trainers[id], nil
}

func (t *memTx) RoomExists(ctx context.Context, id int) (bool, error) {
	return t.m.rooms[id], nil
}

func (t *memTx) LockResource(ctx context.Context, kind ResourceKind, id int) error {
	return nil
}

func (t *memTx) ListResourceBookings(ctx context.Context, kind ResourceKind, id int) ([]Booking, error) {
	var out []Booking
	for _, b := range t.m.allBookings() {
		if (kind == ResourceRoom && b.RoomID == id) || (kind == ResourceTrainer && b.TrainerID == id) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (t *memTx) ListAvailability(ctx context.Context, trainerID int) ([]AvailabilityWindow, error) {
	var out []AvailabilityWindow
	for _, w := range t.m.windows {
		if w.TrainerID == trainerID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (t *memTx) InsertClassSession(ctx context.Context, s *ClassSession) error {
	s.ID = t.id()
	t.m.classes[s.ID] = *s
	return nil
}

func (t *memTx) LockClassSession(ctx context.Context, id int) (*ClassSession, error) {
	c, ok := t.m.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (t *memTx) UpdateClassSessionRoom(ctx context.Context, id, roomID int) error {
	c := t.m.classes[id]
	c.RoomID = roomID
	t.m.classes[id] = c
	return nil
}

func (t *memTx) ListClassSessions(ctx context.Context, from time.Time) ([]ClassSessionWithAvailability, error) {
	var out []ClassSessionWithAvailability
	for _, c := range t.m.classes {
		if c.StartTime.Before(from) {
			continue
		}
		count, _ := t.CountRegistrations(ctx, c.ID)
		out = append(out, ClassSessionWithAvailability{ClassSession: c, RegisteredCount: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (t *memTx) ListTrainerClassSessions(ctx context.Context, trainerID int, from time.Time) ([]ClassSession, error) {
	var out []ClassSession
	for _, c := range t.m.classes {
		if c.TrainerID == trainerID && !c.StartTime.Before(from) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (t *memTx) InsertPTSession(ctx context.Context, s *PTSession) error {
	s.ID = t.id()
	t.m.pts[s.ID] = *s
	return nil
}

func (t *memTx) GetPTSession(ctx context.Context, id int) (*PTSession, error) {
	p, ok := t.m.pts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (t *memTx) UpdatePTSessionRoom(ctx context.Context, id, roomID int) error {
	p := t.m.pts[id]
	p.RoomID = roomID
	t.m.pts[id] = p
	return nil
}

func (t *memTx) UpdatePTSessionStatus(ctx context.Context, id int, status PTStatus) error {
	p := t.m.pts[id]
	p.Status = status
	t.m.pts[id] = p
	return nil
}

func (t *memTx) ListPTSessions(ctx context.Context) ([]PTSession, error) {
	var out []PTSession
	for _, p := range t.m.pts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (t *memTx) ListTrainerPTSessions(ctx context.Context, trainerID int, from time.Time) ([]PTSession, error) {
	var out []PTSession
	for _, p := range t.m.pts {
		if p.TrainerID == trainerID && !p.StartTime.Before(from) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (t *memTx) RegistrationExists(ctx context.Context, memberID, classSessionID int) (bool, error) {
	for _, r := range t.m.registrations {
		if r.MemberID == memberID && r.ClassSessionID == classSessionID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) CountRegistrations(ctx context.Context, classSessionID int) (int, error) {
	n := 0
	for _, r := range t.m.registrations {
		if r.ClassSessionID == classSessionID {
			n++
		}
	}
	return n, nil
}

func (t *memTx) InsertRegistration(ctx context.Context, r *ClassRegistration) error {
	r.ID = t.id()
	t.m.registrations = append(t.m.registrations, *r)
	return nil
}

func (t *memTx) InsertAvailability(ctx context.Context, w *AvailabilityWindow) error {
	w.ID = t.id()
	t.m.windows = append(t.m.windows, *w)
	return nil
}
