package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitclub/internal/schedule"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrEmailExists    = errors.New("email already registered")
	ErrInvalidMember  = errors.New("name and email are required")
)

type Service interface {
	Register(ctx context.Context, req RegisterMemberRequest) (*Member, error)
	GetMemberByID(ctx context.Context, id int) (*Member, error)
	GetAllMembers(ctx context.Context) ([]Member, error)
	Search(ctx context.Context, term string) ([]SearchResult, error)
	UpdateProfile(ctx context.Context, id int, req UpdateProfileRequest) (*Member, error)
	AddHealthMetric(ctx context.Context, id int, req AddHealthMetricRequest) (*HealthMetric, error)
	Dashboard(ctx context.Context, id int, now time.Time) (*Dashboard, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *service) Register(ctx context.Context, req RegisterMemberRequest) (*Member, error) {
	const op = "member.Register"

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" {
		return nil, ErrInvalidMember
	}

	m := &Member{
		Name:        name,
		Email:       email,
		DateOfBirth: parseDate(req.DateOfBirth),
		Gender:      strings.TrimSpace(req.Gender),
		Phone:       strings.TrimSpace(req.Phone),
	}
	if err := s.repo.CreateMember(ctx, m); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

func (s *service) GetMemberByID(ctx context.Context, id int) (*Member, error) {
	m, err := s.repo.GetMemberByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("member.GetMemberByID: %w", err)
	}
	return m, nil
}

func (s *service) GetAllMembers(ctx context.Context) ([]Member, error) {
	return s.repo.GetAllMembers(ctx)
}

func (s *service) Search(ctx context.Context, term string) ([]SearchResult, error) {
	const op = "member.Search"

	term = strings.TrimSpace(term)
	if term == "" {
		return []SearchResult{}, nil
	}

	members, err := s.repo.SearchMembersByName(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	results := make([]SearchResult, 0, len(members))
	for _, m := range members {
		metric, err := s.repo.LatestMetric(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		goal, err := s.repo.ActiveGoal(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		results = append(results, SearchResult{Member: m, LastMetric: metric, ActiveGoal: goal})
	}
	return results, nil
}

func (s *service) UpdateProfile(ctx context.Context, id int, req UpdateProfileRequest) (*Member, error) {
	upd := ProfileUpdate{
		Name:            strings.TrimSpace(req.Name),
		Gender:          strings.TrimSpace(req.Gender),
		Phone:           strings.TrimSpace(req.Phone),
		GoalDescription: strings.TrimSpace(req.GoalDescription),
		TargetWeightKg:  req.TargetWeightKg,
		Now:             schedule.WallClock(s.now()),
	}

	m, err := s.repo.UpdateProfile(ctx, id, upd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("member.UpdateProfile: %w", err)
	}
	return m, nil
}

func (s *service) AddHealthMetric(ctx context.Context, id int, req AddHealthMetricRequest) (*HealthMetric, error) {
	if _, err := s.GetMemberByID(ctx, id); err != nil {
		return nil, err
	}

	metric := &HealthMetric{
		MemberID:     id,
		HeightCm:     req.HeightCm,
		WeightKg:     req.WeightKg,
		HeartRateBpm: req.HeartRateBpm,
		RecordedAt:   schedule.WallClock(s.now()),
	}
	if err := s.repo.AddHealthMetric(ctx, metric); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("member.AddHealthMetric: %w", err)
	}
	return metric, nil
}

// Dashboard counts a class as past once its end time is before now.
func (s *service) Dashboard(ctx context.Context, id int, now time.Time) (*Dashboard, error) {
	const op = "member.Dashboard"

	m, err := s.GetMemberByID(ctx, id)
	if err != nil {
		return nil, err
	}

	metric, err := s.repo.LatestMetric(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	goal, err := s.repo.ActiveGoal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	past, err := s.repo.CountPastClasses(ctx, id, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	upcoming, err := s.repo.UpcomingPTSessions(ctx, id, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if upcoming == nil {
		upcoming = []schedule.PTSession{}
	}

	return &Dashboard{
		Member:             *m,
		LatestMetric:       metric,
		ActiveGoal:         goal,
		PastClassesCount:   past,
		UpcomingPTSessions: upcoming,
	}, nil
}

// parseDate returns nil for blank or unparseable input.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &d
}
