package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNameExists   = errors.New("room name already exists")
	ErrInvalidRoom  = errors.New("room name is required and capacity must be positive")
)

type Service interface {
	CreateRoom(ctx context.Context, req CreateRoomRequest) (*Room, error)
	GetAllRooms(ctx context.Context) ([]Room, error)
	GetRoomByID(ctx context.Context, id int) (*Room, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateRoom(ctx context.Context, req CreateRoomRequest) (*Room, error) {
	const op = "room.CreateRoom"

	name := strings.TrimSpace(req.Name)
	if name == "" || req.Capacity <= 0 {
		return nil, ErrInvalidRoom
	}

	room, err := s.repo.CreateRoom(ctx, name, req.Capacity, strings.TrimSpace(req.Location))
	if err != nil {
		if errors.Is(err, ErrNameExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return room, nil
}

func (s *service) GetAllRooms(ctx context.Context) ([]Room, error) {
	return s.repo.GetAllRooms(ctx)
}

func (s *service) GetRoomByID(ctx context.Context, id int) (*Room, error) {
	room, err := s.repo.GetRoomByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("room.GetRoomByID: %w", err)
	}
	return room, nil
}
