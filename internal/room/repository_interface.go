package room

import "context"

type Repository interface {
	CreateRoom(ctx context.Context, name string, capacity int, location string) (*Room, error)
	GetAllRooms(ctx context.Context) ([]Room, error)
	GetRoomByID(ctx context.Context, id int) (*Room, error)
}
