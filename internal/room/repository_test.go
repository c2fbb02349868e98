package room

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	return NewRepository(sqlx.NewDb(raw, "sqlmock")), mock
}

func TestRepository_CreateRoom(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery(`INSERT INTO rooms`).
		WithArgs("Studio A", 20, "2F").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "location"}).AddRow(1, "Studio A", 20, "2F"))

	room, err := repo.CreateRoom(context.Background(), "Studio A", 20, "2F")
	require.NoError(t, err)
	assert.Equal(t, 1, room.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateRoom_Duplicate(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery(`INSERT INTO rooms`).
		WithArgs("Studio A", 20, "").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "rooms_name_key"})

	_, err := repo.CreateRoom(context.Background(), "Studio A", 20, "")
	assert.ErrorIs(t, err, ErrNameExists)
}

func TestRepository_GetAllRooms(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery(`FROM rooms\s+ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "location"}).
			AddRow(1, "Studio A", 20, "").
			AddRow(2, "Studio B", 12, "Basement"))

	rooms, err := repo.GetAllRooms(context.Background())
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
	assert.Equal(t, "Basement", rooms[1].Location)
}

func TestRepository_GetRoomByID_NotFound(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery(`FROM rooms\s+WHERE id = \$1`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "location"}))

	_, err := repo.GetRoomByID(context.Background(), 9)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
