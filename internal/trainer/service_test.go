package trainer

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateTrainer(ctx context.Context, name, email string) (*Trainer, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trainer), args.Error(1)
}

func (m *MockRepository) GetAllTrainers(ctx context.Context) ([]Trainer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Trainer), args.Error(1)
}

func (m *MockRepository) GetTrainerByID(ctx context.Context, id int) (*Trainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trainer), args.Error(1)
}

func TestService_CreateTrainer(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		req       CreateTrainerRequest
		mockSetup func(*MockRepository)
		wantErr   error
	}{
		{
			name: "normalizes email",
			req:  CreateTrainerRequest{Name: " Dana Reyes ", Email: " Dana@FitClub.example "},
			mockSetup: func(m *MockRepository) {
				m.On("CreateTrainer", ctx, "Dana Reyes", "dana@fitclub.example").
					Return(&Trainer{ID: 1, Name: "Dana Reyes", Email: "dana@fitclub.example"}, nil)
			},
		},
		{
			name:    "blank name",
			req:     CreateTrainerRequest{Name: " ", Email: "dana@fitclub.example"},
			wantErr: ErrInvalidTrainer,
		},
		{
			name: "email taken",
			req:  CreateTrainerRequest{Name: "Dana", Email: "dana@fitclub.example"},
			mockSetup: func(m *MockRepository) {
				m.On("CreateTrainer", ctx, "Dana", "dana@fitclub.example").Return(nil, ErrEmailExists)
			},
			wantErr: ErrEmailExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			if tt.mockSetup != nil {
				tt.mockSetup(repo)
			}

			trainer, err := NewService(repo).CreateTrainer(ctx, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, trainer)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, trainer.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_GetTrainerByID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("GetTrainerByID", ctx, 1).Return(&Trainer{ID: 1}, nil)
	repo.On("GetTrainerByID", ctx, 2).Return(nil, sql.ErrNoRows)
	repo.On("GetTrainerByID", ctx, 3).Return(nil, errors.New("timeout"))
	svc := NewService(repo)

	_, err := svc.GetTrainerByID(ctx, 1)
	assert.NoError(t, err)

	_, err = svc.GetTrainerByID(ctx, 2)
	assert.ErrorIs(t, err, ErrTrainerNotFound)

	_, err = svc.GetTrainerByID(ctx, 3)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTrainerNotFound)
}
