package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitclub/internal/member"
	"fitclub/internal/schedule"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrAlreadyPaid     = errors.New("invoice already paid")
	ErrInvalidAmount   = errors.New("amount must be positive")
)

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error)
	MarkPaid(ctx context.Context, id int, paymentMethod string) (*Invoice, error)
	GetByID(ctx context.Context, id int) (*Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	ListByMember(ctx context.Context, memberID int) ([]Invoice, error)
}

// MemberLookup is the part of the member store invoices depend on.
type MemberLookup interface {
	GetMemberByID(ctx context.Context, id int) (*member.Member, error)
}

type service struct {
	repo    Repository
	members MemberLookup
	now     func() time.Time
}

func NewService(repo Repository, members MemberLookup) Service {
	return &service{
		repo:    repo,
		members: members,
		now:     time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	const op = "invoice.Create"

	if req.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := s.memberExists(ctx, req.MemberID); err != nil {
		return nil, err
	}

	inv := &Invoice{
		MemberID:      req.MemberID,
		Description:   strings.TrimSpace(req.Description),
		AmountCents:   req.AmountCents,
		Status:        StatusUnpaid,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		CreatedAt:     schedule.WallClock(s.now()),
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inv, nil
}

func (s *service) MarkPaid(ctx context.Context, id int, paymentMethod string) (*Invoice, error) {
	inv, err := s.repo.MarkPaid(ctx, id, strings.TrimSpace(paymentMethod), schedule.WallClock(s.now()))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrInvoiceNotFound
	case errors.Is(err, ErrAlreadyPaid):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("invoice.MarkPaid: %w", err)
	}
	return inv, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Invoice, error) {
	inv, err := s.repo.GetInvoiceByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("invoice.GetByID: %w", err)
	}
	return inv, nil
}

func (s *service) List(ctx context.Context) ([]Invoice, error) {
	return s.repo.GetAllInvoices(ctx)
}

func (s *service) ListByMember(ctx context.Context, memberID int) ([]Invoice, error) {
	if err := s.memberExists(ctx, memberID); err != nil {
		return nil, err
	}
	return s.repo.GetInvoicesByMember(ctx, memberID)
}

func (s *service) memberExists(ctx context.Context, memberID int) error {
	_, err := s.members.GetMemberByID(ctx, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return member.ErrMemberNotFound
	}
	if err != nil {
		return fmt.Errorf("invoice: member lookup: %w", err)
	}
	return nil
}
