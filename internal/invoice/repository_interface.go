package invoice

import (
	"context"
	"time"
)

type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoiceByID(ctx context.Context, id int) (*Invoice, error)
	// MarkPaid returns sql.ErrNoRows for a missing invoice and ErrAlreadyPaid
	// when it is no longer Unpaid.
	MarkPaid(ctx context.Context, id int, paymentMethod string, paidAt time.Time) (*Invoice, error)
	GetAllInvoices(ctx context.Context) ([]Invoice, error)
	GetInvoicesByMember(ctx context.Context, memberID int) ([]Invoice, error)
}
