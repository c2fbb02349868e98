package invoice

import (
	"context"
	"time"

	"fitclub/internal/db"
	"fitclub/internal/member"

	"github.com/jmoiron/sqlx"
)

const invoiceColumns = `id, member_id, COALESCE(description, '') AS description, amount_cents, status,
	COALESCE(payment_method, '') AS payment_method, created_at, paid_at`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(dbx *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: dbx}
}

func (r *PostgresRepository) CreateInvoice(ctx context.Context, inv *Invoice) error {
	query := `
		INSERT INTO invoices (member_id, description, amount_cents, status, payment_method, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), $6)
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, query,
		inv.MemberID, inv.Description, inv.AmountCents, inv.Status, inv.PaymentMethod, inv.CreatedAt,
	).Scan(&inv.ID)
	if db.IsConstraintViolation(err, db.CodeForeignKeyViolation, "") {
		return member.ErrMemberNotFound
	}
	return err
}

func (r *PostgresRepository) GetInvoiceByID(ctx context.Context, id int) (*Invoice, error) {
	var inv Invoice
	if err := r.db.GetContext(ctx, &inv, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresRepository) MarkPaid(ctx context.Context, id int, paymentMethod string, paidAt time.Time) (*Invoice, error) {
	var inv Invoice
	err := db.WithTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &inv,
			`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id); err != nil {
			return err
		}
		if inv.Status != StatusUnpaid {
			return ErrAlreadyPaid
		}

		query := `
			UPDATE invoices
			SET status = $2, paid_at = $3, payment_method = COALESCE(NULLIF($4, ''), payment_method)
			WHERE id = $1
			RETURNING ` + invoiceColumns
		return tx.GetContext(ctx, &inv, query, id, StatusPaid, paidAt, paymentMethod)
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresRepository) GetAllInvoices(ctx context.Context) ([]Invoice, error) {
	invoices := []Invoice{}
	err := r.db.SelectContext(ctx, &invoices,
		`SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *PostgresRepository) GetInvoicesByMember(ctx context.Context, memberID int) ([]Invoice, error) {
	invoices := []Invoice{}
	err := r.db.SelectContext(ctx, &invoices,
		`SELECT `+invoiceColumns+` FROM invoices WHERE member_id = $1 ORDER BY created_at DESC, id DESC`, memberID)
	if err != nil {
		return nil, err
	}
	return invoices, nil
}
