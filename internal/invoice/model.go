package invoice

import "time"

type Status string

const (
	StatusUnpaid Status = "Unpaid"
	StatusPaid   Status = "Paid"
)

type Invoice struct {
	ID            int        `db:"id" json:"id"`
	MemberID      int        `db:"member_id" json:"member_id"`
	Description   string     `db:"description" json:"description"`
	AmountCents   int64      `db:"amount_cents" json:"amount_cents"`
	Status        Status     `db:"status" json:"status"`
	PaymentMethod string     `db:"payment_method" json:"payment_method,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	PaidAt        *time.Time `db:"paid_at" json:"paid_at,omitempty"`
}

type CreateInvoiceRequest struct {
	MemberID      int    `json:"member_id" binding:"required,gt=0" example:"1"`
	Description   string `json:"description" binding:"max=255" example:"November membership"`
	AmountCents   int64  `json:"amount_cents" binding:"required,gt=0" example:"4500"`
	PaymentMethod string `json:"payment_method" binding:"max=50" example:"card"`
}

type PayInvoiceRequest struct {
	PaymentMethod string `json:"payment_method" binding:"max=50" example:"cash"`
}
