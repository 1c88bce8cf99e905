package sale

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status tells whether a sale already counts as realized revenue.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
)

// DefaultDescription replaces blank descriptions.
const DefaultDescription = "Venda sem descrição"

var (
	ErrNotFound       = errors.New("sale not found")
	ErrInvalidAmount  = errors.New("amount must not be negative")
	ErrInvalidStatus  = errors.New("status must be paid or pending")
	ErrInvalidReceipt = errors.New("receipt must be a base64 data URL")
)

// Sale represents a single recorded transaction.
type Sale struct {
	ID          uuid.UUID
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Status      Status
	Receipt     string // data URL, empty when absent
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// IsPending reports whether the sale is excluded from realized revenue.
func (s *Sale) IsPending() bool {
	return s.Status == StatusPending
}

// HasReceipt reports whether an attachment is embedded.
func (s *Sale) HasReceipt() bool {
	return s.Receipt != ""
}

func (s Status) Valid() bool {
	return s == StatusPaid || s == StatusPending
}
