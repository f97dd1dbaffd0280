package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	WalletCash       WalletType = "cash"
	WalletBank       WalletType = "bank"
	WalletCreditCard WalletType = "credit_card"
	WalletUPI        WalletType = "upi"
	WalletLoan       WalletType = "loan"
)

type (
	TransactionType string
	Frequency       string
	WalletType      string

	Money struct {
		Cents int64
	}

	User struct {
		ID        int64
		Email     string
		Name      string
		Currency  string
		Timezone  string
		CreatedAt time.Time
	}

	Wallet struct {
		ID        int64
		UserID    int64
		Name      string
		Type      WalletType
		Balance   Money
		CreatedAt time.Time
	}

	// Category tags transactions. A category with UserID == nil is a shared
	// system category visible to every user.
	Category struct {
		ID     int64
		UserID *int64
		Name   string
		Type   TransactionType
		Icon   string
		Color  string
	}

	Transaction struct {
		ID         int64
		UserID     int64
		CategoryID int64
		Type       TransactionType
		Amount     Money
		Note       string
		Date       time.Time
		Deleted    bool
	}

	Budget struct {
		ID           int64
		UserID       int64
		CategoryID   int64
		MonthlyLimit Money
		Month        int
		Year         int
	}

	// RecurringTask materializes its template transaction into the ledger
	// every time its schedule comes due.
	RecurringTask struct {
		ID                    int64
		UserID                int64
		Frequency             Frequency
		NextRun               time.Time
		TemplateTransactionID int64
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrEmptyName        = errors.New("empty name")
	ErrMissingOwner     = errors.New("missing owner")
	ErrMissingCategory  = errors.New("missing category")
	ErrNoteTooLong      = errors.New("note too long (max 500 characters)")
	ErrNotFound         = errors.New("not found")

	// ErrTaskClaimed reports that another process advanced a recurring
	// task between our due scan and our commit. Expected under
	// horizontally scaled workers.
	ErrTaskClaimed = errors.New("recurring task already claimed")
)

// Validate checks that an amount is usable on a ledger row. Amounts carry no
// sign; direction is the transaction type.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense, Transfer:
		return nil
	}
	return ErrInvalidType
}

func (f Frequency) Validate() error {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return nil
	}
	return ErrInvalidFrequency
}

func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.UserID <= 0 {
		return ErrMissingOwner
	}
	if t.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if len(t.Note) > 500 {
		return ErrNoteTooLong
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if len(c.Name) > 255 {
		return errors.New("name too long (max 255 characters)")
	}
	return c.Type.Validate()
}

func (w Wallet) Validate() error {
	if len(strings.TrimSpace(w.Name)) == 0 {
		return ErrEmptyName
	}
	switch w.Type {
	case WalletCash, WalletBank, WalletCreditCard, WalletUPI, WalletLoan:
	default:
		return errors.New("invalid wallet type")
	}
	return nil
}

func (b Budget) Validate() error {
	if b.MonthlyLimit.Cents <= 0 {
		return ErrInvalidAmount
	}
	if b.Month < 1 || b.Month > 12 {
		return errors.New("invalid month")
	}
	if b.Year < 1970 {
		return errors.New("invalid year")
	}
	if b.CategoryID <= 0 {
		return errors.New("missing category")
	}
	return nil
}

func (rt RecurringTask) Validate() error {
	if err := rt.Frequency.Validate(); err != nil {
		return err
	}
	if rt.TemplateTransactionID <= 0 {
		return errors.New("missing template transaction")
	}
	if rt.NextRun.IsZero() {
		return errors.New("next run date cannot be zero")
	}
	return nil
}
