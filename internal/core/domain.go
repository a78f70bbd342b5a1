package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the only accepted textual date form.
	DateLayout = "2006-01-02"

	MaxCategoryLen = 100
	MaxNoteLen     = 500
)

var (
	ErrNotFound        = errors.New("not found")
	ErrEmptyPath       = errors.New("empty path")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyCategory   = errors.New("empty category")
	ErrCategoryTooLong = fmt.Errorf("category too long (max %d characters)", MaxCategoryLen)
	ErrNoteTooLong     = fmt.Errorf("note too long (max %d characters)", MaxNoteLen)
)

type (
	// Date is a day-granularity calendar date. The time component is
	// always midnight UTC.
	Date struct {
		time.Time
	}

	// Transaction is the persisted financial record. ID is assigned by
	// the store on insert and never mutated afterwards.
	Transaction struct {
		ID       int64           `json:"id" xml:"id"`
		Date     Date            `json:"date" xml:"date"`
		Category string          `json:"category" xml:"category"`
		Amount   decimal.Decimal `json:"amount" xml:"amount"`
		Note     string          `json:"note" xml:"note"`
	}
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses strict YYYY-MM-DD text.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// IsEmpty reports a zero date, used for optional range bounds.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	return d.UnmarshalText([]byte(s))
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Category) > MaxCategoryLen {
		return ErrCategoryTooLong
	}
	if len(t.Note) > MaxNoteLen {
		return ErrNoteTooLong
	}
	return nil
}
