package circulation

import (
	"math/big"
	"strings"
	"time"

	"library-circulation/internal/pkg/clock"
	"library-circulation/internal/pkg/errs"
)

// BaseFine is charged for the first late day; every further day doubles it.
const BaseFine = 2000

const dateLayout = "2006-01-02"

// Money is an amount in whole currency units. The doubling fine schedule is uncapped,
// so amounts are arbitrary precision.
type Money struct {
	v *big.Int
}

func NewMoney(units int64) Money {
	return Money{v: big.NewInt(units)}
}

func MoneyFromBig(v *big.Int) Money {
	if v == nil {
		return Money{}
	}
	return Money{v: new(big.Int).Set(v)}
}

func (m Money) Big() *big.Int {
	if m.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(m.v)
}

// Int64 returns the amount and whether it fits in an int64.
func (m Money) Int64() (int64, bool) {
	b := m.Big()
	return b.Int64(), b.IsInt64()
}

func (m Money) IsZero() bool {
	return m.v == nil || m.v.Sign() == 0
}

func (m Money) Equal(other Money) bool {
	return m.Big().Cmp(other.Big()) == 0
}

func (m Money) String() string {
	return m.Big().String()
}

// MarshalJSON renders the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.Big().MarshalJSON()
}

func (m *Money) UnmarshalJSON(data []byte) error {
	v := new(big.Int)
	if err := v.UnmarshalJSON(data); err != nil {
		return errs.Mark(err, errs.ErrInvalidInput)
	}
	m.v = v
	return nil
}

type FineResult struct {
	DueDate time.Time
	// ReturnDate is the date the fine was assessed against; today's midnight when none was given.
	ReturnDate time.Time
	LateDays   int
	Amount     Money
}

// Fine applies the doubling schedule: 0 → 0, n → 2000 × 2^(n−1).
func Fine(lateDays int) Money {
	if lateDays <= 0 {
		return NewMoney(0)
	}
	amount := big.NewInt(BaseFine)
	amount.Lsh(amount, uint(lateDays-1))
	return Money{v: amount}
}

// FineCalculator compares dates at day granularity in the library's time zone.
type FineCalculator struct {
	loc   *time.Location
	clock clock.Clock
}

func NewFineCalculator(loc *time.Location, clk clock.Clock) *FineCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &FineCalculator{loc: loc, clock: clk}
}

func (c *FineCalculator) Location() *time.Location {
	return c.loc
}

// LateDays counts whole days between due and return dates; a nil return date means today.
func (c *FineCalculator) LateDays(due time.Time, returned *time.Time) (int, error) {
	if due.IsZero() {
		return 0, errs.Wrap(ErrInvalidDate, "due date is required")
	}
	ret := c.clock.Now()
	if returned != nil {
		if returned.IsZero() {
			return 0, errs.Wrap(ErrInvalidDate, "return date is zero")
		}
		ret = *returned
	}

	days := dayNumber(ret, c.loc) - dayNumber(due, c.loc)
	if days < 0 {
		return 0, nil
	}
	return int(days), nil
}

func (c *FineCalculator) ComputeFine(due time.Time, returned *time.Time) (FineResult, error) {
	lateDays, err := c.LateDays(due, returned)
	if err != nil {
		return FineResult{}, err
	}
	ret := StartOfDay(c.clock.Now(), c.loc)
	if returned != nil {
		ret = *returned
	}
	return FineResult{DueDate: due, ReturnDate: ret, LateDays: lateDays, Amount: Fine(lateDays)}, nil
}

// ComputeFineFromStrings parses both dates; an empty return date means today.
func (c *FineCalculator) ComputeFineFromStrings(due, returned string) (FineResult, error) {
	dueDate, err := ParseDate(due, c.loc)
	if err != nil {
		return FineResult{}, err
	}

	var returnDate *time.Time
	if strings.TrimSpace(returned) != "" {
		parsed, err := ParseDate(returned, c.loc)
		if err != nil {
			return FineResult{}, err
		}
		returnDate = &parsed
	}

	return c.ComputeFine(dueDate, returnDate)
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errs.Wrap(ErrInvalidDate, "empty date")
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, errs.Wrapf(ErrInvalidDate, "cannot parse %q", s)
}

// dayNumber maps a local calendar date onto a day count, independent of DST shifts.
func dayNumber(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
