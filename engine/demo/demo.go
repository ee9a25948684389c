// Package demo provides the small helper functions used by the CI/CD workshop
// sample application. Every helper is pure apart from FormatDate with a zero
// time and RandomBetween.
package demo

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/compozy/demoutils/engine/core"
)

const (
	// DefaultName is used by Greet when no name is given
	DefaultName = "World"

	// DateLayout is the calendar date format produced by FormatDate
	DateLayout = time.DateOnly

	greetingFormat = "Hello, %s! Welcome to LocalStack CI/CD Workshop"
)

// ErrInvalidRange is wrapped by RandomBetween when hi is below lo
var ErrInvalidRange = errors.New("max must not be less than min")

var (
	now     = time.Now
	uint64n = rand.Uint64N
	uint64r = rand.Uint64
)

// Integer is satisfied by every built-in integer kind
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Number is satisfied by every built-in integer and float kind
type Number interface {
	Integer | ~float32 | ~float64
}

// Greet returns the workshop greeting for name, or for DefaultName when name is empty.
func Greet(name string) string {
	if name == "" {
		name = DefaultName
	}
	return fmt.Sprintf(greetingFormat, name)
}

// Add returns a + b.
func Add[T Number](a, b T) T {
	return a + b
}

// Multiply returns a * b.
func Multiply[T Number](a, b T) T {
	return a * b
}

// IsEven reports whether n is divisible by two.
func IsEven[T Integer](n T) bool {
	return n%2 == 0
}

// FormatDate returns the UTC calendar date of t as YYYY-MM-DD. The zero time
// stands for the current instant, read when FormatDate is called.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		t = now()
	}
	return t.UTC().Format(DateLayout)
}

// Today returns the current UTC date as YYYY-MM-DD.
func Today() string {
	return FormatDate(time.Time{})
}

// RandomBetween returns a uniformly distributed integer in [lo, hi], both
// bounds inclusive. It fails with an INVALID_RANGE error when hi < lo.
func RandomBetween(lo, hi int) (int, error) {
	if hi < lo {
		return 0, core.NewError(ErrInvalidRange, core.ErrorCodeInvalidRange, map[string]any{
			"min": lo,
			"max": hi,
		})
	}

	// The distance is taken in uint so it never sign-extends on 32-bit
	// platforms. span is zero only when the range covers every uint64 value.
	span := uint64(uint(hi)-uint(lo)) + 1
	if span == 0 {
		return int(uint64r()), nil
	}
	return lo + int(uint64n(span)), nil
}
