// Package chips provides the non-negative currency amount used throughout
// the table engine. A Chips value can never go below zero: operations that
// would produce a negative amount fail with ErrInvalidAmount, except
// SubOrZero whose clamping is the documented contract.
package chips

import (
	"errors"
	"fmt"
)

// ErrInvalidAmount is returned for any operation that would produce a
// negative amount or was given a negative input.
var ErrInvalidAmount = errors.New("chips: invalid amount")

// Chips is an integral, non-negative stack of chips.
type Chips int64

// Zero is the empty amount.
const Zero Chips = 0

// New validates n and returns it as Chips.
func New(n int64) (Chips, error) {
	if n < 0 {
		return Zero, fmt.Errorf("%w: %d", ErrInvalidAmount, n)
	}
	return Chips(n), nil
}

// MustNew is New for amounts known to be valid at compile time. It panics on
// a negative amount and is intended for literals in tests and configuration.
func MustNew(n int64) Chips {
	c, err := New(n)
	if err != nil {
		panic(err)
	}
	return c
}

// Add returns c + o. Both operands are non-negative so the sum cannot
// underflow.
func (c Chips) Add(o Chips) Chips {
	return c + o
}

// Sub returns c - o, failing with ErrInvalidAmount if the result would be
// negative.
func (c Chips) Sub(o Chips) (Chips, error) {
	if o > c {
		return Zero, fmt.Errorf("%w: %d - %d", ErrInvalidAmount, c, o)
	}
	return c - o, nil
}

// SubOrZero returns c - o, clamping at zero. Unlike Sub, clamping here is
// the contract: callers use it when "take what is there" is the intended
// behaviour, such as short blind posts.
func (c Chips) SubOrZero(o Chips) Chips {
	if o > c {
		return Zero
	}
	return c - o
}

// Mul returns c * factor, failing on a negative factor.
func (c Chips) Mul(factor int64) (Chips, error) {
	if factor < 0 {
		return Zero, fmt.Errorf("%w: factor %d", ErrInvalidAmount, factor)
	}
	return c * Chips(factor), nil
}

// Percentage returns pct percent of c, rounded down. pct must be in [0,100].
func (c Chips) Percentage(pct int64) (Chips, error) {
	if pct < 0 || pct > 100 {
		return Zero, fmt.Errorf("%w: percentage %d", ErrInvalidAmount, pct)
	}
	return c * Chips(pct) / 100, nil
}

// SplitShare returns the floor-division share when c is split n ways.
func (c Chips) SplitShare(n int) Chips {
	if n <= 0 {
		return Zero
	}
	return c / Chips(n)
}

// SplitRemainder returns the chips left over after splitting c n ways. The
// caller must hand the remainder to a single designated recipient so that
// every chip is distributed.
func (c Chips) SplitRemainder(n int) Chips {
	if n <= 0 {
		return c
	}
	return c % Chips(n)
}

// Min returns the smaller of a and b.
func Min(a, b Chips) Chips {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Chips) Chips {
	if a > b {
		return a
	}
	return b
}

// Less reports whether c < o.
func (c Chips) Less(o Chips) bool { return c < o }

// GreaterEq reports whether c >= o.
func (c Chips) GreaterEq(o Chips) bool { return c >= o }

// IsZero reports whether c is the empty amount.
func (c Chips) IsZero() bool { return c == 0 }

// Int64 returns the raw amount.
func (c Chips) Int64() int64 { return int64(c) }

func (c Chips) String() string {
	return fmt.Sprintf("%d", int64(c))
}
