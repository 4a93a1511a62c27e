package chips

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	c, err := New(100)
	require.NoError(t, err)
	assert.Equal(t, Chips(100), c)

	_, err = New(-1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSub(t *testing.T) {
	t.Parallel()

	c, err := Chips(100).Sub(40)
	require.NoError(t, err)
	assert.Equal(t, Chips(60), c)

	_, err = Chips(10).Sub(20)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSubOrZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Chips(60), Chips(100).SubOrZero(40))
	assert.Equal(t, Zero, Chips(10).SubOrZero(20))
}

func TestMulAndPercentage(t *testing.T) {
	t.Parallel()

	c, err := Chips(25).Mul(4)
	require.NoError(t, err)
	assert.Equal(t, Chips(100), c)

	_, err = Chips(25).Mul(-1)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	p, err := Chips(200).Percentage(25)
	require.NoError(t, err)
	assert.Equal(t, Chips(50), p)

	_, err = Chips(200).Percentage(101)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSplit(t *testing.T) {
	t.Parallel()

	// 101 three ways: shares of 33, remainder of 2 goes to one recipient.
	pot := Chips(101)
	assert.Equal(t, Chips(33), pot.SplitShare(3))
	assert.Equal(t, Chips(2), pot.SplitRemainder(3))

	// Every chip accounted for.
	share, err := pot.SplitShare(3).Mul(3)
	require.NoError(t, err)
	assert.Equal(t, pot, share.Add(pot.SplitRemainder(3)))
}

func TestMinMaxComparisons(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Chips(5), Min(5, 10))
	assert.Equal(t, Chips(10), Max(5, 10))
	assert.True(t, Chips(5).Less(10))
	assert.True(t, Chips(10).GreaterEq(10))
	assert.True(t, Zero.IsZero())
	assert.Equal(t, "42", Chips(42).String())
}
