package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroomlabs/holdem/internal/randutil"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	t.Parallel()

	d := New(randutil.New(1))
	require.Equal(t, 52, d.Remaining())

	seen := make(map[Card]bool)
	for d.Remaining() > 0 {
		c, err := d.Deal()
		require.NoError(t, err)
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()

	a := New(randutil.New(42))
	b := New(randutil.New(42))
	a.Shuffle()
	b.Shuffle()

	ca, err := a.DealN(52)
	require.NoError(t, err)
	cb, err := b.DealN(52)
	require.NoError(t, err)
	assert.Equal(t, ca, cb)

	c := New(randutil.New(43))
	c.Shuffle()
	cc, err := c.DealN(52)
	require.NoError(t, err)
	assert.NotEqual(t, ca, cc)
}

func TestDealAndBurnExhaustion(t *testing.T) {
	t.Parallel()

	d := New(randutil.New(7))
	_, err := d.DealN(52)
	require.NoError(t, err)

	_, err = d.Deal()
	assert.ErrorIs(t, err, ErrEmpty)
	assert.ErrorIs(t, d.Burn(), ErrEmpty)

	d.Reset()
	assert.Equal(t, 52, d.Remaining())
	require.NoError(t, d.Burn())
	assert.Equal(t, 51, d.Remaining())
}

func TestParse(t *testing.T) {
	t.Parallel()

	c, err := Parse("As")
	require.NoError(t, err)
	assert.Equal(t, Card{Suit: Spades, Rank: Ace}, c)
	assert.Equal(t, "A♠", c.String())

	c, err = Parse("td")
	require.NoError(t, err)
	assert.Equal(t, Card{Suit: Diamonds, Rank: Ten}, c)

	_, err = Parse("1s")
	assert.Error(t, err)
	_, err = Parse("Ax")
	assert.Error(t, err)
	_, err = Parse("A")
	assert.Error(t, err)
}
