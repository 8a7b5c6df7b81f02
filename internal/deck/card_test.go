package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardRoundTrip(t *testing.T) {
	for i := 0; i < NumCards; i++ {
		c := Card(i)
		require.Equal(t, c, NewCard(c.Rank(), c.Suit()), "round trip failed for index %d", i)
	}
}

func TestKnownEncodings(t *testing.T) {
	assert.Equal(t, Card(0), NewCard(Two, Spades))
	assert.Equal(t, Card(51), NewCard(Ace, Clubs))
	assert.Equal(t, Card(48), NewCard(Ace, Spades))
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{input: "As", want: NewCard(Ace, Spades)},
		{input: "2s", want: NewCard(Two, Spades)},
		{input: "Th", want: NewCard(Ten, Hearts)},
		{input: "kd", want: NewCard(King, Diamonds)},
		{input: "9C", want: NewCard(Nine, Clubs)},
		{input: "1s", wantErr: true},
		{input: "Ax", wantErr: true},
		{input: "A", wantErr: true},
		{input: "Ash", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCardStringRoundTrip(t *testing.T) {
	for i := 0; i < NumCards; i++ {
		c := Card(i)
		parsed, err := ParseCard(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestParseBoard(t *testing.T) {
	board, err := ParseBoard("2s3h4d5c8s")
	require.NoError(t, err)
	require.Len(t, board, 5)
	assert.Equal(t, "2s", board[0].String())
	assert.Equal(t, "8s", board[4].String())

	_, err = ParseBoard("2s3")
	assert.Error(t, err, "odd length should fail")

	_, err = ParseBoard("2s2s")
	assert.Error(t, err, "duplicate cards should fail")
}

func TestRemaining(t *testing.T) {
	dead := []Card{0, 1, 2, 3}
	rest := Remaining(dead)
	require.Len(t, rest, 48)
	assert.Equal(t, Card(4), rest[0])
	for i := 1; i < len(rest); i++ {
		assert.Less(t, rest[i-1], rest[i], "remaining cards should ascend")
	}
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, NumCards)
	assert.Equal(t, Card(0), all[0])
	assert.Equal(t, Card(51), all[51])
}
