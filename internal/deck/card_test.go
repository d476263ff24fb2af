package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{name: "all kinds", input: "KQA*", expected: []Card{King, Queen, Ace, Joker}},
		{name: "joker as J", input: "jJ", expected: []Card{Joker, Joker}},
		{name: "case insensitive", input: "kqa", expected: []Card{King, Queen, Ace}},
		{name: "empty string", input: "", expected: []Card{}},
		{name: "invalid card", input: "KX", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	assert.Equal(t, []Card{Ace, Ace}, MustParseCards("AA"))
	assert.Panics(t, func() { MustParseCards("invalid") })
}

func TestCardSatisfies(t *testing.T) {
	assert.True(t, King.Satisfies(King))
	assert.True(t, Joker.Satisfies(King))
	assert.True(t, Joker.Satisfies(Ace))
	assert.False(t, Queen.Satisfies(King))
	assert.False(t, Ace.Satisfies(Queen))
}

func TestRankFromIndex(t *testing.T) {
	for i := 0; i < NumRanks; i++ {
		c, err := RankFromIndex(i)
		require.NoError(t, err)
		assert.Equal(t, Card(i), c)
	}
	_, err := RankFromIndex(NumRanks)
	assert.Error(t, err)
	_, err = RankFromIndex(-1)
	assert.Error(t, err)
}

func TestFormatCardsRoundTrip(t *testing.T) {
	cards := MustParseCards("KKQ*A")
	assert.Equal(t, "KKQ*A", FormatCards(cards))
	assert.Equal(t, "Joker", Joker.String())
	assert.Equal(t, "King", King.String())
}

func TestCardTextRoundTrip(t *testing.T) {
	for kind := King; kind <= Joker; kind++ {
		text, err := kind.MarshalText()
		require.NoError(t, err)

		var got Card
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, kind, got)
	}

	var c Card
	assert.NoError(t, c.UnmarshalText([]byte("*")))
	assert.Equal(t, Joker, c)
	assert.Error(t, c.UnmarshalText([]byte("Jack")))

	_, err := Card(9).MarshalText()
	assert.Error(t, err)
}
