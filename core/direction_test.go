package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirection_VectorAndReverse(t *testing.T) {
	start := Point{X: 3, Y: 3}
	for _, d := range Cardinals {
		moved := start.Add(d)
		assert.Equal(t, 1, moved.Manhattan(start), "direction %s", d)
		assert.Equal(t, start, moved.Add(d.Reverse()), "reverse of %s", d)
	}
	assert.Equal(t, start, start.Add(Stop))
	assert.Equal(t, Point{X: 3, Y: 2}, start.Add(North))
}

func TestDirection_Validity(t *testing.T) {
	assert.True(t, Stop.Valid())
	assert.False(t, Stop.IsCardinal())
	assert.False(t, Direction(9).Valid())
	assert.False(t, Direction(-1).Valid())
	assert.Equal(t, Point{}, Direction(9).Vector())
}

func TestParseDirection(t *testing.T) {
	cases := map[string]Direction{
		"N": North, "south": South, "East": East, "w": West, "STOP": Stop,
	}
	for in, want := range cases {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDirection("up")
	assert.Error(t, err)
}

func TestFormatPath(t *testing.T) {
	assert.Equal(t, "NSEWX", FormatPath([]Direction{North, South, East, West, Stop}))
	assert.Equal(t, "", FormatPath(nil))
}
