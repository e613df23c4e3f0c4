package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnLetter(t *testing.T) {
	cases := map[int]string{0: "A", 1: "B", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA", 701: "ZZ", 702: "AAA", -1: ""}
	for in, want := range cases {
		assert.Equal(t, want, ColumnLetter(in), "index %d", in)
	}
}

func TestSeatLabelRoundTrip(t *testing.T) {
	assert.Equal(t, "A1", SeatLabel(0, 0))
	assert.Equal(t, "B3", SeatLabel(1, 2))
	assert.Equal(t, "AA10", SeatLabel(26, 9))

	for col := 0; col < 60; col += 7 {
		for row := 0; row < 30; row += 4 {
			c, r, ok := ParseSeatLabel(SeatLabel(col, row))
			assert.True(t, ok)
			assert.Equal(t, col, c)
			assert.Equal(t, row, r)
		}
	}
}

func TestParseSeatLabelRejects(t *testing.T) {
	for _, in := range []string{"", "A", "1", "A0", "A-1", "A+1", "1A", "A1B", "É1", "AAAAAAA1", "AAAAAAAAAAAAAAAA1", "A99999999999999999999"} {
		_, _, ok := ParseSeatLabel(in)
		assert.False(t, ok, "label %q", in)
	}
	c, r, ok := ParseSeatLabel("ZZZZZZ1")
	assert.True(t, ok)
	assert.Equal(t, 321272405, c)
	assert.Equal(t, 0, r)

	c, r, ok = ParseSeatLabel(" b12 ")
	assert.True(t, ok)
	assert.Equal(t, 1, c)
	assert.Equal(t, 11, r)
}
