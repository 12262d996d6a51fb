package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDimension(t *testing.T) {
	cases := []struct {
		in   string
		want Dimension
		ok   bool
	}{
		{"1024x1024", Dimension{1024, 1024}, true},
		{"1536x640", Dimension{1536, 640}, true},
		{" 832x1216 ", Dimension{832, 1216}, true},
		{"1024", Dimension{}, false},
		{"x1024", Dimension{}, false},
		{"1024x", Dimension{}, false},
		{"0x1024", Dimension{}, false},
		{"-640x1536", Dimension{}, false},
		{"widthxheight", Dimension{}, false},
		{"", Dimension{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseDimension(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestDimensionRoundTrip(t *testing.T) {
	for _, d := range SDXLDimensions {
		parsed, ok := ParseDimension(d.String())
		require.True(t, ok, d.String())
		assert.Equal(t, d, parsed)
		assert.True(t, parsed.Valid())
	}
}

func TestDimensionValidRejectsUnsupported(t *testing.T) {
	for _, d := range []Dimension{
		{512, 512},
		{1024, 768},
		{896, 1152 + 1},
		{0, 0},
	} {
		assert.False(t, d.Valid(), d.String())
	}
}
