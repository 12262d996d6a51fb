package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagekingbot/internal/models"
)

func TestDimensionKeyboardLayout(t *testing.T) {
	markup := DimensionKeyboard()
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 3)

	seen := make(map[string]bool)
	for _, row := range markup.InlineKeyboard {
		assert.Len(t, row, 3)
		for _, btn := range row {
			dim, ok := models.ParseDimension(btn.Text)
			require.True(t, ok, btn.Text)
			assert.True(t, dim.Valid(), btn.Text)
			seen[btn.Text] = true
		}
	}
	assert.Len(t, seen, len(models.SDXLDimensions))
}

func TestActionKeyboardLayout(t *testing.T) {
	markup := ActionKeyboard()
	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[0], 2)
	require.Len(t, markup.InlineKeyboard[1], 2)

	labels := []string{}
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			labels = append(labels, btn.Text)
		}
	}
	assert.Equal(t, []string{"edit", "save gallery", "no gallery", "Generate Again"}, labels)
}
