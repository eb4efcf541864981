package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageKeyboardTokens(t *testing.T) {
	markup := LanguageKeyboard()

	require.Len(t, markup.InlineKeyboard, 3)
	want := []string{"lang:uz", "lang:ru", "lang:en"}
	for i, row := range markup.InlineKeyboard {
		require.Len(t, row, 1)
		require.NotNil(t, row[0].CallbackData)
		assert.Equal(t, want[i], *row[0].CallbackData)
	}
}

func TestAdminMenuKeyboardLabels(t *testing.T) {
	keyboard := AdminMenuKeyboard()

	assert.True(t, keyboard.ResizeKeyboard)

	var labels []string
	for _, row := range keyboard.Keyboard {
		for _, button := range row {
			labels = append(labels, button.Text)
		}
	}
	assert.ElementsMatch(t, labels,
		[]string{MenuStats, MenuBack, MenuAddAdmin, MenuRemoveAdmin, MenuAdminsList})
}

func TestConfirmRemoveKeyboard(t *testing.T) {
	markup := ConfirmRemoveKeyboard()

	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, CallbackConfirmRemove, *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, CallbackCancelRemove, *markup.InlineKeyboard[0][1].CallbackData)
}
