package subscription

import (
	"fmt"
	"strings"

	"gatekeeper-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback tokens understood by the gate.
const (
	CallbackCheck    = "check_subscription"
	CallbackNoAction = "no_action"
)

// GateKeyboard builds one row per unsatisfied channel plus the check
// button. Channels with a public t.me link get a URL button; private
// channels get a no-op button that explains itself when tapped.
func GateKeyboard(unsatisfied []models.Channel) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for i, ch := range unsatisfied {
		label := fmt.Sprintf("%d. ➕ Obuna bo‘lish", i+1)
		if strings.HasPrefix(ch.InviteLink, "https://t.me/") {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL(label, ch.InviteLink),
			))
		} else {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, CallbackNoAction),
			))
		}
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Azo bo'ldim", CallbackCheck),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
