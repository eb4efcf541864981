package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Admin menu button labels. The reply keyboard echoes these back as plain
// message text, so handlers match on them verbatim.
const (
	MenuStats       = "📊 Statistika"
	MenuAddAdmin    = "👤 Admin Qo‘shish"
	MenuRemoveAdmin = "🗑 Admin O‘chirish"
	MenuAdminsList  = "📋 Adminlar Ro‘yxati"
	MenuBack        = "🔙 Admin menyu"
)

// Callback tokens outside the subscription gate.
const (
	CallbackRefreshStats  = "refresh_stats"
	CallbackConfirmRemove = "confirm_remove_admin"
	CallbackCancelRemove  = "cancel_remove_admin"
	CallbackLangPrefix    = "lang:"
)

func AdminMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(MenuStats),
			tgbotapi.NewKeyboardButton(MenuBack),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(MenuAddAdmin),
			tgbotapi.NewKeyboardButton(MenuRemoveAdmin),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(MenuAdminsList),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func LanguageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇺🇿 O‘zbekcha", CallbackLangPrefix+"uz"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", CallbackLangPrefix+"ru"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", CallbackLangPrefix+"en"),
		),
	)
}

func ConfirmRemoveKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Tasdiqlash", CallbackConfirmRemove),
			tgbotapi.NewInlineKeyboardButtonData("❌ Bekor qilish", CallbackCancelRemove),
		),
	)
}

func RefreshStatsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Yangilash", CallbackRefreshStats),
		),
	)
}

func RetryStatsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("♻️ Qayta urinish", CallbackRefreshStats),
		),
	)
}
