// Package texts holds the bot's fixed string table. Only the welcome
// message is localized; the admin panel speaks Uzbek like the rest of
// the service copy.
package texts

import (
	"fmt"

	"gatekeeper-bot/internal/models"
)

const AdminNickname = "@anvarcode"

// Welcome returns the localized post-gate greeting, falling back to Uzbek
// for unknown language codes.
func Welcome(lang models.Lang, fullName string) string {
	switch lang {
	case models.LangRu:
		return fmt.Sprintf(
			"Добро пожаловать, %s! Бот готов к работе.\n\nАдминистратор - %s\nСвяжитесь с %s, чтобы создать бота",
			fullName, AdminNickname, AdminNickname)
	case models.LangEn:
		return fmt.Sprintf(
			"Welcome, %s! The bot is ready to work.\n\nAdmin - %s\nContact %s to Create a Bot",
			fullName, AdminNickname, AdminNickname)
	default:
		return fmt.Sprintf(
			"Xush kelibsiz, %s! Bot ishga tayyor.\n\nAdmin - %s\nBot yaratish uchun %s ga murojaat qiling",
			fullName, AdminNickname, AdminNickname)
	}
}

const (
	SubscribeRequired   = "⚠️ <b>Botdan foydalanish uchun quyidagi kanallarga obuna bo‘ling:</b>"
	StillNotSubscribed  = "⚠️ <b>Siz hali barcha kanallarga obuna bo'lmadingiz!</b>\n\n👇 Quyidagilarga obuna bo'ling:"
	PrivateChannelAlert = "Bu shaxsiy kanal. Iltimos, kanal adminidan tasdiq so‘rang."
	CheckSubscription   = "Obunani tekshiring!"
	PrivateChatOnly     = "Bot faqat shaxsiy chatda ishlaydi!"
	InvalidCommand      = "Noto‘g‘ri buyruq. /start dan foydalaning."
	RegisterFailed      = "⚠️ Ro‘yxatdan o‘tishda xatolik yuz berdi. Qayta urinib ko‘ring."
	ChooseLanguage      = "Choose language 🌐"
	AdminNoSubscription = "👑 Siz adminsiz, obuna shart emas!"

	AdminPanelWelcome  = "Admin paneliga xush kelibsiz! Kerakli bo‘limni tanlang:"
	NotAdmin           = "🚫 Siz admin emassiz."
	OnlyMainAdminAdd   = "🚫 Faqat asosiy admin yangi admin qo‘sha oladi."
	OnlyMainAdminDel   = "🚫 Faqat asosiy admin adminlarni o‘chira oladi."
	EnterNewAdminID    = "👤 Yangi adminning Telegram ID sini kiriting:"
	EnterRemoveAdminID = "🗑 O‘chirmoqchi bo‘lgan adminning Telegram ID sini kiriting:"
	IDMustBeNumeric    = "❌ Iltimos, Telegram ID ni faqat raqam shaklida kiriting."
	UnknownUser        = "❌ Bu Telegram ID bilan foydalanuvchi topilmadi. Foydalanuvchi bot bilan suhbat boshlagan bo‘lishi kerak."
	AlreadyAdmin       = "⚠️ Bu foydalanuvchi allaqachon admin."
	TargetNotAdmin     = "⚠️ Bu foydalanuvchi admin emas."
	SelfRemoveDenied   = "❌ O‘zingizni adminlikdan o‘chira olmaysiz."
	EnvUpdateFailed    = "❌ Konfiguratsiya faylini yangilashda xatolik yuz berdi. Admin ma'lumotlar bazasiga yozildi."
	ProcessCancelled   = "❌ Jarayon bekor qilindi."
	CancelledBackMenu  = "Jarayon bekor qilindi. Siz Admin menyudasiz."
	BackToMenuPrompt   = "Admin menyusiga qaytish uchun tugmani bosing:"
	YouAreNewAdmin     = "🎉 Siz botning admini sifatida qo‘shildingiz!"
	YouWereRemoved     = "❌ Siz bot adminligidan olib tashlandiniz."
	NoAdminsYet        = "📋 Hozirda hech qanday admin yo‘q."
	StatsFailed        = "❌ <b>Statistika olishda xatolik yuz berdi.</b>"
	AdminsListFailed   = "❌ Adminlar ro‘yxatini olishda xatolik yuz berdi."
)

func AdminAdded(id int64) string {
	return fmt.Sprintf("✅ Foydalanuvchi (ID: %d) admin sifatida qo‘shildi.", id)
}

func AdminRemoved(id int64) string {
	return fmt.Sprintf("✅ Foydalanuvchi (ID: %d) adminlikdan o‘chirildi.", id)
}

func ConfirmRemoveAdmin(id int64, username string) string {
	if username == "" {
		username = "N/A"
	}
	return fmt.Sprintf("🗑 Foydalanuvchi (ID: %d, Username: %s) adminlikdan o‘chirilsinmi?", id, username)
}

// JoinNotice formats the message sent to every admin when a user registers.
func JoinNotice(id int64, username, fullName, joinDate, context string) string {
	if fullName == "" {
		fullName = "Noma'lum"
	}
	return fmt.Sprintf(
		"🔔 <b>Yangi foydalanuvchi</b>\n\n"+
			"👤 <b>Username:</b> @%s\n"+
			"📛 <b>Ism:</b> %s\n"+
			"🆗 <b>ID:</b> %d\n"+
			"📅 <b>Ro‘yxatdan o‘tgan vaqt:</b> %s\n"+
			"📍 <b>Kirish usuli:</b> %s\n"+
			"────────────────────\n"+
			"<i>Botdan foydalanish boshlandi!</i>",
		username, fullName, id, joinDate, context)
}

func StatsMessage(s *models.Stats) string {
	return fmt.Sprintf(
		"📊 <b>Statistika</b>\n"+
			"─────────────────\n"+
			"👥 Foydalanuvchilar: <b>%d</b>\n"+
			"─────────────────\n"+
			"🗓 Kunlik: <b>%d</b> | Faol: <b>%d</b>\n"+
			"📅 Haftalik: <b>%d</b> | Faol: <b>%d</b>\n"+
			"📆 Oylik: <b>%d</b> | Faol: <b>%d</b>",
		s.Total, s.Daily, s.ActiveDaily, s.Weekly, s.ActiveWeekly, s.Monthly, s.ActiveMonthly)
}
