package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gatekeeper-bot/internal/bot"
	"gatekeeper-bot/internal/config"
	"gatekeeper-bot/internal/database"
	"gatekeeper-bot/internal/texts"
	"gatekeeper-bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const tempKeyRemoveTarget = "remove_target_id"

func (h *Handler) HandleAdminPanel(message *tgbotapi.Message) {
	if !h.isAdmin(message.From.ID) {
		_ = h.bot.SendMessage(message.Chat.ID, texts.NotAdmin, nil)
		return
	}
	_ = h.bot.SendMessage(message.Chat.ID, texts.AdminPanelWelcome, bot.AdminMenuKeyboard())
}

func (h *Handler) HandleStats(message *tgbotapi.Message) {
	if !h.isAdmin(message.From.ID) {
		_ = h.bot.SendHTML(message.Chat.ID, "🚫 <b>Siz admin emassiz.</b>")
		return
	}

	stats, err := h.store.GetStats()
	if err != nil {
		zap.L().Error("Failed to fetch stats", zap.Error(err))
		_ = h.bot.SendHTML(message.Chat.ID, texts.StatsFailed)
		return
	}

	markup := bot.RefreshStatsKeyboard()
	_, _ = h.bot.SendHTMLWithMarkup(message.Chat.ID, texts.StatsMessage(stats), markup)
}

var refreshStages = []string{
	"✨ <b>Yangilanmoqda</b> |◦◦◦◦◦|",
	"✨ <b>Yangilanmoqda</b> |●◦◦◦◦|",
	"✨ <b>Yangilanmoqda</b> |●●◦◦◦|",
	"✨ <b>Yangilanmoqda</b> |●●●◦◦|",
	"✨ <b>Yangilanmoqda</b> |●●●●◦|",
}

func (h *Handler) handleRefreshStats(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	for _, stage := range refreshStages {
		_ = h.bot.EditMessage(chatID, messageID, stage, nil)
		time.Sleep(500 * time.Millisecond)
	}

	stats, err := h.store.GetStats()
	if err != nil {
		zap.L().Error("Failed to refresh stats", zap.Error(err))
		markup := bot.RetryStatsKeyboard()
		_ = h.bot.EditMessage(chatID, messageID,
			"❌ <b>Xatolik!</b>\nMa'lumotlarni yangilab bo‘lmadi.\nQayta urinib ko‘ring!", &markup)
		_ = h.bot.AnswerCallbackQuery(callback.ID, "❌ Xatolik yuz berdi!")
		return
	}

	markup := bot.RefreshStatsKeyboard()
	_ = h.bot.EditMessage(chatID, messageID, texts.StatsMessage(stats), &markup)
	_ = h.bot.AnswerCallbackQuery(callback.ID, "✅ Muvaffaqiyatli yangilandi!")
}

// Admin add: main admin only, single id-entry step.
func (h *Handler) HandleAdminAddStart(message *tgbotapi.Message) {
	if !h.admins.IsMain(message.From.ID) {
		_ = h.bot.SendMessage(message.Chat.ID, texts.OnlyMainAdminAdd, nil)
		return
	}
	h.bot.SetState(message.From.ID, StateAwaitingAdminAddID, map[string]interface{}{})
	_ = h.bot.SendMessage(message.Chat.ID, texts.EnterNewAdminID, nil)
}

func (h *Handler) handleAdminAddID(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	targetID, err := strconv.ParseInt(strings.TrimSpace(message.Text), 10, 64)
	if err != nil {
		_ = h.bot.SendMessage(chatID, texts.IDMustBeNumeric, nil)
		return
	}

	target, err := h.store.GetUser(targetID)
	if errors.Is(err, database.ErrNotFound) {
		_ = h.bot.SendMessage(chatID, texts.UnknownUser, nil)
		return
	}
	if err != nil {
		zap.L().Error("Failed to look up admin candidate",
			zap.Int64(logger.FieldUserID, targetID),
			zap.Error(err))
		_ = h.bot.SendMessage(chatID, texts.RegisterFailed, nil)
		return
	}

	if target.IsAdmin || h.admins.Contains(targetID) {
		_ = h.bot.SendMessage(chatID, texts.AlreadyAdmin, nil)
		return
	}

	if err := h.store.SetAdmin(targetID, true); err != nil {
		zap.L().Error("Failed to set admin flag",
			zap.Int64(logger.FieldUserID, targetID),
			zap.Error(err))
		_ = h.bot.SendMessage(chatID, texts.RegisterFailed, nil)
		return
	}

	if err := h.admins.Add(targetID); err != nil {
		// The database flag is already set and stays set; only the env
		// line failed.
		zap.L().Error("Failed to persist admin list",
			zap.Int64(logger.FieldAdminID, targetID),
			zap.Error(err))
		h.bot.ClearState(message.From.ID)
		_ = h.bot.SendMessage(chatID, texts.EnvUpdateFailed, nil)
		return
	}

	zap.L().Info("Admin added",
		zap.Int64(logger.FieldAdminID, targetID),
		zap.Int64("by", message.From.ID))

	_ = h.bot.SendMessage(chatID, texts.AdminAdded(targetID), nil)
	if err := h.bot.SendMessage(targetID, texts.YouAreNewAdmin, nil); err != nil {
		zap.L().Warn("Failed to notify new admin",
			zap.Int64(logger.FieldAdminID, targetID),
			zap.Error(err))
	}

	h.bot.ClearState(message.From.ID)
	_ = h.bot.SendMessage(chatID, texts.BackToMenuPrompt, bot.AdminMenuKeyboard())
}

// Admin remove: main admin only, id entry then mandatory confirm step.
func (h *Handler) HandleAdminRemoveStart(message *tgbotapi.Message) {
	if !h.admins.IsMain(message.From.ID) {
		_ = h.bot.SendMessage(message.Chat.ID, texts.OnlyMainAdminDel, nil)
		return
	}
	h.bot.SetState(message.From.ID, StateAwaitingAdminRemoveID, map[string]interface{}{})
	_ = h.bot.SendMessage(message.Chat.ID, texts.EnterRemoveAdminID, nil)
}

func (h *Handler) handleAdminRemoveID(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	targetID, err := strconv.ParseInt(strings.TrimSpace(message.Text), 10, 64)
	if err != nil {
		_ = h.bot.SendMessage(chatID, texts.IDMustBeNumeric, nil)
		return
	}

	if targetID == message.From.ID {
		_ = h.bot.SendMessage(chatID, texts.SelfRemoveDenied, nil)
		return
	}

	target, err := h.store.GetUser(targetID)
	if errors.Is(err, database.ErrNotFound) {
		_ = h.bot.SendMessage(chatID, texts.UnknownUser, nil)
		return
	}
	if err != nil {
		zap.L().Error("Failed to look up admin for removal",
			zap.Int64(logger.FieldUserID, targetID),
			zap.Error(err))
		_ = h.bot.SendMessage(chatID, texts.RegisterFailed, nil)
		return
	}

	if !target.IsAdmin && !h.admins.Contains(targetID) {
		_ = h.bot.SendMessage(chatID, texts.TargetNotAdmin, nil)
		return
	}

	state := h.bot.GetState(message.From.ID)
	state.TempData[tempKeyRemoveTarget] = targetID
	h.bot.SetState(message.From.ID, StateAwaitingAdminRemoveID, state.TempData)

	markup := bot.ConfirmRemoveKeyboard()
	_, _ = h.bot.SendHTMLWithMarkup(chatID, texts.ConfirmRemoveAdmin(targetID, target.Username), markup)
}

func (h *Handler) handleAdminRemoveConfirm(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	state := h.bot.GetState(callback.From.ID)
	if state == nil || state.State != StateAwaitingAdminRemoveID {
		_ = h.bot.AnswerCallbackQuery(callback.ID, "")
		return
	}
	targetID, ok := state.TempData[tempKeyRemoveTarget].(int64)
	if !ok {
		h.bot.ClearState(callback.From.ID)
		_ = h.bot.AnswerCallbackQuery(callback.ID, "")
		return
	}

	if callback.Data == bot.CallbackConfirmRemove {
		if err := h.store.SetAdmin(targetID, false); err != nil {
			zap.L().Error("Failed to clear admin flag",
				zap.Int64(logger.FieldAdminID, targetID),
				zap.Error(err))
			_ = h.bot.EditMessage(chatID, messageID, texts.RegisterFailed, nil)
			h.bot.ClearState(callback.From.ID)
			_ = h.bot.AnswerCallbackQuery(callback.ID, "")
			return
		}

		if err := h.admins.Remove(targetID); err != nil && !errors.Is(err, config.ErrNotAdmin) {
			zap.L().Error("Failed to persist admin list",
				zap.Int64(logger.FieldAdminID, targetID),
				zap.Error(err))
			_ = h.bot.EditMessage(chatID, messageID, texts.EnvUpdateFailed, nil)
			h.bot.ClearState(callback.From.ID)
			_ = h.bot.AnswerCallbackQuery(callback.ID, "")
			return
		}

		zap.L().Info("Admin removed",
			zap.Int64(logger.FieldAdminID, targetID),
			zap.Int64("by", callback.From.ID))

		_ = h.bot.EditMessage(chatID, messageID, texts.AdminRemoved(targetID), nil)
		if err := h.bot.SendMessage(targetID, texts.YouWereRemoved, nil); err != nil {
			zap.L().Warn("Failed to notify removed admin",
				zap.Int64(logger.FieldAdminID, targetID),
				zap.Error(err))
		}
	} else {
		_ = h.bot.EditMessage(chatID, messageID, texts.ProcessCancelled, nil)
	}

	h.bot.ClearState(callback.From.ID)
	_ = h.bot.SendMessage(chatID, texts.BackToMenuPrompt, bot.AdminMenuKeyboard())
	_ = h.bot.AnswerCallbackQuery(callback.ID, "")
}

func (h *Handler) HandleAdminsList(message *tgbotapi.Message) {
	if !h.isAdmin(message.From.ID) {
		_ = h.bot.SendMessage(message.Chat.ID, texts.NotAdmin, nil)
		return
	}

	admins, err := h.store.ListAdmins()
	if err != nil {
		zap.L().Error("Failed to list admins", zap.Error(err))
		_ = h.bot.SendMessage(message.Chat.ID, texts.AdminsListFailed, nil)
		return
	}

	if len(admins) == 0 {
		_ = h.bot.SendMessage(message.Chat.ID, texts.NoAdminsYet, nil)
		return
	}

	lines := make([]string, 0, len(admins))
	for _, a := range admins {
		username := a.Username
		if username == "" {
			username = "N/A"
		}
		lines = append(lines, fmt.Sprintf("👤 ID: %d, Username: %s", a.ID, username))
	}
	_ = h.bot.SendHTML(message.Chat.ID, "📋 <b>Adminlar ro‘yxati:</b>\n"+strings.Join(lines, "\n"))
}
