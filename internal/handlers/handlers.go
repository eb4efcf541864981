package handlers

import (
	"strings"

	"gatekeeper-bot/internal/bot"
	"gatekeeper-bot/internal/models"
	"gatekeeper-bot/internal/subscription"
	"gatekeeper-bot/internal/texts"
	"gatekeeper-bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Per-user FSM states for the admin panel flows.
const (
	StateAwaitingAdminAddID    = "awaiting_admin_add_id"
	StateAwaitingAdminRemoveID = "awaiting_admin_remove_id"
)

// Gateway is the bot surface the handlers drive: messaging plus the
// per-user FSM state map. *bot.Bot implements it.
type Gateway interface {
	SendMessage(chatID int64, text string, replyMarkup interface{}) error
	SendHTML(chatID int64, text string) error
	SendHTMLWithMarkup(chatID int64, text string, replyMarkup interface{}) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string, replyMarkup *tgbotapi.InlineKeyboardMarkup) error
	DeleteMessage(chatID int64, messageID int) error
	AnswerCallbackQuery(callbackID string, text string) error
	AnswerCallbackAlert(callbackID string, text string) error

	SetState(userID int64, state string, data map[string]interface{})
	GetState(userID int64) *models.UserState
	ClearState(userID int64)
}

// Store is the slice of the persistence layer the handlers read and write.
type Store interface {
	GetUser(id int64) (*models.User, error)
	SetAdmin(id int64, isAdmin bool) error
	ListAdmins() ([]models.User, error)
	GetStats() (*models.Stats, error)
	GetLang(id int64) (models.Lang, error)
}

// AdminSet is the durable admin list.
type AdminSet interface {
	IsMain(id int64) bool
	Contains(id int64) bool
	Add(id int64) error
	Remove(id int64) error
}

// Registrar runs the registration flow.
type Registrar interface {
	Register(id int64, username string, lang models.Lang, context string) (*models.User, error)
}

type Handler struct {
	bot     Gateway
	store   Store
	admins  AdminSet
	checker *subscription.Checker
	watcher *subscription.Watcher
	reg     Registrar
}

func New(g Gateway, store Store, admins AdminSet, checker *subscription.Checker, watcher *subscription.Watcher, reg Registrar) *Handler {
	return &Handler{
		bot:     g,
		store:   store,
		admins:  admins,
		checker: checker,
		watcher: watcher,
		reg:     reg,
	}
}

// isAdmin accepts either the database flag or presence in the configured
// admin list.
func (h *Handler) isAdmin(userID int64) bool {
	if h.admins.Contains(userID) {
		return true
	}
	user, err := h.store.GetUser(userID)
	if err != nil {
		return false
	}
	return user.IsAdmin
}

func displayName(u *tgbotapi.User) string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	return name
}

func usernameOrName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return displayName(u)
}

func (h *Handler) HandleStart(message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	zap.L().Info("Received /start",
		zap.Int64(logger.FieldUserID, userID),
		zap.String("username", message.From.UserName))

	if h.isAdmin(userID) {
		_ = h.bot.SendHTML(chatID,
			"👑 Admin "+displayName(message.From)+"! Botga xush kelibsiz.\n✍🏻 "+
				texts.Welcome(models.DefaultLang, displayName(message.From)))
		return
	}

	if _, err := h.reg.Register(userID, usernameOrName(message.From), models.DefaultLang, "/start"); err != nil {
		zap.L().Error("Registration failed",
			zap.Int64(logger.FieldUserID, userID),
			zap.Error(err))
		_ = h.bot.SendMessage(chatID, texts.RegisterFailed, nil)
		return
	}

	h.enterGate(userID, chatID, displayName(message.From))
}

// enterGate runs the initial gate check and either greets the user or
// posts the pending-subscription message and starts its poll loop.
func (h *Handler) enterGate(userID, chatID int64, fullName string) {
	res, err := h.checker.EvaluateAll(userID)
	if err != nil {
		zap.L().Error("Gate check failed",
			zap.Int64(logger.FieldUserID, userID),
			zap.Error(err))
		_ = h.bot.SendMessage(chatID, texts.RegisterFailed, nil)
		return
	}

	lang, _ := h.store.GetLang(userID)

	if res.Satisfied {
		_ = h.bot.SendHTML(chatID, "👋 "+texts.Welcome(lang, fullName))
		return
	}

	markup := subscription.GateKeyboard(res.Unsatisfied)
	sent, err := h.bot.SendHTMLWithMarkup(chatID, texts.SubscribeRequired, markup)
	if err != nil {
		zap.L().Error("Failed to send gate message",
			zap.Int64(logger.FieldUserID, userID),
			zap.Error(err))
		return
	}

	h.watcher.Watch(userID, chatID, sent.MessageID, fullName)
}

func (h *Handler) HandleLang(message *tgbotapi.Message) {
	_ = h.bot.SendMessage(message.Chat.ID, texts.ChooseLanguage, bot.LanguageKeyboard())
}

// HandleCancel aborts any in-progress admin flow.
func (h *Handler) HandleCancel(message *tgbotapi.Message) {
	h.bot.ClearState(message.From.ID)
	if h.isAdmin(message.From.ID) {
		_ = h.bot.SendMessage(message.Chat.ID, texts.CancelledBackMenu, bot.AdminMenuKeyboard())
		return
	}
	_ = h.bot.SendMessage(message.Chat.ID, texts.ProcessCancelled, tgbotapi.NewRemoveKeyboard(false))
}

// HandleMessage routes plain text: admin menu buttons first, then any
// pending FSM state input.
func (h *Handler) HandleMessage(message *tgbotapi.Message) {
	switch message.Text {
	case bot.MenuStats:
		h.HandleStats(message)
		return
	case bot.MenuAddAdmin:
		h.HandleAdminAddStart(message)
		return
	case bot.MenuRemoveAdmin:
		h.HandleAdminRemoveStart(message)
		return
	case bot.MenuAdminsList:
		h.HandleAdminsList(message)
		return
	case bot.MenuBack:
		h.HandleCancel(message)
		return
	}

	state := h.bot.GetState(message.From.ID)
	if state == nil {
		return
	}

	switch state.State {
	case StateAwaitingAdminAddID:
		h.handleAdminAddID(message)
	case StateAwaitingAdminRemoveID:
		h.handleAdminRemoveID(message)
	default:
		h.bot.ClearState(message.From.ID)
	}
}

func (h *Handler) HandleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	data := callback.Data

	if strings.HasPrefix(data, bot.CallbackLangPrefix) {
		h.handleLangCallback(callback, strings.TrimPrefix(data, bot.CallbackLangPrefix))
		return
	}

	switch data {
	case subscription.CallbackCheck:
		h.handleCheckSubscription(callback)
	case subscription.CallbackNoAction:
		_ = h.bot.AnswerCallbackAlert(callback.ID, texts.PrivateChannelAlert)
	case bot.CallbackRefreshStats:
		h.handleRefreshStats(callback)
	case bot.CallbackConfirmRemove, bot.CallbackCancelRemove:
		h.handleAdminRemoveConfirm(callback)
	default:
		_ = h.bot.AnswerCallbackQuery(callback.ID, "")
	}
}

func (h *Handler) handleLangCallback(callback *tgbotapi.CallbackQuery, code string) {
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID

	if !models.ValidLang(code) {
		_ = h.bot.AnswerCallbackQuery(callback.ID, "")
		return
	}
	lang := models.Lang(code)

	_ = h.bot.DeleteMessage(chatID, callback.Message.MessageID)

	if _, err := h.reg.Register(userID, usernameOrName(callback.From), lang, "lang_select"); err != nil {
		zap.L().Error("Language selection failed",
			zap.Int64(logger.FieldUserID, userID),
			zap.Error(err))
		_ = h.bot.AnswerCallbackAlert(callback.ID, "Try again!")
		return
	}

	_ = h.bot.AnswerCallbackQuery(callback.ID, "")
	h.enterGate(userID, chatID, displayName(callback.From))
}

// handleCheckSubscription is the user-initiated re-check. It evaluates
// synchronously and edits the tracked message outside the poll cadence;
// on success it also cancels the user's background loop.
func (h *Handler) handleCheckSubscription(callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	if h.isAdmin(userID) {
		_ = h.bot.EditMessage(chatID, messageID, texts.AdminNoSubscription, nil)
		_ = h.bot.AnswerCallbackQuery(callback.ID, "")
		return
	}

	if _, err := h.reg.Register(userID, usernameOrName(callback.From), models.DefaultLang, "check_subscription"); err != nil {
		zap.L().Error("Re-check registration failed",
			zap.Int64(logger.FieldUserID, userID),
			zap.Error(err))
		_ = h.bot.EditMessage(chatID, messageID, texts.RegisterFailed, nil)
		_ = h.bot.AnswerCallbackQuery(callback.ID, "")
		return
	}

	res, err := h.checker.EvaluateAll(userID)
	if err != nil {
		zap.L().Error("Gate check failed",
			zap.Int64(logger.FieldUserID, userID),
			zap.Error(err))
		_ = h.bot.EditMessage(chatID, messageID, texts.RegisterFailed, nil)
		_ = h.bot.AnswerCallbackQuery(callback.ID, "")
		return
	}

	if res.Satisfied {
		lang, _ := h.store.GetLang(userID)
		_ = h.bot.EditMessage(chatID, messageID, "👋 "+texts.Welcome(lang, displayName(callback.From)), nil)
		h.watcher.Stop(userID)
		_ = h.bot.AnswerCallbackQuery(callback.ID, "")
		return
	}

	markup := subscription.GateKeyboard(res.Unsatisfied)
	_ = h.bot.EditMessage(chatID, messageID, texts.StillNotSubscribed, &markup)
	_ = h.bot.AnswerCallbackQuery(callback.ID, texts.CheckSubscription)
}
