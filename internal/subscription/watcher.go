package subscription

import (
	"context"
	"sync"
	"time"

	"gatekeeper-bot/internal/models"
	"gatekeeper-bot/internal/texts"
	"gatekeeper-bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// DefaultPollInterval is the pause between gate re-checks.
const DefaultPollInterval = 5 * time.Second

// Messenger edits the tracked pending-subscription message.
type Messenger interface {
	EditMessage(chatID int64, messageID int, text string, replyMarkup *tgbotapi.InlineKeyboardMarkup) error
}

// LangSource resolves a user's language preference.
type LangSource interface {
	GetLang(id int64) (models.Lang, error)
}

type watch struct {
	cancel context.CancelFunc
}

// Watcher owns the background poll loops for users stuck at the gate.
// At most one loop runs per user: re-entering the gate cancels and
// replaces the existing loop instead of stacking a second one.
type Watcher struct {
	checker   *Checker
	messenger Messenger
	langs     LangSource
	interval  time.Duration

	mu      sync.Mutex
	pending map[int64]*watch
}

func NewWatcher(checker *Checker, messenger Messenger, langs LangSource, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		checker:   checker,
		messenger: messenger,
		langs:     langs,
		interval:  interval,
		pending:   make(map[int64]*watch),
	}
}

// Watch starts a poll loop that keeps the message at (chatID, messageID)
// updated until the user satisfies the gate. Any loop already running for
// the user is cancelled first.
func (w *Watcher) Watch(userID, chatID int64, messageID int, fullName string) {
	ctx, cancel := context.WithCancel(context.Background())
	entry := &watch{cancel: cancel}

	w.mu.Lock()
	if old, ok := w.pending[userID]; ok {
		old.cancel()
	}
	w.pending[userID] = entry
	w.mu.Unlock()

	go w.run(ctx, entry, userID, chatID, messageID, fullName)
}

// Stop cancels the user's poll loop, if any.
func (w *Watcher) Stop(userID int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if entry, ok := w.pending[userID]; ok {
		entry.cancel()
		delete(w.pending, userID)
	}
}

// Pending reports whether a loop is currently registered for the user.
func (w *Watcher) Pending(userID int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.pending[userID]
	return ok
}

func (w *Watcher) run(ctx context.Context, entry *watch, userID, chatID int64, messageID int, fullName string) {
	defer w.release(userID, entry)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		res, err := w.checker.EvaluateAll(userID)
		if err != nil {
			zap.L().Error("Gate re-check failed",
				zap.Int64(logger.FieldUserID, userID),
				zap.Error(err))
			continue
		}

		if res.Satisfied {
			lang, _ := w.langs.GetLang(userID)
			text := "👋 " + texts.Welcome(lang, fullName)
			if err := w.messenger.EditMessage(chatID, messageID, text, nil); err != nil {
				zap.L().Warn("Failed to edit welcome message",
					zap.Int64(logger.FieldUserID, userID),
					zap.Error(err))
			}
			return
		}

		// Still unsatisfied: refresh the keyboard. A failed edit (message
		// deleted, rate limit) is retried implicitly on the next tick.
		markup := GateKeyboard(res.Unsatisfied)
		if err := w.messenger.EditMessage(chatID, messageID, texts.StillNotSubscribed, &markup); err != nil {
			zap.L().Debug("Failed to refresh pending message",
				zap.Int64(logger.FieldUserID, userID),
				zap.Error(err))
		}
	}
}

// release drops the registry entry, but only if it still belongs to this
// loop; a replacement loop may have taken the slot already.
func (w *Watcher) release(userID int64, entry *watch) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending[userID] == entry {
		delete(w.pending, userID)
	}
}
