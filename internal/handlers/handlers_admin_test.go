package handlers

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"gatekeeper-bot/internal/bot"
	"gatekeeper-bot/internal/config"
	"gatekeeper-bot/internal/database"
	"gatekeeper-bot/internal/models"
	"gatekeeper-bot/internal/subscription"
	"gatekeeper-bot/internal/texts"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mainAdminID  = int64(100)
	otherAdminID = int64(200)
	candidateID  = int64(300)
)

type sentMessage struct {
	chatID int64
	text   string
	markup interface{}
}

type fakeGateway struct {
	mu      sync.Mutex
	states  map[int64]*models.UserState
	sent    []sentMessage
	edits   []sentMessage
	answers []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{states: make(map[int64]*models.UserState)}
}

func (f *fakeGateway) SendMessage(chatID int64, text string, replyMarkup interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, markup: replyMarkup})
	return nil
}

func (f *fakeGateway) SendHTML(chatID int64, text string) error {
	return f.SendMessage(chatID, text, nil)
}

func (f *fakeGateway) SendHTMLWithMarkup(chatID int64, text string, replyMarkup interface{}) (tgbotapi.Message, error) {
	_ = f.SendMessage(chatID, text, replyMarkup)
	f.mu.Lock()
	defer f.mu.Unlock()
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeGateway) EditMessage(chatID int64, messageID int, text string, replyMarkup *tgbotapi.InlineKeyboardMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, sentMessage{chatID: chatID, text: text, markup: replyMarkup})
	return nil
}

func (f *fakeGateway) DeleteMessage(chatID int64, messageID int) error { return nil }

func (f *fakeGateway) AnswerCallbackQuery(callbackID string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, text)
	return nil
}

func (f *fakeGateway) AnswerCallbackAlert(callbackID string, text string) error {
	return f.AnswerCallbackQuery(callbackID, text)
}

func (f *fakeGateway) SetState(userID int64, state string, data map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[userID] = &models.UserState{UserID: userID, State: state, TempData: data}
}

func (f *fakeGateway) GetState(userID int64) *models.UserState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[userID]
}

func (f *fakeGateway) ClearState(userID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, userID)
}

func (f *fakeGateway) sentTexts(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		if m.chatID == chatID {
			out = append(out, m.text)
		}
	}
	return out
}

type setAdminCall struct {
	id   int64
	flag bool
}

type fakeUserStore struct {
	users    map[int64]*models.User
	setCalls []setAdminCall
	stats    *models.Stats
	statsErr error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[int64]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (f *fakeUserStore) GetUser(id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) SetAdmin(id int64, isAdmin bool) error {
	f.setCalls = append(f.setCalls, setAdminCall{id: id, flag: isAdmin})
	if u, ok := f.users[id]; ok {
		u.IsAdmin = isAdmin
	}
	return nil
}

func (f *fakeUserStore) ListAdmins() ([]models.User, error) {
	var admins []models.User
	for _, u := range f.users {
		if u.IsAdmin {
			admins = append(admins, *u)
		}
	}
	return admins, nil
}

func (f *fakeUserStore) GetStats() (*models.Stats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	if f.stats != nil {
		return f.stats, nil
	}
	return &models.Stats{}, nil
}

func (f *fakeUserStore) GetLang(id int64) (models.Lang, error) {
	return models.DefaultLang, nil
}

type fakeRegistrar struct{ calls int }

func (f *fakeRegistrar) Register(id int64, username string, lang models.Lang, context string) (*models.User, error) {
	f.calls++
	return &models.User{ID: id, Username: username}, nil
}

type stubMembers struct{}

func (stubMembers) ChatMemberStatus(channelID, userID int64) (string, error) {
	return "member", nil
}

type stubChannels struct{}

func (stubChannels) ListChannels() ([]models.Channel, error) { return nil, nil }

type stubMessenger struct{}

func (stubMessenger) EditMessage(chatID int64, messageID int, text string, replyMarkup *tgbotapi.InlineKeyboardMarkup) error {
	return nil
}

type fixture struct {
	handler *Handler
	gateway *fakeGateway
	store   *fakeUserStore
	admins  *config.AdminList
	envPath string
}

func newFixture(t *testing.T, store *fakeUserStore) *fixture {
	t.Helper()

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("ADMINS=100,200\n"), 0o644))
	admins := config.LoadAdminList(envPath, "100,200")

	gateway := newFakeGateway()
	checker := subscription.NewChecker(stubMembers{}, stubChannels{})
	watcher := subscription.NewWatcher(checker, stubMessenger{}, store, time.Minute)

	return &fixture{
		handler: New(gateway, store, admins, checker, watcher, &fakeRegistrar{}),
		gateway: gateway,
		store:   store,
		admins:  admins,
		envPath: envPath,
	}
}

func messageFrom(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID, UserName: "u" + strconv.FormatInt(userID, 10)},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}
}

func callbackFrom(userID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID},
		Data:    data,
		Message: messageFrom(userID, ""),
	}
}

func TestAdminAddRejectsNonMainAdmin(t *testing.T) {
	store := newFakeUserStore(
		&models.User{ID: otherAdminID, Username: "second", IsAdmin: true},
	)
	fx := newFixture(t, store)

	fx.handler.HandleAdminAddStart(messageFrom(otherAdminID, bot.MenuAddAdmin))

	assert.Contains(t, fx.gateway.sentTexts(otherAdminID), texts.OnlyMainAdminAdd)
	assert.Nil(t, fx.gateway.GetState(otherAdminID))
	assert.Empty(t, store.setCalls)
	assert.Equal(t, []int64{100, 200}, fx.admins.IDs())
}

func TestAdminAddUnknownUserKeepsState(t *testing.T) {
	fx := newFixture(t, newFakeUserStore())

	fx.handler.HandleAdminAddStart(messageFrom(mainAdminID, bot.MenuAddAdmin))
	require.NotNil(t, fx.gateway.GetState(mainAdminID))

	fx.handler.HandleMessage(messageFrom(mainAdminID, "999"))

	assert.Contains(t, fx.gateway.sentTexts(mainAdminID), texts.UnknownUser)
	state := fx.gateway.GetState(mainAdminID)
	require.NotNil(t, state)
	assert.Equal(t, StateAwaitingAdminAddID, state.State)
	assert.Empty(t, fx.store.setCalls)
}

func TestAdminAddRejectsDuplicate(t *testing.T) {
	store := newFakeUserStore(
		&models.User{ID: otherAdminID, Username: "second", IsAdmin: true},
	)
	fx := newFixture(t, store)

	fx.handler.HandleAdminAddStart(messageFrom(mainAdminID, bot.MenuAddAdmin))
	fx.handler.HandleMessage(messageFrom(mainAdminID, "200"))

	assert.Contains(t, fx.gateway.sentTexts(mainAdminID), texts.AlreadyAdmin)
	state := fx.gateway.GetState(mainAdminID)
	require.NotNil(t, state)
	assert.Equal(t, StateAwaitingAdminAddID, state.State)
	assert.Empty(t, store.setCalls)
}

func TestAdminAddRejectsNonNumericID(t *testing.T) {
	fx := newFixture(t, newFakeUserStore())

	fx.handler.HandleAdminAddStart(messageFrom(mainAdminID, bot.MenuAddAdmin))
	fx.handler.HandleMessage(messageFrom(mainAdminID, "not-a-number"))

	assert.Contains(t, fx.gateway.sentTexts(mainAdminID), texts.IDMustBeNumeric)
	assert.Empty(t, fx.store.setCalls)
}

func TestAdminAddUpdatesFlagListAndEnvFile(t *testing.T) {
	store := newFakeUserStore(
		&models.User{ID: candidateID, Username: "newbie"},
	)
	fx := newFixture(t, store)

	fx.handler.HandleAdminAddStart(messageFrom(mainAdminID, bot.MenuAddAdmin))
	fx.handler.HandleMessage(messageFrom(mainAdminID, "300"))

	require.Equal(t, []setAdminCall{{id: candidateID, flag: true}}, store.setCalls)
	assert.Equal(t, []int64{100, 200, 300}, fx.admins.IDs())

	content, err := os.ReadFile(fx.envPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "ADMINS=100,200,300")

	assert.Nil(t, fx.gateway.GetState(mainAdminID))
	assert.Contains(t, fx.gateway.sentTexts(mainAdminID), texts.AdminAdded(candidateID))
	assert.Contains(t, fx.gateway.sentTexts(candidateID), texts.YouAreNewAdmin)
}

func TestAdminRemoveRejectsNonMainAdmin(t *testing.T) {
	store := newFakeUserStore(
		&models.User{ID: otherAdminID, Username: "second", IsAdmin: true},
	)
	fx := newFixture(t, store)

	fx.handler.HandleAdminRemoveStart(messageFrom(otherAdminID, bot.MenuRemoveAdmin))

	assert.Contains(t, fx.gateway.sentTexts(otherAdminID), texts.OnlyMainAdminDel)
	assert.Nil(t, fx.gateway.GetState(otherAdminID))
	assert.Empty(t, store.setCalls)
}

func TestAdminRemoveDeniesSelfRemoval(t *testing.T) {
	store := newFakeUserStore(
		&models.User{ID: mainAdminID, Username: "main", IsAdmin: true},
	)
	fx := newFixture(t, store)

	fx.handler.HandleAdminRemoveStart(messageFrom(mainAdminID, bot.MenuRemoveAdmin))
	fx.handler.HandleMessage(messageFrom(mainAdminID, "100"))

	assert.Contains(t, fx.gateway.sentTexts(mainAdminID), texts.SelfRemoveDenied)
	assert.Empty(t, store.setCalls)
	assert.Equal(t, []int64{100, 200}, fx.admins.IDs())
}

func TestAdminRemoveAsksForConfirmation(t *testing.T) {
	store := newFakeUserStore(
		&models.User{ID: otherAdminID, Username: "second", IsAdmin: true},
	)
	fx := newFixture(t, store)

	fx.handler.HandleAdminRemoveStart(messageFrom(mainAdminID, bot.MenuRemoveAdmin))
	fx.handler.HandleMessage(messageFrom(mainAdminID, "200"))

	// Nothing is removed until the inline confirmation.
	assert.Empty(t, store.setCalls)
	assert.Equal(t, []int64{100, 200}, fx.admins.IDs())

	state := fx.gateway.GetState(mainAdminID)
	require.NotNil(t, state)
	assert.Equal(t, otherAdminID, state.TempData[tempKeyRemoveTarget])

	last := fx.gateway.sent[len(fx.gateway.sent)-1]
	assert.Contains(t, last.text, "200")
	require.NotNil(t, last.markup)
}

func TestAdminRemoveConfirmAppliesRemoval(t *testing.T) {
	store := newFakeUserStore(
		&models.User{ID: otherAdminID, Username: "second", IsAdmin: true},
	)
	fx := newFixture(t, store)

	fx.handler.HandleAdminRemoveStart(messageFrom(mainAdminID, bot.MenuRemoveAdmin))
	fx.handler.HandleMessage(messageFrom(mainAdminID, "200"))
	fx.handler.HandleCallbackQuery(callbackFrom(mainAdminID, bot.CallbackConfirmRemove))

	require.Equal(t, []setAdminCall{{id: otherAdminID, flag: false}}, store.setCalls)
	assert.Equal(t, []int64{100}, fx.admins.IDs())

	content, err := os.ReadFile(fx.envPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "ADMINS=100")
	assert.NotContains(t, string(content), "200")

	assert.Nil(t, fx.gateway.GetState(mainAdminID))
	assert.Contains(t, fx.gateway.sentTexts(otherAdminID), texts.YouWereRemoved)
}

func TestAdminRemoveCancelKeepsAdmin(t *testing.T) {
	store := newFakeUserStore(
		&models.User{ID: otherAdminID, Username: "second", IsAdmin: true},
	)
	fx := newFixture(t, store)

	fx.handler.HandleAdminRemoveStart(messageFrom(mainAdminID, bot.MenuRemoveAdmin))
	fx.handler.HandleMessage(messageFrom(mainAdminID, "200"))
	fx.handler.HandleCallbackQuery(callbackFrom(mainAdminID, bot.CallbackCancelRemove))

	assert.Empty(t, store.setCalls)
	assert.Equal(t, []int64{100, 200}, fx.admins.IDs())
	assert.Nil(t, fx.gateway.GetState(mainAdminID))
}

func TestAdminPanelRejectsRegularUser(t *testing.T) {
	fx := newFixture(t, newFakeUserStore())

	fx.handler.HandleAdminPanel(messageFrom(42, "/admin"))

	assert.Contains(t, fx.gateway.sentTexts(42), texts.NotAdmin)
}
