// Package registration persists first-contact users and announces them
// to the admins.
package registration

import (
	"fmt"
	"time"

	"gatekeeper-bot/internal/models"
	"gatekeeper-bot/internal/texts"
	"gatekeeper-bot/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const notifyConcurrency = 4

// Store is the slice of the persistence layer registration writes to.
// UpsertUser's second return value reports whether the row was newly
// created.
type Store interface {
	UpsertUser(id int64, username string) (*models.User, bool, error)
	UpsertLang(id int64, lang models.Lang) error
}

// Notifier delivers a message to a chat.
type Notifier interface {
	SendHTML(chatID int64, text string) error
}

// ProfileAPI resolves a user's display name from the platform.
type ProfileAPI interface {
	FullName(userID int64) (string, error)
}

// AdminSource lists the current admin ids.
type AdminSource interface {
	IDs() []int64
}

type Service struct {
	store    Store
	notifier Notifier
	profiles ProfileAPI
	admins   AdminSource
	now      func() time.Time
}

func NewService(store Store, notifier Notifier, profiles ProfileAPI, admins AdminSource) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		profiles: profiles,
		admins:   admins,
		now:      time.Now,
	}
}

// Register upserts the user row and the language preference, then fans a
// join notice out to every admin when the user is new. The two writes are
// sequential with no rollback; a storage failure propagates to the caller.
// Notification failures never do: each recipient is isolated and only
// logged. Returning users only refresh their row and language, with no
// notice.
func (s *Service) Register(id int64, username string, lang models.Lang, context string) (*models.User, error) {
	user, created, err := s.store.UpsertUser(id, username)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.store.UpsertLang(id, lang); err != nil {
		return nil, fmt.Errorf("failed to store language: %w", err)
	}

	zap.L().Info("User registered",
		zap.Int64(logger.FieldUserID, id),
		zap.String("username", username),
		zap.String("lang", string(lang)),
		zap.Bool("new", created),
		zap.String(logger.FieldContext, context))

	if created {
		s.notifyAdmins(id, username, context)
	}

	return user, nil
}

func (s *Service) notifyAdmins(id int64, username, context string) {
	admins := s.admins.IDs()
	if len(admins) == 0 {
		return
	}

	fullName, err := s.profiles.FullName(id)
	if err != nil {
		zap.L().Warn("Failed to fetch user profile for join notice",
			zap.Int64(logger.FieldUserID, id),
			zap.Error(err))
	}

	joinDate := s.now().Format("2006-01-02 15:04:05")
	notice := texts.JoinNotice(id, username, fullName, joinDate, context)

	var g errgroup.Group
	g.SetLimit(notifyConcurrency)
	for _, adminID := range admins {
		adminID := adminID
		g.Go(func() error {
			if err := s.notifier.SendHTML(adminID, notice); err != nil {
				zap.L().Error("Failed to notify admin about new user",
					zap.Int64(logger.FieldAdminID, adminID),
					zap.Int64(logger.FieldUserID, id),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
