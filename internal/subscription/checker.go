package subscription

import (
	"fmt"

	"gatekeeper-bot/internal/models"
	"gatekeeper-bot/pkg/logger"

	"go.uber.org/zap"
)

// MemberAPI is the slice of the bot platform the checker needs: the
// member status of a user in a channel ("member", "administrator",
// "creator", "left", "kicked", ...).
type MemberAPI interface {
	ChatMemberStatus(channelID, userID int64) (string, error)
}

// ChannelSource provides the registry of channels the gate requires.
type ChannelSource interface {
	ListChannels() ([]models.Channel, error)
}

type Checker struct {
	api      MemberAPI
	channels ChannelSource
}

func NewChecker(api MemberAPI, channels ChannelSource) *Checker {
	return &Checker{api: api, channels: channels}
}

// Result is the outcome of evaluating a user against the whole registry.
type Result struct {
	Satisfied   bool
	Unsatisfied []models.Channel
}

// IsMember reports whether the user is subscribed to the channel. A
// transport error counts as not subscribed: access is never granted on
// uncertain state, and never silently blocked without a log line.
func (c *Checker) IsMember(userID, channelID int64) bool {
	status, err := c.api.ChatMemberStatus(channelID, userID)
	if err != nil {
		zap.L().Error("Subscription check failed",
			zap.Int64(logger.FieldUserID, userID),
			zap.Int64(logger.FieldChannelID, channelID),
			zap.Error(err))
		return false
	}

	switch status {
	case "member", "administrator", "creator":
		return true
	}
	return false
}

// EvaluateAll checks the user against every registered channel. An empty
// registry means no gating is configured and the result is satisfied.
// Every channel is checked so callers get the full unsatisfied list.
func (c *Checker) EvaluateAll(userID int64) (*Result, error) {
	channels, err := c.channels.ListChannels()
	if err != nil {
		return nil, fmt.Errorf("failed to load channel registry: %w", err)
	}

	if len(channels) == 0 {
		return &Result{Satisfied: true}, nil
	}

	var unsatisfied []models.Channel
	for _, ch := range channels {
		if !c.IsMember(userID, ch.ChannelID) {
			unsatisfied = append(unsatisfied, ch)
		}
	}

	return &Result{
		Satisfied:   len(unsatisfied) == 0,
		Unsatisfied: unsatisfied,
	}, nil
}
