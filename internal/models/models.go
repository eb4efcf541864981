package models

import "time"

type Lang string

const (
	LangUz Lang = "uz"
	LangRu Lang = "ru"
	LangEn Lang = "en"

	DefaultLang = LangUz
)

// ValidLang reports whether s is one of the supported language codes.
func ValidLang(s string) bool {
	switch Lang(s) {
	case LangUz, LangRu, LangEn:
		return true
	}
	return false
}

type User struct {
	ID         int64     `db:"id"`
	Username   string    `db:"username"`
	IsAdmin    bool      `db:"is_admin"`
	CreatedAt  time.Time `db:"created_at"`
	LastSeenAt time.Time `db:"last_seen_at"`
}

type Channel struct {
	ChannelID  int64  `db:"channel_id"`
	Title      string `db:"title"`
	InviteLink string `db:"invite_link"`
}

// Stats holds the counters shown on the admin statistics screen.
type Stats struct {
	Total         int
	Daily         int
	Weekly        int
	Monthly       int
	ActiveDaily   int
	ActiveWeekly  int
	ActiveMonthly int
}

type UserState struct {
	UserID      int64
	State       string
	TempData    map[string]interface{}
	LastUpdated time.Time
}
