package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const adminsKey = "ADMINS"

var (
	ErrAlreadyAdmin = errors.New("already an admin")
	ErrNotAdmin     = errors.New("not an admin")
	ErrNoAdmins     = errors.New("admin list is empty")
)

// AdminList is the in-memory view of the ADMINS= line in the env file.
// The first id is the main admin. Every mutation is write-through: the
// file is rewritten first and the cache updated only if that succeeds.
type AdminList struct {
	mu   sync.Mutex
	path string
	ids  []int64
}

// LoadAdminList parses the ADMINS environment value (comma-separated ids)
// and binds the list to the env file at path for later rewrites.
func LoadAdminList(path, raw string) *AdminList {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			zap.L().Warn("Skipping malformed admin id", zap.String("value", part))
			continue
		}
		ids = append(ids, id)
	}

	return &AdminList{path: path, ids: ids}
}

// Main returns the main admin id (first entry).
func (a *AdminList) Main() (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.ids) == 0 {
		return 0, ErrNoAdmins
	}
	return a.ids[0], nil
}

func (a *AdminList) IsMain(id int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.ids) > 0 && a.ids[0] == id
}

func (a *AdminList) Contains(id int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.indexOf(id) >= 0
}

// IDs returns a copy of the current admin id list in order.
func (a *AdminList) IDs() []int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]int64, len(a.ids))
	copy(out, a.ids)
	return out
}

// Add appends id to the list. The env file is persisted before the
// in-memory list changes; on persist failure the list is untouched.
func (a *AdminList) Add(id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.indexOf(id) >= 0 {
		return ErrAlreadyAdmin
	}

	next := append(append([]int64{}, a.ids...), id)
	if err := writeEnvAdmins(a.path, next); err != nil {
		return fmt.Errorf("failed to persist admin list: %w", err)
	}

	a.ids = next
	return nil
}

// Remove deletes id from the list with the same write-through ordering.
func (a *AdminList) Remove(id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.indexOf(id)
	if idx < 0 {
		return ErrNotAdmin
	}

	next := make([]int64, 0, len(a.ids)-1)
	next = append(next, a.ids[:idx]...)
	next = append(next, a.ids[idx+1:]...)
	if err := writeEnvAdmins(a.path, next); err != nil {
		return fmt.Errorf("failed to persist admin list: %w", err)
	}

	a.ids = next
	return nil
}

func (a *AdminList) indexOf(id int64) int {
	for i, v := range a.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// writeEnvAdmins rewrites the ADMINS= line in place, preserving every
// other line of the file, and appends the line if it is absent.
func writeEnvAdmins(path string, ids []int64) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read env file: %w", err)
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	adminsLine := adminsKey + "=" + strings.Join(parts, ",")

	var lines []string
	if len(content) > 0 {
		lines = strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	}

	found := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), adminsKey+"=") {
			lines[i] = adminsLine
			found = true
		}
	}
	if !found {
		lines = append(lines, adminsLine)
	}

	out := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}

	return nil
}
