// Package nested implements the nested settings/users state and its single
// update entry point.
package nested

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"
)

// Theme values for metadata.settings.theme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Path selects the field an update addresses.
type Path string

const (
	PathTheme    Path = "theme"
	PathLanguage Path = "language"
	PathEmail    Path = "email"
	PathPush     Path = "push"
	PathSMS      Path = "sms"
	PathAddUser  Path = "addUser"
)

var (
	// ErrUnknownPath is returned for a path the updater does not know.
	ErrUnknownPath = errors.New("unknown state path")
	// ErrValueType is returned when the value does not fit the path.
	ErrValueType = errors.New("value type mismatch")
)

// Mode selects the copy strategy of an update.
type Mode int

const (
	// FullClone serialises and re-reads the whole tree before every update.
	FullClone Mode = iota
	// PathCopy copies the root and the addressed branch and shares the rest.
	PathCopy
)

// String returns the config spelling of the mode.
func (m Mode) String() string {
	if m == PathCopy {
		return "path-copy"
	}
	return "full"
}

// ParseMode maps a config value to a Mode. Unknown values select FullClone.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "path-copy") {
		return PathCopy
	}
	return FullClone
}

// Updater applies path updates to a ComplexState.
type Updater struct {
	Mode Mode
	Now  func() time.Time

	clones int
}

// Clones counts full-tree clones performed.
func (u *Updater) Clones() int { return u.clones }

// Update returns a new root with the field at path set to value. prev is never
// modified. On error prev is returned unchanged alongside the error.
func (u *Updater) Update(prev *ComplexState, path Path, value any) (*ComplexState, error) {
	if prev == nil {
		prev = Initial()
	}
	if err := checkValue(path, value); err != nil {
		return prev, err
	}

	var next *ComplexState
	switch u.Mode {
	case PathCopy:
		root := *prev
		next = &root
	default:
		cloned, err := deepClone(prev)
		if err != nil {
			return prev, err
		}
		u.clones++
		next = cloned
	}

	switch path {
	case PathTheme:
		next.Metadata.Settings.Theme = value.(string)
	case PathLanguage:
		next.Metadata.Settings.Language = value.(string)
	case PathEmail:
		next.Metadata.Settings.Notifications.Email = value.(bool)
	case PathPush:
		next.Metadata.Settings.Notifications.Push = value.(bool)
	case PathSMS:
		next.Metadata.Settings.Notifications.SMS = value.(bool)
	case PathAddUser:
		next.Users = next.Users.Append(value.(User))
		stamp := u.stamp(prev.Metadata.LastUpdated)
		next.Metadata.LastUpdated = &stamp
		next.Metadata.Version++
	}
	return next, nil
}

// ToggleTheme flips metadata.settings.theme between light and dark.
func (u *Updater) ToggleTheme(prev *ComplexState) (*ComplexState, error) {
	theme := ThemeDark
	if prev != nil && prev.Metadata.Settings.Theme == ThemeDark {
		theme = ThemeLight
	}
	return u.Update(prev, PathTheme, theme)
}

func (u *Updater) stamp(prev *time.Time) time.Time {
	now := time.Now
	if u.Now != nil {
		now = u.Now
	}
	t := now()
	if prev != nil && !t.After(*prev) {
		t = prev.Add(time.Nanosecond)
	}
	return t
}

// Strings must be valid UTF-8; a full clone rewrites invalid bytes to U+FFFD.
func checkValue(path Path, value any) error {
	var ok bool
	switch path {
	case PathTheme, PathLanguage:
		var s string
		s, ok = value.(string)
		ok = ok && utf8.ValidString(s)
	case PathEmail, PathPush, PathSMS:
		_, ok = value.(bool)
	case PathAddUser:
		var u User
		u, ok = value.(User)
		ok = ok && validUser(u)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPath, path)
	}
	if !ok {
		return fmt.Errorf("%w: path %q got %T", ErrValueType, path, value)
	}
	return nil
}

func validUser(u User) bool {
	if !utf8.ValidString(u.Name) || !utf8.ValidString(u.Email) {
		return false
	}
	for _, p := range u.Posts {
		if !utf8.ValidString(p.Title) || !utf8.ValidString(p.Content) {
			return false
		}
	}
	return true
}

func deepClone(s *ComplexState) (*ComplexState, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("clone state: %w", err)
	}
	var out ComplexState
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("clone state: %w", err)
	}
	return &out, nil
}

// RandomUser builds a user with up to nine posts.
func RandomUser(rng *rand.Rand, now time.Time) User {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(now.UnixNano()), 0))
	}
	base := now.UnixMilli()
	posts := make([]Post, rng.IntN(10))
	for i := range posts {
		posts[i] = Post{
			ID:      base + int64(i),
			Title:   fmt.Sprintf("Post %d", i),
			Content: strings.Repeat(fmt.Sprintf("Content for post %d", i), 10),
		}
	}
	n := rng.IntN(1000)
	return User{
		ID:    base,
		Name:  fmt.Sprintf("User %d", n),
		Email: fmt.Sprintf("user%d@example.com", rng.IntN(1000)),
		Posts: posts,
	}
}
