package nested

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/sluggish/internal/runtime"
)

func fixedClock(start time.Time) func() time.Time {
	return func() time.Time { return start }
}

func TestUpdate_AddUserBumpsVersionAndTimestamp(t *testing.T) {
	for _, mode := range []Mode{FullClone, PathCopy} {
		t.Run(mode.String(), func(t *testing.T) {
			now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
			u := &Updater{Mode: mode, Now: fixedClock(now)}

			prev := Initial()
			first, err := u.Update(prev, PathAddUser, User{ID: 1, Name: "User 1"})
			if err != nil {
				t.Fatalf("Update returned error: %v", err)
			}
			if first == prev {
				t.Fatalf("Update returned the previous root")
			}
			if first.Users.Len() != 1 || first.Metadata.Version != 2 {
				t.Fatalf("users=%d version=%d, want 1 and 2", first.Users.Len(), first.Metadata.Version)
			}
			if first.Metadata.LastUpdated == nil || !first.Metadata.LastUpdated.Equal(now) {
				t.Fatalf("LastUpdated = %v, want %v", first.Metadata.LastUpdated, now)
			}

			// Same wall clock: the stamp must still move forward.
			second, err := u.Update(first, PathAddUser, User{ID: 2, Name: "User 2"})
			if err != nil {
				t.Fatalf("Update returned error: %v", err)
			}
			if second.Users.Len() != 2 || second.Metadata.Version != 3 {
				t.Fatalf("users=%d version=%d, want 2 and 3", second.Users.Len(), second.Metadata.Version)
			}
			if !second.Metadata.LastUpdated.After(*first.Metadata.LastUpdated) {
				t.Fatalf("LastUpdated %v not after %v", second.Metadata.LastUpdated, first.Metadata.LastUpdated)
			}

			// Previous roots are untouched.
			if prev.Users.Len() != 0 || prev.Metadata.Version != 1 || prev.Metadata.LastUpdated != nil {
				t.Fatalf("initial state mutated: %+v", prev.Metadata)
			}
			if first.Users.Len() != 1 || first.Metadata.Version != 2 {
				t.Fatalf("first state mutated: users=%d version=%d", first.Users.Len(), first.Metadata.Version)
			}
		})
	}
}

func TestUpdate_FullCloneCopiesEveryBranch(t *testing.T) {
	u := &Updater{Mode: FullClone}
	prev := Initial()
	prev.Likes["a"] = 1

	next, err := u.Update(prev, PathEmail, false)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if runtime.Same(prev.Likes, next.Likes) {
		t.Fatalf("full clone should not share the likes map")
	}
	if next.Users.Shares(prev.Users) {
		t.Fatalf("full clone should not share the users list")
	}
	if u.Clones() != 1 {
		t.Fatalf("Clones = %d, want 1", u.Clones())
	}
	if next.Metadata.Settings.Notifications.Email || !prev.Metadata.Settings.Notifications.Email {
		t.Fatalf("email flags prev=%v next=%v, want true/false",
			prev.Metadata.Settings.Notifications.Email, next.Metadata.Settings.Notifications.Email)
	}
	if diff := cmp.Diff(prev.Likes, next.Likes); diff != "" {
		t.Fatalf("cloned likes differ (-prev +next):\n%s", diff)
	}
}

func TestUpdate_PathCopySharesUntouchedBranches(t *testing.T) {
	u := &Updater{Mode: PathCopy}
	prev, err := u.Update(Initial(), PathAddUser, User{ID: 1})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	next, err := u.Update(prev, PathTheme, ThemeDark)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !runtime.Same(prev.Likes, next.Likes) {
		t.Fatalf("path copy should share the likes map")
	}
	if !next.Users.Shares(prev.Users) {
		t.Fatalf("path copy should share the users list when only the theme changes")
	}
	if u.Clones() != 0 {
		t.Fatalf("Clones = %d, want 0", u.Clones())
	}
	if prev.Metadata.Settings.Theme != ThemeLight {
		t.Fatalf("previous theme mutated to %q", prev.Metadata.Settings.Theme)
	}
}

func TestUpdate_SettingsPaths(t *testing.T) {
	u := &Updater{}
	s := Initial()
	var err error

	steps := []struct {
		path  Path
		value any
	}{
		{PathLanguage, "en"},
		{PathPush, false},
		{PathSMS, true},
	}
	for _, step := range steps {
		if s, err = u.Update(s, step.path, step.value); err != nil {
			t.Fatalf("Update(%s) returned error: %v", step.path, err)
		}
	}
	want := Settings{Theme: ThemeLight, Language: "en", Notifications: Notifications{Email: true, Push: false, SMS: true}}
	if diff := cmp.Diff(want, s.Metadata.Settings); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
	if s.Metadata.Version != 1 {
		t.Fatalf("settings updates should not bump version; got %d", s.Metadata.Version)
	}
}

func TestUpdate_Errors(t *testing.T) {
	u := &Updater{}
	prev := Initial()

	got, err := u.Update(prev, Path("nope"), 1)
	if !errors.Is(err, ErrUnknownPath) {
		t.Fatalf("err = %v, want ErrUnknownPath", err)
	}
	if got != prev {
		t.Fatalf("failed update should return prev")
	}

	_, err = u.Update(prev, PathEmail, "yes")
	if !errors.Is(err, ErrValueType) {
		t.Fatalf("err = %v, want ErrValueType", err)
	}
	if u.Clones() != 0 {
		t.Fatalf("invalid updates should not clone; Clones = %d", u.Clones())
	}
}

func TestToggleTheme_TwiceRestoresOriginal(t *testing.T) {
	for _, mode := range []Mode{FullClone, PathCopy} {
		u := &Updater{Mode: mode}
		start := Initial()
		once, err := u.ToggleTheme(start)
		if err != nil {
			t.Fatalf("ToggleTheme returned error: %v", err)
		}
		if once.Metadata.Settings.Theme != ThemeDark {
			t.Fatalf("theme after one toggle = %q, want dark", once.Metadata.Settings.Theme)
		}
		twice, err := u.ToggleTheme(once)
		if err != nil {
			t.Fatalf("ToggleTheme returned error: %v", err)
		}
		if twice.Metadata.Settings.Theme != start.Metadata.Settings.Theme {
			t.Fatalf("theme after two toggles = %q, want %q", twice.Metadata.Settings.Theme, start.Metadata.Settings.Theme)
		}
	}
}

func TestUserList_JSONRoundTripKeepsOrder(t *testing.T) {
	list := UserList{}.Append(User{ID: 1, Name: "a"}).Append(User{ID: 2, Name: "b", Posts: []Post{{ID: 9}}})
	s := &ComplexState{Users: list}
	clone, err := deepClone(s)
	if err != nil {
		t.Fatalf("deepClone returned error: %v", err)
	}
	if diff := cmp.Diff(list.Slice(), clone.Users.Slice()); diff != "" {
		t.Fatalf("users mismatch (-want +got):\n%s", diff)
	}
	if _, ok := clone.Users.At(5); ok {
		t.Fatalf("At(5) should be out of range")
	}
}

func TestRandomUser_Shape(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u := RandomUser(rand.New(rand.NewPCG(3, 4)), now)
	if u.ID != now.UnixMilli() {
		t.Fatalf("ID = %d, want %d", u.ID, now.UnixMilli())
	}
	if len(u.Posts) > 9 {
		t.Fatalf("len(Posts) = %d, want <= 9", len(u.Posts))
	}
	if u.Name == "" || u.Email == "" {
		t.Fatalf("user missing name/email: %+v", u)
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode(" Path-Copy ") != PathCopy {
		t.Fatalf("ParseMode(path-copy) should select PathCopy")
	}
	if ParseMode("whatever") != FullClone {
		t.Fatalf("unknown mode should select FullClone")
	}
}

func TestUpdate_RejectsInvalidUTF8(t *testing.T) {
	tests := []struct {
		name  string
		path  Path
		value any
	}{
		{"theme", PathTheme, "\xff"},
		{"language", PathLanguage, "e\xffn"},
		{"user name", PathAddUser, User{ID: 1, Name: "\xfe"}},
		{"post title", PathAddUser, User{ID: 1, Name: "ok", Posts: []Post{{Title: "\xff"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mode := range []Mode{FullClone, PathCopy} {
				u := &Updater{Mode: mode}
				prev := Initial()
				got, err := u.Update(prev, tt.path, tt.value)
				if !errors.Is(err, ErrValueType) {
					t.Fatalf("%s: err = %v, want ErrValueType", mode, err)
				}
				if got != prev {
					t.Fatalf("%s: rejected update should return prev", mode)
				}
			}
		})
	}
}

func TestUpdate_ModesAgreeOnSettings(t *testing.T) {
	full := &Updater{Mode: FullClone}
	shared := &Updater{Mode: PathCopy}
	a, b := Initial(), Initial()
	steps := []struct {
		path  Path
		value any
	}{
		{PathTheme, "sépia"},
		{PathLanguage, "日本語"},
		{PathSMS, true},
	}
	for _, step := range steps {
		var err error
		if a, err = full.Update(a, step.path, step.value); err != nil {
			t.Fatalf("full Update(%s): %v", step.path, err)
		}
		if b, err = shared.Update(b, step.path, step.value); err != nil {
			t.Fatalf("path-copy Update(%s): %v", step.path, err)
		}
	}
	// one more full clone after the last write
	a, _ = full.Update(a, PathPush, a.Metadata.Settings.Notifications.Push)
	if diff := cmp.Diff(b.Metadata.Settings, a.Metadata.Settings); diff != "" {
		t.Fatalf("settings differ between modes (-path-copy +full):\n%s", diff)
	}
}

func TestUserList_AppendIsPersistent(t *testing.T) {
	base := UserList{}.Append(User{ID: 1, Name: "a"})
	left := base.Append(User{ID: 2, Name: "b"})
	right := base.Append(User{ID: 3, Name: "c"})

	if base.Len() != 1 {
		t.Fatalf("base.Len() = %d, want 1", base.Len())
	}
	if left.Len() != 2 || right.Len() != 2 {
		t.Fatalf("branch lengths = %d, %d, want 2, 2", left.Len(), right.Len())
	}
	if u, _ := left.At(1); u.ID != 2 {
		t.Fatalf("left.At(1).ID = %d, want 2", u.ID)
	}
	if u, _ := right.At(1); u.ID != 3 {
		t.Fatalf("right.At(1).ID = %d, want 3", u.ID)
	}
	if left.Shares(right) {
		t.Fatalf("branches should be distinct vectors")
	}
	if !base.Shares(base) {
		t.Fatalf("a list should share its own vector")
	}
}
