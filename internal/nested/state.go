package nested

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xiaq/persistent/vector"
)

// Post is a user's post.
type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// User is an entry of ComplexState.Users.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Posts []Post `json:"posts"`
}

// Notifications are the notification flags under metadata.settings.
type Notifications struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

// Settings is metadata.settings.
type Settings struct {
	Theme         string        `json:"theme"`
	Language      string        `json:"language"`
	Notifications Notifications `json:"notifications"`
}

// Metadata is the metadata branch of ComplexState.
type Metadata struct {
	LastUpdated *time.Time `json:"lastUpdated"`
	Version     int        `json:"version"`
	Settings    Settings   `json:"settings"`
}

// ComplexState is the nested state tree. Updates never modify a tree in place;
// they return a new root.
type ComplexState struct {
	Users    UserList       `json:"users"`
	Posts    []Post         `json:"posts"`
	Comments []string       `json:"comments"`
	Likes    map[string]int `json:"likes"`
	Shares   map[string]int `json:"shares"`
	Metadata Metadata       `json:"metadata"`
}

// Initial returns the starting state.
func Initial() *ComplexState {
	return &ComplexState{
		Posts:    []Post{},
		Comments: []string{},
		Likes:    map[string]int{},
		Shares:   map[string]int{},
		Metadata: Metadata{
			Version: 1,
			Settings: Settings{
				Theme:    ThemeLight,
				Language: "zh",
				Notifications: Notifications{
					Email: true,
					Push:  true,
					SMS:   false,
				},
			},
		},
	}
}

// UserList is an immutable sequence of users backed by a persistent vector.
// Appending shares structure with the original list. The zero value is empty.
type UserList struct {
	v vector.Vector
}

// Len returns the number of users.
func (l UserList) Len() int {
	if l.v == nil {
		return 0
	}
	return l.v.Len()
}

// At returns the i-th user.
func (l UserList) At(i int) (User, bool) {
	if l.v == nil {
		return User{}, false
	}
	val, ok := l.v.Index(i)
	if !ok {
		return User{}, false
	}
	u, ok := val.(User)
	return u, ok
}

// Append returns a list with u added at the end.
func (l UserList) Append(u User) UserList {
	base := l.v
	if base == nil {
		base = vector.Empty
	}
	return UserList{v: base.Cons(u)}
}

// Slice copies the users into a plain slice.
func (l UserList) Slice() []User {
	out := make([]User, 0, l.Len())
	if l.v == nil {
		return out
	}
	for it := l.v.Iterator(); it.HasElem(); it.Next() {
		if u, ok := it.Elem().(User); ok {
			out = append(out, u)
		}
	}
	return out
}

// Shares reports whether both lists are the same vector.
func (l UserList) Shares(other UserList) bool {
	return l.v != nil && l.v == other.v
}

// MarshalJSON encodes the list as a JSON array.
func (l UserList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Slice())
}

// UnmarshalJSON decodes a JSON array into a fresh vector.
func (l *UserList) UnmarshalJSON(data []byte) error {
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("decode users: %w", err)
	}
	list := UserList{}
	for _, u := range users {
		list = list.Append(u)
	}
	*l = list
	return nil
}
