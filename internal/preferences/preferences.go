package preferences

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

type Key string

const (
	KeyEditMode   Key = "edit_mode"
	KeyLoggedUser Key = "logged_user"
	KeyAppTheme   Key = "app_theme"
)

// Value is a preference as read at one point in time. Set is false when the key is absent.
type Value struct {
	Data string
	Set  bool
}

// Store is a small key/value store for per-installation settings.
type Store interface {
	Get(ctx context.Context, key Key) (Value, error)
	Set(ctx context.Context, key Key, data string) error
	Delete(ctx context.Context, key Key) error
	// Toggle flips a boolean key atomically and returns the new value. Absent counts as false.
	Toggle(ctx context.Context, key Key) (bool, error)
	// Watch delivers the current value, then the value after every change, until ctx is done.
	Watch(ctx context.Context, key Key) <-chan Value
	Close() error
}

type Theme string

const (
	ThemeGreen  Theme = "GREEN"
	ThemePurple Theme = "PURPLE"
	ThemeOrange Theme = "ORANGE"
	ThemeBlue   Theme = "BLUE"
)

// ParseTheme reports whether s names a known theme.
func ParseTheme(s string) (Theme, bool) {
	switch t := Theme(s); t {
	case ThemeGreen, ThemePurple, ThemeOrange, ThemeBlue:
		return t, true
	}
	return ThemeGreen, false
}

func parseBool(v Value) bool {
	if !v.Set {
		return false
	}
	b, err := strconv.ParseBool(v.Data)
	return err == nil && b
}

func EditMode(ctx context.Context, s Store) (bool, error) {
	v, err := s.Get(ctx, KeyEditMode)
	if err != nil {
		return false, err
	}
	return parseBool(v), nil
}

func ToggleEditMode(ctx context.Context, s Store) (bool, error) {
	return s.Toggle(ctx, KeyEditMode)
}

// WatchEditMode emits the edit flag whenever it changes.
func WatchEditMode(ctx context.Context, s Store) <-chan bool {
	return mapValues(ctx, s.Watch(ctx, KeyEditMode), parseBool)
}

// CurrentTheme falls back to green for unset or unknown values.
func CurrentTheme(ctx context.Context, s Store) (Theme, error) {
	v, err := s.Get(ctx, KeyAppTheme)
	if err != nil {
		return ThemeGreen, err
	}
	t, _ := ParseTheme(v.Data)
	return t, nil
}

func SetTheme(ctx context.Context, s Store, t Theme) error {
	if _, ok := ParseTheme(string(t)); !ok {
		return models.ErrUnknownTheme
	}
	return s.Set(ctx, KeyAppTheme, string(t))
}

func WatchTheme(ctx context.Context, s Store) <-chan Theme {
	return mapValues(ctx, s.Watch(ctx, KeyAppTheme), func(v Value) Theme {
		t, _ := ParseTheme(v.Data)
		return t
	})
}

// LoggedUser returns nil when nobody is logged in.
func LoggedUser(ctx context.Context, s Store) (*models.User, error) {
	v, err := s.Get(ctx, KeyLoggedUser)
	if err != nil || !v.Set {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(v.Data), &user); err != nil {
		return nil, fmt.Errorf("failed to decode logged user: %w", err)
	}
	return &user, nil
}

func SetLoggedUser(ctx context.Context, s Store, user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode logged user: %w", err)
	}
	return s.Set(ctx, KeyLoggedUser, string(data))
}

func RemoveLoggedUser(ctx context.Context, s Store) error {
	return s.Delete(ctx, KeyLoggedUser)
}

// mapValues converts a watch stream and drops consecutive duplicates.
func mapValues[T comparable](ctx context.Context, in <-chan Value, convert func(Value) T) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)

		var last T
		first := true
		for v := range in {
			next := convert(v)
			if !first && next == last {
				continue
			}
			first = false
			last = next

			select {
			case out <- next:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
