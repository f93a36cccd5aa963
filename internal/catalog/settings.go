package catalog

import (
	"context"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
	"github.com/DanilaRazvan/TravelPlaner/internal/preferences"
)

func (s *Service) Preferences(ctx context.Context) (models.PreferencesResponse, error) {
	editMode, err := preferences.EditMode(ctx, s.prefs)
	if err != nil {
		return models.PreferencesResponse{}, err
	}
	theme, err := preferences.CurrentTheme(ctx, s.prefs)
	if err != nil {
		return models.PreferencesResponse{}, err
	}
	user, err := preferences.LoggedUser(ctx, s.prefs)
	if err != nil {
		return models.PreferencesResponse{}, err
	}

	if user != nil {
		u := *user
		u.Password = ""
		user = &u
	}

	return models.PreferencesResponse{
		EditModeEnabled: editMode,
		Theme:           string(theme),
		LoggedUser:      user,
	}, nil
}

func (s *Service) ToggleEditMode(ctx context.Context) (bool, error) {
	return preferences.ToggleEditMode(ctx, s.prefs)
}

func (s *Service) SetTheme(ctx context.Context, req models.ThemeRequest) error {
	theme, ok := preferences.ParseTheme(req.Theme)
	if !ok {
		return models.ErrUnknownTheme
	}
	return preferences.SetTheme(ctx, s.prefs, theme)
}

func (s *Service) Logout(ctx context.Context) error {
	return preferences.RemoveLoggedUser(ctx, s.prefs)
}
