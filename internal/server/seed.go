package server

import (
	"context"
	"errors"
	"log/slog"
)

// SeedAdmin creates a staff author when credentials are configured and no
// staff author exists yet. It does nothing otherwise.
func SeedAdmin(ctx context.Context, logger *slog.Logger, store Store, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	exists, err := store.HasStaff(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if _, err := store.CreateAuthor(ctx, username, hash, true); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			logger.Warn("admin username belongs to a non-staff author", "username", username)
			return nil
		}
		return err
	}

	logger.Info("staff author created", "username", username)
	return nil
}
