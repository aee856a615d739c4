package server

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/choreweek/internal/model"
	"github.com/dukerupert/choreweek/internal/store"
)

// EnsureAdmin creates the first admin account when the users table is
// empty and credentials are configured. It reports whether it created one.
func EnsureAdmin(users *store.UserStore, email, password string, logger *slog.Logger) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	count, err := users.Count()
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	u, err := users.Create(email, string(hash), model.RoleAdmin, nil)
	if err != nil {
		return false, err
	}
	logger.Info("created admin account", "user_id", u.ID, "email", u.Email)
	return true, nil
}
