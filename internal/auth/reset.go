// Package auth handles the team password reset used at the start of a
// prospecting campaign: every active salesperson gets a temporary
// password derived from their first name, stored as a bcrypt hash.
package auth

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

// PasswordUpdater is the slice of the store the reset needs.
type PasswordUpdater interface {
	ListProfiles(ctx context.Context) ([]model.Profile, error)
	UpdatePassword(ctx context.Context, profileID, passwordHash string) error
}

// ResetResult reports the outcome for one salesperson.
type ResetResult struct {
	ProfileID string `json:"profile_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// ResetPasswords sets a temporary password for every active salesperson.
// Admins and deactivated accounts are skipped. One failure does not
// stop the rest of the team.
func ResetPasswords(ctx context.Context, store PasswordUpdater) ([]ResetResult, error) {
	profiles, err := store.ListProfiles(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "auth: list profiles")
	}

	var results []ResetResult
	for _, p := range profiles {
		if p.Role != model.RoleSalesperson || !p.Active {
			continue
		}

		res := ResetResult{
			ProfileID: p.ID,
			Email:     p.Email,
			FirstName: p.FirstName,
		}

		hash, err := hashTemporaryPassword(p.FirstName)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		if err := store.UpdatePassword(ctx, p.ID, hash); err != nil {
			zap.L().Warn("password reset failed",
				zap.String("profile_id", p.ID),
				zap.Error(err))
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		res.Success = true
		results = append(results, res)
	}
	return results, nil
}

// hashTemporaryPassword bcrypt-hashes the lowercased first name. The
// temporary password is meant to be changed at first login.
func hashTemporaryPassword(firstName string) (string, error) {
	pw := strings.ToLower(strings.TrimSpace(firstName))
	if pw == "" {
		return "", eris.New("auth: profile has no first name")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", eris.Wrap(err, "auth: hash password")
	}
	return string(hash), nil
}
