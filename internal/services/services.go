// Package services holds the business logic between the HTTP handlers and
// the repositories. Services validate input, enforce admin rights, and
// translate storage errors into API errors.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mirzamitdinovs/vocab-master/internal/apperr"
	"github.com/mirzamitdinovs/vocab-master/internal/repository"
)

// requireAdmin re-fetches the acting user and checks the admin flag. The
// flag is read from storage on every call so a revoked admin loses access
// immediately, whatever the client still believes.
func requireAdmin(ctx context.Context, users repository.UserRepository, actorID int64) error {
	actor, err := users.Get(ctx, actorID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Unauthorized("admin access required")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if !actor.IsAdmin {
		return apperr.Unauthorized("admin access required")
	}
	return nil
}
