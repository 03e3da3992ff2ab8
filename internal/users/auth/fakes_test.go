// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package auth_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/verdano/marketplace-api/internal/platform/apperr"
	"github.com/verdano/marketplace-api/internal/users/auth"
)

// # In-Memory Fakes
//
// The fakes mirror the behavioral contracts of the Postgres and Redis
// repositories: copy-on-read, flip-don't-delete sessions, Conflict on
// duplicate email. Mutexes keep them safe for parallel subtests.

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*auth.User // keyed by ID

	lastLoginErr error // injected failure for UpdateLastLogin
	findByIDErr  error // injected failure for FindByID
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*auth.User)}
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.findByIDErr != nil {
		return nil, repo.findByIDErr
	}
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

// FindByEmail is case-insensitive, like the LOWER(email) lookup in SQL.
func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return apperr.Conflict("User with this email already exists")
		}
	}
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.users[userID]; ok {
		user.PasswordHash = newHash
	}
	return nil
}

func (repo *fakeUserRepository) UpdateLastLogin(_ context.Context, userID string, loginTime time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.lastLoginErr != nil {
		return repo.lastLoginErr
	}
	if user, ok := repo.users[userID]; ok {
		stamp := loginTime
		user.LastLoginAt = &stamp
	}
	return nil
}

type fakeSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*auth.Session // keyed by ID
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: make(map[string]*auth.Session)}
}

func (repo *fakeSessionRepository) Create(_ context.Context, session *auth.Session) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	// Supersede: the same atomic flip-then-insert the SQL transaction performs
	for _, existing := range repo.sessions {
		if existing.UserID == session.UserID && existing.IsActive {
			existing.IsActive = false
		}
	}
	copied := *session
	repo.sessions[session.ID] = &copied
	return nil
}

func (repo *fakeSessionRepository) FindActiveByToken(_ context.Context, token string) (*auth.Session, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, session := range repo.sessions {
		if session.Token == token && session.IsActive {
			copied := *session
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (repo *fakeSessionRepository) Invalidate(_ context.Context, sessionID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if session, ok := repo.sessions[sessionID]; ok {
		session.IsActive = false
	}
	return nil
}

func (repo *fakeSessionRepository) InvalidateByToken(_ context.Context, token string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, session := range repo.sessions {
		if session.Token == token {
			session.IsActive = false
		}
	}
	return nil
}

func (repo *fakeSessionRepository) InvalidateAllForUser(_ context.Context, userID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, session := range repo.sessions {
		if session.UserID == userID {
			session.IsActive = false
		}
	}
	return nil
}

func (repo *fakeSessionRepository) InvalidateExpired(_ context.Context, now time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, session := range repo.sessions {
		if session.IsActive && session.ExpiresAt.Before(now) {
			session.IsActive = false
		}
	}
	return nil
}

// activeCountFor reports how many active sessions a user currently holds.
func (repo *fakeSessionRepository) activeCountFor(userID string) int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	count := 0
	for _, session := range repo.sessions {
		if session.UserID == userID && session.IsActive {
			count++
		}
	}
	return count
}

// get returns the stored row by ID, or nil.
func (repo *fakeSessionRepository) get(sessionID string) *auth.Session {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if session, ok := repo.sessions[sessionID]; ok {
		copied := *session
		return &copied
	}
	return nil
}

type fakeResetTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]string // token -> userID
}

func newFakeResetTokenRepository() *fakeResetTokenRepository {
	return &fakeResetTokenRepository{tokens: make(map[string]string)}
}

func (repo *fakeResetTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.tokens[token] = userID
	return nil
}

func (repo *fakeResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	userID, ok := repo.tokens[token]
	if !ok {
		return "", apperr.NotFoundMsg("Reset token is invalid or expired")
	}
	return userID, nil
}

func (repo *fakeResetTokenRepository) Delete(_ context.Context, token string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.tokens, token)
	return nil
}

// fakeTokenProvider mints predictable tokens so tests can assert wiring
// without parsing JWTs.
type fakeTokenProvider struct{}

func (fakeTokenProvider) Issue(userID, _, _ string, _ time.Duration) (string, error) {
	return fmt.Sprintf("identity-token-for-%s", userID), nil
}
