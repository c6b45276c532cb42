// Package session keeps the access token of the signed-in administrator.
//
// The token lives in memory for fast reads by the HTTP transport and is
// mirrored to the local sqlite database so a restarted client stays signed
// in. Nothing here judges whether a token is still valid: the API decides
// that, and the effect runner clears the session when it answers 401/403.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/adminpanel/internal/client/migrations"
	"github.com/dmitrijs2005/adminpanel/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/adminpanel/internal/common"
	"github.com/dmitrijs2005/adminpanel/internal/dbx"
	"github.com/dmitrijs2005/adminpanel/internal/filex"
)

// subjectKey stores the token's "sub" claim next to it for the prompt.
const subjectKey = "token_subject"

// OpenDatabase opens (creating it and its directory if needed) and migrates
// the session database.
func OpenDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}
	return dbx.Open(ctx, path, migrations.FS)
}

type Store struct {
	db  *sql.DB
	now func() time.Time

	mu      sync.RWMutex
	token   string
	subject string
	savedAt time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Load reads the persisted token into memory. A missing token leaves the
// session signed out.
func (s *Store) Load(ctx context.Context) error {
	r := repo(s.db)

	tok, err := r.Get(ctx, common.TokenStorageKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	sub, err := r.Get(ctx, subjectKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, s.subject, s.savedAt = "", "", time.Time{}
	if tok != nil {
		s.token, s.savedAt = tok.Value, tok.UpdatedAt
	}
	if sub != nil {
		s.subject = sub.Value
	}
	return nil
}

// Token returns the current token or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subject returns the "sub" claim of the current token, if it had one.
func (s *Store) Subject() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subject
}

// SavedAt reports when the current token was persisted.
func (s *Store) SavedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.savedAt
}

// SetToken persists token and then makes it current. An empty token is the
// same as Clear.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}

	subject := ""
	if c, err := Describe(token); err == nil {
		subject = c.Subject
	}
	at := s.now().UTC()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := repo(tx)
		if err := r.Set(ctx, common.TokenStorageKey, token, at); err != nil {
			return err
		}
		if subject == "" {
			return r.Delete(ctx, subjectKey)
		}
		return r.Set(ctx, subjectKey, subject, at)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.token, s.subject, s.savedAt = token, subject, at
	s.mu.Unlock()
	return nil
}

// Clear forgets the token both on disk and in memory. The metadata table
// holds nothing but the session, so every key goes.
func (s *Store) Clear(ctx context.Context) error {
	if err := repo(s.db).Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.mu.Lock()
	s.token, s.subject, s.savedAt = "", "", time.Time{}
	s.mu.Unlock()
	return nil
}
