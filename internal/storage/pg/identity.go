package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/perplexuser/chatroom/internal/domain"
)

const uniqueViolation = "23505"

// ResolveIdentity is the public entry point for mapping an email to a stable
// identity id, creating or renaming as needed. It wraps the core logic in a
// transaction.
func (s *Storage) ResolveIdentity(ctx context.Context, name string, email domain.Email) (domain.IdentityId, error) {
	var id domain.IdentityId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.resolveIdentity(tx, name, email)
		return err
	})
	return id, err
}

// GetIdentity fetches an identity by email. Read-only, runs on the pool.
func (s *Storage) GetIdentity(email domain.Email) (domain.Identity, error) {
	var ident domain.Identity
	err := s.db.QueryRow(
		"SELECT id, name, email, created FROM identities WHERE email = $1",
		email).Scan(&ident.Id, &ident.Name, &ident.Email, &ident.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Identity{}, sql.ErrNoRows
		}
		return domain.Identity{}, fmt.Errorf("failed to query identity: %w", err)
	}
	return ident, nil
}

// resolveIdentity contains the core email->id mapping. It must run inside a
// transaction: the insert path uses a savepoint so that losing the unique-email
// race does not abort the caller's transaction.
//
// Lookup by email first. A hit with a different stored name updates the name
// (last writer wins). A miss inserts; two concurrent first-posts from the same
// novel email race on the UNIQUE constraint, the loser rolls back to the
// savepoint and retries as a lookup.
func (s *Storage) resolveIdentity(tx *sql.Tx, name string, email domain.Email) (domain.IdentityId, error) {
	id, err := s.lookupIdentity(tx, name, email)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return -1, err
	}

	if _, err := tx.Exec("SAVEPOINT identity_insert"); err != nil {
		return -1, fmt.Errorf("failed to create savepoint: %w", err)
	}

	createdTs := time.Now().UTC().Round(time.Microsecond)
	err = tx.QueryRow(
		"INSERT INTO identities(name, email, created) VALUES($1, $2, $3) RETURNING id",
		name, email, createdTs).Scan(&id)
	if err == nil {
		return id, nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != uniqueViolation {
		return -1, fmt.Errorf("failed to insert identity: %w", err)
	}

	// Lost the race: another transaction created this email first.
	if _, err := tx.Exec("ROLLBACK TO SAVEPOINT identity_insert"); err != nil {
		return -1, fmt.Errorf("failed to roll back to savepoint: %w", err)
	}
	id, err = s.lookupIdentity(tx, name, email)
	if err != nil {
		return -1, fmt.Errorf("identity lookup after unique violation: %w", err)
	}
	return id, nil
}

// lookupIdentity finds the identity for email and applies a pending rename.
// Returns sql.ErrNoRows when the email is unknown.
func (s *Storage) lookupIdentity(q Querier, name string, email domain.Email) (domain.IdentityId, error) {
	var id domain.IdentityId
	var storedName string
	err := q.QueryRow("SELECT id, name FROM identities WHERE email = $1", email).Scan(&id, &storedName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return -1, sql.ErrNoRows
		}
		return -1, fmt.Errorf("failed to query identity: %w", err)
	}

	if storedName != name {
		if _, err := q.Exec("UPDATE identities SET name = $1 WHERE id = $2", name, id); err != nil {
			return -1, fmt.Errorf("failed to update identity name: %w", err)
		}
	}
	return id, nil
}
