package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/perplexuser/chatroom/internal/domain"
)

// CreateMessage records one post: identity resolution and message insertion
// run in a single transaction, so a failure on either side leaves nothing
// behind. Returns the assigned message id, which is the sync watermark.
func (s *Storage) CreateMessage(ctx context.Context, name string, email domain.Email, text domain.MsgText, clientAddr string) (domain.MsgId, error) {
	var id domain.MsgId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		identityId, err := s.resolveIdentity(tx, name, email)
		if err != nil {
			return err
		}
		id, err = s.appendMessage(tx, identityId, text, clientAddr)
		return err
	})
	return id, err
}

func (s *Storage) appendMessage(q Querier, identityId domain.IdentityId, text domain.MsgText, clientAddr string) (domain.MsgId, error) {
	var id domain.MsgId
	createdTs := time.Now().UTC().Round(time.Microsecond) // database rounds to microsecond anyway
	err := q.QueryRow(`
	INSERT INTO messages(identity_id, text, client_addr, created)
	VALUES($1, $2, $3, $4)
	RETURNING id`,
		identityId, text, clientAddr, createdTs).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert message: %w", err)
	}
	return id, nil
}

// MessagesAfter returns messages with id > watermark, ascending, at most
// limit rows. The author name is joined from identities at read time, so a
// rename is reflected in already-posted history. Nothing new is an empty
// slice, not an error.
func (s *Storage) MessagesAfter(watermark domain.MsgId, limit int) ([]domain.Message, error) {
	rows, err := s.db.Query(`
	SELECT m.id, i.name, m.text, m.created
	FROM messages m
	JOIN identities i ON i.id = m.identity_id
	WHERE m.id > $1
	ORDER BY m.id ASC
	LIMIT $2`, watermark, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages after %d: %w", watermark, err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// LatestMessages returns the most recent limit messages in ascending id
// order. "Most recent N" and "ascending" are opposite sort directions, hence
// the descending inner window reordered by the outer select.
func (s *Storage) LatestMessages(limit int) ([]domain.Message, error) {
	rows, err := s.db.Query(`
	SELECT id, name, text, created FROM (
		SELECT m.id, i.name, m.text, m.created
		FROM messages m
		JOIN identities i ON i.id = m.identity_id
		ORDER BY m.id DESC
		LIMIT $1
	) latest
	ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]domain.Message, error) {
	messages := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.Id, &msg.Name, &msg.Text, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return messages, nil
}
