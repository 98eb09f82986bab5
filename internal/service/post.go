package service

import (
	"context"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/perplexuser/chatroom/internal/domain"
	"github.com/perplexuser/chatroom/internal/errors"
	"github.com/perplexuser/chatroom/internal/session"
)

type PostService interface {
	Submit(ctx context.Context, sess *session.Session, token string, req domain.PostRequest) (domain.MsgId, error)
}

type PostStorage interface {
	CreateMessage(ctx context.Context, name string, email domain.Email, text domain.MsgText, clientAddr string) (domain.MsgId, error)
}

type PostValidator interface {
	Name(name string) error
	Email(email domain.Email) error
	Text(text domain.MsgText) error
}

// Post is the pipeline behind the send operation: anti-forgery check, rate
// limit, field validation, then one atomic resolve-and-append in storage.
type Post struct {
	storage   PostStorage
	validator PostValidator
	sanitizer *bluemonday.Policy
	interval  time.Duration
}

func NewPost(storage PostStorage, validator PostValidator, interval time.Duration) PostService {
	return &Post{
		storage:   storage,
		validator: validator,
		sanitizer: bluemonday.StrictPolicy(),
		interval:  interval,
	}
}

func (p *Post) Submit(ctx context.Context, sess *session.Session, token string, req domain.PostRequest) (domain.MsgId, error) {
	if sess == nil || !sess.ValidateToken(token) {
		return 0, &errors.ErrorWithStatusCode{Message: "Invalid or missing anti-forgery token", StatusCode: http.StatusForbidden}
	}

	// Guard ordering matters: the rate window is claimed before validation,
	// and claimed atomically, so two concurrent posts can't both pass.
	if !sess.AllowPost(p.interval) {
		return 0, &errors.ErrorWithStatusCode{Message: "Posting too fast, try again later", StatusCode: http.StatusTooManyRequests}
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	// HTML is stripped before the bounds check so the stored form is what
	// gets validated against the column limit. The sanitizer entity-escapes
	// the text it keeps, so unescape to get plain text back: "&" must be
	// stored as "&", not "&amp;", and must count as one rune.
	text := strings.TrimSpace(html.UnescapeString(p.sanitizer.Sanitize(strings.TrimSpace(req.Text))))

	if err := p.validator.Name(name); err != nil {
		return 0, err
	}
	if err := p.validator.Email(email); err != nil {
		return 0, err
	}
	if err := p.validator.Text(text); err != nil {
		return 0, err
	}

	id, err := p.storage.CreateMessage(ctx, name, email, text, req.ClientAddr)
	if err != nil {
		return 0, err
	}
	return id, nil
}
