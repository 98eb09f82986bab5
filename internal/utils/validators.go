package utils

import (
	"fmt"
	"net/http"
	"net/mail"
	"unicode/utf8"

	"github.com/perplexuser/chatroom/internal/domain"
	"github.com/perplexuser/chatroom/internal/errors"
)

func invalidInput(format string, args ...interface{}) error {
	return &errors.ErrorWithStatusCode{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusBadRequest}
}

// PostValidator checks posted fields against the storage bounds. Inputs are
// expected to be trimmed by the caller. Every error names the field and the
// violated constraint.
type PostValidator struct{}

func (v *PostValidator) Name(name string) error {
	if name == "" {
		return invalidInput("name must not be empty")
	}
	if utf8.RuneCountInString(name) > domain.MaxNameLen {
		return invalidInput("name exceeds the %d character limit", domain.MaxNameLen)
	}
	return nil
}

func (v *PostValidator) Email(email domain.Email) error {
	if email == "" {
		return invalidInput("email must not be empty")
	}
	if utf8.RuneCountInString(email) > domain.MaxEmailLen {
		return invalidInput("email exceeds the %d character limit", domain.MaxEmailLen)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalidInput("email is not a valid address")
	}
	return nil
}

func (v *PostValidator) Text(text domain.MsgText) error {
	if text == "" {
		return invalidInput("text must not be empty")
	}
	if utf8.RuneCountInString(text) > domain.MaxTextLen {
		return invalidInput("text exceeds the %d character limit", domain.MaxTextLen)
	}
	return nil
}
