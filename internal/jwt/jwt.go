package jwt

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	internal_errors "github.com/perplexuser/chatroom/internal/errors"
	"github.com/perplexuser/chatroom/internal/logger"
)

// Codec signs and verifies the session cookie. The cookie carries only the
// opaque session id; everything else about a session lives server-side.
type Codec interface {
	NewToken(sessionId string) (string, error)
	DecodeToken(jwtStr string) (string, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) Codec {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(sessionId string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionId,
		"exp": time.Now().Add(j.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign session token", "error", err)
		return "", errors.New("can't create session token")
	}

	return tokenString, nil
}

// DecodeToken verifies the signature and expiry and returns the session id.
func (j *Jwt) DecodeToken(jwtStr string) (string, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "Unexpected signing method", StatusCode: http.StatusForbidden}
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return "", &internal_errors.ErrorWithStatusCode{Message: "Invalid session token", StatusCode: http.StatusForbidden}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", &internal_errors.ErrorWithStatusCode{Message: "Invalid session token", StatusCode: http.StatusForbidden}
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", &internal_errors.ErrorWithStatusCode{Message: "Invalid session token", StatusCode: http.StatusForbidden}
	}

	return sid, nil
}
