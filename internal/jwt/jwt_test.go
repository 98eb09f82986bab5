package jwt

import (
	"testing"
	"time"
)

var secretKey string = "testSessionKey"

func TestDecodeTokenCorrect(t *testing.T) {
	codec := New(secretKey, 10*time.Second)
	token, err := codec.NewToken("session-123")
	if err != nil {
		t.Fatalf(err.Error())
	}

	sid, err := codec.DecodeToken(token)
	if err != nil {
		t.Fatalf(err.Error())
	}
	if sid != "session-123" {
		t.Errorf("%s != session-123", sid)
	}
}

func TestDecodeTokenExpired(t *testing.T) {
	codec := New(secretKey, -time.Second)
	token, err := codec.NewToken("session-123")
	if err != nil {
		t.Fatalf(err.Error())
	}

	_, err = codec.DecodeToken(token)
	if err == nil {
		t.Errorf("We shouldn't decode expired token")
	}
}

func TestDecodeTokenInvalidSecretKey(t *testing.T) {
	token, err := New(secretKey, 10*time.Second).NewToken("session-123")
	if err != nil {
		t.Fatalf(err.Error())
	}

	_, err = New("invalidSecret", 10*time.Second).DecodeToken(token)
	if err == nil {
		t.Errorf("We shouldn't decode token with invalid secret")
	}
}

func TestDecodeTokenGarbage(t *testing.T) {
	_, err := New(secretKey, 10*time.Second).DecodeToken("not-a-jwt")
	if err == nil {
		t.Errorf("We shouldn't decode a malformed token")
	}
}
