package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/perplexuser/chatroom/internal/errors"
	"github.com/perplexuser/chatroom/internal/logger"
)

// WriteErrorAndStatusCode maps an error to its HTTP status. Anything that is
// not an ErrorWithStatusCode surfaces as a generic 500 so storage internals
// never leak to clients.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		http.Error(w, e.Message, e.StatusCode)
		return
	}
	logger.Log.Error("internal error", "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// DecodeValidate decodes a JSON body into a fixed structure and runs its
// validate tags. Unknown fields are rejected rather than silently dropped.
func DecodeValidate(r io.Reader, body any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(body); err != nil {
		return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: http.StatusBadRequest}
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		return &errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: http.StatusBadRequest}
	}
	return nil
}

// GetIP extracts the client IP from RemoteAddr. Proxy headers are not
// trusted; the value is diagnostic only.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}

	return ip, nil
}
