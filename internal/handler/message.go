package handler

import (
	"net/http"
	"strconv"

	"github.com/perplexuser/chatroom/internal/domain"
	"github.com/perplexuser/chatroom/internal/errors"
	"github.com/perplexuser/chatroom/internal/middleware"
	"github.com/perplexuser/chatroom/internal/utils"
)

// Send accepts one post: anti-forgery token, display identity and text.
// The session itself comes from the cookie middleware; the token in the body
// must match the one bound to that session.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	type bodyJson struct {
		CsrfToken string `json:"csrf_token"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		Text      string `json:"text"`
	}
	var body bodyJson
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	// Origin address is diagnostic only, so a parse failure is not fatal.
	clientAddr, err := utils.GetIP(r)
	if err != nil {
		clientAddr = ""
	}

	sess := middleware.GetSessionFromContext(r)
	id, err := h.post.Submit(r.Context(), sess, body.CsrfToken, domain.PostRequest{
		Name:       body.Name,
		Email:      body.Email,
		Text:       body.Text,
		ClientAddr: clientAddr,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// Fetch returns messages strictly after the client's watermark, or the most
// recent window when no watermark is supplied. Polling with no new messages
// is a success with an empty list.
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	watermark, err := queryInt64(r, "after", 0)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	msgs, err := h.sync.Fetch(watermark, limit)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]domain.Message{"messages": msgs})
}

// queryInt64 parses an optional integer query parameter. Malformed values are
// InvalidInput naming the parameter, not silently coerced.
func queryInt64(r *http.Request, param string, fallback int64) (int64, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &errors.ErrorWithStatusCode{Message: param + " must be an integer", StatusCode: http.StatusBadRequest}
	}
	return val, nil
}

func queryInt(r *http.Request, param string, fallback int) (int, error) {
	val, err := queryInt64(r, param, int64(fallback))
	return int(val), err
}
