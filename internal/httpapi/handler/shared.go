package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/vntrieu/shadowquest/internal/auth"
	"github.com/vntrieu/shadowquest/internal/games"
	"github.com/vntrieu/shadowquest/internal/rules"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

var errMissingToken = errors.New("missing bearer token")

// StatusForKind maps an error kind to its HTTP status.
func StatusForKind(kind rules.Kind) int {
	switch kind {
	case rules.KindValidation:
		return http.StatusBadRequest
	case rules.KindState, games.KindConflict:
		return http.StatusConflict
	case rules.KindEligibility, games.KindForbidden:
		return http.StatusForbidden
	case rules.KindConfiguration:
		return http.StatusUnprocessableEntity
	case games.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Str("request_id", requestID(r)).Err(err).Msg("encode response failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, kind, code, message string) {
	writeJSON(w, r, status, ErrorResponse{Kind: kind, Code: code, Message: message})
}

// writeEngineError maps a games or rules error to its status. Internal errors are logged and masked.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	kind := games.ErrorKind(err)
	message := err.Error()
	if kind == games.KindInternal {
		log.Error().Str("request_id", requestID(r)).Err(err).Msg("request failed")
		message = "internal error"
	}
	writeError(w, r, StatusForKind(kind), string(kind), games.ErrorCode(err), message)
}

func writeInternal(w http.ResponseWriter, r *http.Request, msg string, err error) {
	log.Error().Str("request_id", requestID(r)).Err(err).Msg(msg)
	writeError(w, r, http.StatusInternalServerError, string(games.KindInternal), "internal", msg)
}

// sessionClaims verifies the Authorization bearer token.
func sessionClaims(r *http.Request, secret []byte) (*auth.Claims, error) {
	const prefix = "Bearer "
	v := r.Header.Get("Authorization")
	if !strings.HasPrefix(v, prefix) {
		return nil, errMissingToken
	}
	token := strings.TrimSpace(v[len(prefix):])
	if token == "" {
		return nil, errMissingToken
	}
	return auth.VerifyToken(token, secret)
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, err error) {
	code := "invalid_token"
	switch {
	case errors.Is(err, errMissingToken):
		code = "missing_token"
	case errors.Is(err, auth.ErrTokenExpired):
		code = "token_expired"
	}
	writeError(w, r, http.StatusUnauthorized, "unauthorized", code, err.Error())
}

// requestID returns the request ID from chi's context for logging.
func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
