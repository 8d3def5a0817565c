package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// currentActor writes a 401 and returns false when the request carries no actor.
func currentActor(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return user.Actor{}, false
	}
	return actor, true
}

// pathUserID reads {userID}; "me" stands for the caller. A malformed id
// gets a 400 and false.
func pathUserID(w http.ResponseWriter, r *http.Request, actor user.Actor) (string, bool) {
	id := chi.URLParam(r, "userID")
	if id == "me" {
		return actor.UserID, true
	}
	if !validator.IsUUID(id) {
		response.BadRequest(w, "Invalid user id", map[string]string{"userID": "must be a UUID or \"me\""})
		return "", false
	}
	return id, true
}

// pathID reads a ledger record id (event, correction or report) from the path.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid "+name, map[string]string{name: "must be a UUIDv7"})
		return "", false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func rangeFilter(r *http.Request) attendance.RangeFilter {
	return attendance.RangeFilter{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
}

// queryIDs is queryList for record ids; a malformed entry gets a 400 and false.
func queryIDs(w http.ResponseWriter, r *http.Request, key string) ([]string, bool) {
	ids := queryList(r, key)
	for _, id := range ids {
		if !validator.IsValidUUID(id) {
			response.BadRequest(w, "Invalid "+key, map[string]string{key: id + " is not a UUIDv7"})
			return nil, false
		}
	}
	return ids, true
}

// queryList accepts both repeated keys and comma-separated values.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
