package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/unilink-app/unilink/backend/internal/friends"
	"github.com/unilink-app/unilink/backend/internal/repositories"
)

func TestFriendshipErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "self request", err: friends.ErrSelfRequest, wantCode: http.StatusBadRequest},
		{name: "already friends", err: friends.ErrAlreadyFriends, wantCode: http.StatusBadRequest},
		{name: "duplicate pending", err: friends.ErrDuplicatePending, wantCode: http.StatusBadRequest},
		{name: "not the receiver", err: friends.ErrNotReceiver, wantCode: http.StatusForbidden},
		{name: "unknown user", err: repositories.ErrUserNotFound, wantCode: http.StatusNotFound},
		{name: "unknown request", err: repositories.ErrRequestNotFound, wantCode: http.StatusNotFound},
		{name: "unexpected failure", err: errors.New("db down"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := friendshipError(c, tt.err); err != nil {
				t.Fatalf("friendshipError() returned %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("malformed body %q: %v", rec.Body.String(), err)
			}
			if body["error"] == "" {
				t.Errorf(`body = %q, want an "error" field`, rec.Body.String())
			}
		})
	}
}
