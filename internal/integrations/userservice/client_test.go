package userservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/internal/users/100", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":100,"name":"Ana","role":"client"}`))
	})
	mux.HandleFunc("/internal/users/7", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":7,"name":"Lucia","role":"employee"}`))
	})
	mux.HandleFunc("/internal/users/5", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":5,"name":"Root","role":"superuser"}`))
	})
	mux.HandleFunc("/internal/users/6", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	mux.HandleFunc("/internal/users/500", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestGetActor(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL+"/", time.Second, nopLogger{})

	actor, err := client.GetActor(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{ID: 100, Role: domain.RoleClient}, *actor)

	actor, err = client.GetActor(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, actor.Role)
}

func TestGetActor_Errors(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL, time.Second, nopLogger{})

	tests := []struct {
		name    string
		userID  int64
		wantErr error
	}{
		{name: "not found", userID: 404, wantErr: ErrUserNotFound},
		{name: "unknown role", userID: 5, wantErr: ErrUnknownRole},
		{name: "broken body", userID: 6, wantErr: ErrInvalidResponse},
		{name: "server error", userID: 500, wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetActor(context.Background(), tt.userID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetUser_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond, nopLogger{})

	_, err := client.GetUser(context.Background(), 100)

	assert.ErrorIs(t, err, ErrInternal)
}
