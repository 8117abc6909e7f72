package select_slot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type fakeService struct {
	err   error
	start types.TimeString
}

func (f *fakeService) Select(_ context.Context, _ domain.Actor, id uuid.UUID, start types.TimeString) (*models.SessionView, error) {
	f.start = start
	if f.err != nil {
		return nil, f.err
	}
	return &models.SessionView{
		SessionID: id.String(),
		Selection: &models.SelectionView{StartTime: start.String(), SlotIDs: []int64{1, 2}},
	}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(h *Handler, sessionID, body string, withActor bool) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/sessions/{sessionId}/select", h.Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+sessionID+"/select", strings.NewReader(body))
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{ID: 100, Role: domain.RoleClient}))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Selects(t *testing.T) {
	svc := &fakeService{}
	id := uuid.New()

	rec := serve(NewHandler(svc, nopLogger{}), id.String(), `{"startTime":"10:00"}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.TimeString("10:00"), svc.start)

	var view models.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotNil(t, view.Selection)
	assert.Equal(t, []int64{1, 2}, view.Selection.SlotIDs)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		sessionID  string
		body       string
		withActor  bool
		err        error
		wantStatus int
		wantReason string
	}{
		{name: "no actor", sessionID: uuid.NewString(), body: `{"startTime":"10:00"}`, wantStatus: http.StatusUnauthorized},
		{name: "bad session id", sessionID: "abc", body: `{"startTime":"10:00"}`, withActor: true, wantStatus: http.StatusBadRequest},
		{name: "bad time", sessionID: uuid.NewString(), body: `{"startTime":"ten"}`, withActor: true, wantStatus: http.StatusBadRequest},
		{name: "unknown field", sessionID: uuid.NewString(), body: `{"start":"10:00"}`, withActor: true, wantStatus: http.StatusBadRequest},
		{
			name: "already booked", sessionID: uuid.NewString(), body: `{"startTime":"10:00"}`, withActor: true,
			err: fmt.Errorf("%w: 10:00", sessions.ErrAlreadyBooked), wantStatus: http.StatusConflict, wantReason: "already_booked",
		},
		{
			name: "insufficient capacity", sessionID: uuid.NewString(), body: `{"startTime":"10:00"}`, withActor: true,
			err: sessions.ErrInsufficientCapacity, wantStatus: http.StatusConflict, wantReason: "insufficient_capacity",
		},
		{
			name: "pending", sessionID: uuid.NewString(), body: `{"startTime":"10:00"}`, withActor: true,
			err: sessions.ErrOperationPending, wantStatus: http.StatusConflict, wantReason: "operation_pending",
		},
		{
			name: "foreign session", sessionID: uuid.NewString(), body: `{"startTime":"10:00"}`, withActor: true,
			err: sessions.ErrAccessDenied, wantStatus: http.StatusForbidden,
		},
		{
			name: "expired session", sessionID: uuid.NewString(), body: `{"startTime":"10:00"}`, withActor: true,
			err: sessions.ErrSessionNotFound, wantStatus: http.StatusNotFound,
		},
		{
			name: "internal", sessionID: uuid.NewString(), body: `{"startTime":"10:00"}`, withActor: true,
			err: sessions.ErrInternal, wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeService{err: tt.err}, nopLogger{}), tt.sessionID, tt.body, tt.withActor)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantReason != "" {
				var body handlers.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantReason, body.Reason)
			}
		})
	}
}
