package handler_test

import (
	"bytes"
	"complaintdesk/backend/internal/api/handler"
	"complaintdesk/backend/internal/auth"
	"complaintdesk/backend/internal/localization"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const validToken = "valid-token"

type testAPI struct {
	router     *gin.Engine
	sessions   *MockSessions
	resets     *MockResets
	complaints *MockComplaints
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, handler.RegisterValidators())

	localizer, err := localization.Default()
	require.NoError(t, err)

	api := &testAPI{
		sessions:   new(MockSessions),
		resets:     new(MockResets),
		complaints: new(MockComplaints),
	}
	h := handler.NewHandler(api.sessions, api.resets, api.complaints, localizer)

	api.router = gin.New()
	h.RegisterRoutes(api.router)

	api.sessions.On("Authenticate", validToken).Return(&auth.Session{UserID: 7, TokenID: "jti-7"}, nil).Maybe()
	api.sessions.On("Authenticate", "revoked-token").Return(nil, auth.ErrUnauthenticated).Maybe()
	return api
}

func (a *testAPI) do(req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()
	var r io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withToken(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// fieldErrors returns the messages reported for field in an error envelope.
func fieldErrors(body map[string]interface{}, field string) []interface{} {
	errs, _ := body["errors"].(map[string]interface{})
	msgs, _ := errs[field].([]interface{})
	return msgs
}
