package login_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/workpulse/internal/app/features/login"
	"github.com/dalemusser/workpulse/internal/app/store/audit"
	"github.com/dalemusser/workpulse/internal/app/system/auditlog"
	"github.com/dalemusser/workpulse/internal/app/system/auth"
	"github.com/dalemusser/workpulse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type env struct {
	handler    *login.Handler
	sessionMgr *auth.SessionManager
	fixtures   *testutil.Fixtures
	audit      *audit.Store
}

func newTestHandler(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	require.NoError(t, err)

	auditStore := audit.New(db)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{Auth: "db", Admin: "db"})

	return env{
		handler:    login.NewHandler(db, sessionMgr, nil, auditLog, logger),
		sessionMgr: sessionMgr,
		fixtures:   testutil.NewFixtures(t, db),
		audit:      auditStore,
	}
}

func postLogin(t *testing.T, h *login.Handler, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := testutil.JSONBody(t, map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.RemoteAddr = "198.51.100.7:5555"
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)
	return rec
}

func TestServeLogin_Success(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := e.fixtures.CreateUser(ctx, "Test Admin", "admin@example.com", "admin", "s3cret-pass")

	rec := postLogin(t, e.handler, "  Admin@Example.com ", "s3cret-pass")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	testutil.DecodeJSON(t, rec, &got)
	assert.Equal(t, u.ID.Hex(), got.ID)
	assert.Equal(t, "admin", got.Role)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "expected a session cookie")

	// The cookie signs the next request in.
	req := httptest.NewRequest(http.MethodGet, "/login/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	e.sessionMgr.LoadSessionUser(http.HandlerFunc(e.handler.ServeMe)).ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), u.ID.Hex())

	n, err := e.audit.CountByFilter(ctx, audit.QueryFilter{EventType: audit.EventLoginSuccess})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestServeLogin_BadCredentials(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e.fixtures.CreateUser(ctx, "Member", "member@example.com", "member", "right-pass")

	rec := postLogin(t, e.handler, "member@example.com", "wrong-pass")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
	assert.Empty(t, rec.Result().Cookies())

	rec = postLogin(t, e.handler, "nobody@example.com", "whatever")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")

	failed, err := e.audit.GetFailedLogins(ctx, time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	assert.Len(t, failed, 2)
}

func TestServeLogin_DisabledUser(t *testing.T) {
	e := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := e.fixtures.CreateUser(ctx, "Gone", "gone@example.com", "member", "pass-word")
	_, err := e.fixtures.DB().Collection("users").UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{"status": "disabled"}})
	require.NoError(t, err)

	rec := postLogin(t, e.handler, "gone@example.com", "pass-word")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServeLogin_Validation(t *testing.T) {
	e := newTestHandler(t)

	rec := postLogin(t, e.handler, "not-an-email", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	testutil.DecodeJSON(t, rec, &body)
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "password")
}

func TestServeLogin_RateLimited(t *testing.T) {
	e := newTestHandler(t)

	// Five attempts per email are allowed inside the window.
	for i := 0; i < 5; i++ {
		rec := postLogin(t, e.handler, "target@example.com", "guess")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := postLogin(t, e.handler, "target@example.com", "guess")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestServeMe_Anonymous(t *testing.T) {
	e := newTestHandler(t)

	rec := httptest.NewRecorder()
	e.handler.ServeMe(rec, httptest.NewRequest(http.MethodGet, "/login/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
