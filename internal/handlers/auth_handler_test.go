package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozgurcank/auth-backend/internal/testutil"
	"github.com/ozgurcank/auth-backend/internal/token"
)

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func registerPayload() map[string]string {
	return map[string]string{
		"username":        "alice",
		"email":           "alice@x.com",
		"password":        "Password1!",
		"confirmPassword": "Password1!",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		payload    map[string]string
		setup      func(*testing.T, *testutil.App)
		wantStatus int
	}{
		{
			name:       "created",
			payload:    registerPayload(),
			wantStatus: http.StatusCreated,
		},
		{
			name: "missing fields",
			payload: map[string]string{
				"username": "alice",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "whitespace-only username",
			payload: map[string]string{
				"username":        "   ",
				"email":           "alice@x.com",
				"password":        "Password1!",
				"confirmPassword": "Password1!",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "password mismatch",
			payload: map[string]string{
				"username":        "alice",
				"email":           "alice@x.com",
				"password":        "Password1!",
				"confirmPassword": "Other1!pw",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "weak password",
			payload: map[string]string{
				"username":        "alice",
				"email":           "alice@x.com",
				"password":        "password",
				"confirmPassword": "password",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:    "duplicate email",
			payload: registerPayload(),
			setup: func(t *testing.T, app *testutil.App) {
				resp, err := app.Fiber.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
					"username":        "someone",
					"email":           "alice@x.com",
					"password":        "Password1!",
					"confirmPassword": "Password1!",
				}))
				require.NoError(t, err)
				require.Equal(t, http.StatusCreated, resp.StatusCode)
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testutil.NewApp()
			if tt.setup != nil {
				tt.setup(t, app)
			}

			resp, err := app.Fiber.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/register", tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeBody(t, resp)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, true, body["success"])
				user := body["data"].(map[string]interface{})["user"].(map[string]interface{})
				assert.Equal(t, "alice", user["username"])
				assert.NotContains(t, user, "password")
				assert.NotContains(t, user, "passwordHash")
				assert.NotContains(t, user, "password_hash")
				assert.NotNil(t, cookieByName(resp, token.SessionCookieName))
				assert.NotNil(t, cookieByName(resp, token.RefreshCookieName))
			} else {
				assert.Equal(t, false, body["success"])
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestLoginEnumerationCollapse(t *testing.T) {
	app := testutil.NewApp()

	resp, err := app.Fiber.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/register", registerPayload()))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	wrongPassword, err := app.Fiber.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "alice@x.com", "password": "Wrong1!pw",
	}))
	require.NoError(t, err)

	unknownEmail, err := app.Fiber.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "Password1!",
	}))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)

	bodyA, err := io.ReadAll(wrongPassword.Body)
	require.NoError(t, err)
	bodyB, err := io.ReadAll(unknownEmail.Body)
	require.NoError(t, err)
	assert.Equal(t, string(bodyA), string(bodyB))
}

func TestGoogleSignInStub(t *testing.T) {
	app := testutil.NewApp()

	resp, err := app.Fiber.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/google", map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestRefreshEndpointRotates(t *testing.T) {
	app := testutil.NewApp()

	registered, err := app.Fiber.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/register", registerPayload()))
	require.NoError(t, err)
	refreshCookie := cookieByName(registered, token.RefreshCookieName)
	require.NotNil(t, refreshCookie)

	req := jsonRequest(t, http.MethodPost, "/api/v1/auth/refresh-token", nil)
	req.AddCookie(refreshCookie)
	resp, err := app.Fiber.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	rotated := cookieByName(resp, token.RefreshCookieName)
	require.NotNil(t, rotated)
	assert.NotEqual(t, refreshCookie.Value, rotated.Value)

	// Replaying the spent token fails.
	req = jsonRequest(t, http.MethodPost, "/api/v1/auth/refresh-token", nil)
	req.AddCookie(refreshCookie)
	resp, err = app.Fiber.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestSessionLifecycle drives the whole flow: register, read the
// session back, log out, and observe that the stateless access token
// stays valid until expiry while the refresh token is revoked.
func TestSessionLifecycle(t *testing.T) {
	app := testutil.NewApp()

	// Register alice.
	registered, err := app.Fiber.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/register", registerPayload()))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, registered.StatusCode)

	body := decodeBody(t, registered)
	user := body["data"].(map[string]interface{})["user"].(map[string]interface{})
	userID := user["id"].(string)

	sessionCookie := cookieByName(registered, token.SessionCookieName)
	refreshCookie := cookieByName(registered, token.RefreshCookieName)
	require.NotNil(t, sessionCookie)
	require.NotNil(t, refreshCookie)
	assert.True(t, sessionCookie.HttpOnly)

	// GET /auth/me with the session cookie returns the same user.
	meReq := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	meReq.AddCookie(sessionCookie)
	meResp, err := app.Fiber.Test(meReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	meBody := decodeBody(t, meResp)
	meUser := meBody["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, userID, meUser["id"])

	// Without any cookie, /auth/me is a 401.
	noCookie, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, noCookie.StatusCode)

	// Logout clears both cookies and revokes the refresh token.
	logoutReq := jsonRequest(t, http.MethodPost, "/api/v1/auth/logout", nil)
	logoutReq.AddCookie(sessionCookie)
	logoutReq.AddCookie(refreshCookie)
	logoutResp, err := app.Fiber.Test(logoutReq)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, logoutResp.StatusCode)

	cleared := cookieByName(logoutResp, token.SessionCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.Expires.Before(time.Now()))

	// The old refresh token is gone.
	refreshReq := jsonRequest(t, http.MethodPost, "/api/v1/auth/refresh-token", nil)
	refreshReq.AddCookie(refreshCookie)
	refreshResp, err := app.Fiber.Test(refreshReq)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, refreshResp.StatusCode)

	// The stateless access token still verifies until it expires: no
	// server-side revocation exists for it.
	lateReq := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	lateReq.AddCookie(sessionCookie)
	lateResp, err := app.Fiber.Test(lateReq)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, lateResp.StatusCode)
}

func TestMeRejectsExpiredToken(t *testing.T) {
	app := testutil.NewApp()

	registered, err := app.Fiber.Test(jsonRequest(t, http.MethodPost, "/api/v1/auth/register", registerPayload()))
	require.NoError(t, err)
	body := decodeBody(t, registered)
	userID := body["data"].(map[string]interface{})["user"].(map[string]interface{})["id"].(string)

	// Same secret, negative lifetime: expired the moment it is issued.
	expiredIssuer := token.NewService(app.Config.JWTSecret, -time.Minute)
	expired, _, err := expiredIssuer.Issue(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: token.SessionCookieName, Value: expired})
	resp, err := app.Fiber.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
