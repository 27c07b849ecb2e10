package rentlens_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rentlens/rentlens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthApp(t *testing.T, verifier rentlens.CredentialVerifier, opts ...rentlens.MachineOption) (*fiber.App, *rentlens.Machine) {
	t.Helper()

	store := &memStore{}
	m := rentlens.NewMachine(store, verifier, opts...)

	app := fiber.New()
	rentlens.RegisterAuthRoutes(app, m)

	return app, m
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func TestLoginEndpointSignsIn(t *testing.T) {
	verifier := &MockVerifier{}
	verifier.On("VerifyIdentity", mock.Anything, "renter", "sekret-pass").
		Return(userIdentity("user-1"), nil).Once()

	app, m := newAuthApp(t, verifier)

	res := postJSON(t, app, "/auth/login", `{"identifier":"renter","password":"sekret-pass"}`)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.Equal(t, "user-1", payload["id"])
	assert.Equal(t, "user-1", m.CurrentUserID())
}

func TestLoginEndpointRejectsEmptyPayload(t *testing.T) {
	verifier := &MockVerifier{}
	app, _ := newAuthApp(t, verifier)

	res := postJSON(t, app, "/auth/login", `{}`)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	verifier.AssertNotCalled(t, "VerifyIdentity", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginEndpointMapsBannedToForbidden(t *testing.T) {
	verifier := &MockVerifier{}
	verifier.On("VerifyIdentity", mock.Anything, "renter", "sekret-pass").
		Return(nil, rentlens.ErrAccountBanned).Once()

	app, _ := newAuthApp(t, verifier)

	res := postJSON(t, app, "/auth/login", `{"identifier":"renter","password":"sekret-pass"}`)
	defer res.Body.Close()

	require.Equal(t, http.StatusForbidden, res.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.Equal(t, rentlens.TextCodeAccountBanned, payload["code"])
}

func TestLogoutEndpointSignsOut(t *testing.T) {
	verifier := &MockVerifier{}
	verifier.On("VerifyIdentity", mock.Anything, "renter", "sekret-pass").
		Return(userIdentity("user-1"), nil).Once()

	app, m := newAuthApp(t, verifier)

	res := postJSON(t, app, "/auth/login", `{"identifier":"renter","password":"sekret-pass"}`)
	res.Body.Close()

	res = postJSON(t, app, "/auth/logout", ``)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, m.CurrentUserID())
}

func TestMeEndpointWithoutSession(t *testing.T) {
	verifier := &MockVerifier{}
	app, m := newAuthApp(t, verifier)
	require.NoError(t, m.Initialize(context.Background()))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRegisterEndpointReportsConfirmationRequired(t *testing.T) {
	verifier := &MockVerifier{}
	registrar := &MockRegistrar{}
	registrar.On("RegisterUser", mock.Anything, mock.Anything).
		Return(&rentlens.User{Email: "new@example.test", Confirmed: false}, nil).Once()

	app, _ := newAuthApp(t, verifier, rentlens.WithRegistrar(registrar))

	res := postJSON(t, app, "/auth/register",
		`{"display_name":"New Renter","email":"new@example.test","password":"sekret-pass"}`)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.Equal(t, true, payload["confirmation_required"])
}

func TestGuardMiddlewareRedirectsUnauthenticated(t *testing.T) {
	store := &memStore{}
	verifier := &MockVerifier{}
	m := rentlens.NewMachine(store, verifier)
	require.NoError(t, m.Initialize(context.Background()))

	app := fiber.New()
	app.Use(rentlens.GuardMiddleware(m, rentlens.DefaultGuardRoutes()))
	app.Get("/home", func(c *fiber.Ctx) error { return c.SendString("home") })

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/auth/login", res.Header.Get("Location"))
}

func TestGuardMiddlewarePassesAuthenticatedUser(t *testing.T) {
	store := &memStore{}
	verifier := &MockVerifier{}
	verifier.On("VerifyIdentity", mock.Anything, "renter", "sekret-pass").
		Return(userIdentity("user-1"), nil).Once()

	m := rentlens.NewMachine(store, verifier)
	require.NoError(t, m.SignIn(context.Background(), "renter", "sekret-pass"))

	app := fiber.New()
	app.Use(rentlens.GuardMiddleware(m, rentlens.DefaultGuardRoutes()))
	app.Get("/home", func(c *fiber.Ctx) error { return c.SendString("home") })

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
}
