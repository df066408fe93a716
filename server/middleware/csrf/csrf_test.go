package csrf_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estately/server/middleware/csrf"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(storage csrf.Storage) *fiber.App {
	app := fiber.New()

	app.Use(csrf.New(csrf.Config{
		Storage: storage,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(fiber.StatusForbidden)
		},
	}))

	app.Post("/submit", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/page", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return app
}

func TestCSRF_NoSession_PassesThrough(t *testing.T) {
	app := newTestApp(csrf.NewInMemoryStorage())

	req := httptest.NewRequest("POST", "/submit", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCSRF_SessionWithoutToken_IsBlocked(t *testing.T) {
	app := newTestApp(csrf.NewInMemoryStorage())

	req := httptest.NewRequest("POST", "/submit", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCSRF_WrongToken_IsBlocked(t *testing.T) {
	storage := csrf.NewInMemoryStorage()
	require.NoError(t, storage.Set("sess-1", "real-token", time.Hour))

	app := newTestApp(storage)

	req := httptest.NewRequest("POST", "/submit", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	req.Header.Set("X-CSRF-Token", "forged-token")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCSRF_ValidToken_Passes(t *testing.T) {
	storage := csrf.NewInMemoryStorage()
	require.NoError(t, storage.Set("sess-1", "real-token", time.Hour))

	app := newTestApp(storage)

	req := httptest.NewRequest("POST", "/submit", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	req.Header.Set("X-CSRF-Token", "real-token")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCSRF_SafeMethod_SkipsCheck(t *testing.T) {
	app := newTestApp(csrf.NewInMemoryStorage())

	req := httptest.NewRequest("GET", "/page", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGenerateToken_StoresAndSetsCookie(t *testing.T) {
	app := fiber.New()
	storage := csrf.NewInMemoryStorage()

	app.Get("/generate", func(c *fiber.Ctx) error {
		token, err := csrf.GenerateToken(c, "sess-1", storage, time.Hour)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		}
		return c.SendString(token)
	})

	req := httptest.NewRequest("GET", "/generate", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	stored, err := storage.Get("sess-1")
	require.NoError(t, err)
	assert.NotEmpty(t, stored)

	var tokenCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == csrf.TokenCookieName {
			tokenCookie = c
		}
	}
	require.NotNil(t, tokenCookie)
	assert.Equal(t, stored, tokenCookie.Value)
}

func TestInMemoryStorage_ExpiredToken(t *testing.T) {
	storage := csrf.NewInMemoryStorage()
	require.NoError(t, storage.Set("sess-1", "tok", -time.Second))

	_, err := storage.Get("sess-1")
	assert.Error(t, err)
}
