package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site_cms/internal/domain/models"
	libjwt "site_cms/internal/lib/jwt"
)

const secret = "test-secret"

func newGatedServer(user models.User) *echo.Echo {
	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("cookie-secret"))))
	e.Use(Identify(secret))

	e.POST("/login", func(c echo.Context) error {
		if err := StartSession(c, user, 3600); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
	e.POST("/logout", func(c echo.Context) error {
		if err := EndSession(c); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/me", func(c echo.Context) error {
		actor, _ := ActorFrom(c)
		return c.JSON(http.StatusOK, actor)
	}, RequireAuth)
	e.DELETE("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireAdmin)

	return e
}

func do(e *echo.Echo, method, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGates_Anonymous(t *testing.T) {
	e := newGatedServer(models.User{})

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodDelete, "/admin", nil).Code)
}

func TestGates_Session(t *testing.T) {
	tests := []struct {
		name      string
		role      models.Role
		wantAdmin int
	}{
		{"admin", models.RoleAdmin, http.StatusNoContent},
		{"editor", models.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := models.User{ID: uuid.New(), Email: "u@example.com", Role: tt.role}
			e := newGatedServer(user)

			login := do(e, http.MethodPost, "/login", nil)
			require.Equal(t, http.StatusNoContent, login.Code)
			cookies := login.Result().Cookies()
			require.NotEmpty(t, cookies)

			withCookie := func(r *http.Request) {
				for _, ck := range cookies {
					r.AddCookie(ck)
				}
			}

			me := do(e, http.MethodGet, "/me", withCookie)
			assert.Equal(t, http.StatusOK, me.Code)
			assert.Contains(t, me.Body.String(), user.ID.String())

			assert.Equal(t, tt.wantAdmin, do(e, http.MethodDelete, "/admin", withCookie).Code)
		})
	}
}

func TestGates_Logout(t *testing.T) {
	e := newGatedServer(models.User{ID: uuid.New(), Role: models.RoleAdmin})

	login := do(e, http.MethodPost, "/login", nil)
	logout := do(e, http.MethodPost, "/logout", func(r *http.Request) {
		for _, ck := range login.Result().Cookies() {
			r.AddCookie(ck)
		}
	})
	require.Equal(t, http.StatusNoContent, logout.Code)

	me := do(e, http.MethodGet, "/me", func(r *http.Request) {
		for _, ck := range logout.Result().Cookies() {
			r.AddCookie(ck)
		}
	})
	assert.Equal(t, http.StatusUnauthorized, me.Code)
}

func TestGates_Bearer(t *testing.T) {
	admin := models.User{ID: uuid.New(), Email: "admin@example.com", Role: models.RoleAdmin}
	e := newGatedServer(models.User{})

	token, err := libjwt.NewToken(admin, secret, time.Hour)
	require.NoError(t, err)
	expired, err := libjwt.NewToken(admin, secret, -time.Hour)
	require.NoError(t, err)
	forged, err := libjwt.NewToken(admin, "other-secret", time.Hour)
	require.NoError(t, err)

	bearer := func(tok string) func(*http.Request) {
		return func(r *http.Request) {
			r.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
		}
	}

	assert.Equal(t, http.StatusNoContent, do(e, http.MethodDelete, "/admin", bearer(token)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodDelete, "/admin", bearer(expired)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodDelete, "/admin", bearer(forged)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodDelete, "/admin", bearer("garbage")).Code)
}
