package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"site_cms/internal/domain/models"
	libjwt "site_cms/internal/lib/jwt"
	"site_cms/internal/transport/http/dto/response"
)

const (
	SessionName = "session"

	actorKey = "actor"
	tokenKey = "user"
)

var (
	errUnauthorized = response.ErrorResponse{
		Status:  "error",
		Error:   "unauthorized",
		Details: "authentication required",
	}

	errForbidden = response.ErrorResponse{
		Status:  "error",
		Error:   "forbidden",
		Details: "admin access required",
	}
)

func SetActor(c echo.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}

// ActorFrom returns the identity attached by Identify.
func ActorFrom(c echo.Context) (models.Actor, bool) {
	actor, ok := c.Get(actorKey).(models.Actor)
	return actor, ok
}

// Identify attaches the requesting actor, if any. The session cookie is
// checked first, then a bearer token. Requests without a valid identity pass
// through anonymous; the gates below decide what they may reach.
func Identify(tokenSecret string) echo.MiddlewareFunc {
	bearer := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(tokenSecret),
		ContextKey: tokenKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(libjwt.Claims)
		},
		Skipper: func(c echo.Context) bool {
			if _, ok := ActorFrom(c); ok {
				return true
			}
			return c.Request().Header.Get(echo.HeaderAuthorization) == ""
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get(tokenKey).(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*libjwt.Claims)
			if !ok {
				return
			}
			id, err := uuid.Parse(claims.UserID)
			if err != nil {
				return
			}
			SetActor(c, models.Actor{UserID: id, Email: claims.Email, Role: models.Role(claims.Role)})
		},
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withBearer := bearer(next)

		return func(c echo.Context) error {
			if actor, ok := actorFromSession(c); ok {
				SetActor(c, actor)
			}
			return withBearer(c)
		}
	}
}

func actorFromSession(c echo.Context) (models.Actor, bool) {
	sess, err := session.Get(SessionName, c)
	if err != nil || sess == nil {
		return models.Actor{}, false
	}

	raw, ok := sess.Values["user_id"].(string)
	if !ok || raw == "" {
		return models.Actor{}, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return models.Actor{}, false
	}

	role, _ := sess.Values["role"].(string)
	email, _ := sess.Values["email"].(string)

	return models.Actor{UserID: id, Email: email, Role: models.Role(role)}, true
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := ActorFrom(c); !ok {
			return c.JSON(http.StatusUnauthorized, errUnauthorized)
		}
		return next(c)
	}
}

// RequireAdmin rejects anonymous requests with 401 and non admins with 403.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, errUnauthorized)
		}
		if !actor.IsAdmin() {
			return c.JSON(http.StatusForbidden, errForbidden)
		}
		return next(c)
	}
}

// StartSession stores the user's identity in the session cookie.
func StartSession(c echo.Context, user models.User, maxAge int) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return err
	}

	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	sess.Values["user_id"] = user.ID.String()
	sess.Values["role"] = string(user.Role)
	sess.Values["email"] = user.Email

	return sess.Save(c.Request(), c.Response())
}

func EndSession(c echo.Context) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return err
	}

	sess.Options = &sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true}
	sess.Values = map[interface{}]interface{}{}

	return sess.Save(c.Request(), c.Response())
}
