package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"site_cms/internal/domain/models"
	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/metrics"
)

const subjectKey = "audit.subject"

type ActivityRecorder interface {
	Record(ctx context.Context, activity models.Activity) error
}

type subject struct {
	id    uuid.UUID
	title string
}

// AuditSubject names the entity a mutating handler touched.
func AuditSubject(c echo.Context, id uuid.UUID, title string) {
	c.Set(subjectKey, subject{id: id, title: title})
}

// Audit records one activity entry for every successful mutation passing
// through it. Failures to record are logged and never reach the client.
func Audit(entityType string, log *slog.Logger, recorder ActivityRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				return err
			}

			action, ok := actionFor(c.Request().Method)
			if !ok {
				return nil
			}
			status := c.Response().Status
			if status < http.StatusOK || status >= http.StatusMultipleChoices {
				return nil
			}
			actor, ok := ActorFrom(c)
			if !ok {
				return nil
			}

			activity := models.Activity{
				Type:   entityType,
				Action: action,
				UserID: actor.UserID,
				Metadata: models.Document{
					"method": c.Request().Method,
					"path":   c.Path(),
				},
			}

			if subj, ok := c.Get(subjectKey).(subject); ok {
				activity.Title = subj.title
				if subj.id != uuid.Nil {
					activity.Metadata["subjectId"] = subj.id.String()
					if entityType == "post" && action != models.ActionDeleted {
						id := subj.id
						activity.PostID = &id
					}
				}
			}
			if activity.Title == "" {
				activity.Title = entityType
			}

			ctx := context.WithoutCancel(c.Request().Context())
			if err := recorder.Record(ctx, activity); err != nil {
				metrics.AuditFailures.WithLabelValues(entityType).Inc()
				log.Error("failed to record activity",
					slog.String("entity", entityType),
					slog.String("action", string(action)),
					sl.Err(err),
				)
			}

			return nil
		}
	}
}

func actionFor(method string) (models.ActivityAction, bool) {
	switch method {
	case http.MethodPost:
		return models.ActionCreated, true
	case http.MethodPut, http.MethodPatch:
		return models.ActionEdited, true
	case http.MethodDelete:
		return models.ActionDeleted, true
	}
	return "", false
}
