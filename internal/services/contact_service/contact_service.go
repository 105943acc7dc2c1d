package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"site_cms/internal/domain/models"
	"site_cms/internal/lib/logger/sl"
	"site_cms/internal/lib/mailer"
	"site_cms/internal/repository"
	"site_cms/internal/storage"
)

const contactSectionType = "contact"

type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

type Config struct {
	// PageSlug names the page whose contact section holds the recipient.
	PageSlug string
	// Fallback receives mail when no contact section carries an email.
	Fallback string
	Limit    int
	Window   time.Duration
}

type ContactService struct {
	log      *slog.Logger
	pages    repository.PageRepository
	sections repository.SectionRepository
	limiter  repository.RateLimitRepository
	mailer   Mailer
	cfg      Config
}

func NewContactService(
	log *slog.Logger,
	pages repository.PageRepository,
	sections repository.SectionRepository,
	limiter repository.RateLimitRepository,
	mailer Mailer,
	cfg Config,
) *ContactService {
	return &ContactService{
		log:      log,
		pages:    pages,
		sections: sections,
		limiter:  limiter,
		mailer:   mailer,
		cfg:      cfg,
	}
}

// Submit forwards a contact form message to the site owner. Each client may
// submit cfg.Limit messages per window.
func (s *ContactService) Submit(ctx context.Context, clientIP string, msg models.ContactMessage) error {
	const op = "service.ContactService.Submit"

	log := s.log.With(
		slog.String("op", op),
		slog.String("client_ip", clientIP),
	)

	if err := validate(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.limiter != nil && s.cfg.Limit > 0 {
		count, err := s.limiter.Hit(ctx, "contact:"+clientIP, s.cfg.Window)
		if err != nil {
			// a broken limiter must not take the contact form down
			log.Error("rate limiter unavailable", sl.Err(err))
		} else if count > int64(s.cfg.Limit) {
			log.Warn("contact form rate limited", slog.Int64("count", count))
			return fmt.Errorf("%s: %w", op, storage.ErrRateLimited)
		}
	}

	recipient, err := s.Recipient(ctx)
	if err != nil {
		log.Error("failed to resolve recipient", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if recipient == "" {
		log.Error("no contact recipient configured")
		return fmt.Errorf("%s: %w", op, mailer.ErrNotConfigured)
	}

	subject := msg.Subject
	if subject == "" {
		subject = "New message from " + msg.Name
	}

	err = s.mailer.Send(ctx, mailer.Message{
		To:      []string{recipient},
		ReplyTo: msg.Email,
		Subject: "[Contact] " + subject,
		Body:    body(msg),
	})
	if err != nil {
		log.Error("failed to send contact mail", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("contact message sent")
	return nil
}

// Recipient returns the email of the first contact section on the contact
// page, or the configured fallback.
func (s *ContactService) Recipient(ctx context.Context) (string, error) {
	if s.cfg.PageSlug == "" {
		return s.cfg.Fallback, nil
	}

	page, err := s.pages.PageBySlug(ctx, s.cfg.PageSlug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return s.cfg.Fallback, nil
		}
		return "", err
	}

	sections, err := s.sections.SectionsByPage(ctx, page.ID)
	if err != nil {
		return "", err
	}

	for _, sec := range sections {
		if !strings.EqualFold(sec.Type, contactSectionType) {
			continue
		}
		if email, ok := sec.Content["email"].(string); ok && strings.TrimSpace(email) != "" {
			return strings.TrimSpace(email), nil
		}
		break
	}

	return s.cfg.Fallback, nil
}

func validate(msg models.ContactMessage) error {
	problems := map[string]string{}
	if strings.TrimSpace(msg.Name) == "" {
		problems["name"] = "name is required"
	}
	if strings.TrimSpace(msg.Email) == "" {
		problems["email"] = "email is required"
	} else if _, err := mail.ParseAddress(msg.Email); err != nil {
		problems["email"] = "email is not a valid address"
	}
	if strings.TrimSpace(msg.Message) == "" {
		problems["message"] = "message is required"
	}
	if len(problems) > 0 {
		return &models.ValidationError{Fields: problems}
	}
	return nil
}

func body(msg models.ContactMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", msg.Name)
	fmt.Fprintf(&b, "Email: %s\n", msg.Email)
	if msg.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", msg.Phone)
	}
	if msg.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)
	}
	b.WriteString("\n")
	b.WriteString(msg.Message)
	return b.String()
}
