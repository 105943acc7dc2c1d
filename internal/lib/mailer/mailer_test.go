package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_Send(t *testing.T) {
	m := New(Config{Host: "smtp.example.com", Port: "587", From: "site@example.com", FromName: "Site"})

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	err := m.Send(context.Background(), Message{
		To:      []string{"owner@example.com"},
		ReplyTo: "visitor@example.com",
		Subject: "Hello\r\nBcc: evil@example.com",
		Body:    "line one\nline two",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "From: Site <site@example.com>\r\n")
	assert.Contains(t, gotMsg, "Reply-To: visitor@example.com\r\n")
	assert.Contains(t, gotMsg, "Subject: Hello  Bcc: evil@example.com\r\n")
	assert.NotContains(t, gotMsg, "\r\nBcc:")
	assert.True(t, strings.HasSuffix(gotMsg, "line one\r\nline two"))
}

func TestSMTPMailer_NotConfigured(t *testing.T) {
	m := New(Config{})
	err := m.Send(context.Background(), Message{To: []string{"a@example.com"}})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSMTPMailer_SendError(t *testing.T) {
	m := New(Config{Host: "h", Port: "25", From: "f@example.com"})
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := m.Send(context.Background(), Message{To: []string{"a@example.com"}})
	assert.ErrorContains(t, err, "connection refused")
}

func TestSMTPMailer_ContextCancelled(t *testing.T) {
	m := New(Config{Host: "h", Port: "25", From: "f@example.com"})
	release := make(chan struct{})
	defer close(release)
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		<-release
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := m.Send(ctx, Message{To: []string{"a@example.com"}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
