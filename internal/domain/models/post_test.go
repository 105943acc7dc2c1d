package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_SetStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := now.Add(48 * time.Hour)

	t.Run("new published post is stamped", func(t *testing.T) {
		var p Post
		p.SetStatus(PostStatusPublished, now)
		require.NotNil(t, p.PublishedAt)
		assert.Equal(t, now, *p.PublishedAt)
	})

	t.Run("new draft has no publish date", func(t *testing.T) {
		var p Post
		p.SetStatus(PostStatusDraft, now)
		assert.Nil(t, p.PublishedAt)
	})

	t.Run("staying published keeps original date", func(t *testing.T) {
		var p Post
		p.SetStatus(PostStatusPublished, now)
		p.SetStatus(PostStatusPublished, later)
		require.NotNil(t, p.PublishedAt)
		assert.Equal(t, now, *p.PublishedAt)
	})

	t.Run("back to draft clears date", func(t *testing.T) {
		var p Post
		p.SetStatus(PostStatusPublished, now)
		p.SetStatus(PostStatusDraft, later)
		assert.Nil(t, p.PublishedAt)
		assert.Equal(t, PostStatusDraft, p.Status)
	})

	t.Run("republish restamps", func(t *testing.T) {
		var p Post
		p.SetStatus(PostStatusPublished, now)
		p.SetStatus(PostStatusArchived, now)
		p.SetStatus(PostStatusPublished, later)
		require.NotNil(t, p.PublishedAt)
		assert.Equal(t, later, *p.PublishedAt)
	})
}

func TestPostStatus_Valid(t *testing.T) {
	assert.True(t, PostStatusDraft.Valid())
	assert.True(t, PostStatusArchived.Valid())
	assert.False(t, PostStatus("deleted").Valid())
	assert.False(t, PostStatus("").Valid())
}
