package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/social-service/internal/events"
	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/realtime"
)

func TestReactionService_ReactReplacesType(t *testing.T) {
	env := newTestEnv(t)
	svc := NewReactionService(env.repo, env.logger, env.notifier)
	ctx := context.Background()
	post := env.seedPost(t, "hello")

	_, err := svc.React(ctx, post.ID, "u1", models.ReactionLove)
	require.NoError(t, err)
	summary, err := svc.React(ctx, post.ID, "u1", models.ReactionClap)
	require.NoError(t, err)

	var rows []models.Reaction
	require.NoError(t, env.db.Where("post_id = ?", post.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.ReactionClap, rows[0].Type)

	assert.EqualValues(t, 1, summary.Counts[models.ReactionClap])
	assert.EqualValues(t, 0, summary.Counts[models.ReactionLove])
	assert.EqualValues(t, 1, summary.Total)
	require.NotNil(t, summary.ViewerReaction)
	assert.Equal(t, models.ReactionClap, *summary.ViewerReaction)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, events.EventReactionChanged, published[1].Type)
}

func TestReactionService_SummaryIsPerPost(t *testing.T) {
	env := newTestEnv(t)
	svc := NewReactionService(env.repo, env.logger, env.notifier)
	ctx := context.Background()
	a := env.seedPost(t, "a")
	b := env.seedPost(t, "b")

	_, err := svc.React(ctx, b.ID, "u1", models.ReactionRocket)
	require.NoError(t, err)
	_, err = svc.React(ctx, b.ID, "u2", models.ReactionRocket)
	require.NoError(t, err)
	_, err = svc.React(ctx, a.ID, "u1", models.ReactionLike)
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, a.ID, "")
	require.NoError(t, err)
	assert.Len(t, summary.Counts, len(models.ReactionTypes))
	assert.EqualValues(t, 1, summary.Counts[models.ReactionLike])
	assert.EqualValues(t, 0, summary.Counts[models.ReactionRocket])
	assert.Nil(t, summary.ViewerReaction)
}

func TestReactionService_Errors(t *testing.T) {
	env := newTestEnv(t)
	svc := NewReactionService(env.repo, env.logger, env.notifier)
	ctx := context.Background()
	post := env.seedPost(t, "p")

	_, err := svc.React(ctx, post.ID, "", models.ReactionLike)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.React(ctx, post.ID, "u1", models.ReactionType("angry"))
	assert.ErrorIs(t, err, ErrInvalidReactionType)

	_, err = svc.Summary(ctx, 9999, "u1")
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.Empty(t, env.publisher.GetPublishedEvents())
}

func TestReactionService_Clear(t *testing.T) {
	env := newTestEnv(t)
	svc := NewReactionService(env.repo, env.logger, env.notifier)
	ctx := context.Background()
	post := env.seedPost(t, "p")

	_, err := svc.React(ctx, post.ID, "u1", models.ReactionLike)
	require.NoError(t, err)

	summary, err := svc.Clear(ctx, post.ID, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, summary.Total)
	assert.Nil(t, summary.ViewerReaction)

	// clearing again publishes nothing
	env.publisher.ClearEvents()
	_, err = svc.Clear(ctx, post.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, env.publisher.GetPublishedEvents())
}

func TestCommentService_AddNoOp(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCommentService(env.repo, env.logger, env.validator, env.notifier)
	ctx := context.Background()
	post := env.seedPost(t, "p")
	env.seedProfile(t, "u1")

	tests := []struct {
		name    string
		viewer  string
		content string
	}{
		{"anonymous", "", "hi"},
		{"empty content", "u1", ""},
		{"whitespace", "u1", "   \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, added, err := svc.Add(ctx, post.ID, tt.viewer, tt.content)
			require.NoError(t, err)
			assert.False(t, added)
			assert.Empty(t, page.Comments)
		})
	}

	var count int64
	env.db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
	assert.Empty(t, env.publisher.GetPublishedEvents())
}

func TestCommentService_AddAndList(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCommentService(env.repo, env.logger, env.validator, env.notifier)
	ctx := context.Background()
	post := env.seedPost(t, "p")
	env.seedProfile(t, "u1")

	sub, cancel := context.WithCancel(ctx)
	defer cancel()
	changes := env.hub.Subscribe(sub, realtime.Filter{Table: "comments", Column: "post_id", Value: strconv.FormatUint(uint64(post.ID), 10)})

	page, added, err := svc.Add(ctx, post.ID, "u1", "  first!  ")
	require.NoError(t, err)
	assert.True(t, added)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, "first!", page.Comments[0].Content)
	assert.Equal(t, "User u1", page.Comments[0].Author.DisplayName)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventCommentCreated, published[0].Type)

	select {
	case ev := <-changes:
		assert.Equal(t, "comments", ev.Table)
	case <-time.After(time.Second):
		t.Fatal("expected a comments change event")
	}

	_, _, err = svc.Add(ctx, post.ID, "u1", strings.Repeat("x", 2001))
	var ve ValidationErrors
	assert.True(t, errors.As(err, &ve))

	_, _, err = svc.Add(ctx, 4242, "u1", "hello")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCommentService_Pagination(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCommentService(env.repo, env.logger, env.validator, env.notifier)
	ctx := context.Background()
	post := env.seedPost(t, "p")
	env.seedProfile(t, "u1")

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, env.db.Omit("Author").Create(&models.Comment{
			PostID:    post.ID,
			UserID:    "u1",
			Content:   string(rune('a' + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	first, err := svc.List(ctx, post.ID, "", 2)
	require.NoError(t, err)
	require.Len(t, first.Comments, 2)
	assert.Equal(t, "e", first.Comments[0].Content)
	assert.Equal(t, "d", first.Comments[1].Content)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(ctx, post.ID, first.NextCursor, 2)
	require.NoError(t, err)
	assert.Equal(t, "c", second.Comments[0].Content)

	third, err := svc.List(ctx, post.ID, second.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, third.Comments, 1)
	assert.Equal(t, "a", third.Comments[0].Content)
	assert.Empty(t, third.NextCursor)

	_, err = svc.List(ctx, post.ID, "%%%not-base64", 2)
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestPostService_Get(t *testing.T) {
	env := newTestEnv(t)
	reactions := NewReactionService(env.repo, env.logger, env.notifier)
	comments := NewCommentService(env.repo, env.logger, env.validator, env.notifier)
	svc := NewPostService(env.repo, env.logger, reactions, comments)
	ctx := context.Background()
	post := env.seedPost(t, "launch")

	_, err := reactions.React(ctx, post.ID, "u1", models.ReactionRocket)
	require.NoError(t, err)

	view, err := svc.Get(ctx, "launch", "u1")
	require.NoError(t, err)
	assert.Equal(t, post.ID, view.Post.ID)
	assert.EqualValues(t, 1, view.Reactions.Counts[models.ReactionRocket])
	assert.NotNil(t, view.Comments)

	_, err = svc.Get(ctx, "missing", "")
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = svc.Resolve(ctx, "  ")
	assert.ErrorIs(t, err, ErrPostNotFound)
}
