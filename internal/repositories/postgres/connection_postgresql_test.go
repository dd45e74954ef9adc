package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/social-service/internal/cache"
	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/repositories"
)

func TestConnectionCreateIfAbsentIsPairUnique(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	conns := env.repo.Connection()

	first, created, err := conns.CreateIfAbsent(ctx, &models.Connection{RequesterID: "ana", RecipientID: "bia", Status: models.ConnectionPending})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ana:bia", first.PairKey)

	again, created, err := conns.CreateIfAbsent(ctx, &models.Connection{RequesterID: "ana", RecipientID: "bia", Status: models.ConnectionPending})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	reverse, created, err := conns.CreateIfAbsent(ctx, &models.Connection{RequesterID: "bia", RecipientID: "ana", Status: models.ConnectionPending})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, reverse.ID)
	assert.Equal(t, "ana", reverse.RequesterID)

	var count int64
	require.NoError(t, env.db.Model(&models.Connection{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConnectionListByProfileCacheInvalidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	conns := env.repo.Connection()

	edge, _, err := conns.CreateIfAbsent(ctx, &models.Connection{RequesterID: "ana", RecipientID: "bia", Status: models.ConnectionPending})
	require.NoError(t, err)
	_, _, err = conns.CreateIfAbsent(ctx, &models.Connection{RequesterID: "caio", RecipientID: "ana", Status: models.ConnectionPending})
	require.NoError(t, err)

	edges, err := conns.ListByProfile(ctx, "ana")
	require.NoError(t, err)
	assert.Len(t, edges, 2)
	assert.True(t, env.mr.Exists("stats:"+cache.ConnectionsKey("ana")))

	require.NoError(t, conns.UpdateStatus(ctx, edge, models.ConnectionApproved))
	assert.False(t, env.mr.Exists("stats:"+cache.ConnectionsKey("ana")))
	assert.False(t, env.mr.Exists("stats:"+cache.ConnectionsKey("bia")))

	edges, err = conns.ListByProfile(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStats{Following: 1, Followers: 1, Network: 1}, models.CountConnections("ana", edges))
}

func TestConnectionListDirections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	conns := env.repo.Connection()

	for _, pair := range [][2]string{{"ana", "bia"}, {"ana", "caio"}, {"duda", "ana"}} {
		_, _, err := conns.CreateIfAbsent(ctx, &models.Connection{RequesterID: pair[0], RecipientID: pair[1], Status: models.ConnectionPending})
		require.NoError(t, err)
	}
	edge, err := conns.GetBetween(ctx, "ana", "duda")
	require.NoError(t, err)
	require.NoError(t, conns.UpdateStatus(ctx, edge, models.ConnectionApproved))

	tests := []struct {
		direction models.ConnectionDirection
		want      int64
	}{
		{models.DirectionFollowing, 2},
		{models.DirectionFollowers, 1},
		{models.DirectionNetwork, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.direction), func(t *testing.T) {
			rows, total, err := conns.List(ctx, "ana", repositories.ConnectionFilters{Direction: tt.direction, Limit: 1})
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, rows, 1)
		})
	}
}

func TestConnectionGetBetweenMissing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.repo.Connection().GetBetween(context.Background(), "ana", "zoe")
	assert.True(t, repositories.IsNotFoundError(err))

	err = env.repo.Connection().UpdateStatus(context.Background(), &models.Connection{ID: 99}, models.ConnectionApproved)
	assert.True(t, repositories.IsNotFoundError(err))
}
