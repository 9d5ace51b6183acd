package skill

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/internal/platform/database/dbtest"
	"github.com/SlpAus/portfolio-backend/internal/stats"
)

func TestMongoRepository(t *testing.T) {
	db := dbtest.Mongo(t)
	ctx := context.Background()
	require.NoError(t, EnsureIndexes(ctx, db))
	repo := NewMongoRepository(db)

	s := &Skill{ID: database.NewID(), Name: "React", PackageName: "react", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, s))

	dup := &Skill{ID: database.NewID(), PackageName: "react"}
	assert.ErrorIs(t, repo.Create(ctx, dup), database.ErrDuplicate)

	d := stats.Downloads{Monthly: 100, Daily: 5, LastUpdated: time.Now().UTC().Truncate(time.Millisecond)}
	require.NoError(t, repo.SetDownloads(ctx, "react", d))
	assert.ErrorIs(t, repo.SetDownloads(ctx, "missing", d), database.ErrNotFound)

	got, err := repo.FindByPackage(ctx, "react")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	require.NotNil(t, got.Downloads)
	assert.Equal(t, int64(100), got.Downloads.Monthly)
	assert.Nil(t, got.GitHub)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
