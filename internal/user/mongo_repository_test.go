package user

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/database"
	"github.com/SlpAus/portfolio-backend/internal/platform/database/dbtest"
)

func TestUpsertDocOnlyRefreshesLastLogIn(t *testing.T) {
	oid := bson.NewObjectID()
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	u := User{Email: "a@example.com", Name: "A", Role: DefaultRole, CreatedAt: now, LastLogIn: now}

	filter, update := upsertDoc(oid, u)
	assert.Equal(t, bson.M{"email": "a@example.com"}, filter)
	assert.Equal(t, bson.M{"last_log_in": now}, update["$set"])

	onInsert := update["$setOnInsert"].(bson.M)
	assert.Equal(t, oid, onInsert["_id"])
	assert.Equal(t, "A", onInsert["name"])
	assert.Equal(t, DefaultRole, onInsert["role"])
	assert.NotContains(t, onInsert, "last_log_in")
}

func TestUserListFilter(t *testing.T) {
	assert.Empty(t, listFilter(Filter{}))

	filter := listFilter(Filter{Name: "a.b", Role: "admin"})
	assert.Equal(t, "admin", filter["role"])
	cond := filter["name"].(bson.M)
	assert.Equal(t, "i", cond["$options"])
	re := regexp.MustCompile("(?i)" + cond["$regex"].(string))
	assert.True(t, re.MatchString("Ana.Bell"))
	assert.False(t, re.MatchString("axb"))
}

func TestMongoUpsert(t *testing.T) {
	db := dbtest.Mongo(t)
	ctx := context.Background()
	require.NoError(t, EnsureIndexes(ctx, db))
	repo := NewMongoRepository(db)

	first := time.Now().UTC().Truncate(time.Millisecond)
	u := User{ID: database.NewID(), Email: "a@example.com", Name: "A", Role: DefaultRole, CreatedAt: first, LastLogIn: first}
	saved, created, err := repo.Upsert(ctx, u)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, u.ID, saved.ID)

	later := first.Add(time.Hour)
	again := User{ID: database.NewID(), Email: "a@example.com", Name: "B", Role: "admin", CreatedAt: later, LastLogIn: later}
	saved, created, err = repo.Upsert(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, saved.ID)
	assert.Equal(t, "A", saved.Name)
	assert.Equal(t, DefaultRole, saved.Role)
	assert.True(t, later.Equal(saved.LastLogIn))

	page, err := repo.List(ctx, Filter{Name: "a"}, pager.Query{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestMongoConcurrentUpsertCreatesOneUser(t *testing.T) {
	db := dbtest.Mongo(t)
	ctx := context.Background()
	require.NoError(t, EnsureIndexes(ctx, db))
	repo := NewMongoRepository(db)

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[string]struct{}{}
	)
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			saved, isNew, err := repo.Upsert(ctx, User{ID: database.NewID(), Email: "race@example.com", CreatedAt: now, LastLogIn: now})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if isNew {
				created++
			}
			ids[saved.ID] = struct{}{}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)
	count, err := db.Collection(collectionName).CountDocuments(ctx, bson.M{"email": "race@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
