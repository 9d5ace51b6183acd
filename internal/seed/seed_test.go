package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlpAus/portfolio-backend/internal/pager"
	"github.com/SlpAus/portfolio-backend/internal/platform/config"
	"github.com/SlpAus/portfolio-backend/internal/platform/logging"
	"github.com/SlpAus/portfolio-backend/internal/platform/startup"
	"github.com/SlpAus/portfolio-backend/internal/project"
	"github.com/SlpAus/portfolio-backend/internal/review"
	"github.com/SlpAus/portfolio-backend/internal/skill"
)

const sample = `{
  "projects": [
    {"title": "Shop", "category": "web", "technologies": ["react"]},
    {"title": "CLI", "category": "tools"}
  ],
  "skills": [
    {"name": "React", "packageName": "react", "owner": "facebook", "repo": "react"},
    {"name": "Lodash", "packageName": "lodash"}
  ],
  "reviews": [
    {"name": "Ana", "rating": 5, "content": "great"}
  ]
}`

func newServices(t *testing.T) Services {
	t.Helper()
	logger := logging.Discard()
	store, err := startup.OpenStore(context.Background(), config.DatabaseConfig{
		Driver: config.DriverSqlite,
		SQL:    config.SQLConfig{DSN: ":memory:"},
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	return Services{
		Projects: project.NewService(store.Projects, nil, logger),
		Skills:   skill.NewService(store.Skills, nil, logger),
		Reviews:  review.NewService(store.Reviews, logger),
	}
}

func TestApplyImportsEverything(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)
	data, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	sum, err := Apply(ctx, svc, data, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, Summary{Projects: 2, Skills: 2, Reviews: 1}, sum)

	cats, err := svc.Projects.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tools", "web"}, cats)
}

func TestApplyIsRepeatable(t *testing.T) {
	ctx := context.Background()
	svc := newServices(t)
	data, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	_, err = Apply(ctx, svc, data, logging.Discard())
	require.NoError(t, err)
	sum, err := Apply(ctx, svc, data, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)

	page, err := svc.Skills.List(ctx, pager.Query{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestApplyStopsOnInvalidSkill(t *testing.T) {
	data := &Data{Skills: []skill.Input{{Name: "nameless"}}}
	_, err := Apply(context.Background(), newServices(t), data, logging.Discard())
	assert.ErrorIs(t, err, skill.ErrPackageRequired)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader(`{"spells": []}`))
	assert.Error(t, err)
}
