package pager

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sliceSource 是基于切片的内存 Source，过滤条件为谓词
type sliceSource struct {
	items []int
	err   error
}

func (s *sliceSource) match(filter func(int) bool) []int {
	var out []int
	for _, v := range s.items {
		if filter == nil || filter(v) {
			out = append(out, v)
		}
	}
	return out
}

func (s *sliceSource) Count(_ context.Context, filter func(int) bool) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.match(filter))), nil
}

func (s *sliceSource) Find(_ context.Context, filter func(int) bool, skip, limit int64) ([]int, error) {
	matched := s.match(filter)
	if skip >= int64(len(matched)) {
		return nil, nil
	}
	end := skip + limit
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}
	return matched[skip:end], nil
}

func records(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginateSecondPageOfTwelve(t *testing.T) {
	src := &sliceSource{items: records(12)}

	page, err := Paginate[int, func(int) bool](context.Background(), src, nil, Query{Page: 2, Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.Limit)
	assert.EqualValues(t, 12, page.Total)
	assert.EqualValues(t, 3, page.TotalPages)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, page.Data)
}

func TestPaginateWindowAndTotalPagesInvariant(t *testing.T) {
	for total := 0; total <= 23; total++ {
		src := &sliceSource{items: records(total)}
		for limit := 1; limit <= 7; limit++ {
			for p := 1; p <= 6; p++ {
				page, err := Paginate[int, func(int) bool](context.Background(), src, nil, Query{Page: p, Limit: limit})
				require.NoError(t, err)

				assert.LessOrEqual(t, len(page.Data), limit)
				assert.EqualValues(t, (total+limit-1)/limit, page.TotalPages, fmt.Sprintf("total=%d limit=%d", total, limit))
				assert.EqualValues(t, total, page.Total)
			}
		}
	}
}

func TestPaginateAppliesFilter(t *testing.T) {
	src := &sliceSource{items: records(20)}
	even := func(v int) bool { return v%2 == 0 }

	page, err := Paginate(context.Background(), Source[int, func(int) bool](src), even, Query{Page: 1, Limit: 3})
	require.NoError(t, err)

	assert.EqualValues(t, 10, page.Total)
	assert.EqualValues(t, 4, page.TotalPages)
	assert.Equal(t, []int{2, 4, 6}, page.Data)
}

func TestPaginateClampsNonPositivePage(t *testing.T) {
	src := &sliceSource{items: records(12)}

	for _, p := range []int{0, -3} {
		page, err := Paginate[int, func(int) bool](context.Background(), src, nil, Query{Page: p, Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, page.Data)
	}
}

func TestPaginateEmptyPageHasEmptyData(t *testing.T) {
	src := &sliceSource{items: records(3)}

	page, err := Paginate[int, func(int) bool](context.Background(), src, nil, Query{Page: 9, Limit: 5})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.EqualValues(t, 1, page.TotalPages)
}

func TestPaginatePropagatesStoreError(t *testing.T) {
	boom := errors.New("store down")
	src := &sliceSource{items: records(3), err: boom}

	_, err := Paginate[int, func(int) bool](context.Background(), src, nil, Query{Page: 1, Limit: 5})
	assert.ErrorIs(t, err, boom)
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name        string
		page, limit string
		want        Query
	}{
		{"missing", "", "", Query{Page: 1, Limit: 10}},
		{"non numeric", "abc", "x1", Query{Page: 1, Limit: 10}},
		{"valid", "3", "25", Query{Page: 3, Limit: 25}},
		{"zero page clamps", "0", "5", Query{Page: 1, Limit: 5}},
		{"negative page clamps", "-2", "5", Query{Page: 1, Limit: 5}},
		{"zero limit defaults", "2", "0", Query{Page: 2, Limit: 10}},
		{"limit capped", "1", "1000", Query{Page: 1, Limit: MaxLimit}},
		{"whitespace", " 2 ", " 4 ", Query{Page: 2, Limit: 4}},
		{"huge page saturates", "92233720368547762", "100", Query{Page: MaxSkip/100 + 1, Limit: 100}},
		{"out of int range", "99999999999999999999999", "10", Query{Page: MaxSkip/10 + 1, Limit: 10}},
		{"out of int range negative", "-99999999999999999999999", "10", Query{Page: 1, Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.page, tt.limit))
		})
	}
}

func TestSkip(t *testing.T) {
	assert.EqualValues(t, 0, Query{Page: 1, Limit: 10}.Skip())
	assert.EqualValues(t, 5, Query{Page: 2, Limit: 5}.Skip())

	for _, limit := range []int{1, 7, 10, MaxLimit} {
		q := Query{Page: math.MaxInt, Limit: limit}.Normalize()
		assert.Positive(t, q.Skip(), limit)
		assert.LessOrEqual(t, q.Skip(), int64(MaxSkip), limit)
	}
}

func TestPaginateHugePageReturnsEmptyWindow(t *testing.T) {
	src := &sliceSource{items: records(12)}
	page, err := Paginate[int, func(int) bool](context.Background(), src, nil, ParseQuery("92233720368547762", "100"))
	require.NoError(t, err)
	assert.EqualValues(t, 12, page.Total)
	assert.EqualValues(t, 1, page.TotalPages)
	assert.Empty(t, page.Data)
}

func TestMapKeepsMetadata(t *testing.T) {
	in := Page[int]{Page: 2, Limit: 2, Total: 5, TotalPages: 3, Data: []int{3, 4}}
	out := Map(in, func(v int) string { return fmt.Sprint(v * 10) })

	assert.Equal(t, []string{"30", "40"}, out.Data)
	assert.Equal(t, in.Total, out.Total)
	assert.Equal(t, in.TotalPages, out.TotalPages)
}

type row struct {
	ID       uint `gorm:"primaryKey"`
	Category string
}

func TestGormSourcePaginates(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&row{}))
	for i := 1; i <= 12; i++ {
		category := "web"
		if i%3 == 0 {
			category = "mobile"
		}
		require.NoError(t, db.Create(&row{ID: uint(i), Category: category}).Error)
	}

	src := GormSource[row]{DB: db, Order: "id asc"}
	page, err := Paginate[row, Scope](context.Background(), src, nil, Query{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 12, page.Total)
	assert.EqualValues(t, 3, page.TotalPages)
	require.Len(t, page.Data, 5)
	assert.EqualValues(t, 6, page.Data[0].ID)
	assert.EqualValues(t, 10, page.Data[4].ID)

	mobile := func(tx *gorm.DB) *gorm.DB { return tx.Where("category = ?", "mobile") }
	page, err = Paginate[row, Scope](context.Background(), src, mobile, Query{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Total)
	assert.Len(t, page.Data, 4)

	page, err = Paginate[row, Scope](context.Background(), src, nil, ParseQuery("92233720368547762", "100"))
	require.NoError(t, err)
	assert.EqualValues(t, 12, page.Total)
	assert.Empty(t, page.Data)
}
