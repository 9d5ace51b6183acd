// Package pager 提供对任意可查询集合的 page/limit 分页。
package pager

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxSkip 是窗口起点的上限，保证 skip 在 32 位 int 与 MongoDB 中都不会溢出
	MaxSkip = math.MaxInt32
)

// Query 是一次分页请求。零值或非法值由 Normalize 修正：
// page < 1 视为 1，limit < 1 视为 DefaultLimit，limit 上限为 MaxLimit，
// page 上限使 (page-1)*limit 不超过 MaxSkip。
type Query struct {
	Page  int
	Limit int
}

// ParseQuery 解析来自不可信输入的 page/limit，非数字或缺失时使用默认值
func ParseQuery(page, limit string) Query {
	q := Query{Page: DefaultPage, Limit: DefaultLimit}
	if p, ok := parseInt(page); ok {
		q.Page = p
	}
	if l, ok := parseInt(limit); ok {
		q.Limit = l
	}
	return q.Normalize()
}

// parseInt 超出 int 范围的数字按饱和值处理，交给 Normalize 收敛
func parseInt(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}

// Normalize 将 page/limit 收敛到合法区间
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if maxPage := MaxSkip/q.Limit + 1; q.Page > maxPage {
		q.Page = maxPage
	}
	return q
}

// Skip 返回窗口起点 (page-1)*limit
func (q Query) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// Page 是分页结果；Total 为忽略窗口的总匹配数
type Page[T any] struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	Data       []T   `json:"data"`
}

// Source 是支持过滤计数与窗口扫描的集合，F 为后端自己的过滤条件类型
type Source[T, F any] interface {
	Count(ctx context.Context, filter F) (int64, error)
	Find(ctx context.Context, filter F, skip, limit int64) ([]T, error)
}

// Paginate 并发执行计数与窗口扫描，并组装分页结果。存储层错误原样返回。
func Paginate[T, F any](ctx context.Context, src Source[T, F], filter F, q Query) (Page[T], error) {
	q = q.Normalize()

	var (
		data  []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = src.Find(gctx, filter, q.Skip(), int64(q.Limit))
		return err
	})
	g.Go(func() error {
		var err error
		total, err = src.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return Page[T]{}, err
	}

	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: TotalPages(total, q.Limit),
		Data:       data,
	}, nil
}

// TotalPages 计算 ceil(total/limit)
func TotalPages(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

// Map 转换分页数据的元素类型，分页元信息保持不变
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Data))
	for i, item := range p.Data {
		out[i] = fn(item)
	}
	return Page[U]{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		Data:       out,
	}
}
