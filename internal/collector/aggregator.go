package collector

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Aggregator 按配置顺序依次抓取各数据源，直到达到全局条数上限
type Aggregator struct {
	fetchers map[Kind]Fetcher
}

// NewAggregator 使用默认的 web / feed / social_stub 抓取实现
func NewAggregator(timeout time.Duration, userAgent string) *Aggregator {
	return NewAggregatorWith(map[Kind]Fetcher{
		KindWeb:        NewWebFetcher(timeout, userAgent),
		KindFeed:       NewFeedFetcher(timeout, userAgent),
		KindSocialStub: &SocialStubFetcher{},
	})
}

// NewAggregatorWith 允许替换任意类型的抓取实现；缺失的类型回落到 web
func NewAggregatorWith(fetchers map[Kind]Fetcher) *Aggregator {
	return &Aggregator{fetchers: fetchers}
}

// Aggregate 规范化原始数据源并逐个抓取。
// 前面的数据源优先：累计条数达到 maxArticles 后不再抓取后续数据源，
// 最后截断到 maxArticles 条。
func (a *Aggregator) Aggregate(ctx context.Context, raw []any, maxArticles int) []Article {
	sources := Normalize(raw)
	if len(sources) == 0 || maxArticles <= 0 {
		return []Article{}
	}

	perSource := PerSourceLimit(maxArticles, len(sources))
	results := make([]Article, 0, maxArticles)

	for _, src := range sources {
		res := a.fetch(ctx, src, LimitFor(src.Kind, perSource))
		if res.Degraded() {
			log.Printf("aggregate: %s (%s) degraded: %v", src.Name, src.Kind, res.Stages)
		}
		results = append(results, res.Articles...)

		if len(results) >= maxArticles {
			break
		}
	}

	if len(results) > maxArticles {
		results = results[:maxArticles]
	}
	return results
}

func (a *Aggregator) fetch(ctx context.Context, src Source, limit int) (res Result) {
	f, ok := a.fetchers[src.Kind]
	if !ok {
		f = a.fetchers[KindWeb]
	}
	if f == nil {
		return Result{Stages: []Stage{{Name: src.Kind.String(), Status: StageFailed, Err: fmt.Errorf("no fetcher for kind %s", src.Kind)}}}
	}

	// 第三方解析库可能 panic，这里统一转为失败环节，保证单个数据源不影响整体
	defer func() {
		if r := recover(); r != nil {
			res = Result{Stages: []Stage{{Name: src.Kind.String(), Status: StageFailed, Err: fmt.Errorf("panic: %v", r)}}}
		}
	}()

	return f.Fetch(ctx, src, limit)
}
