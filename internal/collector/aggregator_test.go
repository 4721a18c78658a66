package collector

import (
	"context"
	"fmt"
	"testing"
)

// fakeFetcher 返回 min(limit, max) 条文章；max < 0 表示忽略 limit 返回 100 条
type fakeFetcher struct {
	max    int
	limits []int
	names  []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, src Source, limit int) Result {
	f.limits = append(f.limits, limit)
	f.names = append(f.names, src.Name)

	n := limit
	switch {
	case f.max < 0:
		n = 100
	case f.max < n:
		n = f.max
	}
	out := make([]Article, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Article{
			Title:  fmt.Sprintf("%s #%d", src.Name, i),
			URL:    fmt.Sprintf("%s/%d", src.URL, i),
			Source: src.Name,
		})
	}
	return Result{Articles: out, Stages: []Stage{{Name: "fake", Status: StageOK}}}
}

type panicFetcher struct{}

func (panicFetcher) Fetch(ctx context.Context, src Source, limit int) Result {
	panic("parser exploded")
}

func TestAggregateWebThenFeedOrder(t *testing.T) {
	web := &fakeFetcher{max: 1}
	feed := &fakeFetcher{max: 10}
	a := NewAggregatorWith(map[Kind]Fetcher{KindWeb: web, KindFeed: feed})

	raw := []any{
		"https://a.example.com",
		"https://b.example.com",
		"https://c.example.com",
		map[string]any{"name": "feed", "type": "rss", "url": "https://f.example.com/rss"},
	}

	got := a.Aggregate(context.Background(), raw, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 articles, got %d", len(got))
	}

	wantSources := []string{"https://a.example.com", "https://b.example.com", "https://c.example.com", "feed", "feed"}
	for i, s := range wantSources {
		if got[i].Source != s {
			t.Errorf("article[%d].Source = %q, want %q", i, got[i].Source, s)
		}
	}

	// per_source = max(1, 5/4) = 1，feed 额外 +1
	if len(feed.limits) != 1 || feed.limits[0] != 2 {
		t.Fatalf("feed limits = %v, want [2]", feed.limits)
	}
	if len(web.limits) != 3 {
		t.Fatalf("expected 3 web fetches, got %d", len(web.limits))
	}
}

func TestAggregateFeedQueriedWithSlack(t *testing.T) {
	feed := &fakeFetcher{max: 100}
	a := NewAggregatorWith(map[Kind]Fetcher{KindFeed: feed})
	raw := []any{
		map[string]any{"name": "f1", "type": "rss", "url": "u1"},
		map[string]any{"name": "f2", "type": "rss", "url": "u2"},
	}

	got := a.Aggregate(context.Background(), raw, 8)
	if len(got) != 8 {
		t.Fatalf("expected 8 articles, got %d", len(got))
	}
	for _, l := range feed.limits {
		if l != 5 {
			t.Fatalf("feed queried with limit %d, want 5", l)
		}
	}
	// f1 提供 5 条，f2 提供 5 条，截断后 f2 只剩 3 条
	if got[4].Source != "f1" || got[5].Source != "f2" {
		t.Fatalf("unexpected order around boundary: %q, %q", got[4].Source, got[5].Source)
	}
}

func TestAggregateNeverExceedsCap(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for max := 1; max <= 12; max++ {
			f := &fakeFetcher{max: -1}
			a := NewAggregatorWith(map[Kind]Fetcher{KindWeb: f, KindFeed: f})
			raw := make([]any, 0, n)
			for i := 0; i < n; i++ {
				raw = append(raw, fmt.Sprintf("https://s%d.example.com", i))
			}
			if got := a.Aggregate(context.Background(), raw, max); len(got) > max {
				t.Fatalf("n=%d max=%d: got %d articles", n, max, len(got))
			}
		}
	}
}

func TestAggregateStopsEarly(t *testing.T) {
	f := &fakeFetcher{max: -1}
	a := NewAggregatorWith(map[Kind]Fetcher{KindWeb: f})

	got := a.Aggregate(context.Background(), []any{"first", "second", "third"}, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 articles, got %d", len(got))
	}
	if len(f.names) != 1 || f.names[0] != "first" {
		t.Fatalf("later sources should be skipped once the cap is reached, fetched %v", f.names)
	}
}

func TestAggregateSocialStubAlwaysOne(t *testing.T) {
	a := NewAggregatorWith(map[Kind]Fetcher{KindSocialStub: &SocialStubFetcher{}})
	raw := []any{map[string]any{"name": "X", "type": "social_stub", "url": "https://x.com"}}

	for _, max := range []int{1, 2, 5, 50} {
		got := a.Aggregate(context.Background(), raw, max)
		if len(got) != 1 {
			t.Fatalf("max=%d: expected 1 article, got %d", max, len(got))
		}
		if !got[0].Stub {
			t.Fatalf("max=%d: expected stub article", max)
		}
	}
}

func TestAggregateEmptyInputs(t *testing.T) {
	a := NewAggregatorWith(map[Kind]Fetcher{KindWeb: &fakeFetcher{max: 1}})
	if got := a.Aggregate(context.Background(), nil, 5); len(got) != 0 {
		t.Fatalf("expected no articles for no sources, got %d", len(got))
	}
	if got := a.Aggregate(context.Background(), []any{42, nil}, 5); len(got) != 0 {
		t.Fatalf("expected no articles for unrecognized sources, got %d", len(got))
	}
}

func TestAggregateRecoversFromPanickingFetcher(t *testing.T) {
	web := &fakeFetcher{max: 1}
	a := NewAggregatorWith(map[Kind]Fetcher{KindWeb: web, KindFeed: panicFetcher{}})
	raw := []any{
		map[string]any{"name": "broken", "type": "rss", "url": "u"},
		"https://ok.example.com",
	}

	got := a.Aggregate(context.Background(), raw, 4)
	if len(got) != 1 || got[0].Source != "https://ok.example.com" {
		t.Fatalf("expected the healthy source to still be fetched, got %+v", got)
	}
}
