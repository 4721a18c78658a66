package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const untitledEntry = "Untitled"

// FeedFetcher 解析 RSS / Atom 订阅源，按顺序取前 limit 条
type FeedFetcher struct {
	parser *gofeed.Parser
}

func NewFeedFetcher(timeout time.Duration, userAgent string) *FeedFetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &FeedFetcher{parser: p}
}

func (f *FeedFetcher) Fetch(ctx context.Context, src Source, limit int) Result {
	feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return Result{Stages: []Stage{{
			Name:   "feed",
			Status: StageFailed,
			Err:    fmt.Errorf("feed: parse %s: %w", src.URL, err),
		}}}
	}

	items := feed.Items
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}

	name := src.Name
	if name == "" {
		name = src.URL
	}

	articles := make([]Article, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		articles = append(articles, entryToArticle(item, name))
	}

	status := StageOK
	if len(articles) == 0 {
		status = StageEmpty
	}
	return Result{Articles: articles, Stages: []Stage{{Name: "feed", Status: status}}}
}

// entryToArticle 正文依次取 description(summary) → content → title，去掉 HTML 标签
func entryToArticle(item *gofeed.Item, source string) Article {
	raw := firstNonEmpty(item.Description, item.Content, item.Title)

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = untitledEntry
	}

	return Article{
		Title:     title,
		Text:      htmlToText(raw),
		URL:       item.Link,
		Source:    source,
		Published: firstNonEmpty(item.Published, item.Updated),
	}
}

// htmlToText 将 HTML 片段转为纯文本；解析失败时原样返回
func htmlToText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpace(s)
	}
	return selectionText(doc.Selection)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
