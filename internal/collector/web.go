package collector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/gocolly/colly/v2"
)

const (
	webMaxBodyBytes    = 4 << 20 // 4MB，防止超大页面
	webMaxTextRunes    = 20000
	webMinParagraphLen = 6 // 段落至少需要超过 6 个词
)

// Extraction 正文提取的结果
type Extraction struct {
	Title string
	Text  string
}

// Extractor 整页正文提取策略（readability 一类算法）
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (Extraction, error)
}

// Scraper 正文提取失败后的通用兜底抓取策略
type Scraper interface {
	Scrape(ctx context.Context, pageURL string) (string, error)
}

// ReadabilityExtractor 下载页面后交给 go-readability 解析标题与正文
type ReadabilityExtractor struct {
	Client    *http.Client
	UserAgent string
}

func NewReadabilityExtractor(timeout time.Duration, userAgent string) *ReadabilityExtractor {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &ReadabilityExtractor{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

func (r *ReadabilityExtractor) Extract(ctx context.Context, pageURL string) (Extraction, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return Extraction{}, fmt.Errorf("readability: parse url: %w", err)
	}

	body, err := r.download(ctx, u.String())
	if err != nil {
		return Extraction{}, err
	}

	doc, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return Extraction{}, fmt.Errorf("readability: parse %s: %w", pageURL, err)
	}

	return Extraction{
		Title: strings.TrimSpace(doc.Title),
		Text:  strings.TrimSpace(doc.TextContent),
	}, nil
}

func (r *ReadabilityExtractor) download(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("readability: new request: %w", err)
	}
	req.Header.Set("User-Agent", r.UserAgent)

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("readability: fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, webMaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("readability: read %s: %w", pageURL, err)
	}
	return body, nil
}

// ParagraphScraper 用 colly 抓取页面，拼接所有足够长的 <p> 段落
type ParagraphScraper struct {
	Timeout   time.Duration
	UserAgent string
}

func NewParagraphScraper(timeout time.Duration, userAgent string) *ParagraphScraper {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &ParagraphScraper{Timeout: timeout, UserAgent: userAgent}
}

func (p *ParagraphScraper) Scrape(ctx context.Context, pageURL string) (string, error) {
	c := colly.NewCollector(
		colly.UserAgent(p.UserAgent),
		colly.MaxBodySize(webMaxBodyBytes),
	)
	c.SetRequestTimeout(p.Timeout)
	c.WithTransport(&contextTransport{ctx: ctx, base: http.DefaultTransport})

	// 请求上下文被取消后不再发起请求
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	var paragraphs []string
	c.OnHTML("article p, p", func(e *colly.HTMLElement) {
		text := selectionText(e.DOM)
		if len(strings.Fields(text)) > webMinParagraphLen {
			paragraphs = append(paragraphs, text)
		}
	})

	if err := c.Visit(pageURL); err != nil {
		return "", fmt.Errorf("scrape %s: %w", pageURL, err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("scrape %s: %w", pageURL, err)
	}

	return truncateRunes(collapseSpace(strings.Join(paragraphs, " ")), webMaxTextRunes), nil
}

// contextTransport 把调用方的 ctx 绑定到 colly 发出的每个请求上，取消时中断进行中的下载
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// selectionText 按文本节点取文字并以空格连接，避免相邻行内元素的文字粘连
func selectionText(sel *goquery.Selection) string {
	var parts []string
	collectText(sel, &parts)
	return collapseSpace(strings.Join(parts, " "))
}

func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			if t := strings.TrimSpace(c.Text()); t != "" {
				*parts = append(*parts, t)
			}
		case "script", "style", "#comment":
		default:
			collectText(c, parts)
		}
	})
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

// WebFetcher 普通网页：readability 提取 → 段落兜底抓取
type WebFetcher struct {
	Extractor Extractor
	Scraper   Scraper
}

func NewWebFetcher(timeout time.Duration, userAgent string) *WebFetcher {
	return &WebFetcher{
		Extractor: NewReadabilityExtractor(timeout, userAgent),
		Scraper:   NewParagraphScraper(timeout, userAgent),
	}
}

// Fetch 网页类数据源固定产出一篇文章，limit 不影响结果
func (w *WebFetcher) Fetch(ctx context.Context, src Source, limit int) Result {
	var (
		stages []Stage
		title  string
		text   string
	)

	ex, err := w.Extractor.Extract(ctx, src.URL)
	switch {
	case err != nil:
		stages = append(stages, Stage{Name: "readability", Status: StageFailed, Err: err})
	case ex.Text == "":
		title = ex.Title
		stages = append(stages, Stage{Name: "readability", Status: StageEmpty})
	default:
		title, text = ex.Title, ex.Text
		stages = append(stages, Stage{Name: "readability", Status: StageOK})
	}

	if text == "" {
		scraped, err := w.Scraper.Scrape(ctx, src.URL)
		switch {
		case err != nil:
			log.Printf("web: fallback scrape %s: %v", src.URL, err)
			stages = append(stages, Stage{Name: "paragraphs", Status: StageFailed, Err: err})
		case scraped == "":
			stages = append(stages, Stage{Name: "paragraphs", Status: StageEmpty})
		default:
			text = scraped
			stages = append(stages, Stage{Name: "paragraphs", Status: StageOK})
		}
	}

	if title == "" {
		title = src.URL
	}
	name := src.Name
	if name == "" {
		name = src.URL
	}

	return Result{
		Articles: []Article{{
			Title:  title,
			Text:   text,
			URL:    src.URL,
			Source: name,
		}},
		Stages: stages,
	}
}
