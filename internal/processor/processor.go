package processor

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/LJTian/JugNews/internal/collector"
)

// ProcessedArticle 输出给接口层的文章，正文已被摘要替代
type ProcessedArticle struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	Published string `json:"published,omitempty"`
	Stub      bool   `json:"stub,omitempty"`
	Summary   string `json:"summary"`
}

// Digest 一个分类的聚合结果
type Digest struct {
	Category string             `json:"category"`
	Articles []ProcessedArticle `json:"articles"`
	Insights Insights           `json:"insights"`
}

// SimpleProcessor 逐篇生成摘要，再对整批文章做一次统计
type SimpleProcessor struct {
	summarizer Summarizer
	insights   *InsightExtractor
}

func NewSimpleProcessor() *SimpleProcessor {
	return NewProcessor(NewTextRankSummarizer(), NewInsightExtractor(DefaultInsightConfig()))
}

func NewProcessor(s Summarizer, e *InsightExtractor) *SimpleProcessor {
	return &SimpleProcessor{summarizer: s, insights: e}
}

func (p *SimpleProcessor) Process(category string, items []collector.Article, sentences int) Digest {
	out := make([]ProcessedArticle, 0, len(items))
	docs := make([]Document, 0, len(items))

	for _, it := range items {
		summary := p.summarizer.Summarize(it.Text, sentences)

		out = append(out, ProcessedArticle{
			ID:        hashURL(it.URL),
			Title:     strings.TrimSpace(it.Title),
			URL:       it.URL,
			Source:    it.Source,
			Published: it.Published,
			Stub:      it.Stub,
			Summary:   summary,
		})

		body := summary
		if body == "" {
			body = it.Text
		}
		docs = append(docs, Document{Title: it.Title, Body: body, Source: it.Source})
	}

	return Digest{
		Category: category,
		Articles: out,
		Insights: p.insights.Extract(category, docs),
	}
}

func hashURL(url string) string {
	h := sha1.New()
	h.Write([]byte(url))
	return hex.EncodeToString(h.Sum(nil))
}
