package processor

import (
	"regexp"
	"sort"
	"strings"
)

// Insights 一批文章的统计信息，每次都从头计算
type Insights struct {
	Category         string   `json:"category"`
	ArticleCount     int      `json:"article_count"`
	SourceCount      int      `json:"source_count"`
	TopKeywords      []string `json:"top_keywords"`
	MentionedTickers []string `json:"mentioned_tickers"`
}

// InsightConfig 关键词停用词与股票代码黑名单
type InsightConfig struct {
	Stopwords       []string
	TickerBlocklist []string
	MaxKeywords     int
	MaxTickers      int
}

// DefaultInsightConfig 英文常见虚词加少量新闻高频词；黑名单为常见的机构缩写与代词
func DefaultInsightConfig() InsightConfig {
	return InsightConfig{
		Stopwords: []string{
			"the", "a", "an", "and", "or", "to", "of", "in", "on", "for",
			"with", "from", "at", "by", "is", "are", "was", "were", "be", "as",
			"that", "this", "it", "its", "new", "after", "over", "into", "about",
			"news", "says",
		},
		TickerBlocklist: []string{"THE", "AND", "WITH", "FROM", "US", "UAP", "UFO", "NASA", "BBC", "AP"},
		MaxKeywords:     8,
		MaxTickers:      6,
	}
}

// Document 参与统计的一篇文章：标题、摘要（或正文）与来源
type Document struct {
	Title  string
	Body   string
	Source string
}

// insightTokenPattern 按 Unicode 词字符切分，重音字母不会把单词截断
var (
	insightTokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	keywordPattern      = regexp.MustCompile(`^[a-z]{4,}$`)
	tickerPattern       = regexp.MustCompile(`^[A-Z]{1,5}$`)
)

// InsightExtractor 关键词与股票代码词频统计
type InsightExtractor struct {
	stopwords   map[string]struct{}
	blocked     map[string]struct{}
	maxKeywords int
	maxTickers  int
}

func NewInsightExtractor(cfg InsightConfig) *InsightExtractor {
	return &InsightExtractor{
		stopwords:   toSet(cfg.Stopwords, strings.ToLower),
		blocked:     toSet(cfg.TickerBlocklist, strings.ToUpper),
		maxKeywords: cfg.MaxKeywords,
		maxTickers:  cfg.MaxTickers,
	}
}

func toSet(words []string, norm func(string) string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[norm(w)] = struct{}{}
	}
	return set
}

func (e *InsightExtractor) Extract(category string, docs []Document) Insights {
	chunks := make([]string, 0, len(docs)*2)
	headlines := make([]string, 0, len(docs))
	sources := make(map[string]struct{})

	for _, d := range docs {
		chunks = append(chunks, d.Title, d.Body)
		if d.Title != "" {
			headlines = append(headlines, d.Title)
		}
		if d.Source != "" {
			sources[d.Source] = struct{}{}
		}
	}

	corpus := strings.ToLower(strings.Join(chunks, " "))
	words := filterOut(matchTokens(corpus, keywordPattern), e.stopwords)

	candidates := matchTokens(strings.Join(headlines, " "), tickerPattern)
	tickers := filterOut(candidates, e.blocked)

	return Insights{
		Category:         category,
		ArticleCount:     len(docs),
		SourceCount:      len(sources),
		TopKeywords:      mostCommon(words, e.maxKeywords),
		MentionedTickers: mostCommon(tickers, e.maxTickers),
	}
}

// matchTokens 先切出完整的词，再保留整体符合 pattern 的词
func matchTokens(text string, pattern *regexp.Regexp) []string {
	var out []string
	for _, tok := range insightTokenPattern.FindAllString(text, -1) {
		if pattern.MatchString(tok) {
			out = append(out, tok)
		}
	}
	return out
}

func filterOut(tokens []string, blocked map[string]struct{}) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if _, ok := blocked[t]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

// mostCommon 按词频降序取前 n 个，频次相同按首次出现顺序
func mostCommon(tokens []string, n int) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, t := range tokens {
		if _, ok := counts[t]; !ok {
			order = append(order, t)
		}
		counts[t]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if n < 0 {
		n = 0
	}
	if len(order) > n {
		order = order[:n]
	}
	return order
}
