package processor

import (
	"fmt"
	"log"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

const (
	DefaultSummarySentences = 3
	// 少于该词数的文本（如 RSS 简介）不做抽取式摘要
	minSummaryWords      = 40
	fallbackSummaryRunes = 800
)

// Summarizer 将正文压缩为摘要
type Summarizer interface {
	Summarize(text string, count int) string
}

// SentenceSplitter 分句策略
type SentenceSplitter interface {
	Split(text string) ([]string, error)
}

// Ranker 句子打分策略，输入为每个句子的词序列，输出与输入等长的分数
type Ranker interface {
	Rank(sentenceWords [][]string) []float64
}

// ExtractiveSummarizer 分句 → 打分 → 取前 N 句并按原文顺序输出
type ExtractiveSummarizer struct {
	Splitter SentenceSplitter
	Ranker   Ranker
}

// NewTextRankSummarizer 默认使用 Punkt 英文分句与 TextRank 打分
func NewTextRankSummarizer() *ExtractiveSummarizer {
	return &ExtractiveSummarizer{
		Splitter: &PunktSplitter{},
		Ranker:   NewTextRank(),
	}
}

func (s *ExtractiveSummarizer) Summarize(text string, count int) string {
	if count <= 0 {
		count = DefaultSummarySentences
	}
	if text == "" || len(strings.Fields(text)) < minSummaryWords {
		return leadingRunes(text, fallbackSummaryRunes)
	}

	summary, err := s.summarize(text, count)
	if err != nil {
		log.Printf("summarize: fallback to leading text: %v", err)
		return leadingRunes(text, fallbackSummaryRunes)
	}
	return summary
}

func (s *ExtractiveSummarizer) summarize(text string, count int) (summary string, err error) {
	// 上游文本来自未校验的网页抓取，任何异常都走截断兜底
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	sents, err := s.Splitter.Split(text)
	if err != nil {
		return "", fmt.Errorf("split sentences: %w", err)
	}
	if len(sents) == 0 {
		return "", fmt.Errorf("no sentences found")
	}

	words := make([][]string, len(sents))
	for i, sent := range sents {
		words[i] = sentenceWords(sent)
	}

	scores := s.Ranker.Rank(words)
	if len(scores) != len(sents) {
		return "", fmt.Errorf("ranker returned %d scores for %d sentences", len(scores), len(sents))
	}

	order := make([]int, len(sents))
	for i := range order {
		order[i] = i
	}
	// 分数相同时保持原文顺序
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if count < len(order) {
		order = order[:count]
	}
	sort.Ints(order)

	picked := make([]string, 0, len(order))
	for _, idx := range order {
		picked = append(picked, sents[idx])
	}
	summary = strings.Join(picked, " ")
	if summary == "" {
		return "", fmt.Errorf("empty summary")
	}
	return summary, nil
}

var wordPattern = regexp.MustCompile(`\p{L}[\p{L}'\-]*`)

func sentenceWords(sentence string) []string {
	return wordPattern.FindAllString(strings.ToLower(sentence), -1)
}

func leadingRunes(s string, limit int) string {
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

// PunktSplitter 基于 neurosnap/sentences 的英文 Punkt 分句，训练数据只加载一次
type PunktSplitter struct {
	once sync.Once
	tok  *sentences.DefaultSentenceTokenizer
	err  error
}

func (p *PunktSplitter) Split(text string) ([]string, error) {
	p.once.Do(func() {
		p.tok, p.err = english.NewSentenceTokenizer(nil)
	})
	if p.err != nil {
		return nil, fmt.Errorf("load punkt tokenizer: %w", p.err)
	}

	sents := p.tok.Tokenize(text)
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// TextRank 句子相似度图上的 PageRank
type TextRank struct {
	Damping float64
	Epsilon float64
	MaxIter int
}

func NewTextRank() *TextRank {
	return &TextRank{Damping: 0.85, Epsilon: 1e-4, MaxIter: 100}
}

const zeroDivisionPrevention = 1e-7

func (tr *TextRank) Rank(sentenceWords [][]string) []float64 {
	n := len(sentenceWords)
	if n == 0 {
		return nil
	}

	weights := make([][]float64, n)
	for i := range weights {
		weights[i] = make([]float64, n)
	}
	// 包含 i == j 的自相似项
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			w := edgeWeight(sentenceWords[i], sentenceWords[j])
			weights[i][j] = w
			weights[j][i] = w
		}
	}

	// 按行归一化后与阻尼项组合成转移矩阵
	base := (1 - tr.Damping) / float64(n)
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += weights[i][j]
		}
		for j := 0; j < n; j++ {
			weights[i][j] = base + tr.Damping*weights[i][j]/(sum+zeroDivisionPrevention)
		}
	}

	p := make([]float64, n)
	for i := range p {
		p[i] = 1 / float64(n)
	}
	for iter := 0; iter < tr.MaxIter; iter++ {
		next := make([]float64, n)
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				next[j] += weights[i][j] * p[i]
			}
		}
		var delta float64
		for i := range next {
			d := next[i] - p[i]
			delta += d * d
		}
		p = next
		if math.Sqrt(delta) < tr.Epsilon {
			break
		}
	}
	return p
}

// edgeWeight 两句的共有词数 / (ln|a| + ln|b|)
func edgeWeight(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	counts := make(map[string]int, len(b))
	for _, w := range b {
		counts[w]++
	}
	var rank int
	for _, w := range a {
		rank += counts[w]
	}
	if rank == 0 {
		return 0
	}
	norm := math.Log(float64(len(a))) + math.Log(float64(len(b)))
	if math.Abs(norm) < 1e-9 {
		return float64(rank)
	}
	return float64(rank) / norm
}
