package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/LJTian/JugNews/internal/collector"
	"github.com/LJTian/JugNews/internal/config"
	"github.com/LJTian/JugNews/internal/processor"
)

// Aggregator 抓取一个分类的全部数据源
type Aggregator interface {
	Aggregate(ctx context.Context, raw []any, maxArticles int) []collector.Article
}

// Processor 摘要 + 统计
type Processor interface {
	Process(category string, items []collector.Article, sentences int) processor.Digest
}

// Pipeline 串联采集与处理，是接口层和命令行共同的入口
type Pipeline struct {
	agg  Aggregator
	proc Processor
}

func New(cfg *config.Config) *Pipeline {
	return NewWith(
		collector.NewAggregator(cfg.FetchTimeout, cfg.UserAgent),
		processor.NewSimpleProcessor(),
	)
}

func NewWith(agg Aggregator, proc Processor) *Pipeline {
	return &Pipeline{agg: agg, proc: proc}
}

// Digest 对一个分类执行一次完整的抓取、摘要与统计
func (p *Pipeline) Digest(ctx context.Context, category string, raw []any, maxArticles, sentences int) processor.Digest {
	start := time.Now()
	articles := p.agg.Aggregate(ctx, raw, maxArticles)
	d := p.proc.Process(category, articles, sentences)
	log.Printf("digest %s done, sources=%d articles=%d cost=%s", category, len(raw), len(d.Articles), time.Since(start).Round(time.Millisecond))
	return d
}
