package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LJTian/JugNews/internal/config"
	"github.com/LJTian/JugNews/internal/pipeline"
	"github.com/LJTian/JugNews/internal/processor"
	"github.com/LJTian/JugNews/internal/scheduler"
	"github.com/spf13/cobra"
)

var (
	flagCategories  []string
	flagMaxArticles int
	flagSentences   int
	flagCron        string
)

// 命令行入口：默认对所有分类执行一轮聚合后退出；指定 --cron 则按周期执行。
// 结果以每行一个 JSON 输出到 stdout，日志输出到 stderr。
var rootCmd = &cobra.Command{
	Use:   "collect",
	Short: "Aggregate, summarize and analyse news for configured categories",
	RunE:  runCollect,
}

func init() {
	rootCmd.Flags().StringSliceVar(&flagCategories, "category", nil, "categories to collect (default: all in the catalog)")
	rootCmd.Flags().IntVar(&flagMaxArticles, "max-articles", 0, "maximum articles per category")
	rootCmd.Flags().IntVar(&flagSentences, "summary-sentences", 0, "sentences per summary")
	rootCmd.Flags().StringVar(&flagCron, "cron", "", "cron spec; run periodically instead of once")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if flagMaxArticles <= 0 {
		flagMaxArticles = cfg.DefaultMaxArticles
	}
	if flagSentences <= 0 {
		flagSentences = cfg.DefaultSummarySentences
	}
	spec := flagCron
	if spec == "" {
		spec = cfg.CronSpec
	}

	cat, err := config.LoadCatalog(cfg.SourcesPath)
	if err != nil {
		return err
	}
	categories := flagCategories
	if len(categories) == 0 {
		categories = cat.Categories()
	}
	for _, c := range categories {
		if _, err := cat.Sources(c); err != nil {
			return err
		}
	}

	p := pipeline.New(cfg)
	job := func(ctx context.Context, category string) (processor.Digest, error) {
		// 周期运行时每轮重新读取配置
		cat, err := config.LoadCatalog(cfg.SourcesPath)
		if err != nil {
			return processor.Digest{}, err
		}
		sources, err := cat.Sources(category)
		if err != nil {
			return processor.Digest{}, err
		}
		return p.Digest(ctx, category, sources, flagMaxArticles, flagSentences), nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	sink := func(d processor.Digest) {
		if err := enc.Encode(d); err != nil {
			log.Printf("collect: encode %s: %v", d.Category, err)
		}
	}

	if spec == "" {
		// 单次运行按分类顺序输出
		for _, c := range categories {
			d, err := job(cmd.Context(), c)
			if err != nil {
				return fmt.Errorf("collect %s: %w", c, err)
			}
			sink(d)
		}
		return nil
	}

	s, err := scheduler.New(spec, categories, job, sink)
	if err != nil {
		return fmt.Errorf("init scheduler failed: %w", err)
	}
	s.Start()
	log.Printf("collect: scheduled %d categories with %q", len(categories), spec)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("collect: shutting down...")
	s.Stop()
	return nil
}
