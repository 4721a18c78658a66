package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/LJTian/JugNews/internal/processor"
	"github.com/robfig/cron/v3"
)

// jobTimeout 单个分类一轮聚合的上限，防止某次运行无限挂起
const jobTimeout = 5 * time.Minute

// Job 对一个分类执行一次聚合
type Job func(ctx context.Context, category string) (processor.Digest, error)

// Sink 接收每个分类的聚合结果，调用是串行的
type Sink func(processor.Digest)

type Scheduler struct {
	cron       *cron.Cron
	categories []string
	job        Job
	sink       Sink
	mu         sync.Mutex
}

func New(spec string, categories []string, job Job, sink Sink) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:       c,
		categories: categories,
		job:        job,
		sink:       sink,
	}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	log.Println("start digest job...")

	var wg sync.WaitGroup
	for _, c := range s.categories {
		category := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			d, err := s.job(ctx, category)
			if err != nil {
				log.Printf("digest %s error: %v", category, err)
				return
			}

			s.mu.Lock()
			s.sink(d)
			s.mu.Unlock()
		}()
	}

	wg.Wait()
	log.Println("digest job done (all categories)")
}
