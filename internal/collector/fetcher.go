package collector

import (
	"context"
	"fmt"
	"time"
)

const (
	// 单次网络请求超时，不做重试
	defaultFetchTimeout = 10 * time.Second
	// 兜底抓取使用的浏览器 UA
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
)

// Article 采集后的统一结构；Summary 由 processor 填充
type Article struct {
	Title     string `json:"title"`
	Text      string `json:"text,omitempty"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	Published string `json:"published,omitempty"`
	Stub      bool   `json:"stub,omitempty"`
}

// StageStatus 描述回退链中某一步的结果
type StageStatus int

const (
	StageOK StageStatus = iota
	StageEmpty
	StageFailed
)

func (s StageStatus) String() string {
	switch s {
	case StageOK:
		return "ok"
	case StageEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// Stage 记录一次抓取中某个环节的状态，降级过程以此显式体现
type Stage struct {
	Name   string
	Status StageStatus
	Err    error
}

func (s Stage) String() string {
	if s.Err != nil {
		return fmt.Sprintf("%s=%s (%v)", s.Name, s.Status, s.Err)
	}
	return s.Name + "=" + s.Status.String()
}

// Result 单个数据源的抓取结果，错误只会出现在 Stages 中
type Result struct {
	Articles []Article
	Stages   []Stage
}

// Degraded 是否经过了失败或空结果的环节
func (r Result) Degraded() bool {
	for _, st := range r.Stages {
		if st.Status != StageOK {
			return true
		}
	}
	return false
}

// Fetcher 抽象每一种数据源类型。实现方不得返回 error 或 panic，失败需降级为空结果。
type Fetcher interface {
	Fetch(ctx context.Context, src Source, limit int) Result
}

// StatusError 非 2xx 响应
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}
