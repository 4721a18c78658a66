package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	// 分类 → 数据源列表的配置文件，支持 .json / .yaml / .yml
	SourcesPath string
	// 前端静态文件目录，为空则不托管
	WebRoot string

	FetchTimeout time.Duration
	UserAgent    string

	DefaultMaxArticles      int
	DefaultSummarySentences int

	// 为空时 collect 只执行一次
	CronSpec string
}

func Load() *Config {
	// 本地开发可使用 .env，文件不存在时忽略
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:                 getEnv("APP_PORT", "8000"),
		SourcesPath:             getEnv("SOURCES_PATH", "config/sources.json"),
		WebRoot:                 getEnv("WEB_ROOT", "static"),
		FetchTimeout:            getDuration("FETCH_TIMEOUT", 10*time.Second),
		UserAgent:               getEnv("FETCH_USER_AGENT", ""),
		DefaultMaxArticles:      getInt("DEFAULT_MAX_ARTICLES", 5),
		DefaultSummarySentences: getInt("DEFAULT_SUMMARY_SENTENCES", 3),
		CronSpec:                getEnv("CRON_SPEC", ""),
	}

	log.Printf("config loaded: port=%s sources=%s timeout=%s", cfg.AppPort, cfg.SourcesPath, cfg.FetchTimeout)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("warn: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("warn: invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
