package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/LJTian/JugNews/internal/config"
	"github.com/LJTian/JugNews/internal/processor"
	"github.com/gin-gonic/gin"
)

// Digester 对单个分类执行聚合
type Digester interface {
	Digest(ctx context.Context, category string, raw []any, maxArticles, sentences int) processor.Digest
}

type Server struct {
	pipeline Digester
	cfg      *config.Config
	// 每次请求重新读取配置，修改数据源无需重启
	loadCatalog func(path string) (*config.Catalog, error)
}

func NewServer(p Digester, cfg *config.Config) *Server {
	return &Server{pipeline: p, cfg: cfg, loadCatalog: config.LoadCatalog}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	g := r.Group("/api")
	{
		g.GET("/categories", s.listCategories)
		g.GET("/scrape", s.scrape)
		g.GET("/dashboard", s.dashboard)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listCategories(c *gin.Context) {
	cat, ok := s.catalog(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cat.Categories()})
}

func (s *Server) scrape(c *gin.Context) {
	cat, ok := s.catalog(c)
	if !ok {
		return
	}

	category := c.DefaultQuery("category", "finance")
	sources, err := cat.Sources(category)
	if errors.Is(err, config.ErrUnknownCategory) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "not_found",
			"message": "unknown category",
		})
		return
	}

	maxArticles := queryInt(c, "max_articles", s.cfg.DefaultMaxArticles)
	sentences := queryInt(c, "summary_sentences", s.cfg.DefaultSummarySentences)

	d := s.pipeline.Digest(c.Request.Context(), category, sources, maxArticles, sentences)
	c.JSON(http.StatusOK, d)
}

func (s *Server) dashboard(c *gin.Context) {
	cat, ok := s.catalog(c)
	if !ok {
		return
	}

	maxArticles := queryInt(c, "max_articles_per_category", s.cfg.DefaultMaxArticles)
	sentences := queryInt(c, "summary_sentences", s.cfg.DefaultSummarySentences)

	payload := make(dashboardPayload, 0, len(cat.Categories()))
	for _, category := range cat.Categories() {
		sources, _ := cat.Sources(category)
		d := s.pipeline.Digest(c.Request.Context(), category, sources, maxArticles, sentences)
		payload = append(payload, dashboardEntry{
			category: category,
			Articles: d.Articles,
			Insights: d.Insights,
		})
	}

	c.JSON(http.StatusOK, gin.H{"categories": payload})
}

type dashboardEntry struct {
	category string
	Articles []processor.ProcessedArticle `json:"articles"`
	Insights processor.Insights           `json:"insights"`
}

// dashboardPayload 序列化为以分类为键的 JSON 对象，键按配置文件顺序输出
type dashboardPayload []dashboardEntry

func (p dashboardPayload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.category)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Server) catalog(c *gin.Context) (*config.Catalog, bool) {
	cat, err := s.loadCatalog(s.cfg.SourcesPath)
	if err != nil {
		log.Printf("api: load catalog: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return nil, false
	}
	return cat, true
}

// queryInt 解析正整数参数，非法或缺省时使用默认值
func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
