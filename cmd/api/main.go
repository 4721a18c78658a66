package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/LJTian/JugNews/internal/api"
	"github.com/LJTian/JugNews/internal/config"
	"github.com/LJTian/JugNews/internal/pipeline"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	// 启动时检查一次数据源配置，之后每个请求都会重新读取
	if _, err := config.LoadCatalog(cfg.SourcesPath); err != nil {
		log.Fatalf("load sources failed: %v", err)
	}

	p := pipeline.New(cfg)

	r := gin.Default()
	apiServer := api.NewServer(p, cfg)
	apiServer.RegisterRoutes(r)

	// 若配置了前端目录，则托管静态文件，未匹配 API 的 GET 均返回 index.html
	if cfg.WebRoot != "" {
		indexFile := filepath.Join(cfg.WebRoot, "index.html")
		if _, err := os.Stat(indexFile); err == nil {
			r.NoRoute(func(c *gin.Context) {
				if c.Request.Method != http.MethodGet {
					c.Status(http.StatusNotFound)
					return
				}
				file := filepath.Join(cfg.WebRoot, filepath.Clean("/"+c.Request.URL.Path))
				if st, err := os.Stat(file); err == nil && !st.IsDir() {
					c.File(file)
					return
				}
				c.File(indexFile)
			})
		} else {
			log.Printf("warn: web root %s has no index.html, static serving disabled", cfg.WebRoot)
		}
	}

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
