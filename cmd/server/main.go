package main

import (
	"log"

	"github.com/campaignsite/internal/config"
	"github.com/campaignsite/internal/db"
	"github.com/campaignsite/internal/handler"
	"github.com/campaignsite/internal/router"
	"github.com/campaignsite/internal/service"
)

func main() {
	cfg := config.Load()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	library := service.NewGalleryLibrary(service.NewGormStore(db.DB))
	if err := library.Initialize(); err != nil {
		log.Fatalf("failed to seed galleries: %v", err)
	}

	api := handler.NewAPI(cfg, library)

	// 设置并运行 Gin 服务器
	r := router.Setup(cfg, api)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
