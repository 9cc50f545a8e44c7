package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"supermarket_api/api"
	"supermarket_api/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("error loading configuration: %v", err))
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	r := gin.Default()
	if err := api.InitRoutes(r, cfg, logger); err != nil {
		panic(fmt.Errorf("error initializing routes: %v", err))
	}

	if err := r.Run(cfg.Addr); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}
