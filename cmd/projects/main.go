package main

import (
	"context"
	"log"
	"os"

	"github.com/diyprojects/projects/config"
	"github.com/diyprojects/projects/internal/logger"
	"github.com/diyprojects/projects/internal/projects/repository"
	"github.com/diyprojects/projects/internal/projects/service"
	"github.com/diyprojects/projects/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	ctx := context.Background()
	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		lg.LogError("startup", err)
		os.Exit(1)
	}
	defer db.Close()
	lg.LogInfof("startup", "connected to %s on %s:%d", cfg.Database.Name, cfg.Database.Host, cfg.Database.Port)

	svc := service.NewProjectService(repository.NewProjectRepository(db, lg), lg)
	newShell(svc, os.Stdin, os.Stdout).run(ctx)
}
