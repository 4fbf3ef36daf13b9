package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/atjgmj/data-intelligence-platform/internal/appcontext"
	"github.com/atjgmj/data-intelligence-platform/internal/http"
)

func main() {
	ctx, err := appcontext.Init()
	if err != nil {
		log.Fatalf("Failed to initialize context: %v", err)
	}

	defer func() {
		if err := ctx.Logger.Sync(); err != nil {
			fmt.Printf("Failed to sync logger: %v\n", err)
		}
	}()

	sqlDB, err := ctx.DB.DB()
	if err != nil {
		ctx.Logger.Fatal("Failed to get underlying SQL DB from GORM DB", zap.Error(err))
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			ctx.Logger.Fatal("Failed to close database connection", zap.Error(err))
		}
	}()

	service := http.NewHTTPService(ctx)

	if err := service.Engine().Run(":8000"); err != nil {
		ctx.Logger.Fatal("Failed to start the server", zap.Error(err))
	}
}
