package main

import (
	"context"
	"log"
	"os"

	"github.com/sibeni-li/khronos/internal/buildinfo"
	"github.com/sibeni-li/khronos/internal/server"
	"github.com/sibeni-li/khronos/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
