package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/formkiosk/internal/config"
	"github.com/dmitrijs2005/formkiosk/internal/kiosk"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := kiosk.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	app.Run(ctx)

}
