package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/conduit/internal/admin"
	"github.com/dmitrijs2005/conduit/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app := admin.NewApp(cfg)
	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
