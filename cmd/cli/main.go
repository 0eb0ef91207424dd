package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/client/cli"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := cli.NewApp(cfg)
	args := flagx.Positional(os.Args[1:], []string{"-a", "-t", "-c", "-config"})
	os.Exit(app.Run(ctx, args))
}
