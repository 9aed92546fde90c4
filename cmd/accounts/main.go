// Command accounts runs the account service that performs user removals.
package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/userhub/internal/server"
	"github.com/dmitrijs2005/userhub/internal/server/config"
)

func main() {
	ctx := context.Background()

	app, err := server.NewAccountsApp(ctx, config.MustLoad())
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("account service: %v", err)
	}
}
