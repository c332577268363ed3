package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wurt83ow/worktravel/internal/app"
)

// @title Work Travel API
// @version 1.0
// @description Work days, travel costs and monthly reports of field employees.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	// Create a root context with the possibility of cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Create a channel for signal handling
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGTERM)

	// Start the server
	server := app.NewServer(ctx)
	go func() {
		// Wait for a signal
		sig := <-signalCh
		log.Printf("Received signal: %+v", sig)

		// Cancel the context, Serve shuts the server down
		cancel()
	}()

	// Start the server
	server.Serve()
}
