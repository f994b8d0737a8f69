package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/nizami/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := openApp(cmd.Context())
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer a.close()

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = a.cfg.Server.Port
		}

		handler := api.NewHandler(a.svc)
		router := api.NewRouter(handler, a.cfg.Server.AllowedOrigins)

		server := &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			log.Printf("Server starting on http://localhost:%d (%s storage at %s)",
				port, a.cfg.Storage.Driver, a.cfg.Storage.Path)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Server failed: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return
		}

		log.Println("Server stopped")
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP port (overrides server.port)")
}
