package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"photo-quiz-service/internal/app"
	"photo-quiz-service/internal/config"
	"photo-quiz-service/internal/imagesearch"
	"photo-quiz-service/internal/storage"
	transport "photo-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "5000"
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Images.APIKey == "" {
		log.Printf("PEXELS_API_KEY not set; quiz questions will be served without images")
	}
	resolver := imagesearch.NewResolver(imagesearch.NewClient(imagesearch.Config{
		BaseURL: cfg.Images.BaseURL,
		APIKey:  cfg.Images.APIKey,
		Timeout: config.Duration(cfg.Images.Timeout, imagesearch.DefaultTimeout),
	}))

	uploads, err := storage.NewFSStore(cfg.Server.StaticDir)
	if err != nil {
		return err
	}

	writeTimeout := config.Duration(cfg.Server.WriteTimeout, 60*time.Second)
	budget := decorateBudget(config.Duration(cfg.Images.Budget, app.DefaultDecorateBudget), writeTimeout)
	service := app.NewQuizService(store, resolver, cfg.Images.Workers).WithDecorateBudget(budget)
	handler := transport.NewRouter(transport.Deps{
		Service:     service,
		Uploads:     uploads,
		StaticDir:   cfg.Server.StaticDir,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  config.Duration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: writeTimeout,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// decorateBudget keeps image lookups well inside the server write deadline so a slow
// provider still leaves time to write the quiz response.
func decorateBudget(configured, writeTimeout time.Duration) time.Duration {
	if writeTimeout <= 0 {
		return configured
	}
	if limit := writeTimeout * 2 / 3; configured <= 0 || configured > limit {
		return limit
	}
	return configured
}
