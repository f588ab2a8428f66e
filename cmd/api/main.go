package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/veronavoice/concierge/backend/internal/config"
	"github.com/veronavoice/concierge/backend/internal/handler"
	"github.com/veronavoice/concierge/backend/internal/model/catalog"
	cartservice "github.com/veronavoice/concierge/backend/internal/service/cart"
	"github.com/veronavoice/concierge/backend/internal/service/dispatch"
	"github.com/veronavoice/concierge/backend/internal/service/orchestrator"
	"github.com/veronavoice/concierge/backend/internal/service/resolver"
	"github.com/veronavoice/concierge/backend/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	products, faqs := catalog.Seed()
	store := catalog.NewStore(products, faqs)
	cartSvc := cartservice.NewService(store)

	// Intent resolution is optional: without model credentials every turn
	// resolves to the fallback reply, which keeps the rest of the stack
	// usable for development.
	var resolverSvc *resolver.Service
	if cfg.AI.Enabled() {
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to initialize chat model: %v", err)
			log.Println("continuing without intent resolution - check the Ark environment variables")
		} else {
			resolverSvc, err = resolver.NewService(ctx, chatModel, store, cfg.Concierge)
			if err != nil {
				log.Printf("warning: failed to initialize intent resolver: %v", err)
			} else {
				log.Println("intent resolver initialized successfully")
			}
		}
	} else {
		log.Println("Ark credentials not configured, skipping intent resolution")
	}

	input := speech.NewInput()
	output := speech.NewOutput()
	notifier := orchestrator.NewNotifier()

	dispatcher := dispatch.New(store, cartSvc, func(path string) {
		notifier.Publish(orchestrator.Event{Type: orchestrator.EventNavigate, Path: path})
	})

	deps := orchestrator.Deps{
		Input:      input,
		Output:     output,
		Dispatcher: dispatcher,
		Catalog:    store,
		Notifier:   notifier,
		CartCount:  cartSvc.Count,
		AgentName:  cfg.Concierge.AgentName,
		StoreName:  cfg.Concierge.StoreName,
	}
	if resolverSvc != nil {
		deps.Resolver = resolverSvc
	}
	orch := orchestrator.New(deps)
	go orch.Run(ctx)

	router := handler.NewRouter(store, cartSvc, orch, input, output, notifier, cfg.Server.AllowedOrigins)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Verona Voice concierge backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
