package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/veronavoice/concierge/backend/internal/config"
	"github.com/veronavoice/concierge/backend/internal/model/catalog"
	"github.com/veronavoice/concierge/backend/internal/model/intent"
	cartservice "github.com/veronavoice/concierge/backend/internal/service/cart"
	"github.com/veronavoice/concierge/backend/internal/service/dispatch"
	"github.com/veronavoice/concierge/backend/internal/service/resolver"
)

// Manual test harness for the resolver and dispatcher: feeds typed
// utterances through the same pipeline the voice session uses, without a
// browser or WebSocket in the loop.
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] failed to load .env, using system environment variables: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	utterance := flag.String("utterance", "", "resolve a single utterance and exit (default: interactive)")
	timeout := flag.Duration("timeout", 45*time.Second, "per-request timeout")
	flag.Parse()

	if !cfg.AI.Enabled() {
		log.Fatal("Ark credentials not configured: set ARK_API_KEY (or AK/SK pair) and ARK_MODEL")
	}

	ctx := context.Background()
	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Fatalf("failed to initialize chat model: %v", err)
	}

	products, faqs := catalog.Seed()
	store := catalog.NewStore(products, faqs)
	cartSvc := cartservice.NewService(store)

	resolverSvc, err := resolver.NewService(ctx, chatModel, store, cfg.Concierge)
	if err != nil {
		log.Fatalf("failed to initialize intent resolver: %v", err)
	}

	dispatcher := dispatch.New(store, cartSvc, func(path string) {
		fmt.Printf("  -> navigate %s\n", path)
	})

	var conv resolver.Context

	runTurn := func(text string) {
		turnCtx, cancel := context.WithTimeout(ctx, *timeout)
		defer cancel()

		resp := resolverSvc.Resolve(turnCtx, text, conv)
		fmt.Printf("  intent: %s\n", resp.Intent)
		if resp.Intent == intent.GetProductRecommendation {
			fmt.Printf("  suggested ids: %v keywords: %v\n", resp.SuggestedProductIDs, resp.SuggestedKeywords)
			for _, id := range resp.SuggestedProductIDs {
				if store.HasProduct(id) {
					conv.LastRecommendedProductIDs = append([]string(nil), resp.SuggestedProductIDs...)
					break
				}
			}
		}

		spoken := dispatcher.Dispatch(resp)
		fmt.Printf("  reply: %s\n", spoken)
		fmt.Printf("  cart: %d item(s)\n", cartSvc.Count())
	}

	if *utterance != "" {
		runTurn(*utterance)
		return
	}

	fmt.Println("Type an utterance and press enter (ctrl-d to quit).")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		runTurn(text)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read input: %v", err)
	}
}
