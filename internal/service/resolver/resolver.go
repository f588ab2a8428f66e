package resolver

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/veronavoice/concierge/backend/internal/config"
	"github.com/veronavoice/concierge/backend/internal/model/catalog"
	"github.com/veronavoice/concierge/backend/internal/model/intent"
)

// Context carries the cross-turn reference state a resolution may bind
// anaphoric follow-ups against.
type Context struct {
	LastRecommendedProductIDs []string
}

// Service resolves user utterances into validated intents via the hosted
// language model. It is stateless between calls.
type Service struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	catalog *catalog.Store
	cfg     config.ConciergeConfig
}

// NewService compiles the prompt-template + chat-model chain.
func NewService(ctx context.Context, chatModel model.ChatModel, store *catalog.Store, cfg config.ConciergeConfig) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile concierge chain: %w", err)
	}

	return &Service{chain: runnable, catalog: store, cfg: cfg}, nil
}

// Resolve turns an utterance into an IntentResponse. It never returns an
// error: every failure path (network, timeout, unparseable or invalid
// reply) collapses to the Error variant with the fixed fallback message,
// with the underlying detail logged only.
func (s *Service) Resolve(ctx context.Context, utterance string, conv Context) intent.Response {
	input := map[string]any{
		"system": BuildPrompt(s.cfg.AgentName, s.cfg.StoreName, s.catalog.Products(), s.catalog.Faqs(), conv.LastRecommendedProductIDs),
		"query":  utterance,
	}

	reply, err := s.chain.Invoke(ctx, input)
	if err != nil {
		log.Printf("[resolver] model call failed: %v", err)
		return intent.Fallback()
	}

	resp, err := intent.Decode(reply.Content)
	if err != nil {
		log.Printf("[resolver] invalid model reply: %v", err)
		return intent.Fallback()
	}

	return resp
}
