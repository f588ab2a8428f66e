package resolver_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/veronavoice/concierge/backend/internal/config"
	"github.com/veronavoice/concierge/backend/internal/model/catalog"
	"github.com/veronavoice/concierge/backend/internal/model/intent"
	"github.com/veronavoice/concierge/backend/internal/service/resolver"
)

type fakeChatModel struct {
	reply     string
	err       error
	lastInput []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported in fake")
}

func (f *fakeChatModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func testStore() *catalog.Store {
	return catalog.NewStore([]catalog.Product{
		{ID: "d1", Name: "Summer Dress", Price: 499, Category: "Apparel", Description: "Light and airy."},
		{ID: "d2", Name: "Club Dress Black", Price: 669, Category: "Apparel", Description: "Athletic black dress."},
	}, []catalog.FaqItem{
		{ID: "faq1", Question: "What is your return policy?", Answer: "30 days."},
	})
}

func testCfg() config.ConciergeConfig {
	return config.ConciergeConfig{AgentName: "Luca", StoreName: "Verona Voice"}
}

func newService(t *testing.T, m *fakeChatModel) *resolver.Service {
	t.Helper()
	svc, err := resolver.NewService(context.Background(), m, testStore(), testCfg())
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	return svc
}

func TestResolveDecodesFencedReply(t *testing.T) {
	m := &fakeChatModel{reply: "```json\n{\"intent\":\"ADD_TO_CART\",\"productId\":\"d1\",\"message\":\"Adding Summer Dress to your cart.\"}\n```"}
	svc := newService(t, m)

	resp := svc.Resolve(context.Background(), "add the summer dress", resolver.Context{})
	if resp.Intent != intent.AddToCart || resp.ProductID != "d1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestResolveModelFailureFallsBack(t *testing.T) {
	m := &fakeChatModel{err: errors.New("upstream timeout")}
	svc := newService(t, m)

	resp := svc.Resolve(context.Background(), "hello", resolver.Context{})
	if resp.Intent != intent.Error || resp.Message != intent.FallbackMessage {
		t.Fatalf("expected fallback, got %+v", resp)
	}
}

func TestResolveInvalidReplyFallsBack(t *testing.T) {
	m := &fakeChatModel{reply: "happy to help!"}
	svc := newService(t, m)

	resp := svc.Resolve(context.Background(), "hello", resolver.Context{})
	if resp.Intent != intent.Error {
		t.Fatalf("expected error intent, got %+v", resp)
	}
}

func TestResolveEmbedsUtteranceAndCatalog(t *testing.T) {
	m := &fakeChatModel{reply: `{"intent":"GENERAL_QUERY","message":"ok"}`}
	svc := newService(t, m)

	svc.Resolve(context.Background(), "show me the club dress", resolver.Context{})

	if len(m.lastInput) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(m.lastInput))
	}
	system := m.lastInput[0].Content
	if !strings.Contains(system, "Club Dress Black (ID: d2") {
		t.Fatalf("system prompt missing product inventory:\n%s", system)
	}
	if !strings.Contains(system, "What is your return policy?") {
		t.Fatal("system prompt missing FAQ catalog")
	}
	if m.lastInput[1].Content != "show me the club dress" {
		t.Fatalf("unexpected user message: %q", m.lastInput[1].Content)
	}
}

func TestPromptContextBlock(t *testing.T) {
	store := testStore()
	withCtx := resolver.BuildPrompt("Luca", "Verona Voice", store.Products(), store.Faqs(), []string{"d2", "d1"})

	if !strings.Contains(withCtx, "Context from previous turn") {
		t.Fatal("expected context block")
	}
	if !strings.Contains(withCtx, "Club Dress Black (ID: d2)") {
		t.Fatal("context block should name the recommended product")
	}
	// The ambiguous-reference tie-break binds to the first listed id.
	if !strings.Contains(withCtx, "*first product ID listed in the context above*") {
		t.Fatal("context block missing first-id tie-break instruction")
	}
	if !strings.Contains(withCtx, `"add the second one"`) {
		t.Fatal("context block missing ordinal override instruction")
	}

	withoutCtx := resolver.BuildPrompt("Luca", "Verona Voice", store.Products(), store.Faqs(), nil)
	if strings.Contains(withoutCtx, "Context from previous turn") {
		t.Fatal("context block must be absent without prior recommendations")
	}
}

func TestPromptMarksUnknownContextIDs(t *testing.T) {
	store := testStore()
	prompt := resolver.BuildPrompt("Luca", "Verona Voice", store.Products(), store.Faqs(), []string{"ghost"})
	if !strings.Contains(prompt, "Unknown Product (ID: ghost)") {
		t.Fatal("unknown context ids should be labelled")
	}
}
