package intent_test

import (
	"reflect"
	"testing"

	"github.com/veronavoice/concierge/backend/internal/model/intent"
)

func TestDecodeFencedMatchesUnfenced(t *testing.T) {
	raw := `{"intent":"GET_PRODUCT_RECOMMENDATION","query":"summer dress","suggestedProductIds":["2193051"],"message":"How about this one?"}`
	fenced := "```json\n" + raw + "\n```"

	plain, err := intent.Decode(raw)
	if err != nil {
		t.Fatalf("Decode plain err: %v", err)
	}
	wrapped, err := intent.Decode(fenced)
	if err != nil {
		t.Fatalf("Decode fenced err: %v", err)
	}

	if !reflect.DeepEqual(plain, wrapped) {
		t.Fatalf("fenced decode mismatch: %+v vs %+v", wrapped, plain)
	}
}

func TestDecodeNormalizesRecommendationSlices(t *testing.T) {
	resp, err := intent.Decode(`{"intent":"GET_PRODUCT_RECOMMENDATION","message":"Have a look around."}`)
	if err != nil {
		t.Fatalf("Decode err: %v", err)
	}
	if resp.SuggestedProductIDs == nil || resp.SuggestedKeywords == nil {
		t.Fatal("expected suggestion slices to be non-nil after decode")
	}
	if len(resp.SuggestedProductIDs) != 0 || len(resp.SuggestedKeywords) != 0 {
		t.Fatalf("expected empty suggestion slices, got %+v", resp)
	}
}

func TestDecodeRejectsBadReplies(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "I would love to help!"},
		{"unknown tag", `{"intent":"ORDER_PIZZA","message":"sure"}`},
		{"missing tag", `{"message":"sure"}`},
		{"missing message", `{"intent":"GENERAL_QUERY"}`},
		{"blank message", `{"intent":"GENERAL_QUERY","message":"   "}`},
	}

	for _, tc := range cases {
		if _, err := intent.Decode(tc.raw); err == nil {
			t.Fatalf("%s: expected decode error", tc.name)
		}
	}
}

func TestFallbackIsErrorVariant(t *testing.T) {
	resp := intent.Fallback()
	if resp.Intent != intent.Error {
		t.Fatalf("unexpected intent: %s", resp.Intent)
	}
	if resp.Message != intent.FallbackMessage {
		t.Fatalf("unexpected message: %s", resp.Message)
	}
}
