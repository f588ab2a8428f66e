package intent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Tag identifies the recognized purpose of a user utterance. The set is
// closed: Decode rejects anything else, so downstream code never sees an
// unknown tag.
type Tag string

const (
	AddToCart                Tag = "ADD_TO_CART"
	NavigateToProduct        Tag = "NAVIGATE_TO_PRODUCT"
	GetProductRecommendation Tag = "GET_PRODUCT_RECOMMENDATION"
	AnswerFaq                Tag = "ANSWER_FAQ"
	NavigateToCheckout       Tag = "NAVIGATE_TO_CHECKOUT"
	GeneralQuery             Tag = "GENERAL_QUERY"
	Error                    Tag = "ERROR"
)

// FallbackMessage is spoken whenever the model reply cannot be used. The
// underlying failure is logged, never surfaced to the user.
const FallbackMessage = "I'm sorry, I encountered an issue. Please try again or rephrase your request."

// Response is the validated reply from the language model. Message is
// always non-empty after Decode; the other fields are tag-specific.
type Response struct {
	Intent  Tag    `json:"intent"`
	Message string `json:"message"`

	ProductID   string `json:"productId,omitempty"`
	ProductName string `json:"productName,omitempty"`

	Query               string   `json:"query,omitempty"`
	SuggestedProductIDs []string `json:"suggestedProductIds,omitempty"`
	SuggestedKeywords   []string `json:"suggestedKeywords,omitempty"`

	QuestionKey string `json:"questionKey,omitempty"`
	Answer      string `json:"answer,omitempty"`
}

// Fallback returns the Error variant with the fixed user-facing message.
func Fallback() Response {
	return Response{Intent: Error, Message: FallbackMessage}
}

// Models sometimes wrap the JSON reply in a markdown code fence despite
// being asked for raw JSON.
var fencePattern = regexp.MustCompile("(?s)^```(?:[a-zA-Z0-9]*)?\\s*\\n?(.*?)\\n?\\s*```$")

// StripFence removes a surrounding markdown code fence, if any.
func StripFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// Decode parses a model reply into a validated Response. The reply must be
// JSON (optionally fenced), declare one of the seven recognized intents and
// carry a non-empty message. Recommendation slices are defaulted to empty,
// never left nil.
func Decode(raw string) (Response, error) {
	var resp Response
	if err := json.Unmarshal([]byte(StripFence(raw)), &resp); err != nil {
		return Response{}, fmt.Errorf("parse model reply: %w", err)
	}

	if !knownTag(resp.Intent) {
		return Response{}, fmt.Errorf("unrecognized intent tag %q", resp.Intent)
	}
	if strings.TrimSpace(resp.Message) == "" {
		return Response{}, fmt.Errorf("model reply missing message for intent %q", resp.Intent)
	}

	if resp.Intent == GetProductRecommendation {
		if resp.SuggestedProductIDs == nil {
			resp.SuggestedProductIDs = []string{}
		}
		if resp.SuggestedKeywords == nil {
			resp.SuggestedKeywords = []string{}
		}
	}

	return resp, nil
}

func knownTag(tag Tag) bool {
	switch tag {
	case AddToCart, NavigateToProduct, GetProductRecommendation,
		AnswerFaq, NavigateToCheckout, GeneralQuery, Error:
		return true
	}
	return false
}
