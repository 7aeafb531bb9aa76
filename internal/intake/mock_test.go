package intake

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/lead-intake/pkg/anthropic"
)

// mockAnthropicClient is a testify mock of anthropic.Client.
type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// textResponse wraps text in a minimal MessageResponse.
func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		ID:         "msg_test",
		Model:      "claude-haiku-4-5-20251001",
		Content:    []anthropic.ContentBlock{{Type: "text", Text: text}},
		StopReason: "end_turn",
	}
}

// validExtractedJSON matches the transcript used in the end-to-end
// tests: two vehicles, monthly budget, a trade-in.
const validExtractedJSON = `{
  "vehicles": [
    {"make": "Toyota", "model": "RAV4", "year": null, "trim": null},
    {"make": "Honda", "model": "CR-V", "year": null, "trim": null}
  ],
  "budget": {"type": "monthly", "value": 600, "currency": "USD", "raw": "under 600/mo"},
  "timeline": {"explicit": null, "inferred": "lease ends November"},
  "trade_in": {"has_trade": true, "desc": "BMW", "vin": null, "mileage": null, "condition": null, "neg_equity_hint": false},
  "finance": {"preference": "Unknown", "credit_anxiety": false},
  "context": {"life_events": [], "priorities": [], "passengers": null, "usage": []},
  "risks": []
}`

const validBriefJSON = `{
  "bullets": [
    "Lease ends in November, shopping now",
    "Cross-shopping RAV4 and CR-V under $600/mo",
    "Has a BMW to trade"
  ],
  "first_question": "Is staying under $600 a month the main goal, or is it flexibility on the trade?",
  "vehicle_recos": [
    {"name": "RAV4 XLE AWD", "why": "fits the monthly budget with trade equity"}
  ],
  "tone": "consultative"
}`
