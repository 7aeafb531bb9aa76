package intake

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/schema"
	"github.com/sells-group/lead-intake/pkg/anthropic"
)

// ErrBriefingFailed is returned when the briefing call does not yield
// a valid sales brief. Briefing gets exactly one call; a stale brief
// is worse than no brief, so there is no retry.
var ErrBriefingFailed = eris.New("briefing failed")

// briefTemperature allows mild phrasing variation while keeping the
// brief grounded in the extracted intent.
const briefTemperature = 0.2

const briefSystem = `You are a sales coach at a car dealership. Given a buyer's extracted purchase intent, write a brief for the salesperson who will take the handoff. Return ONLY a JSON object with this shape:

{
  "bullets": ["..."],
  "first_question": "...",
  "vehicle_recos": [{"name": "...", "why": "..."}],
  "tone": "reassuring|payment-sensitive|direct|consultative"
}

Rules:
- 2 to 8 bullets, each a concrete fact or signal from the intent.
- first_question is the single best opening question for this buyer.
- 1 to 3 vehicle_recos, each naming a specific trim or configuration.
- Pick the tone from the buyer's signals (credit anxiety, urgency, budget pressure).
- Keep the whole brief under 120 words.
- Never invent facts that are not in the intent.`

// Briefer turns extracted intent into a salesperson brief.
type Briefer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewBriefer creates a Briefer using the given model.
func NewBriefer(client anthropic.Client, modelID string, maxTokens int64) *Briefer {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Briefer{client: client, model: modelID, maxTokens: maxTokens}
}

// Brief makes a single model call over the extracted intent. An
// unparseable or invalid response returns ErrBriefingFailed.
func (b *Briefer) Brief(ctx context.Context, extracted *model.Extracted) (*model.SalesBrief, error) {
	intentJSON, err := json.Marshal(extracted)
	if err != nil {
		return nil, eris.Wrap(err, "brief: marshal intent")
	}

	temp := briefTemperature
	resp, err := b.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     b.model,
		MaxTokens: b.maxTokens,
		System:    anthropic.BuildCachedSystemBlocks(briefSystem),
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf("Extracted buyer intent:\n%s", intentJSON)},
		},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrapf(ErrBriefingFailed, "brief: %v", err)
	}
	resp.Usage.LogCost(b.model, "brief")

	cleaned := CleanJSON(resp.Text())

	var brief model.SalesBrief
	if err := json.Unmarshal([]byte(cleaned), &brief); err != nil {
		return nil, eris.Wrapf(ErrBriefingFailed, "brief: parse JSON: %v", err)
	}
	if err := schema.ValidateSalesBrief(&brief); err != nil {
		return nil, eris.Wrapf(ErrBriefingFailed, "brief: %v", err)
	}
	return &brief, nil
}
