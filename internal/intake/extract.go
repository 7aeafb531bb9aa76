package intake

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/schema"
	"github.com/sells-group/lead-intake/pkg/anthropic"
)

// ErrExtractionFailed is returned when both extraction attempts fail
// to produce a valid structured intent.
var ErrExtractionFailed = eris.New("extraction failed")

// extractAttempts is the fixed call budget per transcript: one lenient
// attempt, one strict retry.
const extractAttempts = 2

// extractShapeHint is the JSON shape shown to the model. Field
// omissions are fine; validation fills defaults afterwards.
const extractShapeHint = `{
  "vehicles": [{"make": "Toyota", "model": "RAV4", "year": null, "trim": null}],
  "budget": {"type": "monthly|total|unknown", "value": 600, "currency": "USD", "raw": "under 600/mo"},
  "timeline": {"explicit": "0-30 days", "inferred": null},
  "trade_in": {"has_trade": true, "desc": "BMW", "vin": null, "mileage": null, "condition": null, "neg_equity_hint": false},
  "finance": {"preference": "Finance|Cash|Unknown", "credit_anxiety": false},
  "context": {"life_events": [], "priorities": [], "passengers": null, "usage": []},
  "risks": []
}`

const extractSystemLenient = `You are an intent extraction engine for a car dealership. Read a chat transcript between a buyer and an assistant and produce the buyer's purchase intent as a JSON object with this shape:

` + extractShapeHint + `

Use null for anything the buyer did not say. Never invent vehicles, budgets, or trade-ins that are not in the transcript. Return the JSON object only.`

const extractSystemStrict = `You are an intent extraction engine. Return ONLY a valid JSON object with this exact shape, no prose, no markdown, no code fences:

` + extractShapeHint + `

Use null for unknown fields. Output must start with '{' and end with '}'.`

// Extractor turns compiled transcripts into structured intent.
type Extractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewExtractor creates an Extractor using the given model.
func NewExtractor(client anthropic.Client, modelID string, maxTokens int64) *Extractor {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Extractor{client: client, model: modelID, maxTokens: maxTokens}
}

// Extract runs up to two model calls against the compiled transcript:
// a lenient first attempt, then a strict JSON-only retry. Both calls
// run at temperature 0. If neither yields a parseable, valid intent,
// it returns ErrExtractionFailed; it never falls back to an empty
// intent.
func (e *Extractor) Extract(ctx context.Context, compiledText string) (*model.Extracted, error) {
	systems := [extractAttempts]string{extractSystemLenient, extractSystemStrict}

	temp := 0.0
	var lastErr error
	for attempt := 0; attempt < extractAttempts; attempt++ {
		resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:       e.model,
			MaxTokens:   e.maxTokens,
			System:      anthropic.BuildCachedSystemBlocks(systems[attempt]),
			Messages:    []anthropic.Message{{Role: "user", Content: compiledText}},
			Temperature: &temp,
		})
		if err != nil {
			lastErr = err
			zap.L().Warn("extract: model call failed",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}
		resp.Usage.LogCost(e.model, "extract")

		extracted, err := parseExtracted(resp.Text())
		if err != nil {
			lastErr = err
			zap.L().Warn("extract: response rejected",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}
		return extracted, nil
	}

	return nil, eris.Wrapf(ErrExtractionFailed, "extract after %d attempts: %v", extractAttempts, lastErr)
}

// parseExtracted cleans, decodes, and validates one model response.
func parseExtracted(text string) (*model.Extracted, error) {
	cleaned := CleanJSON(text)

	var extracted model.Extracted
	if err := json.Unmarshal([]byte(cleaned), &extracted); err != nil {
		return nil, eris.Wrap(err, "parse intent JSON")
	}
	if err := schema.ValidateExtracted(&extracted); err != nil {
		return nil, eris.Wrap(err, "validate intent")
	}
	return &extracted, nil
}
