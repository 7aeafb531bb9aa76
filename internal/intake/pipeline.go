package intake

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/store"
)

// ErrLeadNotFound is returned by Process when the lead id does not exist.
var ErrLeadNotFound = eris.New("lead not found")

// ErrNoCompiledText is returned when a lead has no compiled transcript
// to extract from. No model call is made in that case.
var ErrNoCompiledText = eris.New("lead has no compiled text")

// Pipeline orchestrates extract then brief for one lead and persists
// the result.
type Pipeline struct {
	store     store.Store
	extractor *Extractor
	briefer   *Briefer
}

// NewPipeline wires a Pipeline from its stages.
func NewPipeline(st store.Store, extractor *Extractor, briefer *Briefer) *Pipeline {
	return &Pipeline{store: st, extractor: extractor, briefer: briefer}
}

// Process loads the lead, runs extraction and briefing, and advances
// the lead to the extracted stage. The merge of extracted intent,
// brief, and stage is written in a single update; a lead is never
// persisted with intent but no brief. A failure at any stage leaves
// the stored lead untouched.
//
// Re-processing an already-extracted lead is allowed and overwrites
// the previous intent and brief.
func (p *Pipeline) Process(ctx context.Context, id string) (*model.StageTransition, error) {
	lead, err := p.store.GetLead(ctx, id)
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			return nil, eris.Wrapf(ErrLeadNotFound, "process %s", id)
		}
		return nil, eris.Wrapf(err, "process %s: load", id)
	}

	if strings.TrimSpace(lead.Raw.CompiledText) == "" {
		return nil, eris.Wrapf(ErrNoCompiledText, "process %s", id)
	}

	extracted, err := p.extractor.Extract(ctx, lead.Raw.CompiledText)
	if err != nil {
		return nil, err
	}

	brief, err := p.briefer.Brief(ctx, extracted)
	if err != nil {
		return nil, err
	}

	from := lead.Stage
	lead.Extracted = *extracted
	lead.SalesBrief = *brief
	lead.Stage = model.StageExtracted

	if err := p.store.UpdateLead(ctx, id, *lead); err != nil {
		return nil, eris.Wrapf(err, "process %s: persist", id)
	}

	zap.L().Info("lead processed",
		zap.String("lead_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(model.StageExtracted)),
		zap.Int("vehicles", len(extracted.Vehicles)),
		zap.Int("bullets", len(brief.Bullets)))

	return &model.StageTransition{LeadID: id, From: from, To: model.StageExtracted}, nil
}
