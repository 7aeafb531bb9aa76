package intake

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedLead(t *testing.T, st store.Store, compiledText string) *model.Lead {
	t.Helper()
	lead, err := st.CreateLead(context.Background(), model.Lead{
		Raw: model.RawInput{
			Messages: []model.RawMessage{
				{Role: model.RoleUser, Text: compiledText},
			},
			CompiledText: compiledText,
		},
		Meta: model.Meta{
			CreatedAt:  time.Now().UTC(),
			Source:     "chat",
			FinishMode: model.FinishExplicit,
		},
	})
	require.NoError(t, err)
	return lead
}

func newTestPipeline(st store.Store, client *mockAnthropicClient) *Pipeline {
	return NewPipeline(st, newTestExtractor(client), newTestBriefer(client))
}

func TestPipeline_ProcessTransitionsStage(t *testing.T) {
	st := newTestStore(t)
	lead := seedLead(t, st, testTranscript)

	client := new(mockAnthropicClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(validExtractedJSON), nil).Once()
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(validBriefJSON), nil).Once()

	transition, err := newTestPipeline(st, client).Process(context.Background(), lead.ID)
	require.NoError(t, err)

	assert.Equal(t, lead.ID, transition.LeadID)
	assert.Equal(t, model.StageRawOnly, transition.From)
	assert.Equal(t, model.StageExtracted, transition.To)

	stored, err := st.GetLead(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageExtracted, stored.Stage)
	require.Len(t, stored.Extracted.Vehicles, 2)
	assert.Equal(t, "RAV4", *stored.Extracted.Vehicles[0].Model)
	assert.Equal(t, "CR-V", *stored.Extracted.Vehicles[1].Model)
	assert.True(t, stored.Extracted.TradeIn.HasTrade)
	assert.Equal(t, model.BudgetMonthly, stored.Extracted.Budget.Type)
	assert.Len(t, stored.SalesBrief.Bullets, 3)
}

func TestPipeline_EmptyCompiledTextMakesNoModelCalls(t *testing.T) {
	// Whitespace-only transcripts are as empty as the empty string;
	// neither may reach the model.
	for _, compiled := range []string{"", "   \n\t"} {
		st := newTestStore(t)
		lead := seedLead(t, st, compiled)

		client := new(mockAnthropicClient)

		_, err := newTestPipeline(st, client).Process(context.Background(), lead.ID)
		require.Error(t, err, "compiled=%q", compiled)
		assert.True(t, eris.Is(err, ErrNoCompiledText), "compiled=%q", compiled)

		client.AssertNumberOfCalls(t, "CreateMessage", 0)
	}
}

func TestPipeline_MissingLead(t *testing.T) {
	st := newTestStore(t)
	client := new(mockAnthropicClient)

	_, err := newTestPipeline(st, client).Process(context.Background(), "no-such-lead")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrLeadNotFound))
	client.AssertNumberOfCalls(t, "CreateMessage", 0)
}

func TestPipeline_BriefFailureLeavesLeadUntouched(t *testing.T) {
	st := newTestStore(t)
	lead := seedLead(t, st, testTranscript)

	client := new(mockAnthropicClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(validExtractedJSON), nil).Once()
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("no brief today"), nil).Once()

	_, err := newTestPipeline(st, client).Process(context.Background(), lead.ID)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrBriefingFailed))

	stored, err := st.GetLead(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageRawOnly, stored.Stage)
	assert.Empty(t, stored.Extracted.Vehicles)
	assert.Empty(t, stored.SalesBrief.Bullets)
}

func TestPipeline_ReprocessOverwrites(t *testing.T) {
	st := newTestStore(t)
	lead := seedLead(t, st, testTranscript)

	client := new(mockAnthropicClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(validExtractedJSON), nil).Once()
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(validBriefJSON), nil).Once()

	p := newTestPipeline(st, client)
	_, err := p.Process(context.Background(), lead.ID)
	require.NoError(t, err)

	// Second run on the already-extracted lead.
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(validExtractedJSON), nil).Once()
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(validBriefJSON), nil).Once()

	transition, err := p.Process(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageExtracted, transition.From)
	assert.Equal(t, model.StageExtracted, transition.To)
}
