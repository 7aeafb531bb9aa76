package intake

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/pkg/anthropic"
)

func testExtracted(t *testing.T) *model.Extracted {
	t.Helper()
	var e model.Extracted
	require.NoError(t, json.Unmarshal([]byte(validExtractedJSON), &e))
	return &e
}

func newTestBriefer(client anthropic.Client) *Briefer {
	return NewBriefer(client, "claude-sonnet-4-5-20250929", 1024)
}

func TestBriefer_Succeeds(t *testing.T) {
	client := new(mockAnthropicClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(validBriefJSON), nil).Once()

	brief, err := newTestBriefer(client).Brief(context.Background(), testExtracted(t))
	require.NoError(t, err)

	assert.Len(t, brief.Bullets, 3)
	assert.NotEmpty(t, brief.FirstQuestion)
	assert.Len(t, brief.VehicleRecos, 1)
	assert.Equal(t, "consultative", brief.Tone)
}

func TestBriefer_NoRetryOnBadResponse(t *testing.T) {
	client := new(mockAnthropicClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("The buyer wants an SUV."), nil)

	_, err := newTestBriefer(client).Brief(context.Background(), testExtracted(t))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrBriefingFailed))

	// A stale brief is worse than no brief: exactly one call.
	client.AssertNumberOfCalls(t, "CreateMessage", 1)
}

func TestBriefer_RejectsTooFewBullets(t *testing.T) {
	client := new(mockAnthropicClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{
			"bullets": ["only one"],
			"first_question": "What brings you in?",
			"vehicle_recos": [{"name": "RAV4", "why": "fits"}],
			"tone": "direct"
		}`), nil)

	_, err := newTestBriefer(client).Brief(context.Background(), testExtracted(t))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrBriefingFailed))
	client.AssertNumberOfCalls(t, "CreateMessage", 1)
}

func TestBriefer_UsesConfiguredTemperature(t *testing.T) {
	client := new(mockAnthropicClient)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Temperature != nil && *req.Temperature == briefTemperature
	})).Return(textResponse(validBriefJSON), nil).Once()

	_, err := newTestBriefer(client).Brief(context.Background(), testExtracted(t))
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestBriefer_TransportError(t *testing.T) {
	client := new(mockAnthropicClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, eris.New("api: overloaded")).Once()

	_, err := newTestBriefer(client).Brief(context.Background(), testExtracted(t))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrBriefingFailed))
}
