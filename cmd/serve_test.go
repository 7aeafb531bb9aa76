package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intake/internal/intake"
	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/store"
)

// stubProcessor lets handler tests control pipeline outcomes.
type stubProcessor struct {
	fn func(ctx context.Context, id string) (*model.StageTransition, error)
}

func (s *stubProcessor) Process(ctx context.Context, id string) (*model.StageTransition, error) {
	return s.fn(ctx, id)
}

func newTestServer(t *testing.T, pipe processor) (*httptest.Server, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	if pipe == nil {
		pipe = &stubProcessor{fn: func(ctx context.Context, id string) (*model.StageTransition, error) {
			return &model.StageTransition{LeadID: id, From: model.StageRawOnly, To: model.StageExtracted}, nil
		}}
	}

	ts := httptest.NewServer(newRouter(st, pipe, model.CreditModeDummy))
	t.Cleanup(ts.Close)
	return ts, st
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

const rawBody = `{
  "messages": [
    {"role": "user", "text": "Lease ends November. Looking at RAV4 or CR-V."},
    {"role": "ai", "text": "Got it. What monthly payment works for you?"}
  ],
  "compiled_text": "user: Lease ends November...\nai: Got it...",
  "form": {"timeline": "0-30 days", "consent_soft_credit": true}
}`

func TestServer_Health(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeBody(t, resp)["status"])
}

func TestServer_IntakeRaw(t *testing.T) {
	ts, st := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/intake/raw", "application/json", strings.NewReader(rawBody))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	lead, err := st.GetLead(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StageRawOnly, lead.Stage)
	assert.Len(t, lead.Raw.Messages, 2)
	assert.True(t, lead.Credit.Consent)
	assert.Equal(t, model.CreditModeDummy, lead.Credit.Mode)
	assert.Equal(t, "chat", lead.Meta.Source)
	assert.Equal(t, model.FinishExplicit, lead.Meta.FinishMode)
	assert.False(t, lead.Meta.CreatedAt.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), lead.Meta.CreatedAt, time.Minute)
}

func TestServer_IntakeRaw_BadJSON(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/intake/raw", "application/json", strings.NewReader("{nope"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["ok"])
	assert.NotEmpty(t, body["error"])
}

func TestServer_IntakeRaw_ValidationFailure(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/intake/raw", "application/json",
		strings.NewReader(`{"messages": [{"role": "user", "text": "hi"}], "compiled_text": ""}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["ok"])
	assert.Contains(t, body["error"], "compiled_text")
}

func TestServer_Extract(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/intake/extract/lead-1", "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "lead-1", body["id"])
	assert.Equal(t, "extracted", body["stage"])
}

func TestServer_Extract_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", intake.ErrLeadNotFound, http.StatusNotFound},
		{"no compiled text", intake.ErrNoCompiledText, http.StatusBadRequest},
		{"extraction failed", intake.ErrExtractionFailed, http.StatusBadGateway},
		{"briefing failed", intake.ErrBriefingFailed, http.StatusBadGateway},
		{"unexpected", eris.New("db on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := newTestServer(t, &stubProcessor{fn: func(ctx context.Context, id string) (*model.StageTransition, error) {
				return nil, eris.Wrap(tt.err, "process")
			}})

			resp, err := http.Post(ts.URL+"/intake/extract/lead-1", "application/json", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, false, decodeBody(t, resp)["ok"])
		})
	}
}

func TestServer_ListAndGetLeads(t *testing.T) {
	ts, st := newTestServer(t, nil)

	created, err := st.CreateLead(context.Background(), model.Lead{
		Raw:  model.RawInput{CompiledText: "user: hi", Messages: []model.RawMessage{{Role: model.RoleUser, Text: "hi"}}},
		Meta: model.Meta{CreatedAt: time.Now().UTC(), Source: "chat", FinishMode: model.FinishExplicit},
	})
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/leads?stage=raw-only")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	leads, _ := body["leads"].([]any)
	require.Len(t, leads, 1)

	resp, err = http.Get(ts.URL + "/leads/" + created.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/leads/nope")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	decodeBody(t, resp)
}
