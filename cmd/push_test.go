package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-intake/internal/model"
)

func TestSalesforceRecord(t *testing.T) {
	lead := &model.Lead{
		ID: "3f1c9a2e-77b4-4a9a-9a51-0c6de1f2a9b0",
		SalesBrief: model.SalesBrief{
			Bullets:       []string{"Lease ends November", "Budget under 600/mo"},
			FirstQuestion: "What matters most in the next car?",
		},
	}

	rec := salesforceRecord(lead)
	assert.Equal(t, "Chat Lead 3f1c9a2e", rec["LastName"])
	assert.Equal(t, "Unknown", rec["Company"])
	assert.Equal(t, "Chat Intake", rec["LeadSource"])
	assert.Equal(t,
		"Lease ends November\nBudget under 600/mo\n\nOpen with: What matters most in the next car?",
		rec["Description"])
}

func TestSalesforceRecord_ShortID(t *testing.T) {
	// Rows inserted outside the API are not guaranteed uuid-length ids.
	for _, id := range []string{"", "x", "1234567", "12345678"} {
		rec := salesforceRecord(&model.Lead{ID: id})
		assert.Equal(t, "Chat Lead "+id, rec["LastName"], "id=%q", id)
	}
}
