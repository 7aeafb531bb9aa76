package model

import "time"

// Stage is a lead's position in the intake state machine.
type Stage string

const (
	StageRawOnly   Stage = "raw-only"
	StageExtracted Stage = "extracted"
)

// CreditMode selects the soft-pull backend.
type CreditMode string

const (
	CreditModeDummy     CreditMode = "dummy"
	CreditMode700Credit CreditMode = "700credit"
	CreditModeISoftPull CreditMode = "isoftpull"
)

// Credit tracks soft credit pull consent and results.
type Credit struct {
	Consent    bool       `json:"consent"`
	Mode       CreditMode `json:"mode"`
	Band       *string    `json:"band"` // e.g. "680-699"
	SoftPullID *string    `json:"soft_pull_id"`
	PulledAt   *string    `json:"pulled_at"` // ISO datetime
}

// FinishMode records how the chat session ended.
type FinishMode string

const (
	FinishExplicit FinishMode = "explicit"
	FinishAuto     FinishMode = "auto"
)

// Meta holds system/tracking details, set server-side at intake time.
type Meta struct {
	CreatedAt  time.Time  `json:"created_at"`
	UA         *string    `json:"ua"`
	IP         *string    `json:"ip"`
	PageURL    *string    `json:"page_url"`
	Source     string     `json:"source"` // "chat" | "iframe" | "kiosk"
	FinishMode FinishMode `json:"finish_mode"`
}

// Lead is the persisted record tracking one buyer's intake. It is
// created in raw-only stage with placeholder Extracted and SalesBrief
// and advanced to extracted once both pipeline stages succeed.
type Lead struct {
	ID         string     `json:"id"`
	Raw        RawInput   `json:"raw"`
	Extracted  Extracted  `json:"extracted"`
	SalesBrief SalesBrief `json:"sales_brief"`
	Credit     Credit     `json:"credit"`
	Meta       Meta       `json:"meta"`
	Stage      Stage      `json:"stage"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// StageTransition reports a completed pipeline run for a lead.
type StageTransition struct {
	LeadID string `json:"lead_id"`
	From   Stage  `json:"from"`
	To     Stage  `json:"to"`
}
