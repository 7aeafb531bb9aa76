package model

// Role identifies the author of a transcript message. Only raw
// human/assistant turns are stored, never internal system logs.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// RawMessage is a single message in the chat transcript.
type RawMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
	TS   string `json:"ts,omitempty"` // optional ISO timestamp
}

// RawForm holds quick-choice fields captured outside the chat widget.
type RawForm struct {
	Timeline          string `json:"timeline,omitempty"`     // e.g. "0-30 days", "Browsing"
	FinancePref       string `json:"finance_pref,omitempty"` // e.g. "Finance", "Cash"
	ConsentSoftCredit bool   `json:"consent_soft_credit"`
}

// RawInput is everything collected directly from the user interaction.
// CompiledText is the flattened transcript handed to the extractor; it
// is supplied by the widget and never re-derived server-side.
type RawInput struct {
	Messages     []RawMessage `json:"messages"`
	CompiledText string       `json:"compiled_text"`
	Form         RawForm      `json:"form"`
}
