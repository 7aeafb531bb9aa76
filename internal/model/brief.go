package model

// VehicleReco is a single recommendation in the sales brief.
type VehicleReco struct {
	Name string `json:"name"` // e.g. "RAV4 Hybrid XLE AWD"
	Why  string `json:"why"`  // short rationale
}

// SalesBrief is the model-written summary for the salesperson.
// Bullet and reco counts are hard validation bounds, not suggestions.
type SalesBrief struct {
	Bullets       []string      `json:"bullets"`
	FirstQuestion string        `json:"first_question"`
	VehicleRecos  []VehicleReco `json:"vehicle_recos"`
	Tone          string        `json:"tone"` // "reassuring", "payment-sensitive", ...
}
