package schema

import (
	"github.com/sells-group/lead-intake/internal/model"
)

// ValidateCredit defaults the pull mode and checks the enum set.
func ValidateCredit(c *model.Credit) error {
	v := &ValidationError{}
	validateCredit(c, v, "")
	return v.err()
}

func validateCredit(c *model.Credit, v *ValidationError, prefix string) {
	switch c.Mode {
	case "":
		c.Mode = model.CreditModeDummy
	case model.CreditModeDummy, model.CreditMode700Credit, model.CreditModeISoftPull:
	default:
		v.add(joinPath(prefix, "mode"), `must be "dummy", "700credit" or "isoftpull"`)
	}
}

// ValidateMeta requires a creation timestamp and defaults the source
// tag and finish mode.
func ValidateMeta(m *model.Meta) error {
	v := &ValidationError{}
	validateMeta(m, v, "")
	return v.err()
}

func validateMeta(m *model.Meta, v *ValidationError, prefix string) {
	if m.CreatedAt.IsZero() {
		v.add(joinPath(prefix, "created_at"), "is required")
	}
	if m.Source == "" {
		m.Source = "chat"
	}
	switch m.FinishMode {
	case "":
		m.FinishMode = model.FinishExplicit
	case model.FinishExplicit, model.FinishAuto:
	default:
		v.add(joinPath(prefix, "finish_mode"), `must be "explicit" or "auto"`)
	}
}

// ValidateLead validates the composite record, prefixing sub-record
// violations with their section name (e.g. "raw.compiled_text").
// The stage defaults to raw-only.
func ValidateLead(l *model.Lead) error {
	v := &ValidationError{}

	if l.ID == "" {
		v.add("id", "is required")
	}
	switch l.Stage {
	case "":
		l.Stage = model.StageRawOnly
	case model.StageRawOnly, model.StageExtracted:
	default:
		v.add("stage", `must be "raw-only" or "extracted"`)
	}

	validateRawInput(&l.Raw, v, "raw")
	validateExtracted(&l.Extracted, v, "extracted")
	validateCredit(&l.Credit, v, "credit")
	validateMeta(&l.Meta, v, "meta")

	// The brief only exists once the pipeline has run; in raw-only
	// stage the placeholder zero value is allowed.
	if l.Stage == model.StageExtracted {
		validateSalesBrief(&l.SalesBrief, v, "sales_brief")
	}

	return v.err()
}
