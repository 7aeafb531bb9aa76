package schema

import (
	"fmt"
	"strings"

	"github.com/sells-group/lead-intake/internal/model"
)

// ValidateRawInput checks an intake body. Messages must be non-empty
// with known roles and non-empty text; compiled_text must be present.
// The form is optional and defaults to its zero value.
func ValidateRawInput(r *model.RawInput) error {
	v := &ValidationError{}
	validateRawInput(r, v, "")
	return v.err()
}

func validateRawInput(r *model.RawInput, v *ValidationError, prefix string) {
	if len(r.Messages) == 0 {
		v.add(joinPath(prefix, "messages"), "must contain at least one message")
	}
	for i, m := range r.Messages {
		p := joinPath(prefix, fmt.Sprintf("messages[%d]", i))
		switch m.Role {
		case model.RoleUser, model.RoleAI:
		default:
			v.add(p+".role", fmt.Sprintf("must be %q or %q", model.RoleUser, model.RoleAI))
		}
		if strings.TrimSpace(m.Text) == "" {
			v.add(p+".text", "must not be empty")
		}
	}
	if strings.TrimSpace(r.CompiledText) == "" {
		v.add(joinPath(prefix, "compiled_text"), "must not be empty")
	}
}
