package schema

import (
	"fmt"

	"github.com/sells-group/lead-intake/internal/model"
)

// Sales brief bounds. These are hard constraints enforced after every
// model call, not prompt guidance.
const (
	minBriefBullets = 2
	maxBriefBullets = 8
	minVehicleRecos = 1
	maxVehicleRecos = 3
)

// ValidateSalesBrief checks a model-produced salesperson brief.
func ValidateSalesBrief(b *model.SalesBrief) error {
	v := &ValidationError{}
	validateSalesBrief(b, v, "")
	return v.err()
}

func validateSalesBrief(b *model.SalesBrief, v *ValidationError, prefix string) {
	if n := len(b.Bullets); n < minBriefBullets || n > maxBriefBullets {
		v.add(joinPath(prefix, "bullets"),
			fmt.Sprintf("must contain between %d and %d items, got %d", minBriefBullets, maxBriefBullets, n))
	}
	for i, bullet := range b.Bullets {
		if bullet == "" {
			v.add(joinPath(prefix, fmt.Sprintf("bullets[%d]", i)), "must not be empty")
		}
	}

	if b.FirstQuestion == "" {
		v.add(joinPath(prefix, "first_question"), "must not be empty")
	}

	if n := len(b.VehicleRecos); n < minVehicleRecos || n > maxVehicleRecos {
		v.add(joinPath(prefix, "vehicle_recos"),
			fmt.Sprintf("must contain between %d and %d items, got %d", minVehicleRecos, maxVehicleRecos, n))
	}
	for i, reco := range b.VehicleRecos {
		if reco.Name == "" {
			v.add(joinPath(prefix, fmt.Sprintf("vehicle_recos[%d].name", i)), "must not be empty")
		}
	}
}
