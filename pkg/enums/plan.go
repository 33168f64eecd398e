package enums

import "fmt"

// Plan is a star's subscription tier gating promotional visibility.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

var validPlans = []Plan{
	PlanFree,
	PlanPremium,
}

// String implements fmt.Stringer.
func (p Plan) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Plan.
func (p Plan) IsValid() bool {
	for _, candidate := range validPlans {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlan converts raw input into a Plan.
func ParsePlan(value string) (Plan, error) {
	for _, candidate := range validPlans {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan %q", value)
}
