package config

import "fmt"

// UpdatePolicy governs how the external generator's source checkout is
// refreshed before generation.
type UpdatePolicy int

const (
	// UpdateRecommended checks out the last known compatible revision.
	UpdateRecommended UpdatePolicy = iota

	// UpdateLatest checks out the head of the upstream branch.
	UpdateLatest

	// UpdateNone leaves the checkout untouched.
	UpdateNone

	// UpdateWipeLatest cleans and resets the checkout, then behaves like
	// UpdateLatest.
	UpdateWipeLatest

	// UpdateWipeRecommended cleans and resets the checkout, then behaves
	// like UpdateRecommended.
	UpdateWipeRecommended
)

func (p UpdatePolicy) String() string {
	switch p {
	case UpdateRecommended:
		return "recommended"
	case UpdateLatest:
		return "latest"
	case UpdateNone:
		return "no"
	case UpdateWipeLatest:
		return "wipe+latest"
	case UpdateWipeRecommended:
		return "wipe+recommended"
	default:
		return fmt.Sprintf("UpdatePolicy(%d)", int(p))
	}
}

// ParseUpdatePolicy converts the command-line spelling of an update policy.
func ParseUpdatePolicy(s string) (UpdatePolicy, error) {
	switch s {
	case "recommended":
		return UpdateRecommended, nil
	case "latest":
		return UpdateLatest, nil
	case "no":
		return UpdateNone, nil
	case "wipe+latest":
		return UpdateWipeLatest, nil
	case "wipe+recommended":
		return UpdateWipeRecommended, nil
	default:
		return 0, &Error{
			Field:  "update-repo",
			Reason: fmt.Sprintf("unknown policy %q", s),
		}
	}
}
