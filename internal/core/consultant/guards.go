// Package consultant contains the pure business logic for consultant operations.
package consultant

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateConsultantContext provides context for consultant creation guards.
type CreateConsultantContext struct {
	ActorIsSupervisor bool
}

// DeleteConsultantContext provides context for consultant deletion guards.
type DeleteConsultantContext struct {
	ActorID           int64
	ActorIsSupervisor bool
	TargetID          int64
	TargetName        string
	OrderCount        int
}

// EditProfileContext provides context for profile edit guards.
type EditProfileContext struct {
	ActorID         int64
	TargetID        int64
	NewPassword     string
	ConfirmPassword string
}

// CanCreateConsultant evaluates whether the actor may register consultants.
// Rules:
// - Supervisor only
func CanCreateConsultant(ctx CreateConsultantContext) GuardResult {
	if !ctx.ActorIsSupervisor {
		return GuardResult{
			Allowed: false,
			Reason:  "only supervisors may register consultants",
		}
	}
	return GuardResult{Allowed: true}
}

// CanDeleteConsultant evaluates whether a consultant can be deleted.
// Rules:
// - Supervisor only
// - Never the actor's own account
// - No service order may reference the consultant
func CanDeleteConsultant(ctx DeleteConsultantContext) GuardResult {
	if !ctx.ActorIsSupervisor {
		return GuardResult{
			Allowed: false,
			Reason:  "only supervisors may delete consultants",
		}
	}

	if ctx.ActorID == ctx.TargetID {
		return GuardResult{
			Allowed: false,
			Reason:  "you cannot delete your own account",
		}
	}

	if ctx.OrderCount > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("consultant '%s' has %d service order(s)", ctx.TargetName, ctx.OrderCount),
		}
	}

	return GuardResult{Allowed: true}
}

// CanEditProfile evaluates whether the actor may edit a profile.
// Rules:
// - Only the profile owner
// - A new password must match its confirmation
func CanEditProfile(ctx EditProfileContext) GuardResult {
	if ctx.ActorID != ctx.TargetID {
		return GuardResult{
			Allowed: false,
			Reason:  "consultants may only edit their own profile",
		}
	}

	if ctx.NewPassword != "" && ctx.NewPassword != ctx.ConfirmPassword {
		return GuardResult{
			Allowed: false,
			Reason:  "new password and confirmation do not match",
		}
	}

	return GuardResult{Allowed: true}
}
