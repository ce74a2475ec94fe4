// Package permission decides whether a member may hand out reputation.
package permission

import (
	"fmt"
	"slices"
)

// Rule names the check that rejected a grant.
type Rule string

const (
	RuleSelfGive   Rule = "self_give"
	RuleCeiling    Rule = "ceiling"
	RuleMultiPoint Rule = "multi_point"
	RuleNegative   Rule = "negative"
)

// DeniedError is returned when a grant breaks one of the policy rules.
// Message is safe to show to the member.
type DeniedError struct {
	Rule    Rule
	Message string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("grant denied by %s rule: %s", e.Rule, e.Message)
}

// Policy holds the role tiers and the amount ceiling for one guild.
type Policy struct {
	MaxAmount       int
	PointsName      string
	UnlimitedRoles  []uint64
	MultiPointRoles []uint64
	NegativeRoles   []uint64
}

// Grant describes an attempted manual grant.
type Grant struct {
	GiverID     uint64
	RecipientID uint64
	Amount      int
	RoleIDs     []uint64
}

// Check evaluates the rules in order and returns the first failure.
func (p *Policy) Check(g Grant) *DeniedError {
	if hasAny(g.RoleIDs, p.UnlimitedRoles) {
		return nil
	}

	if g.GiverID == g.RecipientID {
		return &DeniedError{
			Rule:    RuleSelfGive,
			Message: "You cannot give " + p.PointsName + " to yourself.",
		}
	}

	magnitude := g.Amount
	if magnitude < 0 {
		magnitude = -magnitude
	}

	if magnitude > p.MaxAmount {
		return &DeniedError{
			Rule:    RuleCeiling,
			Message: fmt.Sprintf("You cannot give more than %d %s at once.", p.MaxAmount, p.PointsName),
		}
	}

	if magnitude > 1 && !hasAny(g.RoleIDs, p.MultiPointRoles) {
		return &DeniedError{
			Rule:    RuleMultiPoint,
			Message: "You are not allowed to give more than one point at a time.",
		}
	}

	if g.Amount < 0 && !hasAny(g.RoleIDs, p.NegativeRoles) {
		return &DeniedError{
			Rule:    RuleNegative,
			Message: "You are not allowed to take " + p.PointsName + " away.",
		}
	}

	return nil
}

func hasAny(held, wanted []uint64) bool {
	for _, role := range held {
		if slices.Contains(wanted, role) {
			return true
		}
	}
	return false
}
