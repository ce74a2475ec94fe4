package permission_test

import (
	"testing"

	"github.com/robalyx/leo/internal/bot/core/permission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	unlimitedRole  = 100
	multiPointRole = 200
	negativeRole   = 300
)

func newPolicy() *permission.Policy {
	return &permission.Policy{
		MaxAmount:       5,
		PointsName:      "points",
		UnlimitedRoles:  []uint64{unlimitedRole},
		MultiPointRoles: []uint64{multiPointRole},
		NegativeRoles:   []uint64{negativeRole},
	}
}

func TestPolicyCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		grant    permission.Grant
		wantRule permission.Rule
	}{
		{
			name:  "single point to someone else",
			grant: permission.Grant{GiverID: 1, RecipientID: 2, Amount: 1},
		},
		{
			name:     "self give",
			grant:    permission.Grant{GiverID: 1, RecipientID: 1, Amount: 1},
			wantRule: permission.RuleSelfGive,
		},
		{
			name:     "over ceiling without unlimited role",
			grant:    permission.Grant{GiverID: 1, RecipientID: 2, Amount: 10, RoleIDs: []uint64{multiPointRole}},
			wantRule: permission.RuleCeiling,
		},
		{
			name:     "negative over ceiling",
			grant:    permission.Grant{GiverID: 1, RecipientID: 2, Amount: -6, RoleIDs: []uint64{multiPointRole, negativeRole}},
			wantRule: permission.RuleCeiling,
		},
		{
			name:     "multi point without role",
			grant:    permission.Grant{GiverID: 1, RecipientID: 2, Amount: 3},
			wantRule: permission.RuleMultiPoint,
		},
		{
			name:  "multi point with role",
			grant: permission.Grant{GiverID: 1, RecipientID: 2, Amount: 5, RoleIDs: []uint64{multiPointRole}},
		},
		{
			name:     "negative without role",
			grant:    permission.Grant{GiverID: 1, RecipientID: 2, Amount: -1},
			wantRule: permission.RuleNegative,
		},
		{
			name:  "negative with role",
			grant: permission.Grant{GiverID: 1, RecipientID: 2, Amount: -1, RoleIDs: []uint64{negativeRole}},
		},
		{
			name:  "unlimited role bypasses everything",
			grant: permission.Grant{GiverID: 1, RecipientID: 1, Amount: -50, RoleIDs: []uint64{unlimitedRole}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			denied := newPolicy().Check(tt.grant)
			if tt.wantRule == "" {
				assert.Nil(t, denied)
				return
			}

			require.NotNil(t, denied)
			assert.Equal(t, tt.wantRule, denied.Rule)
			assert.NotEmpty(t, denied.Message)
		})
	}
}

func TestPolicyCheckFirstFailureWins(t *testing.T) {
	t.Parallel()

	// Self give with an excessive negative amount breaks every rule.
	denied := newPolicy().Check(permission.Grant{GiverID: 7, RecipientID: 7, Amount: -10})
	require.NotNil(t, denied)
	assert.Equal(t, permission.RuleSelfGive, denied.Rule)
	assert.Contains(t, denied.Error(), "self_give")
}
