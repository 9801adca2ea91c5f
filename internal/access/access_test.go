package access

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" admin ")
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, role)

	_, err = ParseRole("superuser")
	require.ErrorIs(t, err, ErrUnknownRole)
	require.False(t, Role("superuser").Valid())
}

func TestPermitsFollowsAllowList(t *testing.T) {
	admin := Actor{ID: 1, Role: RoleAdmin}
	user := Actor{ID: 2, Role: RoleUser}
	guest := Actor{ID: 3, Role: RoleGuest}

	cases := []struct {
		op    Operation
		actor Actor
		want  bool
	}{
		{UserCreate, admin, true},
		{UserCreate, user, false},
		{UserList, user, false},
		{UserUpdate, guest, true},
		{UserDelete, guest, false},
		{UserGet, guest, true},
		{WorkoutPlanCreate, user, true},
		{WorkoutPlanGet, guest, false},
		{ActivityLogListByPlan, guest, false},
		{ActivityLogUpdate, admin, true},
		{Operation("unknown"), admin, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Permits(tc.actor, tc.op), "%s as %s", tc.op, tc.actor.Role)
	}
}

func TestPermitsUnknownOperation(t *testing.T) {
	require.False(t, Permits(Actor{ID: 1, Role: RoleAdmin}, Operation("report.export")))
}

func TestDecide(t *testing.T) {
	require.Equal(t, Allow, Decide(Actor{ID: 9, Role: RoleAdmin}, 1))
	require.Equal(t, Allow, Decide(Actor{ID: 1, Role: RoleUser}, 1))
	require.Equal(t, Deny, Decide(Actor{ID: 2, Role: RoleUser}, 1))
	require.Equal(t, Deny, Decide(Actor{Role: RoleUser}, 0))
	require.Equal(t, "deny", Deny.String())
}
