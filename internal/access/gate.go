package access

// Operation names a service entry point subject to the role gate.
type Operation string

const (
	UserCreate Operation = "user.create"
	UserUpdate Operation = "user.update"
	UserDelete Operation = "user.delete"
	UserGet    Operation = "user.get"
	UserList   Operation = "user.list"

	WorkoutPlanCreate Operation = "workout_plan.create"
	WorkoutPlanUpdate Operation = "workout_plan.update"
	WorkoutPlanDelete Operation = "workout_plan.delete"
	WorkoutPlanGet    Operation = "workout_plan.get"
	WorkoutPlanList   Operation = "workout_plan.list"

	ActivityLogCreate     Operation = "activity_log.create"
	ActivityLogUpdate     Operation = "activity_log.update"
	ActivityLogDelete     Operation = "activity_log.delete"
	ActivityLogGet        Operation = "activity_log.get"
	ActivityLogListByUser Operation = "activity_log.list_by_user"
	ActivityLogListByPlan Operation = "activity_log.list_by_plan"
)

var (
	adminOnly    = []Role{RoleAdmin}
	members      = []Role{RoleAdmin, RoleUser}
	everyone     = []Role{RoleAdmin, RoleUser, RoleGuest}
	allowedRoles = map[Operation][]Role{
		UserCreate: adminOnly,
		UserUpdate: everyone,
		UserDelete: members,
		UserGet:    everyone,
		UserList:   adminOnly,

		WorkoutPlanCreate: members,
		WorkoutPlanUpdate: members,
		WorkoutPlanDelete: members,
		WorkoutPlanGet:    members,
		WorkoutPlanList:   members,

		ActivityLogCreate:     members,
		ActivityLogUpdate:     members,
		ActivityLogDelete:     members,
		ActivityLogGet:        members,
		ActivityLogListByUser: members,
		ActivityLogListByPlan: members,
	}
)

// Permits reports whether the actor's role may invoke op. Unknown operations permit nobody.
func Permits(actor Actor, op Operation) bool {
	for _, role := range allowedRoles[op] {
		if actor.Role == role {
			return true
		}
	}
	return false
}
