package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	MyInfoCtx       ContextKey = "myInfo"
	WorkerInfoCtx   ContextKey = "workerInfo"
	OrganizationCtx ContextKey = "organization"
	WorkplaceCtx    ContextKey = "workplace"
	ConstraintCtx   ContextKey = "constraint"
	AssignmentCtx   ContextKey = "assignment"
	PlanCtx         ContextKey = "plan"
	SlotCtx         ContextKey = "slot"
)
