package gsession

import "go.uber.org/zap"

// BuildRouter constructs a Router with every component's handlers
// registered against svc, matching spec.md §6's component table.
func BuildRouter(svc *Services, log *zap.Logger) *Router {
	r := NewRouter(log)
	RegisterAuthRoutes(r, svc)
	RegisterUserSessionsRoutes(r, svc)
	RegisterUtilRoutes(r, svc)
	RegisterGameManagerRoutes(r, svc)
	RegisterStatsRoutes(r, svc)
	return r
}
