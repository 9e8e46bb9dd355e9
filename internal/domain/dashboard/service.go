package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetEmployeeDashboard returns the caller's today status, monthly summary and recent records
	GetEmployeeDashboard(ctx context.Context) (*EmployeeDashboardResponse, error)

	// GetManagerDashboard returns today's team status, the weekly trend and the department rollup
	GetManagerDashboard(ctx context.Context) (*ManagerDashboardResponse, error)
}
