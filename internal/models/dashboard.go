package models

type DashboardStats struct {
	TotalClients  int64
	ActiveClients int64
	TotalProjects int64
	OpenProjects  int64
	TotalTasks    int64
	PendingTasks  int64
}
