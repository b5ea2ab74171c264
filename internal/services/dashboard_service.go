package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-crm/internal/models"
)

type dashboardServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewDashboardService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) DashboardService {
	return &dashboardServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *dashboardServiceImpl) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	const selectStatsQuery = `
SELECT (SELECT COUNT(*) FROM clients),
       (SELECT COUNT(*) FROM clients WHERE status = $1),
       (SELECT COUNT(*) FROM projects),
       (SELECT COUNT(*) FROM projects WHERE status = $2),
       (SELECT COUNT(*) FROM tasks),
       (SELECT COUNT(*) FROM tasks WHERE status = $3)
`
	stats := new(models.DashboardStats)
	err := s.pgPool.QueryRow(
		ctx,
		selectStatsQuery,
		models.ClientStatusActive,
		models.ProjectStatusInProgress,
		models.TaskStatusPending,
	).Scan(
		&stats.TotalClients,
		&stats.ActiveClients,
		&stats.TotalProjects,
		&stats.OpenProjects,
		&stats.TotalTasks,
		&stats.PendingTasks,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select dashboard stats")
		return nil, err
	}
	s.logger.Debug().
		Int64("clients", stats.TotalClients).
		Int64("projects", stats.TotalProjects).
		Int64("tasks", stats.TotalTasks).
		Msg("selected dashboard stats")
	return stats, nil
}
