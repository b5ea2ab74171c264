package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-crm/internal/models"
)

type userServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewUserService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) UserService {
	return &userServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *userServiceImpl) GetAssignees(ctx context.Context) ([]*models.UserSummary, error) {
	const selectAssigneesQuery = `
SELECT id,
       name,
       email
FROM users
ORDER BY name ASC
`
	rows, err := s.pgPool.Query(ctx, selectAssigneesQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select users")
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.UserSummary, 0)
	for rows.Next() {
		user := new(models.UserSummary)
		err = rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan user")
			return nil, err
		}
		users = append(users, user)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(users)).
		Msg("selected users")
	return users, nil
}
