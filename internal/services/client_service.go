package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-crm/internal/models"
)

type clientServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewClientService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) ClientService {
	return &clientServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

const clientColumns = `id,
       name,
       company,
       email,
       phone,
       status,
       notes,
       tags,
       created_at,
       updated_at`

func scanClient(row pgx.Row) (*models.Client, error) {
	client := new(models.Client)
	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Company,
		&client.Email,
		&client.Phone,
		&client.Status,
		&client.Notes,
		&client.Tags,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if client.Tags == nil {
		client.Tags = []string{}
	}
	return client, nil
}

func (s *clientServiceImpl) GetClients(ctx context.Context) ([]*models.Client, error) {
	const selectClientsQuery = `
SELECT ` + clientColumns + `
FROM clients
ORDER BY created_at DESC
`
	rows, err := s.pgPool.Query(ctx, selectClientsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select clients")
		return nil, err
	}
	defer rows.Close()

	clients := make([]*models.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan client")
			return nil, err
		}
		clients = append(clients, client)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(clients)).
		Msg("selected clients")
	return clients, nil
}

func (s *clientServiceImpl) GetClientByID(ctx context.Context, clientID string) (*models.Client, error) {
	if !isValidID(clientID) {
		s.logger.Warn().
			Str("client_id", clientID).
			Msg("malformed client id")
		return nil, ErrClientNotFound
	}

	const selectClientByIDQuery = `
SELECT ` + clientColumns + `
FROM clients
WHERE id = $1
`
	client, err := scanClient(s.pgPool.QueryRow(ctx, selectClientByIDQuery, clientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("client_id", clientID).
				Msg("client not found")
			return nil, ErrClientNotFound
		}

		s.logger.Error().
			Err(err).
			Str("client_id", clientID).
			Msg("failed to select client by id")
		return nil, err
	}
	s.logger.Debug().
		Str("client_id", client.ID).
		Msg("selected client by id")
	return client, nil
}

func (s *clientServiceImpl) CreateClient(ctx context.Context, params CreateClientParams) (*models.Client, error) {
	id, err := newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate client uuid")
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	createdAt := now()
	client := &models.Client{
		ID:        id,
		Name:      params.Name,
		Company:   params.Company,
		Email:     params.Email,
		Phone:     params.Phone,
		Status:    params.Status,
		Notes:     params.Notes,
		Tags:      params.Tags,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if client.Status == "" {
		client.Status = models.ClientStatusNew
	}
	if client.Tags == nil {
		client.Tags = []string{}
	}

	const insertClientQuery = `
INSERT INTO clients (id,
                     name,
                     company,
                     email,
                     phone,
                     status,
                     notes,
                     tags,
                     created_at,
                     updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertClientQuery,
		client.ID,
		client.Name,
		client.Company,
		client.Email,
		client.Phone,
		client.Status,
		client.Notes,
		client.Tags,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("email", client.Email).
			Msg("failed to insert client")
		return nil, err
	}

	s.logger.Info().
		Str("client_id", client.ID).
		Msg("created client")
	return client, nil
}

func (s *clientServiceImpl) UpdateClient(ctx context.Context, params UpdateClientParams) (*models.Client, error) {
	if !isValidID(params.ID) {
		return nil, ErrClientNotFound
	}

	const updateClientQuery = `
UPDATE clients
SET name = COALESCE($1, name),
    company = CASE WHEN $2::text IS NULL THEN company ELSE NULLIF($2::text, '') END,
    email = COALESCE($3, email),
    phone = CASE WHEN $4::text IS NULL THEN phone ELSE NULLIF($4::text, '') END,
    status = COALESCE($5, status),
    notes = CASE WHEN $6::text IS NULL THEN notes ELSE NULLIF($6::text, '') END,
    tags = COALESCE($7, tags),
    updated_at = $8
WHERE id = $9
RETURNING ` + clientColumns

	client, err := scanClient(s.pgPool.QueryRow(
		ctx,
		updateClientQuery,
		params.Name,
		params.Company,
		params.Email,
		params.Phone,
		params.Status,
		params.Notes,
		params.Tags,
		now(),
		params.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("client_id", params.ID).
				Msg("client not found")
			return nil, ErrClientNotFound
		}

		s.logger.Error().
			Err(err).
			Str("client_id", params.ID).
			Msg("failed to update client")
		return nil, err
	}

	s.logger.Info().
		Str("client_id", client.ID).
		Msg("updated client")
	return client, nil
}
