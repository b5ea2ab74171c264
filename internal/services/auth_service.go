package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-crm/internal/models"
)

type authServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	tokens tokenIssuer
}

func NewAuthService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	jwtIssuer string,
	jwtSigningKey []byte,
	jwtAccessTokenTTL time.Duration,
	jwtRefreshTokenTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		logger: logger,
		pgPool: pgPool,
		tokens: tokenIssuer{
			issuer:     jwtIssuer,
			signingKey: jwtSigningKey,
			accessTTL:  jwtAccessTokenTTL,
			refreshTTL: jwtRefreshTokenTTL,
		},
	}
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	const selectCredentialsQuery = `
SELECT id,
       password
FROM users
WHERE email = $1
`
	var userID, passwordHash string
	err := s.pgPool.QueryRow(ctx, selectCredentialsQuery, params.Email).Scan(&userID, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("email", params.Email).
				Msg("login for unknown email")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("email", params.Email).
			Msg("failed to select user credentials")
		return nil, err
	}

	match, err := argon2id.ComparePasswordAndHash(params.Password, passwordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to compare password hash")
		return nil, err
	}
	if !match {
		s.logger.Warn().
			Str("user_id", userID).
			Msg("wrong password")
		return nil, ErrUserPasswordMismatch
	}

	// A login replaces every session the user had before.
	var session *models.Session
	err = pgx.BeginFunc(ctx, s.pgPool, func(tx pgx.Tx) error {
		if err := s.deleteUserSessions(ctx, tx, userID); err != nil {
			return err
		}

		var err error
		session, err = s.insertSession(ctx, tx, userID, params.Fingerprint)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("session_id", session.ID).
		Msg("user logged in")
	return s.loginResult(session)
}

func (s *authServiceImpl) Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error) {
	const selectSessionForUpdateQuery = `
SELECT ` + sessionColumns + `
FROM sessions
WHERE refresh_token = $1 AND
      fingerprint = $2
FOR UPDATE
`
	const rotateRefreshTokenQuery = `
UPDATE sessions
SET refresh_token = $1,
    expires_at = $2,
    updated_at = $3
WHERE id = $4
`
	var session *models.Session
	err := pgx.BeginFunc(ctx, s.pgPool, func(tx pgx.Tx) error {
		var err error
		session, err = scanSession(tx.QueryRow(
			ctx,
			selectSessionForUpdateQuery,
			params.RefreshToken,
			params.Fingerprint,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("select session: %w", err)
		}

		updatedAt := now()
		if session.Expired(updatedAt) {
			return ErrSessionExpired
		}

		session.RefreshToken, err = s.tokens.refreshToken()
		if err != nil {
			return err
		}
		session.ExpiresAt = updatedAt.Add(s.tokens.refreshTTL)
		session.UpdatedAt = updatedAt

		_, err = tx.Exec(
			ctx,
			rotateRefreshTokenQuery,
			session.RefreshToken,
			session.ExpiresAt,
			session.UpdatedAt,
			session.ID,
		)
		if err != nil {
			return fmt.Errorf("rotate refresh token: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
			s.logger.Warn().
				Err(err).
				Msg("refresh rejected")
		} else {
			s.logger.Error().
				Err(err).
				Msg("failed to refresh session")
		}
		return nil, err
	}

	s.logger.Info().
		Str("user_id", session.UserID).
		Str("session_id", session.ID).
		Msg("session refreshed")
	return s.loginResult(session)
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*LoginResult, error) {
	passwordHash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	userID, err := newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user id")
		return nil, err
	}

	const insertUserQuery = `
INSERT INTO users (id, name, email, password, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
`
	var session *models.Session
	err = pgx.BeginFunc(ctx, s.pgPool, func(tx pgx.Tx) error {
		_, err := tx.Exec(
			ctx,
			insertUserQuery,
			userID,
			params.Name,
			params.Email,
			passwordHash,
			now(),
		)
		if err != nil {
			return err
		}

		session, err = s.insertSession(ctx, tx, userID, params.Fingerprint)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn().
				Str("email", params.Email).
				Msg("email already registered")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Str("email", params.Email).
			Msg("failed to register user")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("session_id", session.ID).
		Msg("user registered")
	return s.loginResult(session)
}

func (s *authServiceImpl) Logout(ctx context.Context, userID string) error {
	return s.deleteUserSessions(ctx, s.pgPool, userID)
}

func (s *authServiceImpl) ParseJWTToken(token string) (*jwt.RegisteredClaims, error) {
	return s.tokens.parse(token)
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (s *authServiceImpl) deleteUserSessions(ctx context.Context, db execer, userID string) error {
	const deleteUserSessionsQuery = `
DELETE FROM sessions
WHERE user_id = $1
`
	tag, err := db.Exec(ctx, deleteUserSessionsQuery, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete user sessions")
		return err
	}
	s.logger.Debug().
		Str("user_id", userID).
		Int64("deleted", tag.RowsAffected()).
		Msg("deleted user sessions")
	return nil
}

// insertSession opens a session bound to the browser fingerprint.
func (s *authServiceImpl) insertSession(ctx context.Context, tx pgx.Tx, userID, fingerprint string) (*models.Session, error) {
	sessionID, err := newID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	refreshToken, err := s.tokens.refreshToken()
	if err != nil {
		return nil, err
	}

	createdAt := now()
	session := &models.Session{
		ID:           sessionID,
		UserID:       userID,
		Fingerprint:  fingerprint,
		RefreshToken: refreshToken,
		ExpiresAt:    createdAt.Add(s.tokens.refreshTTL),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	const insertSessionQuery = `
INSERT INTO sessions (` + sessionColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err = tx.Exec(
		ctx,
		insertSessionQuery,
		session.ID,
		session.UserID,
		session.Fingerprint,
		session.RefreshToken,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

func (s *authServiceImpl) loginResult(session *models.Session) (*LoginResult, error) {
	accessToken, accessTokenExpiresAt, err := s.tokens.accessToken(session.ID, time.Now())
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("session_id", session.ID).
			Msg("failed to issue access token")
		return nil, err
	}

	return &LoginResult{
		UserID:                session.UserID,
		SessionID:             session.ID,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessTokenExpiresAt,
		RefreshToken:          session.RefreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
	}, nil
}
