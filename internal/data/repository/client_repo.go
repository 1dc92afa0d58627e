package repository

import (
	"context"
	"errors"
	"fmt"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ClientRepository is scoped by owner on every call; a client of another owner is reported as missing.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error)
	FindByEmail(ctx context.Context, userID uuid.UUID, email string) (*entity.Client, error)
	FindAll(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]*entity.Client, error)
	Count(ctx context.Context, userID uuid.UUID, search string) (int64, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

type clientRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewClientRepository(db database.PgxIface, log *zap.Logger) ClientRepository {
	return &clientRepository{
		db:  db,
		log: log.With(zap.String("repository", "client")),
	}
}

const clientColumns = `id, user_id, name, email, phone, address, gst_id, created_at, updated_at`

// an empty search matches everything
const clientSearchFilter = `
		WHERE user_id = $1
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%' OR phone ILIKE '%' || $2 || '%')`

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	query := `
		INSERT INTO clients (id, user_id, name, email, phone, address, gst_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		client.ID,
		client.UserID,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
		client.GSTID,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create client",
			zap.Error(err),
			zap.String("user_id", client.UserID.String()),
		)
		return fmt.Errorf("create client: %w", err)
	}

	return nil
}

func (r *clientRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND user_id = $2`

	client, err := scanClient(r.db.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find client by ID",
			zap.Error(err),
			zap.String("client_id", id.String()),
		)
		return nil, fmt.Errorf("find client by ID %s: %w", id.String(), err)
	}

	return client, nil
}

func (r *clientRepository) FindByEmail(ctx context.Context, userID uuid.UUID, email string) (*entity.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE user_id = $1 AND lower(email) = lower($2)
		ORDER BY created_at
		LIMIT 1
	`

	client, err := scanClient(r.db.QueryRow(ctx, query, userID, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find client by email",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find client by email: %w", err)
	}

	return client, nil
}

func (r *clientRepository) FindAll(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients` + clientSearchFilter + `
		ORDER BY name ASC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, userID, search, limit, offset)
	if err != nil {
		r.log.Error("Failed to list clients",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list clients for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var clients []*entity.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			r.log.Error("Failed to scan client row", zap.Error(err))
			return nil, fmt.Errorf("scan client row: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate client rows: %w", err)
	}

	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context, userID uuid.UUID, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM clients` + clientSearchFilter

	var count int64
	if err := r.db.QueryRow(ctx, query, userID, search).Scan(&count); err != nil {
		r.log.Error("Failed to count clients",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count clients for user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *clientRepository) Update(ctx context.Context, client *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $3, email = $4, phone = $5, address = $6, gst_id = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query,
		client.ID,
		client.UserID,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
		client.GSTID,
		client.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update client",
			zap.Error(err),
			zap.String("client_id", client.ID.String()),
		)
		return fmt.Errorf("update client %s: %w", client.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("client %s not found", client.ID.String())
	}

	return nil
}

func (r *clientRepository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.log.Error("Failed to delete client",
			zap.Error(err),
			zap.String("client_id", id.String()),
		)
		return false, fmt.Errorf("delete client %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return false, nil
	}

	r.log.Info("Client deleted", zap.String("client_id", id.String()))
	return true, nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var client entity.Client
	err := row.Scan(
		&client.ID,
		&client.UserID,
		&client.Name,
		&client.Email,
		&client.Phone,
		&client.Address,
		&client.GSTID,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &client, nil
}
