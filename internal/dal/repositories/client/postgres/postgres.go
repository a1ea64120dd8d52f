package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/lojinha/storefront/internal/dal/postgres"
	"github.com/lojinha/storefront/internal/service/errs"
	"github.com/lojinha/storefront/internal/service/models/client"
)

// ClientDal represents client data access layer model.
type ClientDal struct {
	Id    int64  `db:"id"`
	Name  string `db:"name"`
	Phone string `db:"phone"`
}

// ToModel converts ClientDal to service layer Client model.
func (c *ClientDal) ToModel() *client.Client {
	return &client.Client{
		ID:    c.Id,
		Name:  c.Name,
		Phone: c.Phone,
	}
}

// PostgresClientRepository represents a Postgres client repository.
type PostgresClientRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresClientRepository creates a new Postgres client repository.
func NewPostgresClientRepository(conn postgres.GenericConn) *PostgresClientRepository {
	return &PostgresClientRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// List returns all clients.
func (r *PostgresClientRepository) List(ctx context.Context) ([]client.Client, error) {
	sql, args, err := r.sb.
		Select("id", "name", "phone").
		From("clients").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var result []client.Client
	for rows.Next() {
		var dal ClientDal
		if err := rows.Scan(&dal.Id, &dal.Name, &dal.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetByID returns the client with the given id, or errs.ErrNotFound when it
// does not exist.
func (r *PostgresClientRepository) GetByID(ctx context.Context, id int64) (*client.Client, error) {
	sql, args, err := r.sb.
		Select("id", "name", "phone").
		From("clients").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var dal ClientDal
	err = r.conn.QueryRow(ctx, sql, args...).Scan(&dal.Id, &dal.Name, &dal.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("client %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query client: %w", err)
	}

	return dal.ToModel(), nil
}

// Create inserts a new client and returns its id.
func (r *PostgresClientRepository) Create(
	ctx context.Context,
	name, phone string,
) (int64, error) {
	sql, args, err := r.sb.
		Insert("clients").
		Columns("name", "phone").
		Values(name, phone).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert query: %w", err)
	}

	var id int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert client: %w", err)
	}

	return id, nil
}

// Update rewrites the client's name and phone.
func (r *PostgresClientRepository) Update(
	ctx context.Context,
	id int64,
	name, phone string,
) error {
	sql, args, err := r.sb.
		Update("clients").
		Set("name", name).
		Set("phone", phone).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %d: %w", id, errs.ErrNotFound)
	}

	return nil
}

// Delete removes the client.
func (r *PostgresClientRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.
		Delete("clients").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	return nil
}
