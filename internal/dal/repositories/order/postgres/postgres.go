package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/lojinha/storefront/internal/dal/postgres"
	"github.com/lojinha/storefront/internal/service/errs"
	"github.com/lojinha/storefront/internal/service/models/client"
	"github.com/lojinha/storefront/internal/service/models/order"
)

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id         int64     `db:"id"`
	ClientId   int64     `db:"client_id"`
	TotalValue float64   `db:"total_value"`
	CreatedAt  time.Time `db:"created_at"`
	Paid       bool      `db:"paid"`
}

// ToModel converts OrderDal to service layer Order model.
func (o *OrderDal) ToModel() *order.Order {
	return &order.Order{
		ID:         o.Id,
		ClientID:   o.ClientId,
		TotalValue: o.TotalValue,
		CreatedAt:  o.CreatedAt,
		Paid:       o.Paid,
	}
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create inserts a new order for the client and returns its id. The partial
// unique index on orders(client_id) WHERE NOT paid makes a second unpaid
// order for the same client fail with a unique violation.
func (r *PostgresOrderRepository) Create(
	ctx context.Context,
	clientID int64,
	createdAt time.Time,
) (int64, error) {
	sql, args, err := r.sb.
		Insert("orders").
		Columns("client_id", "total_value", "created_at", "paid").
		Values(clientID, 0.0, createdAt, false).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert query: %w", err)
	}

	var id int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	return id, nil
}

// GetByID returns the order with the given id.
func (r *PostgresOrderRepository) GetByID(
	ctx context.Context,
	orderID int64,
) (*order.Order, error) {
	sql, args, err := r.sb.
		Select("id", "client_id", "total_value", "created_at", "paid").
		From("orders").
		Where(sq.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var dal OrderDal
	err = r.conn.QueryRow(ctx, sql, args...).
		Scan(&dal.Id, &dal.ClientId, &dal.TotalValue, &dal.CreatedAt, &dal.Paid)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return dal.ToModel(), nil
}

// FindActive returns the client's unpaid order, or nil if there is none.
// If storage ever holds more than one unpaid order for the client the first
// row is returned and the rest are logged as an integrity warning.
func (r *PostgresOrderRepository) FindActive(
	ctx context.Context,
	clientID int64,
) (*order.Order, error) {
	sql, args, err := r.sb.
		Select("id", "client_id", "total_value", "created_at", "paid").
		From("orders").
		Where(sq.Eq{"client_id": clientID, "paid": false}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active order: %w", err)
	}
	defer rows.Close()

	var result *order.Order
	count := 0
	for rows.Next() {
		var dal OrderDal
		if err := rows.Scan(&dal.Id, &dal.ClientId, &dal.TotalValue, &dal.CreatedAt, &dal.Paid); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		count++
		if result == nil {
			result = dal.ToModel()
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if count > 1 {
		slog.Warn("More than one active order found for client",
			"client_id", clientID,
			"count", count,
			"error", errs.ErrIntegrity,
		)
	}

	return result, nil
}

// cartRow is one flat row of the order/client/item/product join.
type cartRow struct {
	orderID        int64
	orderTotal     float64
	orderCreatedAt time.Time
	orderPaid      bool

	clientID    int64
	clientName  string
	clientPhone string

	productID          int64
	productName        string
	productDescription string
	productImage       string
	productPrice       float64
	quantity           int
}

// FindActiveView returns the client's active order joined with its client
// and all of its items as one aggregate view, or nil if the client has no
// active order.
func (r *PostgresOrderRepository) FindActiveView(
	ctx context.Context,
	clientID int64,
) (*order.CartView, error) {
	sql, args, err := r.sb.
		Select(
			"o.id", "o.total_value", "o.created_at", "o.paid",
			"c.id", "c.name", "c.phone",
			"p.id", "p.name", "p.description", "p.image", "p.price",
			"oi.quantity",
		).
		From("orders o").
		Join("clients c ON o.client_id = c.id").
		Join("order_items oi ON o.id = oi.order_id").
		Join("products p ON oi.product_id = p.id").
		Where(sq.Eq{"o.client_id": clientID, "o.paid": false}).
		OrderBy("o.id ASC", "p.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active order view: %w", err)
	}
	defer rows.Close()

	var flat []cartRow
	for rows.Next() {
		row := cartRow{clientID: clientID}
		err := rows.Scan(
			&row.orderID, &row.orderTotal, &row.orderCreatedAt, &row.orderPaid,
			&row.clientID, &row.clientName, &row.clientPhone,
			&row.productID, &row.productName, &row.productDescription,
			&row.productImage, &row.productPrice,
			&row.quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart row: %w", err)
		}
		flat = append(flat, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return groupCartRows(flat), nil
}

// groupCartRows folds the flat joined rows into a single cart view keyed on
// order id. Rows belonging to a second order would indicate a violated
// active-order invariant; they are ignored in favor of the first order seen.
func groupCartRows(rows []cartRow) *order.CartView {
	var view *order.CartView
	for _, row := range rows {
		if view == nil {
			view = &order.CartView{
				ID:         row.orderID,
				ClientID:   row.clientID,
				TotalValue: row.orderTotal,
				CreatedAt:  row.orderCreatedAt,
				Paid:       row.orderPaid,
				Client: client.Client{
					ID:    row.clientID,
					Name:  row.clientName,
					Phone: row.clientPhone,
				},
				Items: []order.CartItem{},
			}
		} else if view.ID != row.orderID {
			slog.Warn("Cart rows span more than one active order, keeping first",
				"client_id", row.clientID,
				"order_id", view.ID,
				"extra_order_id", row.orderID,
			)

			continue
		}

		view.Items = append(view.Items, order.CartItem{
			ProductID:   row.productID,
			Name:        row.productName,
			Description: row.productDescription,
			Image:       row.productImage,
			Price:       row.productPrice,
			Quantity:    row.quantity,
		})
	}

	return view
}
