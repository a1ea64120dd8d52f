package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/lojinha/storefront/internal/dal/postgres"
	"github.com/lojinha/storefront/internal/service/models/orderitem"
)

// PostgresOrderItemRepository is the line-item ledger over Postgres. It is
// meant to run on a transaction so the quantity change and the total
// recomputation commit together.
type PostgresOrderItemRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderItemRepository creates a new Postgres order item repository.
func NewPostgresOrderItemRepository(conn postgres.GenericConn) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// get returns the line item for the pair, or nil when no row exists.
func (r *PostgresOrderItemRepository) get(
	ctx context.Context,
	orderID, productID int64,
) (*orderitem.OrderItem, error) {
	sql, args, err := r.sb.
		Select("quantity").
		From("order_items").
		Where(sq.Eq{"order_id": orderID, "product_id": productID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	item := orderitem.OrderItem{
		OrderID:   orderID,
		ProductID: productID,
	}
	err = r.conn.QueryRow(ctx, sql, args...).Scan(&item.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order item: %w", err)
	}

	return &item, nil
}

// Increment adds one unit of the product to the order, inserting the row
// with quantity 1 when the pair is new.
func (r *PostgresOrderItemRepository) Increment(
	ctx context.Context,
	orderID, productID int64,
) error {
	item, err := r.get(ctx, orderID, productID)
	if err != nil {
		return err
	}

	var sql string
	var args []interface{}
	if item != nil {
		sql, args, err = r.sb.
			Update("order_items").
			Set("quantity", item.Quantity+1).
			Where(sq.Eq{"order_id": orderID, "product_id": productID}).
			ToSql()
	} else {
		sql, args, err = r.sb.
			Insert("order_items").
			Columns("order_id", "product_id", "quantity").
			Values(orderID, productID, 1).
			ToSql()
	}
	if err != nil {
		return fmt.Errorf("failed to build mutation query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to upsert order item: %w", err)
	}

	return nil
}

// Decrement removes one unit of the product from the order. A quantity of 1
// deletes the row entirely; a missing pair is a no-op. The returned flag
// reports whether a row actually changed.
func (r *PostgresOrderItemRepository) Decrement(
	ctx context.Context,
	orderID, productID int64,
) (bool, error) {
	item, err := r.get(ctx, orderID, productID)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}

	var sql string
	var args []interface{}
	if item.Quantity > 1 {
		sql, args, err = r.sb.
			Update("order_items").
			Set("quantity", item.Quantity-1).
			Where(sq.Eq{"order_id": orderID, "product_id": productID}).
			ToSql()
	} else {
		sql, args, err = r.sb.
			Delete("order_items").
			Where(sq.Eq{"order_id": orderID, "product_id": productID}).
			ToSql()
	}
	if err != nil {
		return false, fmt.Errorf("failed to build mutation query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return false, fmt.Errorf("failed to update order item: %w", err)
	}

	return true, nil
}

// RecomputeTotal recalculates the order's total from its current items and
// persists it onto the order row, returning the new total. The SUM is
// coalesced so an order with no items ends up with total 0, not NULL.
func (r *PostgresOrderItemRepository) RecomputeTotal(
	ctx context.Context,
	orderID int64,
) (float64, error) {
	const totalQuery = `
		SELECT COALESCE(SUM(p.price * oi.quantity), 0)
		FROM order_items oi
		INNER JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
	`

	var total float64
	if err := r.conn.QueryRow(ctx, totalQuery, orderID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to compute order total: %w", err)
	}

	sql, args, err := r.sb.
		Update("orders").
		Set("total_value", total).
		Where(sq.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return 0, fmt.Errorf("failed to persist order total: %w", err)
	}

	return total, nil
}
