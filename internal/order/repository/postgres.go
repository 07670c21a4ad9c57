package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
)

// OrderRepository is the Postgres-backed order state store.
type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: pool}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, o *model.Order) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (id, status, store_id, customer_id, driver_id,
			pickup_lat, pickup_lon, dropoff_lat, dropoff_lon,
			delivery_instructions, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, query,
		o.ID, o.Status, o.StoreID, o.CustomerID, o.DriverID,
		o.Pickup.Lat, o.Pickup.Lon, o.Dropoff.Lat, o.Dropoff.Lon,
		o.DeliveryInstructions, o.TotalAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	eventQuery := `
		INSERT INTO order_tracking_events (order_id, status, note)
		VALUES ($1, $2, $3)
	`
	if _, err = tx.Exec(ctx, eventQuery, o.ID, o.Status, "order placed"); err != nil {
		return fmt.Errorf("failed to insert tracking event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	query := `
		SELECT id, status, store_id, customer_id, driver_id,
			pickup_lat, pickup_lon, dropoff_lat, dropoff_lon,
			delivery_instructions, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1;
	`
	var o model.Order
	err := r.DB.QueryRow(ctx, query, orderID).Scan(
		&o.ID, &o.Status, &o.StoreID, &o.CustomerID, &o.DriverID,
		&o.Pickup.Lat, &o.Pickup.Lon, &o.Dropoff.Lat, &o.Dropoff.Lon,
		&o.DeliveryInstructions, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	history, err := r.loadHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.TrackingHistory = history

	return &o, nil
}

// UpdateStatus atomically sets the order status and appends the tracking
// entry. driverID is only written on the assignment edge.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, entry model.TrackingEntry, driverID *string) (*model.Order, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE orders
		SET status = $1, driver_id = COALESCE($2, driver_id), updated_at = NOW()
		WHERE id = $3
		RETURNING id;
	`
	var id string
	if err := tx.QueryRow(ctx, query, status, driverID, orderID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	eventQuery := `
		INSERT INTO order_tracking_events (order_id, status, note, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, eventQuery, orderID, entry.Status, entry.Note, entry.Timestamp); err != nil {
		return nil, fmt.Errorf("failed to insert tracking event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return r.GetOrder(ctx, orderID)
}

func (r *OrderRepository) loadHistory(ctx context.Context, orderID string) ([]model.TrackingEntry, error) {
	query := `
		SELECT status, note, created_at
		FROM order_tracking_events
		WHERE order_id = $1
		ORDER BY created_at, id;
	`
	rows, err := r.DB.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracking history: %w", err)
	}
	defer rows.Close()

	var history []model.TrackingEntry
	for rows.Next() {
		var e model.TrackingEntry
		if err := rows.Scan(&e.Status, &e.Note, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan tracking entry: %w", err)
		}
		history = append(history, e)
	}
	return history, rows.Err()
}
