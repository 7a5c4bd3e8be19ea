package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

// PostgresSource reads the catalog tables created by the catalog migrations.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource instantiates the source.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Load reads parts, models and orders in one pass.
func (s *PostgresSource) Load(ctx context.Context) (*Dataset, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("%w: postgres not configured", ErrSourceUnavailable)
	}
	parts, err := s.loadParts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load parts: %w", err)
	}
	models, err := s.loadModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return &Dataset{Parts: parts, Models: models, Orders: orders}, nil
}

func (s *PostgresSource) loadParts(ctx context.Context) ([]domain.Part, error) {
	const query = `
        SELECT id, part_number, name, description, price, original_price, image_url, rating,
               review_count, in_stock, brand, category, compatible_models, installation_difficulty,
               installation_time, symptoms, COALESCE(video_url, '')
        FROM parts ORDER BY position, id`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Part
	for rows.Next() {
		var p domain.Part
		if err := rows.Scan(
			&p.ID,
			&p.PartNumber,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.OriginalPrice,
			&p.ImageURL,
			&p.Rating,
			&p.ReviewCount,
			&p.InStock,
			&p.Brand,
			&p.Category,
			&p.CompatibleModels,
			&p.InstallationDifficulty,
			&p.InstallationTime,
			&p.Symptoms,
			&p.VideoURL,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *PostgresSource) loadModels(ctx context.Context) ([]domain.ModelInfo, error) {
	const query = `SELECT model_number, brand, appliance_type, compatible_parts FROM appliance_models ORDER BY model_number`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ModelInfo
	for rows.Next() {
		var m domain.ModelInfo
		if err := rows.Scan(&m.ModelNumber, &m.Brand, &m.Type, &m.CompatibleParts); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (s *PostgresSource) loadOrders(ctx context.Context) ([]domain.Order, error) {
	const orderQuery = `
        SELECT id, order_number, status, shipping_address, COALESCE(tracking_number, ''),
               COALESCE(estimated_delivery, ''), created_at
        FROM orders ORDER BY created_at, id`
	rows, err := s.pool.Query(ctx, orderQuery)
	if err != nil {
		return nil, err
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(orders))
	for i := range orders {
		index[orders[i].ID] = i
	}

	const itemQuery = `SELECT order_id, part_number, name, quantity, price FROM order_items ORDER BY order_id, line_no`
	itemRows, err := s.pool.Query(ctx, itemQuery)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := itemRows.Scan(&orderID, &item.PartNumber, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return orders, itemRows.Err()
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()
	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.OrderNumber,
			&o.Status,
			&o.ShippingAddress,
			&o.TrackingNumber,
			&o.EstimatedDelivery,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

// Seed replaces the catalog tables with ds inside one transaction.
func (s *PostgresSource) Seed(ctx context.Context, ds *Dataset) error {
	if s.pool == nil {
		return fmt.Errorf("%w: postgres not configured", ErrSourceUnavailable)
	}
	if err := validate(ds); err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		batch.Queue(`TRUNCATE order_items, orders, appliance_models, parts`)

		for i, p := range ds.Parts {
			batch.Queue(`
                INSERT INTO parts (id, position, part_number, name, description, price, original_price, image_url,
                                   rating, review_count, in_stock, brand, category, compatible_models,
                                   installation_difficulty, installation_time, symptoms, video_url)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NULLIF($18, ''))`,
				p.ID, i, p.PartNumber, p.Name, p.Description, p.Price, p.OriginalPrice, p.ImageURL,
				p.Rating, p.ReviewCount, p.InStock, p.Brand, string(p.Category), nonNil(p.CompatibleModels),
				string(p.InstallationDifficulty), p.InstallationTime, nonNil(p.Symptoms), p.VideoURL)
		}
		for _, m := range ds.Models {
			batch.Queue(`INSERT INTO appliance_models (model_number, brand, appliance_type, compatible_parts) VALUES ($1, $2, $3, $4)`,
				m.ModelNumber, m.Brand, string(m.Type), nonNil(m.CompatibleParts))
		}
		for _, o := range ds.Orders {
			batch.Queue(`
                INSERT INTO orders (id, order_number, status, shipping_address, tracking_number, estimated_delivery, created_at)
                VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7)`,
				o.ID, o.OrderNumber, string(o.Status), o.ShippingAddress, o.TrackingNumber, o.EstimatedDelivery, o.CreatedAt)
			for line, item := range o.Items {
				batch.Queue(`INSERT INTO order_items (order_id, line_no, part_number, name, quantity, price) VALUES ($1, $2, $3, $4, $5, $6)`,
					o.ID, line, item.PartNumber, item.Name, item.Quantity, item.Price)
			}
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
