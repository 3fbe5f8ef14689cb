package parser

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ordersbot/db"

	"github.com/gofrs/uuid"
)

const orderColumns = `id, order_number, unloading_date, license_plate, freight,
	loading_city, unloading_city, loading_country, unloading_country,
	source_file, doc_id, chat_id, created_at`

func scanOrder(rows *sql.Rows) (*Order, error) {
	order := &Order{}
	var id string
	var orderNumber, unloadingDate, licensePlate, loadingCity, unloadingCity sql.NullString
	var loadingCountry, unloadingCountry, createdAt sql.NullString
	var freight sql.NullFloat64
	var docId, chatId sql.NullInt64

	err := rows.Scan(
		&id,
		&orderNumber,
		&unloadingDate,
		&licensePlate,
		&freight,
		&loadingCity,
		&unloadingCity,
		&loadingCountry,
		&unloadingCountry,
		&order.SourceFile,
		&docId,
		&chatId,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ERR: scan order: %w", err)
	}

	order.Id, err = uuid.FromString(id)
	if err != nil {
		return nil, fmt.Errorf("ERR: order id %q: %w", id, err)
	}

	order.OrderNumber = orderNumber.String
	order.UnloadingDate = unloadingDate.String
	order.LicensePlate = licensePlate.String
	order.LoadingCity = loadingCity.String
	order.UnloadingCity = unloadingCity.String
	order.LoadingCountry = loadingCountry.String
	order.UnloadingCountry = unloadingCountry.String
	if freight.Valid {
		order.Freight = freight.Float64
	}
	if docId.Valid {
		order.DocId = int(docId.Int64)
	}
	if chatId.Valid {
		order.ChatId = chatId.Int64
	}
	if createdAt.Valid {
		order.CreatedAt, _ = parseTimeString(createdAt.String)
	}

	return order, nil
}

func queryOrders(ctx context.Context, dbx db.DBExecutor, query string, args ...any) ([]*Order, error) {
	rows, err := dbx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ERR: query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ERR: iterate orders: %w", err)
	}
	return orders, nil
}

// StoreOrder inserts the order, or replaces the stored one with the same id.
func (o *Order) StoreOrder(ctx context.Context, dbx db.DBExecutor) error {
	if o.Id == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("ERR: generate order id: %w", err)
		}
		o.Id = id
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	query := `INSERT OR REPLACE INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := dbx.ExecContext(ctx, query,
		o.Id.String(),
		nullString(o.OrderNumber),
		nullString(o.UnloadingDate),
		nullString(o.LicensePlate),
		nullFloat(o.Freight),
		nullString(o.LoadingCity),
		nullString(o.UnloadingCity),
		nullString(o.LoadingCountry),
		nullString(o.UnloadingCountry),
		o.SourceFile,
		nullInt(int64(o.DocId)),
		nullInt(o.ChatId),
		formatTime(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("ERR: insert order: %w", err)
	}
	return nil
}

func GetOrder(ctx context.Context, dbx db.DBExecutor, id uuid.UUID) (*Order, error) {
	orders, err := queryOrders(ctx, dbx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("ERR: order %s: %w", id, sql.ErrNoRows)
	}
	return orders[0], nil
}

func GetAllOrders(ctx context.Context, dbx db.DBExecutor) ([]*Order, error) {
	return queryOrders(ctx, dbx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at`)
}

func GetOrdersByPlate(ctx context.Context, dbx db.DBExecutor, plate string) ([]*Order, error) {
	return queryOrders(ctx, dbx, `SELECT `+orderColumns+` FROM orders WHERE license_plate = ? ORDER BY unloading_date`, plate)
}

func GetOrdersByChat(ctx context.Context, dbx db.DBExecutor, chatId int64) ([]*Order, error) {
	return queryOrders(ctx, dbx, `SELECT `+orderColumns+` FROM orders WHERE chat_id = ? ORDER BY created_at`, chatId)
}

// GetLastOrderByChat returns the most recent order sent from a chat, or
// sql.ErrNoRows.
func GetLastOrderByChat(ctx context.Context, dbx db.DBExecutor, chatId int64) (*Order, error) {
	orders, err := queryOrders(ctx, dbx, `SELECT `+orderColumns+` FROM orders WHERE chat_id = ? ORDER BY created_at DESC LIMIT 1`, chatId)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, sql.ErrNoRows
	}
	return orders[0], nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f > 0}
}

func nullInt(i int64) sql.NullInt64 {
	return sql.NullInt64{Int64: i, Valid: i != 0}
}

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTimeString(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("ERR: unable to parse time: %s", s)
}
