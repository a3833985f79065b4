package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fjod/go_ordering/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	log.Println("Connected to postgres!")
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "ordering_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// CreateOrder persists the order, assigning its id and human-facing
// reference. The stored row carries items and customer as JSONB.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order items: %w", err)
	}
	customerJSON, err := json.Marshal(order.Customer)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order customer: %w", err)
	}

	out := *order
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.OrderReference == "" {
		out.OrderReference = fmt.Sprintf("ORD-%s", out.ID[:8])
	}
	now := time.Now()
	out.CreatedAt = now
	out.UpdatedAt = now

	query := `INSERT INTO orders (id, order_reference, customer_id, amount, status, payment_status, items, customer, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, insertErr := r.db.ExecContext(ctx, query,
		out.ID,
		out.OrderReference,
		out.CustomerID,
		out.Amount,
		out.Status,
		out.PaymentStatus,
		itemsJSON,
		customerJSON,
		out.CreatedAt,
		out.UpdatedAt)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateReference
		}
		return nil, fmt.Errorf("insert order: %w", insertErr)
	}
	return &out, nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT id, order_reference, customer_id, amount, status, payment_status, items, customer, created_at, updated_at
	          FROM orders WHERE id = $1`

	return r.scanOrder(r.db.QueryRowContext(ctx, query, id))
}

func (r *Repository) ListOrdersByCustomerID(ctx context.Context, customerID string) ([]*domain.Order, error) {
	query := `SELECT id, order_reference, customer_id, amount, status, payment_status, items, customer, created_at, updated_at
	          FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query orders by customer id: %w", err)
	}
	defer rows.Close()

	var result []*domain.Order
	for rows.Next() {
		order, scanErr := r.scanOrder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		result = append(result, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return result, nil
}

// MarkPaid flips a pending order to paid with the final payment code.
func (r *Repository) MarkPaid(ctx context.Context, id string, paymentStatus int) error {
	query := `UPDATE orders SET status = $1, payment_status = $2, updated_at = NOW()
	          WHERE id = $3 AND status = $4`

	res, err := r.db.ExecContext(ctx, query, domain.OrderStatusPaid, paymentStatus, id, domain.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark order paid result: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func (r *Repository) scanOrder(row scannable) (*domain.Order, error) {
	var order domain.Order
	var status string
	var itemsJSON, customerJSON []byte
	err := row.Scan(
		&order.ID,
		&order.OrderReference,
		&order.CustomerID,
		&order.Amount,
		&status,
		&order.PaymentStatus,
		&itemsJSON,
		&customerJSON,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order row: %w", err)
	}
	order.Status = domain.ParseOrderStatus(status)

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if len(customerJSON) > 0 && string(customerJSON) != "null" {
		order.Customer = &domain.Customer{}
		if err := json.Unmarshal(customerJSON, order.Customer); err != nil {
			return nil, fmt.Errorf("unmarshal order customer: %w", err)
		}
	}

	return &order, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
