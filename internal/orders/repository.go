package orders

import (
	"context"
	"errors"

	"github.com/fjod/go_ordering/internal/domain"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrDuplicateReference = errors.New("order with this reference already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByCustomerID(ctx context.Context, customerID string) ([]*domain.Order, error)
	MarkPaid(ctx context.Context, id string, paymentStatus int) error
	RunMigrations(*Credentials) error
	Close() error
}
