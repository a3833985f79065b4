package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fjod/go_ordering/internal/address"
	"github.com/fjod/go_ordering/internal/cart"
	"github.com/fjod/go_ordering/internal/cart/repository"
	"github.com/fjod/go_ordering/internal/checkout"
	"github.com/fjod/go_ordering/internal/customer"
	"github.com/fjod/go_ordering/internal/domain"
	orderinghttp "github.com/fjod/go_ordering/internal/http"
	"github.com/fjod/go_ordering/internal/orders"
	"github.com/fjod/go_ordering/internal/payment"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Configuration
	httpPort := getEnv("HTTP_PORT", "8080")
	currency := getEnv("CURRENCY", "GBP")
	cartID := getEnv("CART_ID", "default")
	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDBName := getEnv("MONGO_DB_NAME", "orderingdb")
	kafkaBroker := getEnv("KAFKA_BROKER", "localhost:9092")

	ctx := context.Background()

	// Set up MongoDB connection for cart persistence
	mongoDB, err := repository.ConnectMongoDB(ctx, mongoURI, mongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	cartRepo := repository.NewMongoRepository(mongoDB)
	log.Printf("Connected to MongoDB at %s", mongoURI)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")
	savedCustomers := customer.NewRedisStore(redisClient)

	// Orders database
	pgPort, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid POSTGRES_PORT: %v", err)
	}
	creds := &orders.Credentials{
		Host:              getEnv("POSTGRES_HOST", "localhost"),
		Port:              pgPort,
		User:              getEnv("POSTGRES_USER", "postgres"),
		Password:          getEnv("POSTGRES_PASSWORD", "postgres"),
		DBName:            getEnv("POSTGRES_DB", "orderingdb"),
		MigrationsDirPath: getEnv("MIGRATIONS_DIR", "./migrations"),
	}
	orderRepo, err := orders.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer orderRepo.Close()
	if err := orderRepo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	publisher := orders.NewPaidPublisher(kafkaBroker)
	defer publisher.Close()

	// Checkout engine
	store := cart.NewStore(cartID, cartRepo, orderWriter{repo: orderRepo, publisher: publisher})
	if err := store.Load(ctx); err != nil {
		log.Fatalf("Failed to load cart: %v", err)
	}
	if saved, err := savedCustomers.GetSavedCustomer(ctx); err == nil {
		store.SetCustomer(customer.MergeDefaults(nil, saved, nil))
		log.Printf("Prefilled customer details from saved profile")
	} else if !errors.Is(err, customer.ErrNoSavedCustomer) {
		log.Printf("Could not load saved customer: %v", err)
	}

	machine := checkout.NewMachine(store)

	gateway := payment.NewHTTPGateway(payment.HTTPGatewayConfig{
		BaseURL: getEnv("GATEWAY_URL", "http://localhost:9090/payments"),
		StoreID: getEnv("GATEWAY_STORE_ID", ""),
		AuthKey: getEnv("GATEWAY_AUTH_KEY", ""),
	})
	manager := payment.NewManager(store, gateway, currency)

	unsubscribe := store.Subscribe(func(ev cart.Event) {
		log.Printf("cart event: %s %s", ev.Op, ev.ItemID)
	})
	defer unsubscribe()

	addressClient := address.NewHTTPClient(getEnv("ADDRESS_API_URL", "http://localhost:9091/suggest"))

	router := orderinghttp.NewRouter(
		orderinghttp.NewCartHandler(store, savedCustomers, currency, 10*time.Second),
		orderinghttp.NewCheckoutHandler(machine),
		orderinghttp.NewPaymentHandler(manager, 15*time.Second),
		orderinghttp.NewAddressHandler(addressClient, 5*time.Second),
	)

	srv := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Ordering service listening on port %s", httpPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down ordering service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	if err := mongoDB.Client().Disconnect(ctx); err != nil {
		log.Printf("mongo disconnect failed: %v", err)
	}
	log.Println("Ordering service stopped")
}

// orderWriter persists orders and, when the cart's payment already
// succeeded, marks them paid and announces them on the order-paid topic.
type orderWriter struct {
	repo      *orders.Repository
	publisher *orders.PaidPublisher
}

func (w orderWriter) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	created, err := w.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	if created.PaymentStatus == domain.PaymentStatusSucceeded {
		if err := w.repo.MarkPaid(ctx, created.ID, created.PaymentStatus); err != nil {
			log.Printf("failed to mark order %s paid: %v", created.ID, err)
		} else {
			created.Status = domain.OrderStatusPaid
		}
		if err := w.publisher.PublishOrderPaid(ctx, created); err != nil {
			log.Printf("failed to publish order-paid for %s: %v", created.ID, err)
		}
	}
	return created, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
