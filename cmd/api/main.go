package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"rasoi/internal/auth"
	"rasoi/internal/cart"
	"rasoi/internal/catalog"
	"rasoi/internal/db"
	"rasoi/internal/events"
	"rasoi/internal/inventory"
	"rasoi/internal/kitchen"
	"rasoi/internal/orders"
	"rasoi/internal/payment"
	"rasoi/internal/reports"
	"rasoi/internal/router"
	"rasoi/internal/storage"
	"rasoi/internal/tables"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	// Validate JWT_SECRET early (fail fast)
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	taxRate := envRate("TAX_RATE", 0.08)
	serviceChargeRate := envRate("SERVICE_CHARGE_RATE", 0.10)

	log.Println("Environment loaded successfully")

	ctx := context.Background()

	// Database connection
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// Event broker. Without RABBITMQ_URL orders still work; kitchen
	// tickets just have to be dispatched by hand.
	var publisher events.Publisher = events.NopPublisher{}
	var broker *events.AMQPClient
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		var err error
		broker, err = events.DialAMQP(url)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ:", err)
		}
		defer broker.Close()
		publisher = broker
		log.Println("Connected to RabbitMQ")
	} else {
		log.Println("RABBITMQ_URL not set, events disabled")
	}

	// Object storage for menu item images
	var imageStore catalog.Storage
	if os.Getenv("R2_ENDPOINT") != "" {
		r2, err := storage.NewR2Client(ctx)
		if err != nil {
			log.Fatal("Failed to init R2 storage:", err)
		}
		imageStore = r2
		log.Println("Connected to R2 object storage")
	}

	// AUTH MODULE

	userRepo := auth.NewPostgresUserRepository(pgDB)
	authService := auth.NewService(userRepo)
	authHandler := auth.NewHandler(authService)

	// CATALOG MODULE

	catalogRepo := catalog.NewPostgresRepository(pgDB)
	catalogService := catalog.NewService(catalogRepo, imageStore)
	catalogHandler := catalog.NewHandler(catalogService)

	// CART MODULE

	cartStore := cart.NewStore(catalogService, taxRate, serviceChargeRate)
	cartHandler := cart.NewHandler(cartStore)

	// INVENTORY MODULE

	inventoryRepo := inventory.NewPostgresRepository(pgDB)
	inventoryService := inventory.NewService(inventoryRepo, publisher)
	inventoryHandler := inventory.NewHandler(inventoryService)

	// ORDERS MODULE

	orderRepo := orders.NewPostgresRepository(pgDB)
	orderService := orders.NewService(orderRepo, inventoryService, publisher)
	orderHandler := orders.NewHandler(orderService, cartStore)

	// PAYMENT MODULE

	paymentRepo := payment.NewPostgresRepository(pgDB)
	paymentService := payment.NewService(paymentRepo, orderService, payment.NewStubGatewayFromEnv(), publisher)
	paymentHandler := payment.NewHandler(paymentService)

	// KITCHEN MODULE

	kitchenService := kitchen.NewService(catalogService, orderService)
	kitchenHandler := kitchen.NewHandler(kitchenService)

	if broker != nil {
		worker := kitchen.NewWorker(broker, kitchenService)
		go func() {
			if err := worker.Run(ctx); err != nil && err != context.Canceled {
				log.Println("Kitchen worker stopped:", err)
			}
		}()
	}

	// REPORTS MODULE

	reportsHandler := reports.NewHandler(reports.NewPostgresRepository(pgDB))

	// TABLES MODULE

	tableRepo := tables.NewPostgresRepository(pgDB)
	tableHandler := tables.NewHandler(tables.NewService(tableRepo))

	r := router.New(router.Handlers{
		Auth:      authHandler,
		Catalog:   catalogHandler,
		Cart:      cartHandler,
		Orders:    orderHandler,
		Payments:  paymentHandler,
		Inventory: inventoryHandler,
		Kitchen:   kitchenHandler,
		Reports:   reportsHandler,
		Tables:    tableHandler,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server running on http://localhost:" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func envRate(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		log.Fatalf("%s must be a non-negative number, got %q", key, v)
	}
	return f
}
