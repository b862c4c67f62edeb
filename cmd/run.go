package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"ticketsplus/api"
	"ticketsplus/config"
	"ticketsplus/database"
	"ticketsplus/events"
	"ticketsplus/messaging"
	"ticketsplus/repository"
	"ticketsplus/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting ticket configuration service...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	log.Println("Initializing event bus...")
	eventBus := events.NewBus()
	log.Println("Event bus initialized successfully")

	// Stream events to NATS when configured; standalone otherwise
	var natsClient *messaging.NATSClient
	if cfg.NATSUrl != "" {
		log.Printf("Connecting to NATS at %s...", cfg.NATSUrl)
		natsClient = messaging.NewNATSClient(cfg.NATSUrl)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		publisher := messaging.NewNATSEventPublisher(natsClient, messaging.NewEventSubjectMapper())
		if err := publisher.EnsureTicketEventStream(); err != nil {
			return fmt.Errorf("failed to ensure event stream: %w", err)
		}
		messaging.NewBridge(publisher).Attach(eventBus)
		log.Println("NATS event streaming enabled")
	} else {
		log.Println("No NATS URL configured, running without event streaming")
	}

	// Initialize unit of work factory
	log.Println("Initializing unit of work factory...")
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	log.Println("Unit of work factory initialized successfully")

	// Initialize services
	log.Println("Initializing services...")
	guildConfigService := service.NewGuildConfigService(uowFactory)
	ticketService := service.NewTicketService(uowFactory)
	memberService := service.NewMemberService(uowFactory)
	log.Println("Services initialized successfully")

	// Start maintenance workers
	statusWorker := service.NewStatusSweepWorker(memberService, cfg.StatusSweepInterval)
	stopStatusWorker := statusWorker.Start(ctx)
	defer stopStatusWorker()

	staleWorker := service.NewStaleTicketWorker(ticketService, cfg.NotifySweepInterval)
	stopStaleWorker := staleWorker.Start(ctx)
	defer stopStaleWorker()

	// Start the integration API
	handlers := api.NewHandlers(guildConfigService, ticketService, cfg.APIAuthToken)
	server := api.NewServer(handlers, cfg.HTTPPort)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Serve()
	}()

	// Wait for context cancellation or an API failure
	log.Printf("Service is running in %s mode...", cfg.Environment)
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("API server error: %w", err)
		}
	}

	// Cleanup resources
	log.Println("Shutting down...")

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down API server: %v", err)
	}

	// Close NATS connection
	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
