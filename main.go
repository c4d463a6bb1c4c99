package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/0xcafe-io/iz"
	"github.com/pocketpilot/budget-engine/api"
	"github.com/pocketpilot/budget-engine/internal/budget"
	"github.com/pocketpilot/budget-engine/internal/storage"
	"github.com/pocketpilot/budget-engine/logging"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
)

var engine *budget.BudgetEngine // Global

var corsConf = cors.New(cors.Options{
	AllowedOrigins:   []string{"*"},
	AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders:   []string{"Authorization", "Content-Type", "X-User-ID"},
	AllowCredentials: true,
})

func main() {
	if err := logging.Init("debug"); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return
	}

	logging.Logger.Info("budget engine starting...")

	db, err := storage.Init()
	if err != nil {
		logging.Logger.Errorf("failed to initialize database: %v", err)
		return
	}

	storageInstance := storage.NewMySQLStorage(db)
	engine = budget.NewBudgetEngine(storageInstance, budget.DefaultParams())

	// Stale prescriptions are swept hourly; the next read regenerates
	// them from fresh data.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := engine.SweepStale(ctx, time.Now().UTC()); err != nil {
			logging.Logger.Errorf("stale prescription sweep failed: %v", err)
		}
	}); err != nil {
		logging.Logger.Errorf("failed to schedule staleness sweep: %v", err)
		return
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := http.NewServeMux()
	api := api.NewApi(engine)

	// PROFILE ENDPOINTS.
	server.HandleFunc("PUT /api/profile", iz.Bind(api.SaveProfileHandler))  // Upsert Profile
	server.HandleFunc("GET /api/profile", iz.Bind(api.GetProfileHandler))   // Get Profile
	server.HandleFunc("GET /api/strategy", iz.Bind(api.GetStrategyHandler)) // Strategy for current profile

	// TRANSACTION ENDPOINTS.
	server.HandleFunc("POST /api/transaction", iz.Bind(api.SaveTransactionHandler))          // Create Transaction
	server.HandleFunc("GET /api/transaction", iz.Bind(api.GetTransactionsHandler))           // Get Transactions in range
	server.HandleFunc("DELETE /api/transaction/{id}", iz.Bind(api.DeleteTransactionHandler)) // Delete Transaction

	// PRESCRIPTION ENDPOINTS.
	server.HandleFunc("GET /api/prescription", iz.Bind(api.GetPrescriptionHandler))         // Fetch-or-generate current month
	server.HandleFunc("POST /api/prescription", iz.Bind(api.RegeneratePrescriptionHandler)) // Force regeneration

	port := os.Getenv("APP_PORT")
	if port == "" {
		logging.Logger.Info("APP_PORT environment variable not set, using default port 8080")
		port = "8080"
	}
	fmt.Println("Starting server on port: ", port)
	handlerWithCors := corsConf.Handler(server)
	if err := http.ListenAndServe(":"+port, handlerWithCors); err != nil {
		logging.Logger.Errorf("failed to start server: %v", err)
	}
}
