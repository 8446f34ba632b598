/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll server: SQLite store, optional Google
  Calendar client, HTTP router, graceful shutdown.

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: payroll.db)
           Use ":memory:" for an in-memory database

ENVIRONMENT (.env is loaded if present):
  GOOGLE_CLIENT_ID        OAuth client ID
  GOOGLE_CLIENT_SECRET    OAuth client secret
  GOOGLE_TOKEN_FILE       Cached OAuth token (default: token.json)
  PENDING_PAYMENT_COLOR   Calendar color ID that marks pending payment

  Without Google credentials the server still runs; payroll endpoints
  respond 503 until a calendar source is configured.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, drain for up to 30s,
  close the database, exit.

SEE ALSO:
  - api/server.go: Router configuration
  - gcal/calendar.go: Calendar client and auth flow
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fkanellos/PayrollDesktop-sub001/api"
	"github.com/fkanellos/PayrollDesktop-sub001/gcal"
	"github.com/fkanellos/PayrollDesktop-sub001/payroll"
	"github.com/fkanellos/PayrollDesktop-sub001/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "payroll.db", "SQLite database path")
	flag.Parse()

	// Optional; env vars may come from the shell instead.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	calendar := newCalendarSource(context.Background())
	handler := api.NewHandler(store, calendar)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Payroll server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// newCalendarSource builds the Google Calendar client from the environment.
// Missing credentials are not fatal: the server runs without a calendar and
// the payroll endpoints report 503.
func newCalendarSource(ctx context.Context) payroll.CalendarSource {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	tokenFile := os.Getenv("GOOGLE_TOKEN_FILE")
	if tokenFile == "" {
		tokenFile = "token.json"
	}

	var opts []gcal.Option
	if color := os.Getenv("PENDING_PAYMENT_COLOR"); color != "" {
		opts = append(opts, gcal.WithPendingPaymentColor(color))
	}

	client, err := gcal.New(ctx, clientID, clientSecret, tokenFile, opts...)
	if err != nil {
		log.Printf("Warning: Google Calendar not configured: %v", err)
		return nil
	}
	return client
}
