package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/garderoba/internal/api"
	"github.com/erazemk/garderoba/internal/bgremove"
	"github.com/erazemk/garderoba/internal/config"
	"github.com/erazemk/garderoba/internal/db"
	"github.com/erazemk/garderoba/internal/labeler"
	"github.com/erazemk/garderoba/internal/store"
)

func main() {
	fs := flag.NewFlagSet("garderoba", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", "garderoba.sqlite3", "")
	fs.StringVar(&dbPath, "d", "garderoba.sqlite3", "")

	var addr string
	fs.StringVar(&addr, "addr", ":8080", "")
	fs.StringVar(&addr, "a", ":8080", "")

	var ownerName string
	fs.StringVar(&ownerName, "user", "owner", "")
	fs.StringVar(&ownerName, "u", "owner", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	var envFile string
	fs.StringVar(&envFile, "env", ".env", "")
	fs.StringVar(&envFile, "e", ".env", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: garderoba [flags]

Flags:
  -d, -db <path>          SQLite database path (default: garderoba.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -u, -user <name>        owner username on first run (default: owner)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -e, -env <path>         env file with API settings (default: .env, optional)
  -h, -help               show this help and exit

Environment:
  GARDEROBA_PHOTOROOM_API_KEY   background removal key (unset: disabled)
  GARDEROBA_PHOTOROOM_URL       background removal endpoint
  GARDEROBA_VISION_API_KEY      label detection key (unset: disabled)
  GARDEROBA_VISION_URL          label detection endpoint
  GARDEROBA_HTTP_TIMEOUT        outbound request timeout, with unit (default: 30s, min: 1s)
  GARDEROBA_MAX_UPLOAD_BYTES    largest accepted upload (default: 10485760)
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := setupLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := config.Load(envFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	database, err := db.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	password, err := ensureOwner(ctx, database, ownerName)
	if err != nil {
		slog.Error("failed to create owner account", "error", err)
		os.Exit(1)
	}
	if password != "" {
		printInitResult(dbPath, ownerName, password)
		fmt.Println()
	}

	slog.Info("database ready", "path", dbPath)

	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}

	remover := bgremove.New(cfg.PhotoRoom.URL, cfg.PhotoRoom.APIKey, cfg.HTTPTimeout)
	if !remover.Enabled() {
		slog.Warn("background removal disabled", "reason", "GARDEROBA_PHOTOROOM_API_KEY not set")
	}
	describer := labeler.New(cfg.Vision.URL, cfg.Vision.APIKey, cfg.HTTPTimeout)
	if !describer.Enabled() {
		slog.Warn("label detection disabled", "reason", "GARDEROBA_VISION_API_KEY not set")
	}

	router := api.NewRouter(database, jwtSecret, api.Options{
		Remover:        remover,
		Describer:      describer,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           api.LoggingMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		// Uploads wait on two outbound calls.
		WriteTimeout: 2*cfg.HTTPTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}

// ensureOwner creates the owner account with a random password when the
// database has no accounts yet. It returns the generated password, or "" if
// an account already existed.
func ensureOwner(ctx context.Context, database *sql.DB, username string) (string, error) {
	n, err := store.CountUsers(ctx, database)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return "", nil
	}

	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	if _, err := store.CreateUser(ctx, database, username, string(hash)); err != nil {
		return "", err
	}
	return password, nil
}

func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database initialized: %s\n", dbPath)
	fmt.Println()
	fmt.Println("Owner account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("Change it with PUT /api/auth/password after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
