package main

import (
	"context"
	"crypto/rand"
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/shramba/internal/account"
	"github.com/erazemk/shramba/internal/api"
	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/metrics"
	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

type config struct {
	dbPath     string
	addr       string
	adminEmail string
	logPath    string
	timezone   string
}

// envOr returns the value of the environment variable key, or fallback
// when it is unset or empty.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseFlags reads the command line. SHRAMBA_DB and PORT provide defaults
// for the database path and listen address.
func parseFlags(args []string) (*config, error) {
	fs := flag.NewFlagSet("shramba", flag.ContinueOnError)
	cfg := &config{}

	defaultDB := envOr("SHRAMBA_DB", "shramba.sqlite3")
	fs.StringVar(&cfg.dbPath, "db", defaultDB, "")
	fs.StringVar(&cfg.dbPath, "d", defaultDB, "")

	defaultAddr := ":" + envOr("PORT", "8080")
	fs.StringVar(&cfg.addr, "addr", defaultAddr, "")
	fs.StringVar(&cfg.addr, "a", defaultAddr, "")

	fs.StringVar(&cfg.adminEmail, "email", "admin@localhost", "")
	fs.StringVar(&cfg.adminEmail, "e", "admin@localhost", "")

	fs.StringVar(&cfg.logPath, "log", "", "")
	fs.StringVar(&cfg.logPath, "l", "", "")

	fs.StringVar(&cfg.timezone, "tz", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: shramba [flags]

Flags:
  -d, -db <path>          SQLite database path (default: shramba.sqlite3, env SHRAMBA_DB)
  -a, -addr <host:port>   listen address (default: :8080, env PORT)
  -e, -email <address>    admin email on first run (default: admin@localhost)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
      -tz <name>          time zone for monthly reports (default: local)
  -h, -help               show this help and exit
`)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		slog.Error("fatal", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config) error {
	loc := time.Local
	if cfg.timezone != "" {
		var err error
		if loc, err = time.LoadLocation(cfg.timezone); err != nil {
			return fmt.Errorf("loading time zone: %w", err)
		}
	}

	_, statErr := os.Stat(cfg.dbPath)
	fresh := os.IsNotExist(statErr)

	database, err := db.Open(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", cfg.dbPath)

	ctx := context.Background()
	if fresh {
		password, err := bootstrapAdmin(ctx, account.NewDirectory(&store.Users{DB: database}), cfg.adminEmail)
		if err != nil {
			database.Close()
			os.Remove(cfg.dbPath)
			return fmt.Errorf("creating admin account: %w", err)
		}
		printInitResult(cfg.dbPath, cfg.adminEmail, password)
	}

	jwtSecret, err := (&store.Settings{DB: database}).JWTSecret(ctx)
	if err != nil {
		return fmt.Errorf("getting JWT secret: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", api.NewRouter(database, jwtSecret, loc, m))

	server := &http.Server{
		Addr:              cfg.addr,
		Handler:           api.LoggingMiddleware(api.CORSMiddleware(mux), m),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
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

	slog.Info("server started", "addr", cfg.addr, "timezone", loc.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// bootstrapAdmin creates the first admin account with a random password
// and returns the password.
func bootstrapAdmin(ctx context.Context, dir *account.Directory, email string) (string, error) {
	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	if _, err := dir.Create(ctx, "Admin", email, password, model.RoleAdmin); err != nil {
		return "", err
	}
	return password, nil
}

func printInitResult(dbPath, email, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Email:    %s\n", email)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println()
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
