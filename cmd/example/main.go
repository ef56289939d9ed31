package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	sitekit "github.com/goliatone/go-sitekit"
	"github.com/goliatone/go-sitekit/internal/logging/gologger"
	"github.com/goliatone/go-sitekit/pkg/interfaces"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dsn := flag.String("dsn", "file:sitekit.db?_journal_mode=WAL", "sqlite dsn (empty for in-memory storage)")
	seed := flag.Bool("seed", true, "seed the default pages on startup")
	token := flag.String("token", "", "bearer token required for mutations (empty disables auth)")
	flag.Parse()

	cfg := sitekit.DefaultConfig()
	if *dsn != "" {
		cfg.Storage.Driver = "sqlite"
		cfg.Storage.DSN = *dsn
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.AI.Enabled = true
		cfg.AI.APIKey = key
	}

	loggers, err := gologger.NewProvider(gologger.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
	})
	if err != nil {
		log.Fatalf("logging: %v", err)
	}

	opts := []sitekit.ModuleOption{
		sitekit.WithLoggerProvider(loggers),
	}
	if *token != "" {
		expected := "Bearer " + *token
		opts = append(opts, sitekit.WithAuthorizer(interfaces.AuthorizerFunc(
			func(_ context.Context, r *http.Request) bool {
				return r.Header.Get("Authorization") == expected
			},
		)))
	}

	module, err := sitekit.New(cfg, opts...)
	if err != nil {
		log.Fatalf("sitekit: %v", err)
	}
	defer module.Close()

	if *seed {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		report, err := module.Seeder().Seed(ctx, []string{"all"})
		cancel()
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Printf("seeded %d pages (%d failed)", report.Succeeded, report.Failed)
	}

	mux := http.NewServeMux()
	if err := module.Register(mux); err != nil {
		log.Fatalf("register: %v", err)
	}

	log.Printf("listening on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
