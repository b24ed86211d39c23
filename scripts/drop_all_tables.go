package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"dmeditor/internal/config"
	"dmeditor/internal/repository/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	tables := postgres.NewTableNames(cfg.TablePrefix).All()

	var b strings.Builder
	for _, t := range tables {
		fmt.Fprintf(&b, "DROP TABLE IF EXISTS %s CASCADE;\n", t)
	}

	if _, err := db.Exec(b.String()); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("Dropped %s (prefix: %s)\n", strings.Join(tables, ", "), cfg.TablePrefix)
}
