package main

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/drivers/database"
	"database/sql"
	"log"
	"os"
	"path/filepath"

	migrate "github.com/rubenv/sql-migrate"
)

const migrationDir = "internal/migration"

func main() {
	db := database.NewPostgresDB(config.NewDriverConfig())
	defer db.Close()

	run(db)
}

// run applies every pending migration found under internal/migration.
func run(db *sql.DB) int {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("Error getting working directory: %v", err)
	}

	migrations := &migrate.FileMigrationSource{
		Dir: filepath.Join(wd, migrationDir),
	}

	migrate.SetTable("bowell_migrations")
	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		log.Fatalf("Error executing migration: %v", err)
	}

	log.Printf("Applied %d migrations!\n", n)
	return n
}
