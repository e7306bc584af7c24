package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"docvault/internal/auth"
	"docvault/internal/config"
	"docvault/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't create users")
	usersFile := flag.String("users", "", "Path to a YAML file with users to create")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	// Bootstrap the admin account from the environment so a fresh deploy
	// always has at least one user able to create others.
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := ensureAdmin(ctx, pool, tables, cfg); err != nil {
			log.Fatalf("Failed to ensure admin user: %v", err)
		}
		log.Printf("✅ Admin user ready: %s", cfg.AdminEmail)
	} else {
		log.Println("⚠️  ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin bootstrap")
	}

	if *usersFile != "" {
		n, err := seedUsersFromFile(ctx, pool, tables, *usersFile)
		if err != nil {
			log.Fatalf("Failed to seed users from %s: %v", *usersFile, err)
		}
		log.Printf("✅ Seeded %d users from %s", n, *usersFile)
	}

	log.Println("🎉 Seeding complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	createUsers := `
		CREATE TABLE IF NOT EXISTS ` + tables.Users + ` (
			id BIGSERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'USER',
			department_id BIGINT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createUsers); err != nil {
		return err
	}

	createFiles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			id BIGSERIAL PRIMARY KEY,
			filename VARCHAR(512) NOT NULL,
			object_key VARCHAR(1024) NOT NULL UNIQUE,
			owner_id BIGINT NOT NULL REFERENCES ` + tables.Users + `(id) ON DELETE CASCADE,
			visibility TEXT NOT NULL DEFAULT 'PRIVATE',
			metadata JSONB,
			downloads_count BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFiles); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_owner_id ON ` + tables.Files + `(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_visibility ON ` + tables.Files + `(visibility)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `users_department_id ON ` + tables.Users + `(department_id)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Files,
		tables.Users,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}

// ensureAdmin upserts the bootstrap admin. Re-running the seed with a new
// password rotates the stored hash.
func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, cfg *config.Config) error {
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	var departmentID *int64
	if cfg.AdminDepartment != "" {
		id, err := strconv.ParseInt(cfg.AdminDepartment, 10, 64)
		if err != nil {
			return fmt.Errorf("parse ADMIN_DEPARTMENT_ID: %w", err)
		}
		departmentID = &id
	}

	query := `
		INSERT INTO ` + tables.Users + ` (email, password_hash, role, department_id, active)
		VALUES ($1, $2, 'ADMIN', $3, TRUE)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, role = 'ADMIN', active = TRUE
	`
	_, err = pool.Exec(ctx, query, cfg.AdminEmail, hash, departmentID)
	return err
}

type seedUser struct {
	Email        string `yaml:"email"`
	Password     string `yaml:"password"`
	Role         string `yaml:"role"`
	DepartmentID *int64 `yaml:"department_id"`
}

type usersFixture struct {
	Users []seedUser `yaml:"users"`
}

// seedUsersFromFile creates the users listed in a YAML fixture. Existing
// emails are skipped so the fixture can be re-applied.
func seedUsersFromFile(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var fixture usersFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return 0, fmt.Errorf("parse fixture: %w", err)
	}

	created := 0
	for _, u := range fixture.Users {
		if u.Email == "" || u.Password == "" {
			return created, fmt.Errorf("fixture user missing email or password")
		}
		role := u.Role
		if role == "" {
			role = "USER"
		}

		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return created, fmt.Errorf("hash password for %s: %w", u.Email, err)
		}

		query := `
			INSERT INTO ` + tables.Users + ` (email, password_hash, role, department_id, active)
			VALUES ($1, $2, $3, $4, TRUE)
			ON CONFLICT (email) DO NOTHING
		`
		tag, err := pool.Exec(ctx, query, u.Email, hash, role, u.DepartmentID)
		if err != nil {
			return created, fmt.Errorf("insert %s: %w", u.Email, err)
		}
		if tag.RowsAffected() > 0 {
			created++
			log.Printf("  ✓ Created %s (%s)", u.Email, role)
		} else {
			log.Printf("  - Skipped %s (already exists)", u.Email)
		}
	}

	return created, nil
}
