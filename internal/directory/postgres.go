package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres serves the same read-only contract as Static from a tenants table,
// for deployments where the roster outgrows a hardcoded list.
type Postgres struct {
	db *sql.DB
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(10)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// NewPostgres wraps an open connection.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const tenantColumns = `id, name, access_code, plan_name, plan_limit, COALESCE(location, ''), COALESCE(cuisine_type, '')`

// FindByCode resolves an access code. The comparison is exact after trimming
// surrounding whitespace, matching the Static registry.
func (p *Postgres) FindByCode(code string) (Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE access_code = $1`
	return p.scanOne(query, strings.TrimSpace(code))
}

// FindByID resolves a tenant id.
func (p *Postgres) FindByID(id string) (Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	return p.scanOne(query, id)
}

func (p *Postgres) scanOne(query, arg string) (Tenant, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var t Tenant
	err := p.db.QueryRowContext(ctx, query, arg).Scan(
		&t.ID, &t.Name, &t.AccessCode, &t.PlanName, &t.PlanLimit, &t.Location, &t.CuisineType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Tenant{}, ErrNotFound
	}
	if err != nil {
		return Tenant{}, fmt.Errorf("lookup tenant: %w", err)
	}
	return t, nil
}
