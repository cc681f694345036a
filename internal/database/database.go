package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

// New opens the catalog database. sqlite:// URLs get the SQLite driver
// (development and tests, including sqlite://:memory:), everything else is
// treated as a PostgreSQL DSN.
func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
	} else {
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		base_price DECIMAL(10,2),
		currency TEXT DEFAULT 'USD',
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS product_variants (
		id UUID PRIMARY KEY,
		product_id UUID NOT NULL,
		variant_id TEXT NOT NULL,
		label TEXT NOT NULL,
		price DECIMAL(10,2),
		inventory INTEGER DEFAULT 0,
		sku TEXT,
		attributes TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_product_variant
		ON product_variants (product_id, variant_id);
	`

	// SQLite has no TIMESTAMPTZ/NOW; let gorm manage timestamps there.
	if strings.HasPrefix(databaseURL, "sqlite://") {
		createTablesSQL = strings.ReplaceAll(createTablesSQL, "TIMESTAMPTZ DEFAULT NOW()", "DATETIME")
	}

	for _, stmt := range strings.Split(createTablesSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
