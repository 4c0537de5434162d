package state

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/db"
)

type FactoryConfig struct {
	Backend string
	DSN     string
}

type FactoryResult struct {
	Store   Store
	DB      *sql.DB // only set for sql backends
	Dialect Dialect
}

func NewStore(ctx context.Context, cfg FactoryConfig) (FactoryResult, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = "memory"
	}

	switch backend {
	case "memory":
		return FactoryResult{Store: NewMemoryStore()}, nil

	case "mysql", "postgres":
		if strings.TrimSpace(cfg.DSN) == "" {
			return FactoryResult{}, errors.New("DB_DSN is required when STATE_BACKEND=" + backend)
		}

		sqlDB, err := db.Open(db.Config{Driver: backend, DSN: cfg.DSN})
		if err != nil {
			return FactoryResult{}, err
		}

		c, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := sqlDB.PingContext(c); err != nil {
			_ = sqlDB.Close()
			return FactoryResult{}, err
		}

		dialect := Dialect(backend)
		return FactoryResult{
			Store:   NewSQLStore(sqlDB, dialect),
			DB:      sqlDB,
			Dialect: dialect,
		}, nil

	default:
		return FactoryResult{}, errors.New("unknown STATE_BACKEND (use memory, mysql or postgres)")
	}
}
