package config

import (
	"publications-backend/internal/infrastructure/database"
)

// LoadDatabaseConfig converts the database section into the pool settings used by PostgresDB.
func LoadDatabaseConfig(cfg *Config) *database.DBConfig {
	db := cfg.Database
	return &database.DBConfig{
		Host:              db.Host,
		Port:              db.Port,
		Username:          db.User,
		Password:          db.Password,
		DBName:            db.Name,
		SSLMode:           db.SSLMode,
		MaxConns:          int32(db.MaxConns),
		MinConns:          int32(db.MinConns),
		MaxConnLifetime:   db.MaxConnLifetime,
		MaxConnIdleTime:   db.MaxConnIdleTime,
		HealthCheckPeriod: db.HealthCheckPeriod,
		MaxRetries:        db.MaxRetries,
		RetryDelay:        db.RetryDelay,
		ConnectTimeout:    db.ConnectTimeout,
		StatementTimeout:  db.QueryTimeout,
	}
}
