package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"go-approvals/internal/config"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

// MongodbDB wraps the Mongo database handle used by the Mongo repositories
type MongodbDB struct {
	DB *mongo.Database
}

// PostgresDB wraps the SQL handle used by the Postgres repositories
type PostgresDB struct {
	DB *sql.DB
}

// Database holds the store selected by STORE_DRIVER. At most one of Mongo
// and Postgres is set; neither is set for the in-memory driver.
type Database struct {
	Driver   string
	Mongo    *MongodbDB
	Postgres *PostgresDB
}

// NewDatabase opens the configured store with lifecycle management
func NewDatabase(lc fx.Lifecycle, cfg *config.Config) (*Database, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pg, err := NewPostgres(lc, cfg)
		if err != nil {
			return nil, err
		}
		return &Database{Driver: config.StorePostgres, Postgres: pg}, nil
	case config.StoreMemory:
		log.Println("Using in-memory store, data is lost on restart")
		return &Database{Driver: config.StoreMemory}, nil
	case config.StoreMongo, "":
		mdb, err := NewMongo(lc, cfg)
		if err != nil {
			return nil, err
		}
		return &Database{Driver: config.StoreMongo, Mongo: mdb}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// NewMongo creates a new MongoDB database connection with lifecycle management
func NewMongo(lc fx.Lifecycle, cfg *config.Config) (*MongodbDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Println("Connected to MongoDB!")

	db := client.Database(cfg.DBName)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Disconnecting from MongoDB...")
			return client.Disconnect(ctx)
		},
	})

	return &MongodbDB{DB: db}, nil
}

// NewPostgres opens the Postgres pool and applies the schema
func NewPostgres(lc fx.Lifecycle, cfg *config.Config) (*PostgresDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("Connected to Postgres!")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing Postgres pool...")
			return db.Close()
		},
	})

	return &PostgresDB{DB: db}, nil
}
