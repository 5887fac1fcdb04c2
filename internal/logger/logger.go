package logger

import (
	"context"

	"go-approvals/internal/config"
	"go-approvals/internal/database"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger builds the service logger. With the Mongo store every entry is
// also queued for the "logs" collection.
func NewLogger(lc fx.Lifecycle, cfg *config.Config, db *database.Database) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	if db == nil || db.Mongo == nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				_ = baseLogger.Sync()
				return nil
			},
		})
		return baseLogger, nil
	}

	dbWriter := NewDBLogWriter(NewMongoLogSink(db.Mongo.DB), cfg.AppId, 1000)
	finalCore := NewDBCore(baseLogger.Core(), dbWriter)
	logger := zap.New(finalCore, zap.AddCaller())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = logger.Sync()
			return dbWriter.Close(ctx)
		},
	})

	return logger, nil
}
