package audit

import (
	"context"

	"go-approvals/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditRepository interface {
	Create(ctx context.Context, log *AuditLog) error
	// List returns entries newest first
	List(ctx context.Context, filter AuditFilter, limit, offset int64) ([]AuditLog, error)
	EnsureIndexes(ctx context.Context) error
}

// NewAuditRepository returns the repository matching the configured store
func NewAuditRepository(db *database.Database) AuditRepository {
	switch {
	case db.Postgres != nil:
		return NewPostgresAuditRepository(db.Postgres.DB)
	case db.Mongo == nil:
		return NewMemoryAuditRepository()
	}
	return &AuditRepositoryImpl{
		Collection: db.Mongo.DB.Collection("audit_logs"),
	}
}

type AuditRepositoryImpl struct {
	Collection *mongo.Collection
}

func (r *AuditRepositoryImpl) Create(ctx context.Context, log *AuditLog) error {
	_, err := r.Collection.InsertOne(ctx, log)
	return err
}

func (r *AuditRepositoryImpl) List(ctx context.Context, filter AuditFilter, limit, offset int64) ([]AuditLog, error) {
	opts := options.Find().
		SetLimit(limit).
		SetSkip(offset).
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: 1}})

	cursor, err := r.Collection.Find(ctx, filterQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []AuditLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *AuditRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "record_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	return err
}

func filterQuery(filter AuditFilter) bson.M {
	query := bson.M{}
	if filter.Entity != "" {
		query["entity"] = filter.Entity
	}
	if filter.RecordID != "" {
		query["record_id"] = filter.RecordID
	}
	if filter.ActorID != "" {
		query["actor_id"] = filter.ActorID
	}
	if filter.Action != "" {
		query["action"] = filter.Action
	}
	return query
}
