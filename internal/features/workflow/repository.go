package workflow

import (
	"context"
	"errors"
	"time"

	"go-approvals/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WorkflowRepository interface {
	Create(ctx context.Context, workflow *ApprovalWorkflow) error
	GetByID(ctx context.Context, id string) (*ApprovalWorkflow, error) // nil, nil when missing
	List(ctx context.Context, filter WorkflowFilter) ([]ApprovalWorkflow, error)
	SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) (bool, error)
	EnsureIndexes(ctx context.Context) error
}

// NewWorkflowRepository returns the repository matching the configured store
func NewWorkflowRepository(db *database.Database) WorkflowRepository {
	switch {
	case db.Postgres != nil:
		return NewPostgresWorkflowRepository(db.Postgres.DB)
	case db.Mongo == nil:
		return NewMemoryWorkflowRepository()
	}
	return &WorkflowRepositoryImpl{
		Collection: db.Mongo.DB.Collection("approval_workflows"),
	}
}

type WorkflowRepositoryImpl struct {
	Collection *mongo.Collection
}

func (r *WorkflowRepositoryImpl) Create(ctx context.Context, workflow *ApprovalWorkflow) error {
	_, err := r.Collection.InsertOne(ctx, workflow)
	return err
}

func (r *WorkflowRepositoryImpl) GetByID(ctx context.Context, id string) (*ApprovalWorkflow, error) {
	var workflow ApprovalWorkflow
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workflow)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &workflow, nil
}

func (r *WorkflowRepositoryImpl) List(ctx context.Context, filter WorkflowFilter) ([]ApprovalWorkflow, error) {
	query := bson.M{}
	if filter.DocumentType != "" {
		query["document_type"] = filter.DocumentType
	}
	if filter.ProjectID != "" {
		query["project_id"] = filter.ProjectID
	}
	if filter.Active != nil {
		query["active"] = *filter.Active
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workflows := []ApprovalWorkflow{}
	if err = cursor.All(ctx, &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

func (r *WorkflowRepositoryImpl) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) (bool, error) {
	update := bson.M{
		"$set": bson.M{
			"active":     active,
			"updated_at": updatedAt,
		},
	}
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *WorkflowRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "document_type", Value: 1}, {Key: "active", Value: 1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}}},
	})
	return err
}
