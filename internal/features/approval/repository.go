package approval

import (
	"context"
	"errors"
	"fmt"

	"go-approvals/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ApprovalRepository interface {
	// CreateApproval stores the approval and all of its stage rows. Returns
	// ErrAlreadySubmitted when the document already has an open approval.
	CreateApproval(ctx context.Context, approval *DocumentApproval, stages []StageApproval) error
	GetApproval(ctx context.Context, id string) (*DocumentApproval, error) // nil, nil when missing
	ListApprovals(ctx context.Context, filter ApprovalFilter) ([]DocumentApproval, error)
	FindOpenByDocument(ctx context.Context, documentID string) (*DocumentApproval, error)

	// UpdateApproval writes the approval only if its stored version still equals
	// expectedVersion, then sets approval.Version to expectedVersion+1.
	UpdateApproval(ctx context.Context, approval *DocumentApproval, expectedVersion int64) error

	GetStage(ctx context.Context, id string) (*StageApproval, error) // nil, nil when missing
	// ListStages returns the rows of the given approvals ordered by approval,
	// stage order and definition position.
	ListStages(ctx context.Context, approvalIDs ...string) ([]StageApproval, error)
	// DecideStage records a decision on a row that is still pending. Returns
	// false when the row was already decided.
	DecideStage(ctx context.Context, stage *StageApproval) (bool, error)

	EnsureIndexes(ctx context.Context) error
}

// NewApprovalRepository returns the repository matching the configured store
func NewApprovalRepository(db *database.Database) ApprovalRepository {
	switch {
	case db.Postgres != nil:
		return NewPostgresApprovalRepository(db.Postgres.DB)
	case db.Mongo == nil:
		return NewMemoryApprovalRepository()
	}
	return &ApprovalRepositoryImpl{
		Approvals: db.Mongo.DB.Collection("document_approvals"),
		Stages:    db.Mongo.DB.Collection("stage_approvals"),
	}
}

type ApprovalRepositoryImpl struct {
	Approvals *mongo.Collection
	Stages    *mongo.Collection
}

func (r *ApprovalRepositoryImpl) CreateApproval(ctx context.Context, approval *DocumentApproval, stages []StageApproval) error {
	if _, err := r.Approvals.InsertOne(ctx, approval); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadySubmitted
		}
		return err
	}

	docs := make([]interface{}, len(stages))
	for i := range stages {
		docs[i] = stages[i]
	}
	if _, err := r.Stages.InsertMany(ctx, docs); err != nil {
		// Standalone servers have no multi-document transactions, undo by hand
		_, _ = r.Stages.DeleteMany(ctx, bson.M{"document_approval_id": approval.ID})
		_, _ = r.Approvals.DeleteOne(ctx, bson.M{"_id": approval.ID})
		return fmt.Errorf("failed to insert stage approvals: %w", err)
	}
	return nil
}

func (r *ApprovalRepositoryImpl) GetApproval(ctx context.Context, id string) (*DocumentApproval, error) {
	return r.findOneApproval(ctx, bson.M{"_id": id})
}

func (r *ApprovalRepositoryImpl) FindOpenByDocument(ctx context.Context, documentID string) (*DocumentApproval, error) {
	return r.findOneApproval(ctx, bson.M{
		"document_id": documentID,
		"status":      bson.M{"$in": []ApprovalStatus{StatusPending, StatusInProgress}},
	})
}

func (r *ApprovalRepositoryImpl) findOneApproval(ctx context.Context, filter bson.M) (*DocumentApproval, error) {
	var approval DocumentApproval
	err := r.Approvals.FindOne(ctx, filter).Decode(&approval)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &approval, nil
}

func (r *ApprovalRepositoryImpl) ListApprovals(ctx context.Context, filter ApprovalFilter) ([]DocumentApproval, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.DocumentID != "" {
		query["document_id"] = filter.DocumentID
	}
	if filter.ProjectID != "" {
		query["project_id"] = filter.ProjectID
	}
	if filter.WorkflowID != "" {
		query["workflow_id"] = filter.WorkflowID
	}

	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cursor, err := r.Approvals.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	approvals := []DocumentApproval{}
	if err = cursor.All(ctx, &approvals); err != nil {
		return nil, err
	}
	return approvals, nil
}

func (r *ApprovalRepositoryImpl) UpdateApproval(ctx context.Context, approval *DocumentApproval, expectedVersion int64) error {
	approval.Version = expectedVersion + 1
	result, err := r.Approvals.ReplaceOne(ctx, bson.M{"_id": approval.ID, "version": expectedVersion}, approval)
	if err != nil {
		approval.Version = expectedVersion
		return err
	}
	if result.MatchedCount == 0 {
		approval.Version = expectedVersion
		return ErrVersionConflict
	}
	return nil
}

func (r *ApprovalRepositoryImpl) GetStage(ctx context.Context, id string) (*StageApproval, error) {
	var stage StageApproval
	err := r.Stages.FindOne(ctx, bson.M{"_id": id}).Decode(&stage)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &stage, nil
}

func (r *ApprovalRepositoryImpl) ListStages(ctx context.Context, approvalIDs ...string) ([]StageApproval, error) {
	stages := []StageApproval{}
	if len(approvalIDs) == 0 {
		return stages, nil
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "document_approval_id", Value: 1},
		{Key: "stage_order", Value: 1},
		{Key: "position", Value: 1},
	})
	cursor, err := r.Stages.Find(ctx, bson.M{"document_approval_id": bson.M{"$in": approvalIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &stages); err != nil {
		return nil, err
	}
	return stages, nil
}

func (r *ApprovalRepositoryImpl) DecideStage(ctx context.Context, stage *StageApproval) (bool, error) {
	update := bson.M{
		"$set": bson.M{
			"status":     stage.Status,
			"decided_by": stage.DecidedBy,
			"decided_at": stage.DecidedAt,
			"comments":   stage.Comments,
			"signature":  stage.Signature,
		},
	}
	result, err := r.Stages.UpdateOne(ctx, bson.M{"_id": stage.ID, "status": StatusPending}, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *ApprovalRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	// One open approval per document. $in in a partial filter needs MongoDB 6.0+.
	_, err := r.Approvals.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "document_id", Value: 1}},
			Options: options.Index().
				SetName("document_open_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": []ApprovalStatus{StatusPending, StatusInProgress}},
				}),
		},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "submitted_at", Value: -1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create approval indexes: %w", err)
	}

	_, err = r.Stages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "document_approval_id", Value: 1}, {Key: "stage_order", Value: 1}, {Key: "position", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "approver_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create stage approval indexes: %w", err)
	}
	return nil
}
