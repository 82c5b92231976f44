package analysis

import (
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/app/models"
	"bowell-service/internal/pkg/constvars"
	"bowell-service/internal/pkg/exceptions"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// AnalysisRunMongoRepository archives one document per dispatched analysis.
type AnalysisRunMongoRepository struct {
	Collection *mongo.Collection
	Log        *zap.Logger
}

func NewAnalysisRunMongoRepository(db *mongo.Client, dbName, collectionName string, logger *zap.Logger) contracts.AnalysisRunRepository {
	return &AnalysisRunMongoRepository{
		Collection: db.Database(dbName).Collection(collectionName),
		Log:        logger,
	}
}

func (repo *AnalysisRunMongoRepository) CreateRun(ctx context.Context, run *models.AnalysisRun) error {
	run.SetCreatedAtUpdatedAt()
	if _, err := repo.Collection.InsertOne(ctx, run); err != nil {
		repo.Log.Error("AnalysisRunMongoRepository.CreateRun error inserting document",
			zap.String(constvars.LoggingAnalysisIDKey, run.AnalysisID),
			zap.Error(err),
		)
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *AnalysisRunMongoRepository) FindByID(ctx context.Context, analysisID string) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	err := repo.Collection.FindOne(ctx, bson.M{"_id": analysisID}).Decode(&run)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &run, nil
}

func (repo *AnalysisRunMongoRepository) FindByRecordingID(ctx context.Context, recordingID int64) ([]models.AnalysisRun, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := repo.Collection.Find(ctx, bson.M{"recordingId": recordingID}, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	runs := make([]models.AnalysisRun, 0)
	if err = cursor.All(ctx, &runs); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return runs, nil
}

func (repo *AnalysisRunMongoRepository) UpdateRun(ctx context.Context, analysisID string, update *models.AnalysisRunUpdate) error {
	set := runUpdateDocument(update, time.Now())
	if _, err := repo.Collection.UpdateByID(ctx, analysisID, bson.M{"$set": set}); err != nil {
		repo.Log.Error("AnalysisRunMongoRepository.UpdateRun error updating document",
			zap.String(constvars.LoggingAnalysisIDKey, analysisID),
			zap.Error(err),
		)
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func runUpdateDocument(update *models.AnalysisRunUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if update.Status != "" {
		set["status"] = update.Status
	}
	if update.Attempts != nil {
		set["attempts"] = *update.Attempts
	}
	if update.Error != nil {
		set["error"] = *update.Error
	}
	if update.UsedMockModel != nil {
		set["usedMockModel"] = *update.UsedMockModel
	}
	if update.StartedAt != nil {
		set["startedAt"] = *update.StartedAt
	}
	if update.FinishedAt != nil {
		set["finishedAt"] = *update.FinishedAt
	} else if update.Status.IsFinal() {
		set["finishedAt"] = now
	}
	return set
}
