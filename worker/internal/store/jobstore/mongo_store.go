package jobstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const JobCollection = "jobs"

type mongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(database *mongo.Database) Store {
	return &mongoStore{collection: database.Collection(JobCollection)}
}

func (s *mongoStore) Save(ctx context.Context, job *Job) error {
	_, err := s.collection.InsertOne(ctx, job)
	if mongo.IsDuplicateKeyError(err) {
		_, err = s.collection.ReplaceOne(ctx, bson.M{"_id": job.ID}, job)
	}
	if err != nil {
		return errors.Wrap(err, "save job")
	}
	return nil
}

func (s *mongoStore) Get(ctx context.Context, id string) (*Job, error) {
	var job Job
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get job")
	}
	return &job, nil
}

func (s *mongoStore) Finish(ctx context.Context, id string, status Status, errorReason string, finishedAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"status":       status,
			"error_reason": errorReason,
			"finished_at":  finishedAt,
		},
	}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return errors.Wrap(err, "finish job")
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
