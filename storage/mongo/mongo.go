// Package mongo backs the repositories with a remote document store. Each
// aggregate is one document, keyed by its id, replaced wholesale on save.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mbolis/survey-api/model"
	"github.com/mbolis/survey-api/storage"
)

const databaseName = "survey"

func Open(ctx context.Context, mongoURL string) (*storage.Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, err
	}
	err = client.Ping(connectCtx, nil)
	if err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(databaseName)
	return storage.NewStore(
		&surveyRepository{db.Collection("surveys")},
		&responseRepository{db.Collection("responses")},
		&userRepository{db.Collection("users")},
		func() error { return client.Disconnect(context.Background()) },
	), nil
}

var upsert = options.Replace().SetUpsert(true)

type surveyRepository struct {
	surveys *mongo.Collection
}

func (r *surveyRepository) Save(ctx context.Context, survey *model.Survey) error {
	_, err := r.surveys.ReplaceOne(ctx, bson.M{"_id": survey.ID}, survey, upsert)
	return err
}

func (r *surveyRepository) FindByID(ctx context.Context, id string) (*model.Survey, error) {
	var survey model.Survey
	err := r.surveys.FindOne(ctx, bson.M{"_id": id}).Decode(&survey)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepository) find(ctx context.Context, filter bson.M) ([]model.Survey, error) {
	cursor, err := r.surveys.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	surveys := []model.Survey{}
	err = cursor.All(ctx, &surveys)
	if err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *surveyRepository) FindAll(ctx context.Context) ([]model.Survey, error) {
	return r.find(ctx, bson.M{})
}

func (r *surveyRepository) FindByOwner(ctx context.Context, ownerID string) ([]model.Survey, error) {
	return r.find(ctx, bson.M{"createdBy": ownerID})
}

func (r *surveyRepository) FindByPublished(ctx context.Context, published bool) ([]model.Survey, error) {
	return r.find(ctx, bson.M{"published": published})
}

func (r *surveyRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.surveys.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

type responseRepository struct {
	responses *mongo.Collection
}

func (r *responseRepository) Save(ctx context.Context, response *model.SurveyResponse) error {
	_, err := r.responses.InsertOne(ctx, response)
	return err
}

func (r *responseRepository) FindBySurveyID(ctx context.Context, surveyID string) ([]model.SurveyResponse, error) {
	cursor, err := r.responses.Find(ctx, bson.M{"surveyId": surveyID})
	if err != nil {
		return nil, err
	}

	responses := []model.SurveyResponse{}
	err = cursor.All(ctx, &responses)
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.responses.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

type userRepository struct {
	users *mongo.Collection
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	_, err := r.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, upsert)
	return err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := r.users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
