package repositories

import (
	"context"
	"time"

	"github.com/HSouheill/shop_backend/config"
	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type LocationRepository struct {
	collection *mongo.Collection
}

func NewLocationRepository(db *mongo.Database) *LocationRepository {
	return &LocationRepository{collection: db.Collection(config.LocationsCollection)}
}

func (r *LocationRepository) Create(ctx context.Context, location *models.Location) error {
	now := time.Now()
	location.CreatedAt, location.UpdatedAt = now, now
	res, err := r.collection.InsertOne(ctx, location)
	if err != nil {
		return translate(err)
	}
	location.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *LocationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Location, error) {
	var location models.Location
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&location); err != nil {
		return nil, translate(err)
	}
	return &location, nil
}

// ListWithStaff returns locations newest first with assigned staff resolved
func (r *LocationRepository) ListWithStaff(ctx context.Context) ([]models.LocationView, error) {
	return r.aggregate(ctx, bson.M{})
}

func (r *LocationRepository) FindViewByID(ctx context.Context, id primitive.ObjectID) (*models.LocationView, error) {
	views, err := r.aggregate(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

func (r *LocationRepository) aggregate(ctx context.Context, match bson.M) ([]models.LocationView, error) {
	pipeline := bson.A{
		bson.M{"$match": match},
		bson.M{"$sort": bson.M{"createdAt": -1}},
		bson.M{"$lookup": bson.M{
			"from": config.EmployeesCollection,
			"let":  bson.M{"staffId": "$assignedStaff"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$staffId"}}}},
				bson.M{"$project": bson.M{"name": 1, "role": 1}},
			},
			"as": "staffDetails",
		}},
		bson.M{"$unwind": bson.M{"path": "$staffDetails", "preserveNullAndEmptyArrays": true}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	views := []models.LocationView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *LocationRepository) Replace(ctx context.Context, location *models.Location) error {
	location.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": location.ID}, location)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LocationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
