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

type OwnerRepository struct {
	collection *mongo.Collection
}

func NewOwnerRepository(db *mongo.Database) *OwnerRepository {
	return &OwnerRepository{collection: db.Collection(config.OwnersCollection)}
}

func (r *OwnerRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *OwnerRepository) Create(ctx context.Context, owner *models.Owner) error {
	now := time.Now()
	owner.CreatedAt, owner.UpdatedAt = now, now
	res, err := r.collection.InsertOne(ctx, owner)
	if err != nil {
		return translate(err)
	}
	owner.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *OwnerRepository) FindByEmail(ctx context.Context, email string) (*models.Owner, error) {
	var owner models.Owner
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&owner); err != nil {
		return nil, translate(err)
	}
	return &owner, nil
}

func (r *OwnerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Owner, error) {
	var owner models.Owner
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&owner); err != nil {
		return nil, translate(err)
	}
	return &owner, nil
}

func (r *OwnerRepository) SetResetCode(ctx context.Context, id primitive.ObjectID, code string, expires time.Time) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"resetPasswordCode":    code,
		"resetPasswordExpires": expires,
		"updatedAt":            time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CompletePasswordReset stores the new hash, bumps tokenVersion so every
// previously issued owner token stops working, and clears the reset code.
func (r *OwnerRepository) CompletePasswordReset(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"password": passwordHash, "updatedAt": time.Now()},
		"$inc":   bson.M{"tokenVersion": 1},
		"$unset": bson.M{"resetPasswordCode": "", "resetPasswordExpires": ""},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
