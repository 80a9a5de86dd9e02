package repositories

import (
	"context"
	"time"

	"github.com/HSouheill/shop_backend/config"
	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SettingsRepository stores the single shop settings document under a fixed _id.
type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{collection: db.Collection(config.SettingsCollection)}
}

// Get returns the settings, creating them with defaults on first read.
func (r *SettingsRepository) Get(ctx context.Context) (*models.ShopSettings, error) {
	defaults := models.DefaultShopSettings()
	now := time.Now()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{"$setOnInsert": bson.M{
		"shopName":  defaults.ShopName,
		"address":   defaults.Address,
		"location":  defaults.Location,
		"phone":     defaults.Phone,
		"whatsapp":  defaults.WhatsApp,
		"email":     defaults.Email,
		"about":     defaults.About,
		"logo":      defaults.Logo,
		"theme":     defaults.Theme,
		"createdAt": now,
		"updatedAt": now,
	}}

	var settings models.ShopSettings
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": models.ShopSettingsID}, update, opts).Decode(&settings)
	if err != nil {
		return nil, translate(err)
	}
	return &settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings *models.ShopSettings) error {
	settings.ID = models.ShopSettingsID
	settings.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": models.ShopSettingsID}, settings, options.Replace().SetUpsert(true))
	return err
}
