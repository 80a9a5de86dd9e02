package repositories

import (
	"context"
	"time"

	"github.com/HSouheill/shop_backend/config"
	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CustomerRepository struct {
	collection *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{collection: db.Collection(config.CustomersCollection)}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	now := time.Now()
	customer.CreatedAt, customer.UpdatedAt = now, now
	res, err := r.collection.InsertOne(ctx, customer)
	if err != nil {
		return translate(err)
	}
	customer.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&customer); err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *CustomerRepository) ListByName(ctx context.Context) ([]models.Customer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	customers := []models.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// IncrementBalances records a new credit sale against the customer
func (r *CustomerRepository) IncrementBalances(ctx context.Context, id primitive.ObjectID, amount float64) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"totalPurchases": amount, "remainingDue": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyPayment adds amount to totalPaid and lowers remainingDue, floored at
// zero, in a single pipeline update. It returns the updated customer.
func (r *CustomerRepository) ApplyPayment(ctx context.Context, id primitive.ObjectID, amount float64) (*models.Customer, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"totalPaid": bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$totalPaid", 0}}, amount}},
			"remainingDue": bson.M{"$max": bson.A{
				0,
				bson.M{"$subtract": bson.A{bson.M{"$ifNull": bson.A{"$remainingDue", 0}}, amount}},
			}},
			"updatedAt": "$$NOW",
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var customer models.Customer
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&customer); err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

// SumRemainingDue totals the ledger balance of every customer
func (r *CustomerRepository) SumRemainingDue(ctx context.Context) (float64, error) {
	return sumField(ctx, r.collection, bson.M{}, "$remainingDue")
}

// sumField runs a single-group $sum aggregation
func sumField(ctx context.Context, coll *mongo.Collection, match bson.M, expr interface{}) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": expr}}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
