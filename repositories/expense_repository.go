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

type ExpenseRepository struct {
	collection *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) *ExpenseRepository {
	return &ExpenseRepository{collection: db.Collection(config.ExpensesCollection)}
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	now := time.Now()
	expense.CreatedAt, expense.UpdatedAt = now, now
	res, err := r.collection.InsertOne(ctx, expense)
	if err != nil {
		return translate(err)
	}
	expense.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Expense, error) {
	var expense models.Expense
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&expense); err != nil {
		return nil, translate(err)
	}
	return &expense, nil
}

// List returns expenses matching filter, newest date first
func (r *ExpenseRepository) List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, expenseQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	expenses := []models.Expense{}
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *ExpenseRepository) Replace(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": expense.ID}, expense)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SummaryByType groups matching expenses by type
func (r *ExpenseRepository) SummaryByType(ctx context.Context, filter models.ExpenseFilter) (models.ExpenseSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: expenseQuery(filter)}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$type",
			"total": bson.M{"$sum": "$amount"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"total": -1}}},
	}
	summary := models.ExpenseSummary{ByType: []models.ExpenseTypeTotal{}}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return summary, err
	}
	if err := cursor.All(ctx, &summary.ByType); err != nil {
		return summary, err
	}
	for _, row := range summary.ByType {
		summary.TotalExpenses += row.Total
	}
	return summary, nil
}

func expenseQuery(filter models.ExpenseFilter) bson.M {
	query := bson.M{}
	if window := dateRange(filter.Start, filter.End); window != nil {
		query["date"] = window
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	return query
}
