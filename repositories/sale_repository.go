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

type SaleRepository struct {
	collection *mongo.Collection
}

func NewSaleRepository(db *mongo.Database) *SaleRepository {
	return &SaleRepository{collection: db.Collection(config.SalesCollection)}
}

func (r *SaleRepository) Create(ctx context.Context, sale *models.Sale) error {
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}
	sale.UpdatedAt = sale.CreatedAt
	if sale.Payments == nil {
		sale.Payments = []models.Payment{}
	}
	res, err := r.collection.InsertOne(ctx, sale)
	if err != nil {
		return translate(err)
	}
	sale.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *SaleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Sale, error) {
	var sale models.Sale
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sale); err != nil {
		return nil, translate(err)
	}
	return &sale, nil
}

// ListWithCustomers returns every sale, newest first, with the customer's
// name and phone resolved.
func (r *SaleRepository) ListWithCustomers(ctx context.Context) ([]models.SaleView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
		{{Key: "$lookup", Value: bson.M{
			"from": config.CustomersCollection,
			"let":  bson.M{"customerId": "$customer"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$customerId"}}}},
				bson.M{"$project": bson.M{"name": 1, "phone": 1}},
			},
			"as": "customerDetails",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$customerDetails", "preserveNullAndEmptyArrays": true}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	views := []models.SaleView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// FindCreatedBetween returns sales created in [from, to]. Either bound may be nil.
func (r *SaleRepository) FindCreatedBetween(ctx context.Context, from, to *time.Time) ([]models.Sale, error) {
	filter := bson.M{}
	if window := dateRange(from, to); window != nil {
		filter["createdAt"] = window
	}
	return r.find(ctx, filter)
}

// FindByCustomer returns one customer's sales of the given type, newest first
func (r *SaleRepository) FindByCustomer(ctx context.Context, customerID primitive.ObjectID, saleType string, from, to *time.Time) ([]models.Sale, error) {
	filter := bson.M{"customer": customerID, "saleType": saleType}
	if window := dateRange(from, to); window != nil {
		filter["createdAt"] = window
	}
	return r.find(ctx, filter)
}

func (r *SaleRepository) find(ctx context.Context, filter bson.M) ([]models.Sale, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	sales := []models.Sale{}
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// UpdateDetails writes the descriptive fields of a sale. Items, totals and
// the payment ledger are never touched here.
func (r *SaleRepository) UpdateDetails(ctx context.Context, sale *models.Sale) error {
	sale.UpdatedAt = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": sale.ID}, bson.M{"$set": bson.M{
		"customerInfo":    sale.CustomerInfo,
		"subtotal":        sale.Subtotal,
		"discountPercent": sale.DiscountPercent,
		"serviceCharge":   sale.ServiceCharge,
		"tax":             sale.Tax,
		"updatedAt":       sale.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendPayment pushes a payment and increments paidAmount in one update
func (r *SaleRepository) AppendPayment(ctx context.Context, id primitive.ObjectID, payment models.Payment) (*models.Sale, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var sale models.Sale
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"payments": payment},
		"$inc":  bson.M{"paidAmount": payment.Amount},
		"$set":  bson.M{"updatedAt": time.Now()},
	}, opts).Decode(&sale)
	if err != nil {
		return nil, translate(err)
	}
	return &sale, nil
}

// SummarySince sums sale totals and counts sales created at or after since
func (r *SaleRepository) SummarySince(ctx context.Context, since time.Time) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$total"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	var rows []struct {
		Total float64 `bson:"total"`
		Count int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Total, rows[0].Count, nil
}

// SumPaymentsBetween totals payments dated inside [from, to] across all
// non-cash sales, regardless of when the sale itself was created.
func (r *SaleRepository) SumPaymentsBetween(ctx context.Context, from, to time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"saleType": bson.M{"$ne": models.SaleCash}}}},
		{{Key: "$unwind", Value: "$payments"}},
		{{Key: "$match", Value: bson.M{"payments.date": bson.M{"$gte": from, "$lte": to}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$payments.amount"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
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

// SumTemporaryOutstanding totals (total - paidAmount) over temporary sales
func (r *SaleRepository) SumTemporaryOutstanding(ctx context.Context) (float64, error) {
	return sumField(ctx, r.collection,
		bson.M{"saleType": models.SaleTemporary},
		bson.M{"$subtract": bson.A{"$total", bson.M{"$ifNull": bson.A{"$paidAmount", 0}}}},
	)
}

// PermanentTotalsByCustomer sums permanent sale totals per customer
func (r *SaleRepository) PermanentTotalsByCustomer(ctx context.Context, customerIDs []primitive.ObjectID) (map[primitive.ObjectID]float64, error) {
	totals := make(map[primitive.ObjectID]float64, len(customerIDs))
	if len(customerIDs) == 0 {
		return totals, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"saleType": models.SalePermanent,
			"customer": bson.M{"$in": customerIDs},
		}}},
		{{Key: "$group", Value: bson.M{"_id": "$customer", "total": bson.M{"$sum": "$total"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Total float64            `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		totals[row.ID] = row.Total
	}
	return totals, nil
}

func dateRange(from, to *time.Time) bson.M {
	if from == nil && to == nil {
		return nil
	}
	window := bson.M{}
	if from != nil {
		window["$gte"] = *from
	}
	if to != nil {
		window["$lte"] = *to
	}
	return window
}
