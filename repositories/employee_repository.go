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

type EmployeeRepository struct {
	collection *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{collection: db.Collection(config.EmployeesCollection)}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	now := time.Now()
	employee.CreatedAt, employee.UpdatedAt = now, now
	if employee.SalaryHistory == nil {
		employee.SalaryHistory = []models.SalaryRecord{}
	}
	res, err := r.collection.InsertOne(ctx, employee)
	if err != nil {
		return translate(err)
	}
	employee.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	var employee models.Employee
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&employee); err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

func (r *EmployeeRepository) FindByUsername(ctx context.Context, username string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&employee); err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	employees := []models.Employee{}
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// Replace overwrites the editable profile fields. Salary history is owned by
// RecordSalary and left untouched.
func (r *EmployeeRepository) Replace(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": employee.ID}, bson.M{"$set": bson.M{
		"name":      employee.Name,
		"phone":     employee.Phone,
		"email":     employee.Email,
		"role":      employee.Role,
		"salary":    employee.Salary,
		"joinDate":  employee.JoinDate,
		"address":   employee.Address,
		"cnic":      employee.CNIC,
		"username":  employee.Username,
		"password":  employee.Password,
		"isActive":  employee.IsActive,
		"updatedAt": employee.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordSalary appends a salary record unless record.Month is already the
// employee's lastPaidMonth. The month check and the write are one update, so
// two concurrent payments for the same month cannot both land. It reports
// false when the month was already paid.
func (r *EmployeeRepository) RecordSalary(ctx context.Context, id primitive.ObjectID, record models.SalaryRecord) (bool, error) {
	filter := bson.M{"_id": id, "lastPaidMonth": bson.M{"$ne": record.Month}}
	update := bson.M{
		"$push": bson.M{"salaryHistory": record},
		"$set": bson.M{
			"lastPaidMonth": record.Month,
			"salaryStatus":  models.SalaryPaid,
			"updatedAt":     time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
