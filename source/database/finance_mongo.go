package database

import (
	"commandcenter/source/schemas"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoFinanceStore reads the invoice, payment and expense ledgers.
type MongoFinanceStore struct {
	db *mongo.Database
}

func NewMongoFinanceStore(client *mongo.Client, dbName string) *MongoFinanceStore {
	return &MongoFinanceStore{db: client.Database(dbName)}
}

func (s *MongoFinanceStore) FetchInvoices(ctx context.Context, from, until time.Time) ([]schemas.Invoice, error) {
	invoices := []schemas.Invoice{}
	err := s.findInRange(ctx, COLLECTION_INVOICES, "issued_on", from, until, &invoices)
	return invoices, err
}

func (s *MongoFinanceStore) FetchPayments(ctx context.Context, from, until time.Time) ([]schemas.Payment, error) {
	payments := []schemas.Payment{}
	err := s.findInRange(ctx, COLLECTION_PAYMENTS, "received_on", from, until, &payments)
	return payments, err
}

func (s *MongoFinanceStore) FetchExpenses(ctx context.Context, from, until time.Time) ([]schemas.Expense, error) {
	expenses := []schemas.Expense{}
	err := s.findInRange(ctx, COLLECTION_EXPENSES, "incurred_on", from, until, &expenses)
	return expenses, err
}

func (s *MongoFinanceStore) findInRange(ctx context.Context, collectionName, dateField string, from, until time.Time, results any) error {
	ctx, cancel := context.WithTimeout(ctx, MONGO_TIMEOUT)
	defer cancel()

	dateFilter := bson.D{}
	if !from.IsZero() {
		dateFilter = append(dateFilter, bson.E{Key: "$gte", Value: from})
	}
	if !until.IsZero() {
		dateFilter = append(dateFilter, bson.E{Key: "$lte", Value: until})
	}

	filter := bson.D{}
	if len(dateFilter) > 0 {
		filter = append(filter, bson.E{Key: dateField, Value: dateFilter})
	}

	findOpts := options.Find().SetSort(bson.D{{Key: dateField, Value: 1}})

	cursor, err := s.db.Collection(collectionName).Find(ctx, filter, findOpts)
	if err != nil {
		return fmt.Errorf("find %s: %w", collectionName, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("decode %s: %w", collectionName, err)
	}

	return nil
}
