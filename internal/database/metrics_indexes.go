package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"meta_tourism/internal/logger"
)

// EnsureMetricsIndexes tạo các index phục vụ pipeline metrics.
// Idempotent: Mongo bỏ qua index đã tồn tại với cùng spec.
func EnsureMetricsIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log := logger.GetAppLogger()

	// trip_assignments: truy vấn theo guide + khoảng thời gian check-out
	assignIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "guideId", Value: 1}, {Key: "checkOutAt", Value: -1}}},
		{Keys: bson.D{{Key: "tripId", Value: 1}}},
		{Keys: bson.D{{Key: "branchId", Value: 1}}},
	}
	if _, err := db.Collection("trip_assignments").Indexes().CreateMany(ctx, assignIdx); err != nil {
		return err
	}

	// wallet_transactions: truy vấn theo ví + loại + trip
	txIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "walletId", Value: 1}, {Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "tripId", Value: 1}}},
	}
	if _, err := db.Collection("wallet_transactions").Indexes().CreateMany(ctx, txIdx); err != nil {
		return err
	}

	// reviews: truy vấn theo booking
	if _, err := db.Collection("reviews").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "bookingId", Value: 1}},
	}); err != nil {
		return err
	}

	// bookings: truy vấn theo trip
	if _, err := db.Collection("bookings").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tripId", Value: 1}},
	}); err != nil {
		return err
	}

	// metrics_snapshots: key định danh chính xác của một snapshot đã tính trước
	snapIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "guideId", Value: 1},
			{Key: "periodType", Value: 1},
			{Key: "periodStart", Value: 1},
			{Key: "periodEnd", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("guide_period_unique"),
	}
	if _, err := db.Collection("metrics_snapshots").Indexes().CreateOne(ctx, snapIdx); err != nil {
		return err
	}

	log.Info("Metrics indexes ensured")
	return nil
}
