package main

import (
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"meta_tourism/config"
	"meta_tourism/internal/global"
)

func InitRegistry() {

	logrus.Info("Initialized registry") // Ghi log thông báo đã khởi tạo registry

	// Khởi tạo registry và đăng ký các collections
	err := InitCollections(global.MongoDB_Session, global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")
}

// InitCollections khởi tạo và đăng ký các collections MongoDB.
// Collections xác thực nằm ở db auth, collections nghiệp vụ tourism nằm ở db data.
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	authDB := client.Database(cfg.MongoDB_DBName_Auth)
	dataDB := client.Database(cfg.MongoDB_DBName_Data)

	names := global.MongoDB_ColNames
	authColNames := []string{names.Users, names.Roles, names.UserRoles, names.AccessTokens}
	dataColNames := []string{names.Branches, names.Trips, names.TripAssignments, names.Bookings,
		names.Wallets, names.WalletTransactions, names.Reviews,
		names.GuideSkills, names.GuideAssessments, names.MetricsSnapshots}

	register := func(db *mongo.Database, colNames []string) error {
		for _, name := range colNames {
			registered, err := global.RegistryCollections.Register(name, db.Collection(name))
			if err != nil {
				logrus.Errorf("Failed to register collection %s: %v", name, err)
				return err
			}

			if registered {
				logrus.Infof("Collection %s registered successfully", name)
			} else {
				logrus.Errorf("Collection %s already registered", name)
			}
		}
		return nil
	}

	if err := register(authDB, authColNames); err != nil {
		return err
	}
	return register(dataDB, dataColNames)
}
