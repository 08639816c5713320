package database

import (
	"commandcenter/source/utils"
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	MONGO_TIMEOUT = 20 * time.Second

	COLLECTION_PIPELINE_ITEMS   = "pipeline_items"
	COLLECTION_PIPELINE_HISTORY = "pipeline_history"
	COLLECTION_ACCOUNTS         = "accounts"
	COLLECTION_CONTACTS         = "contacts"
	COLLECTION_INVOICES         = "invoices"
	COLLECTION_PAYMENTS         = "payments"
	COLLECTION_EXPENSES         = "expenses"
)

func GetDB() string {
	environment := os.Getenv(utils.ENV)

	if environment == utils.ENV_RELEASE {
		return "production"
	}

	if environment == utils.ENV_HOMOLOG {
		return "homolog"
	}

	if environment == utils.ENV_DEVELOPMENT {
		return "development"
	}

	panic("[MongoDB] Invalid DB name")
}

// ConnectMongo opens a client and checks the server answers.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("%s is not set", utils.MONGODB_URI)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetTimeout(MONGO_TIMEOUT))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, MONGO_TIMEOUT)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, nil
}
