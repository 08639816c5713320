package database

import (
	"commandcenter/source/board"
	"commandcenter/source/schemas"
	"commandcenter/source/utils"
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// PipelineStore is the board gateway plus the lookups the HTTP handlers need.
type PipelineStore interface {
	board.Gateway
	FetchOne(ctx context.Context, id string) (schemas.PipelineItem, error)
	FetchHistory(ctx context.Context, id string) ([]schemas.PipelineStageChange, error)
	Close(ctx context.Context) error
}

// OpenPipelineStore builds the store selected by GATEWAY_DRIVER. The mongo
// driver runs on mongoClient, which stays owned by the caller.
func OpenPipelineStore(ctx context.Context, mongoClient *mongo.Client) (PipelineStore, error) {
	switch driver := utils.GatewayDriver(); driver {
	case utils.GATEWAY_MONGO:
		if mongoClient == nil {
			return nil, fmt.Errorf("%s is not set", utils.MONGODB_URI)
		}
		return NewMongoPipelineGateway(mongoClient, GetDB()), nil
	case utils.GATEWAY_MYSQL:
		db, err := OpenMySQL(os.Getenv(utils.MYSQL_URI))
		if err != nil {
			return nil, err
		}
		return NewSQLPipelineGateway(db), nil
	case utils.GATEWAY_SQLITE:
		db, err := OpenSQLite(os.Getenv(utils.SQLITE_PATH))
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return NewSQLPipelineGateway(db), nil
	default:
		return nil, fmt.Errorf("unknown gateway driver %q", driver)
	}
}
