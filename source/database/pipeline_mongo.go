package database

import (
	"commandcenter/source/board"
	"commandcenter/source/schemas"
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type pipelineItemDocument struct {
	ID             bson.ObjectID `bson:"_id"`
	Title          string        `bson:"title"`
	Stage          string        `bson:"stage"`
	EstimatedValue *float64      `bson:"estimated_value"`
	CreatedAt      time.Time     `bson:"created_at"`
	AccountName    string        `bson:"account_name"`
	ContactName    string        `bson:"contact_name"`
}

type stageChangeDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	ItemID    bson.ObjectID `bson:"item_id"`
	From      string        `bson:"from"`
	To        string        `bson:"to"`
	ChangedAt time.Time     `bson:"changed_at"`
}

func (d pipelineItemDocument) toPipelineItem() (schemas.PipelineItem, error) {
	stage, err := schemas.ParseStage(d.Stage)
	if err != nil {
		return schemas.PipelineItem{}, fmt.Errorf("pipeline item %s: %w", d.ID.Hex(), err)
	}

	return schemas.PipelineItem{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Stage:          stage,
		EstimatedValue: d.EstimatedValue,
		CreatedAt:      d.CreatedAt,
		Display: schemas.PipelineItemDisplay{
			AccountName: d.AccountName,
			ContactName: d.ContactName,
		},
	}, nil
}

// MongoPipelineGateway keeps pipeline items in the pipeline_items collection.
// Account and contact names are joined in with $lookup on every read.
type MongoPipelineGateway struct {
	client     *mongo.Client
	collection *mongo.Collection
	history    *mongo.Collection
}

func NewMongoPipelineGateway(client *mongo.Client, dbName string) *MongoPipelineGateway {
	db := client.Database(dbName)
	return &MongoPipelineGateway{
		client:     client,
		collection: db.Collection(COLLECTION_PIPELINE_ITEMS),
		history:    db.Collection(COLLECTION_PIPELINE_HISTORY),
	}
}

func pipelineItemsAggregation(match bson.D) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: COLLECTION_ACCOUNTS},
			{Key: "localField", Value: "account_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "account_data"},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: COLLECTION_CONTACTS},
			{Key: "localField", Value: "contact_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "contact_data"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "account_name", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$arrayElemAt", Value: bson.A{"$account_data.name", 0}}}, "",
			}}}},
			{Key: "contact_name", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$arrayElemAt", Value: bson.A{"$contact_data.name", 0}}}, "",
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "account_data", Value: 0},
			{Key: "contact_data", Value: 0},
		}}},
	}
}

func (g *MongoPipelineGateway) FetchAll(ctx context.Context) ([]schemas.PipelineItem, error) {
	ctx, cancel := context.WithTimeout(ctx, MONGO_TIMEOUT)
	defer cancel()

	return g.aggregate(ctx, bson.D{})
}

func (g *MongoPipelineGateway) FetchOne(ctx context.Context, id string) (schemas.PipelineItem, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return schemas.PipelineItem{}, fmt.Errorf("%w: %s", board.ErrItemNotFound, id)
	}

	ctx, cancel := context.WithTimeout(ctx, MONGO_TIMEOUT)
	defer cancel()

	items, err := g.aggregate(ctx, bson.D{{Key: "_id", Value: objectID}})
	if err != nil {
		return schemas.PipelineItem{}, err
	}
	if len(items) == 0 {
		return schemas.PipelineItem{}, fmt.Errorf("%w: %s", board.ErrItemNotFound, id)
	}

	return items[0], nil
}

func (g *MongoPipelineGateway) aggregate(ctx context.Context, match bson.D) ([]schemas.PipelineItem, error) {
	cursor, err := g.collection.Aggregate(ctx, pipelineItemsAggregation(match))
	if err != nil {
		return nil, fmt.Errorf("aggregate pipeline items: %w", err)
	}
	defer cursor.Close(ctx)

	documents := []pipelineItemDocument{}
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, fmt.Errorf("decode pipeline items: %w", err)
	}

	items := make([]schemas.PipelineItem, 0, len(documents))
	for _, doc := range documents {
		item, err := doc.toPipelineItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// UpdateStage moves the item and appends the move to pipeline_history. The
// history write is best effort: the stage change already happened.
func (g *MongoPipelineGateway) UpdateStage(ctx context.Context, id string, stage schemas.Stage) error {
	if !stage.Valid() {
		return fmt.Errorf("%w: %q", board.ErrUnknownStage, stage)
	}

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", board.ErrItemNotFound, id)
	}

	ctx, cancel := context.WithTimeout(ctx, MONGO_TIMEOUT)
	defer cancel()

	now := time.Now()
	filter := bson.D{{Key: "_id", Value: objectID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "stage", Value: string(stage)},
		{Key: "updated_at", Value: now},
	}}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.D{{Key: "stage", Value: 1}})

	previous := pipelineItemDocument{}
	err = g.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&previous)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %s", board.ErrItemNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("update stage of %s: %w", id, err)
	}

	if previous.Stage != string(stage) {
		_, err := g.history.InsertOne(ctx, stageChangeDocument{
			ItemID:    objectID,
			From:      previous.Stage,
			To:        string(stage),
			ChangedAt: now,
		})
		if err != nil {
			log.WithError(err).WithField("item_id", id).Warn("could not record stage history")
		}
	}

	return nil
}

func (g *MongoPipelineGateway) FetchHistory(ctx context.Context, id string) ([]schemas.PipelineStageChange, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", board.ErrItemNotFound, id)
	}

	ctx, cancel := context.WithTimeout(ctx, MONGO_TIMEOUT)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "changed_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := g.history.Find(ctx, bson.D{{Key: "item_id", Value: objectID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find stage history of %s: %w", id, err)
	}
	defer cursor.Close(ctx)

	documents := []stageChangeDocument{}
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, fmt.Errorf("decode stage history of %s: %w", id, err)
	}

	changes := make([]schemas.PipelineStageChange, 0, len(documents))
	for _, doc := range documents {
		changes = append(changes, schemas.PipelineStageChange{
			ID:        doc.ID.Hex(),
			ItemID:    doc.ItemID.Hex(),
			From:      schemas.Stage(doc.From),
			To:        schemas.Stage(doc.To),
			ChangedAt: doc.ChangedAt,
		})
	}

	return changes, nil
}

// Close leaves the client connected: it is shared with the finance store and
// disconnected by whoever connected it.
func (g *MongoPipelineGateway) Close(ctx context.Context) error {
	return nil
}
