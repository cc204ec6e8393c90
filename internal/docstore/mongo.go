package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo stores each menu as a BSON document in the "menus" collection so
// it stays queryable from the mongo shell.
type Mongo struct {
	menus *mongo.Collection
	daily *mongo.Collection
	items *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		menus: db.Collection("menus"),
		daily: db.Collection("menu_daily_views"),
		items: db.Collection("menu_item_views"),
	}
}

// ConnectMongo dials uri and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique counter keys. Safe to call on every
// start.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := s.daily.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "menuId", Value: 1}, {Key: "day", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create daily views index: %w", err)
	}
	_, err = s.items.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "menuId", Value: 1}, {Key: "itemId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create item views index: %w", err)
	}
	return nil
}

type mongoMenu struct {
	Key       string    `bson:"_id"`
	Body      bson.Raw  `bson:"body"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (s *Mongo) Get(ctx context.Context, key string) (Document, error) {
	var m mongoMenu
	err := s.menus.FindOne(ctx, bson.M{"_id": key}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	body, err := bson.MarshalExtJSON(m.Body, false, false)
	if err != nil {
		return Document{}, fmt.Errorf("convert document to json: %w", err)
	}
	return Document{Body: body, UpdatedAt: m.UpdatedAt}, nil
}

func (s *Mongo) Put(ctx context.Context, key string, doc Document) error {
	var body bson.D
	if err := bson.UnmarshalExtJSON(doc.Body, false, &body); err != nil {
		return fmt.Errorf("convert document to bson: %w", err)
	}
	_, err := s.menus.ReplaceOne(ctx,
		bson.M{"_id": key},
		bson.D{{Key: "body", Value: body}, {Key: "updatedAt", Value: doc.UpdatedAt.UTC()}},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	return nil
}

func (s *Mongo) IncrementDaily(ctx context.Context, menuID, day string) error {
	_, err := s.daily.UpdateOne(ctx,
		bson.M{"menuId": menuID, "day": day},
		bson.M{"$inc": bson.M{"views": 1}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("increment daily views: %w", err)
	}
	return nil
}

func (s *Mongo) IncrementItem(ctx context.Context, menuID, itemID, name string) error {
	_, err := s.items.UpdateOne(ctx,
		bson.M{"menuId": menuID, "itemId": itemID},
		bson.M{"$inc": bson.M{"views": 1}, "$set": bson.M{"name": name}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("increment item views: %w", err)
	}
	return nil
}

func (s *Mongo) RecentDaily(ctx context.Context, menuID string, limit int) ([]DailyCount, error) {
	cur, err := s.daily.Find(ctx,
		bson.M{"menuId": menuID},
		options.Find().SetSort(bson.D{{Key: "day", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("list daily views: %w", err)
	}
	var rows []struct {
		Day   string `bson:"day"`
		Views int64  `bson:"views"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode daily views: %w", err)
	}
	out := make([]DailyCount, len(rows))
	for i, r := range rows {
		out[i] = DailyCount{Day: r.Day, Views: r.Views}
	}
	return out, nil
}

func (s *Mongo) TopItems(ctx context.Context, menuID string, limit int) ([]ItemCount, error) {
	cur, err := s.items.Find(ctx,
		bson.M{"menuId": menuID},
		options.Find().SetSort(bson.D{{Key: "views", Value: -1}, {Key: "itemId", Value: 1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("list item views: %w", err)
	}
	var rows []struct {
		ItemID string `bson:"itemId"`
		Name   string `bson:"name"`
		Views  int64  `bson:"views"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode item views: %w", err)
	}
	out := make([]ItemCount, len(rows))
	for i, r := range rows {
		out[i] = ItemCount{ItemID: r.ItemID, Name: r.Name, Views: r.Views}
	}
	return out, nil
}
