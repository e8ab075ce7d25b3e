package history

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const collectionName = "hand_records"

// Recorder 对局历史的写入与查询
type Recorder interface {
	Save(ctx context.Context, rec *HandRecord) error
	FindByPlayer(ctx context.Context, playerID string, limit int) ([]HandRecord, error)
	Close(ctx context.Context) error
}

// MongoRecorder 基于 MongoDB 的历史记录
type MongoRecorder struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoRecorder 连接 MongoDB 并建好查询索引
func NewMongoRecorder(ctx context.Context, uri, database string) (*MongoRecorder, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb 连接错误: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb Ping 错误: %w", err)
	}

	collection := client.Database(database).Collection(collectionName)
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "players.id", Value: 1}, {Key: "ended_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("创建索引失败: %w", err)
	}

	return &MongoRecorder{client: client, collection: collection}, nil
}

// Save 写入一局记录
func (m *MongoRecorder) Save(ctx context.Context, rec *HandRecord) error {
	if _, err := m.collection.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("保存对局记录失败: %w", err)
	}
	return nil
}

// FindByPlayer 查询玩家最近的对局
func (m *MongoRecorder) FindByPlayer(ctx context.Context, playerID string, limit int) ([]HandRecord, error) {
	opts := options.Find().
		SetSort(bson.M{"ended_at": -1}).
		SetLimit(int64(clampLimit(limit)))

	cursor, err := m.collection.Find(ctx, bson.M{"players.id": playerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("查询对局记录失败: %w", err)
	}
	defer cursor.Close(ctx)

	records := []HandRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("解析对局记录失败: %w", err)
	}
	return records, nil
}

// Close 断开连接
func (m *MongoRecorder) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > 100:
		return 100
	default:
		return limit
	}
}

// NopRecorder 未配置 MongoDB 时使用，不记录任何内容
type NopRecorder struct{}

func (NopRecorder) Save(context.Context, *HandRecord) error { return nil }

func (NopRecorder) FindByPlayer(context.Context, string, int) ([]HandRecord, error) {
	return []HandRecord{}, nil
}

func (NopRecorder) Close(context.Context) error { return nil }
