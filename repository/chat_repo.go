package repository

import (
	"context"
	"time"

	"github.com/danghm/docqa-be/types"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ChatRepo persists conversation turns. Messages are append-only, nothing
// updates or deletes a turn once written.
type ChatRepo interface {
	AppendMessage(ctx context.Context, message *types.ChatMessage) error
	GetMessages(ctx context.Context, chatID string) ([]types.ChatMessage, error)
}

type chatRepo struct {
	collection *mongo.Collection
}

func NewChatRepo(collection *mongo.Collection) ChatRepo {
	return &chatRepo{
		collection: collection,
	}
}

func (r *chatRepo) AppendMessage(ctx context.Context, message *types.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	message.CreatedAt = time.Now().Unix()
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

func (r *chatRepo) GetMessages(ctx context.Context, chatID string) ([]types.ChatMessage, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"chat_id": chatID},
		options.Find().SetSort(bson.M{"created_at": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []types.ChatMessage
	for cursor.Next(ctx) {
		var message types.ChatMessage
		if err := cursor.Decode(&message); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, cursor.Err()
}
