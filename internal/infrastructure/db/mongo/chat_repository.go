package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// ChatRepository implements ports.ChatStore. Direct chats are unique per
// pair_key through a partial unique index.
type ChatRepository struct {
	col *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{col: db.Collection(colChats)}
}

func (r *ChatRepository) FindByID(ctx context.Context, id string) (*domain.Chat, error) {
	return findOne[domain.Chat](ctx, r.col, bson.D{{Key: "_id", Value: id}}, "find chat "+id)
}

func (r *ChatRepository) FindByPairKey(ctx context.Context, pairKey string) (*domain.Chat, error) {
	filter := bson.D{{Key: "pair_key", Value: pairKey}, {Key: "is_group", Value: false}}
	return findOne[domain.Chat](ctx, r.col, filter, "find chat by pair")
}

func (r *ChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	return insertOne(ctx, r.col, chat, "insert chat", domain.ErrDuplicateChat)
}

// MessageRepository implements ports.MessageStore.
type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{col: db.Collection(colMessages)}
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	return findOne[domain.Message](ctx, r.col, bson.D{{Key: "_id", Value: id}}, "find message "+id)
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return insertOne(ctx, r.col, msg, "insert message", nil)
}

// MarkRead adds accountID to read_by; repeated calls are no-ops.
func (r *MessageRepository) MarkRead(ctx context.Context, id, accountID string) (*domain.Message, error) {
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: "read_by", Value: accountID}}}}
	return updateOne[domain.Message](ctx, r.col, id, update, "mark message "+id)
}

// ListByChat returns the latest limit messages of a chat, oldest first.
func (r *MessageRepository) ListByChat(ctx context.Context, chatID string, limit int) ([]*domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	msgs, err := findMany[domain.Message](ctx, r.col, bson.D{{Key: "chat_id", Value: chatID}}, "list messages", opts)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
