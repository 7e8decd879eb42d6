package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
)

// historyLimit bounds the messages returned with a chat.
const historyLimit = 100

type chatService struct {
	accounts ports.CredentialStore
	chats    ports.ChatStore
	messages ports.MessageStore
	resolver *OwnershipResolver
	guard    *AccessGuard
	log      zerolog.Logger
}

// NewChatService returns a ChatService implementation.
func NewChatService(
	accounts ports.CredentialStore,
	chats ports.ChatStore,
	messages ports.MessageStore,
	resolver *OwnershipResolver,
	guard *AccessGuard,
	log zerolog.Logger,
) ports.ChatService {
	return &chatService{
		accounts: accounts,
		chats:    chats,
		messages: messages,
		resolver: resolver,
		guard:    guard,
		log:      log,
	}
}

// OpenDirect returns the direct chat between the actor and peer, creating it
// on first use. A lost creation race resolves to the chat that won.
func (s *chatService) OpenDirect(ctx context.Context, actor domain.ActorContext, peerID string) (*domain.Chat, error) {
	if peerID == "" || peerID == actor.AccountID {
		return nil, fmt.Errorf("open chat: peer: %w", domain.ErrInvalidInput)
	}
	if err := s.guard.Check(ctx, actor, domain.ActionCreate, domain.NewChatTarget(actor.AccountID, peerID)); err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByID(ctx, peerID); err != nil {
		return nil, fmt.Errorf("open chat: %w", err)
	}

	pairKey := domain.PairKey(actor.AccountID, peerID)
	existing, err := s.chats.FindByPairKey(ctx, pairKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("open chat: %w", err)
	}

	chat := &domain.Chat{
		ID:           uuid.NewString(),
		Participants: []string{actor.AccountID, peerID},
		PairKey:      pairKey,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		if errors.Is(err, domain.ErrDuplicateChat) {
			return s.chats.FindByPairKey(ctx, pairKey)
		}
		return nil, fmt.Errorf("open chat: %w", err)
	}

	s.log.Info().Str("chat_id", chat.ID).Str("actor_id", actor.AccountID).Msg("chat opened")
	return chat, nil
}

func (s *chatService) Get(ctx context.Context, actor domain.ActorContext, id string) (*domain.Chat, []*domain.Message, error) {
	chat, err := s.authorizeChat(ctx, actor, domain.ActionRead, id)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.messages.ListByChat(ctx, id, historyLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("get chat: %w", err)
	}
	return chat, msgs, nil
}

func (s *chatService) Send(ctx context.Context, actor domain.ActorContext, chatID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("send: body: %w", domain.ErrInvalidInput)
	}
	if _, err := s.authorizeChat(ctx, actor, domain.ActionSend, chatID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		SenderID:  actor.AccountID,
		Body:      body,
		ReadBy:    []string{actor.AccountID},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	return msg, nil
}

func (s *chatService) MarkRead(ctx context.Context, actor domain.ActorContext, messageID string) (*domain.Message, error) {
	_, d, err := s.resolver.Message(ctx, messageID)
	if err != nil {
		return nil, s.guard.Unresolved(actor, domain.ActionMarkRead, domain.KindMessage, messageID, err)
	}
	if err := s.guard.Check(ctx, actor, domain.ActionMarkRead, d); err != nil {
		return nil, err
	}

	msg, err := s.messages.MarkRead(ctx, messageID, actor.AccountID)
	if err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}
	return msg, nil
}

func (s *chatService) authorizeChat(ctx context.Context, actor domain.ActorContext, action domain.Action, id string) (*domain.Chat, error) {
	chat, d, err := s.resolver.Chat(ctx, id)
	if err != nil {
		return nil, s.guard.Unresolved(actor, action, domain.KindChat, id, err)
	}
	if err := s.guard.Check(ctx, actor, action, d); err != nil {
		return nil, err
	}
	return chat, nil
}
