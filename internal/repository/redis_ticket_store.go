package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk-log/internal/domain"
)

// DefaultRedisKey is the hash holding every ticket record.
const DefaultRedisKey = "helpdesk:tickets"

type redisTicketStore struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

// NewRedisTicketStore keeps every ticket as a JSON value in one hash, field per id.
func NewRedisTicketStore(client *redis.Client, key string) TicketStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &redisTicketStore{client: client, key: key, now: time.Now}
}

func (r *redisTicketStore) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	values, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	result := make([]domain.Ticket, 0, len(values))
	for id, raw := range values {
		var ticket domain.Ticket
		if err := json.Unmarshal([]byte(raw), &ticket); err != nil {
			return nil, fmt.Errorf("decode ticket %s: %w", id, err)
		}
		if ticket.ID == "" {
			ticket.ID = id
		}
		result = append(result, ticket)
	}
	sortByCreation(result)
	return result, nil
}

func (r *redisTicketStore) Insert(ctx context.Context, draft domain.TicketDraft) (*domain.Ticket, error) {
	ticket := draft.Ticket(uuid.NewString(), r.now().UTC())
	payload, err := json.Marshal(ticket)
	if err != nil {
		return nil, err
	}
	if err := r.client.HSet(ctx, r.key, ticket.ID, payload).Err(); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *redisTicketStore) UpdateField(ctx context.Context, id string, field domain.TicketField, value string) error {
	if err := checkField(field); err != nil {
		return err
	}
	// WATCH guards the read-modify-write against a concurrent delete.
	return r.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, r.key, id).Result()
		if errors.Is(err, redis.Nil) {
			return ErrTicketNotFound
		}
		if err != nil {
			return err
		}
		var ticket domain.Ticket
		if err := json.Unmarshal([]byte(raw), &ticket); err != nil {
			return fmt.Errorf("decode ticket %s: %w", id, err)
		}
		payload, err := json.Marshal(ticket.WithField(field, value))
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, r.key, id, payload)
			return nil
		})
		return err
	}, r.key)
}

func (r *redisTicketStore) Delete(ctx context.Context, id string) error {
	removed, err := r.client.HDel(ctx, r.key, id).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrTicketNotFound
	}
	return nil
}
