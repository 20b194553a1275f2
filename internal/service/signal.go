package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
)

// SignalService fans protocol events out over redis pub/sub so every node
// process (and the realtime websocket) sees commits from any of them.
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, event defios.Event) error {
	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.rdb.Publish(ctx, domain.EventChannel, jsonstr).Err()
}

// Subscribe opens a pub/sub stream of protocol events. The caller owns the
// returned subscription and must Close it.
func (s *SignalService) Subscribe(ctx context.Context) *redis.PubSub {
	return s.rdb.Subscribe(ctx, domain.EventChannel)
}
