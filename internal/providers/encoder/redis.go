package encoder

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const DefaultStream = "encode:stream"

// RedisEncoder publishes encode jobs onto the stream the encoding workers
// consume from.
type RedisEncoder struct {
	client *redis.Client
	stream string
}

var _ Provider = (*RedisEncoder)(nil)

func NewRedisEncoder(client *redis.Client, stream string) *RedisEncoder {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisEncoder{client: client, stream: stream}
}

func (e *RedisEncoder) Submit(ctx context.Context, videoID uint) error {
	return e.client.XAdd(ctx, &redis.XAddArgs{
		Stream: e.stream,
		Values: map[string]any{
			"video_id": strconv.FormatUint(uint64(videoID), 10),
		},
	}).Err()
}
