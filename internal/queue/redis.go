package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// jobsKey is the Redis list holding pending extraction jobs.
const jobsKey = "docvault:extract:jobs"

// RedisQueue implements Queue on a Redis list. LPUSH/BRPOP gives FIFO order
// and blocking consumption across any number of workers.
type RedisQueue struct {
	client *redis.Client
}

// NewRedisQueue connects to Redis and verifies the connection.
func NewRedisQueue(ctx context.Context, addr, password string, db int) (*RedisQueue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisQueue{client: client}, nil
}

// Close closes the Redis connection.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}

// Enqueue appends a job to the list.
func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	if err := q.client.LPush(ctx, jobsKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}

	return nil
}

// Dequeue blocks until a job is available. A zero timeout lets Redis block
// indefinitely; context cancellation still interrupts the call.
func (q *RedisQueue) Dequeue(ctx context.Context) (Job, error) {
	result, err := q.client.BRPop(ctx, 0, jobsKey).Result()
	if err != nil {
		return Job{}, fmt.Errorf("dequeue job: %w", err)
	}

	// BRPop returns [key, value].
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return Job{}, fmt.Errorf("unmarshal job: %w", err)
	}

	return job, nil
}
