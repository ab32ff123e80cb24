package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"taxi-dispatch/internal/config"
	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	statusKeyPrefix = "driver:status:"
	availableSetKey = "drivers:available"
)

// LocationRepo keeps live driver statuses in Redis. Each driver has a JSON
// status value plus membership in the available set used by matching.
type LocationRepo struct {
	rdb *redis.Client
}

func New(ctx context.Context, cfg *config.Redisconfig) (*LocationRepo, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &LocationRepo{rdb: rdb}, nil
}

func (lr *LocationRepo) Close() error {
	return lr.rdb.Close()
}

var _ ports.ILocationRepo = (*LocationRepo)(nil)

func (lr *LocationRepo) SetStatus(ctx context.Context, driverID, state string, coord *model.Coordinate) error {
	key := statusKeyPrefix + driverID

	// A nil coord keeps the previously stored position, so a driver going
	// busy does not lose where they were.
	if coord == nil {
		prev, ok, err := lr.GetStatus(ctx, driverID)
		if err != nil {
			return err
		}
		if ok {
			coord = prev.Coord
		}
	}

	raw, err := json.Marshal(model.DriverStatus{
		DriverID: driverID,
		State:    state,
		Coord:    coord,
	})
	if err != nil {
		return err
	}

	pipe := lr.rdb.TxPipeline()
	pipe.Set(ctx, key, raw, 0)
	if state == model.StateAvailable {
		pipe.SAdd(ctx, availableSetKey, driverID)
	} else {
		pipe.SRem(ctx, availableSetKey, driverID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (lr *LocationRepo) GetStatus(ctx context.Context, driverID string) (model.DriverStatus, bool, error) {
	raw, err := lr.rdb.Get(ctx, statusKeyPrefix+driverID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.DriverStatus{}, false, nil
		}
		return model.DriverStatus{}, false, err
	}

	var ds model.DriverStatus
	if err := json.Unmarshal(raw, &ds); err != nil {
		return model.DriverStatus{}, false, err
	}
	return ds, true, nil
}

func (lr *LocationRepo) ListAvailable(ctx context.Context) ([]model.DriverStatus, error) {
	ids, err := lr.rdb.SMembers(ctx, availableSetKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, statusKeyPrefix+id)
	}

	vals, err := lr.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	statuses := make([]model.DriverStatus, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			// Status expired between SMEMBERS and MGET.
			continue
		}
		var ds model.DriverStatus
		if err := json.Unmarshal([]byte(s), &ds); err != nil {
			return nil, err
		}
		statuses = append(statuses, ds)
	}
	return statuses, nil
}

func (lr *LocationRepo) UpdatePositionIfAvailable(ctx context.Context, driverID string, coord model.Coordinate) (bool, error) {
	key := statusKeyPrefix + driverID
	written := false

	// WATCH makes the write conditional on the status not flipping away from
	// AVAILABLE between the read and the SET.
	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return err
		}

		var ds model.DriverStatus
		if err := json.Unmarshal(raw, &ds); err != nil {
			return err
		}
		if ds.State != model.StateAvailable {
			return nil
		}

		ds.Coord = &coord
		next, err := json.Marshal(ds)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err == nil {
			written = true
		}
		return err
	}

	if err := lr.rdb.Watch(ctx, txn, key); err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return false, nil
		}
		return false, err
	}
	return written, nil
}
