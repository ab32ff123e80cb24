package db

import (
	"context"
	"time"

	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/ports"
)

type LocationHistoryRepo struct {
	db *DB
}

func NewLocationHistoryRepo(db *DB) ports.ILocationHistoryRepo {
	return &LocationHistoryRepo{db: db}
}

func (lr *LocationHistoryRepo) Append(ctx context.Context, driverID string, coord model.Coordinate) error {
	q := `INSERT INTO location_history(
			driver_id,
			latitude,
			longitude,
			recorded_at
		) VALUES ($1, $2, $3, $4)`

	conn := lr.db.conn
	_, err := conn.Exec(ctx, q, driverID, coord.Latitude, coord.Longitude, time.Now().UTC())
	return err
}
