package db

import (
	"context"
	"database/sql"
	"errors"

	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/dispatch-service/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type TripRepo struct {
	db *DB
}

func NewTripRepo(db *DB) ports.ITripRepo {
	return &TripRepo{db: db}
}

func (tr *TripRepo) Create(ctx context.Context, t model.Trip) error {
	// The insert races against other requests from the same passenger, so the
	// single-active-trip check has to live inside the statement.
	q := `INSERT INTO trips(
			trip_id,
			passenger_id,
			passenger_name,
			gender,
			start_latitude,
			start_longitude,
			destination,
			price,
			driver_id,
			status,
			created_at
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11
		WHERE NOT EXISTS (
			SELECT 1 FROM trips WHERE passenger_id = $2
		)`

	conn := tr.db.conn
	tag, err := conn.Exec(ctx, q,
		t.ID,
		t.PassengerID,
		t.PassengerName,
		t.Gender,
		t.Start.Latitude,
		t.Start.Longitude,
		t.Destination,
		t.Price,
		t.DriverID,
		t.Status,
		t.CreatedAt,
	)
	if err != nil {
		// unique_violation on trips_passenger_id_key
		if isUniqueViolation(err) {
			return myerrors.ErrTripAlreadyActive
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrTripAlreadyActive
	}
	return nil
}

func (tr *TripRepo) GetByID(ctx context.Context, id string) (model.Trip, error) {
	q := selectTrip + ` WHERE trip_id = $1`
	row := tr.db.conn.QueryRow(ctx, q, id)
	return scanTrip(row)
}

func (tr *TripRepo) GetByPassenger(ctx context.Context, passengerID string) (model.Trip, error) {
	q := selectTrip + ` WHERE passenger_id = $1`
	row := tr.db.conn.QueryRow(ctx, q, passengerID)
	return scanTrip(row)
}

func (tr *TripRepo) GetByDriver(ctx context.Context, driverID string) (model.Trip, error) {
	q := selectTrip + ` WHERE driver_id = $1`
	row := tr.db.conn.QueryRow(ctx, q, driverID)
	return scanTrip(row)
}

// ClaimDriver leans on trips_driver_id_key (migrations/001_init.sql): a
// NOT EXISTS subquery would not see a concurrent claim under READ COMMITTED,
// so the one-trip-per-driver invariant has to be enforced by the index.
func (tr *TripRepo) ClaimDriver(ctx context.Context, tripID, driverID string) (bool, error) {
	q := `UPDATE trips
		SET driver_id = $2, status = 'ASSIGNED'
		WHERE trip_id = $1
			AND status = 'REQUESTED'
			AND driver_id IS NULL`

	tag, err := tr.db.conn.Exec(ctx, q, tripID, driverID)
	if err != nil {
		if isUniqueViolation(err) {
			// The driver already holds another trip; the claim is lost.
			return false, nil
		}
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (tr *TripRepo) ReleaseDriver(ctx context.Context, tripID string) error {
	q := `UPDATE trips SET driver_id = NULL, status = 'REQUESTED' WHERE trip_id = $1`

	tag, err := tr.db.conn.Exec(ctx, q, tripID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrTripNotFound
	}
	return nil
}

func (tr *TripRepo) SetStatus(ctx context.Context, tripID, from, to string) (bool, error) {
	if !model.CanTransition(from, to) {
		return false, myerrors.ErrInvalidTransition
	}

	q := `UPDATE trips SET status = $3 WHERE trip_id = $1 AND status = $2`

	tag, err := tr.db.conn.Exec(ctx, q, tripID, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Complete runs the delete and the commission debit in one transaction so a
// storage failure past either statement rolls both back, leaving the trip in
// EN_ROUTE for a retry.
func (tr *TripRepo) Complete(ctx context.Context, tripID, driverID string, commission float64) (float64, bool, error) {
	tx, err := tr.db.conn.Begin(ctx)
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM trips WHERE trip_id = $1 AND driver_id = $2 AND status = 'EN_ROUTE'`,
		tripID, driverID)
	if err != nil {
		return 0, false, err
	}
	if tag.RowsAffected() == 0 {
		return 0, false, nil
	}

	var balance float64
	err = tx.QueryRow(ctx,
		`UPDATE users SET balance = balance - $2 WHERE user_id = $1 RETURNING balance`,
		driverID, commission).Scan(&balance)
	if err != nil {
		return 0, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, false, err
	}
	return balance, true, nil
}

// isUniqueViolation reports a Postgres 23505 unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const selectTrip = `SELECT
		trip_id,
		passenger_id,
		passenger_name,
		gender,
		start_latitude,
		start_longitude,
		destination,
		price,
		driver_id,
		status,
		created_at
	FROM trips`

func scanTrip(row pgx.Row) (model.Trip, error) {
	var (
		t        model.Trip
		driverID sql.NullString
	)
	err := row.Scan(
		&t.ID,
		&t.PassengerID,
		&t.PassengerName,
		&t.Gender,
		&t.Start.Latitude,
		&t.Start.Longitude,
		&t.Destination,
		&t.Price,
		&driverID,
		&t.Status,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Trip{}, myerrors.ErrTripNotFound
		}
		return model.Trip{}, err
	}
	t.DriverID = driverID.String
	return t, nil
}
