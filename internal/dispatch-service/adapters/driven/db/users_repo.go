package db

import (
	"context"
	"errors"

	"taxi-dispatch/internal/dispatch-service/core/domain/model"
	"taxi-dispatch/internal/dispatch-service/core/myerrors"
	"taxi-dispatch/internal/dispatch-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) ports.IUserRepo {
	return &UserRepo{db: db}
}

func (ur *UserRepo) Create(ctx context.Context, u model.User) error {
	q := `INSERT INTO users(
			user_id,
			username,
			role,
			gender,
			balance,
			ratings,
			is_admin
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	conn := ur.db.conn
	_, err := conn.Exec(ctx, q,
		u.ID,
		u.Username,
		u.Role,
		u.Gender,
		u.Balance,
		u.Ratings,
		u.Admin,
	)
	return err
}

func (ur *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	q := `SELECT user_id, username, role, gender, balance, ratings, is_admin
		FROM users WHERE user_id = $1`

	conn := ur.db.conn
	row := conn.QueryRow(ctx, q, id)
	return scanUser(row)
}

func (ur *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	q := `SELECT user_id, username, role, gender, balance, ratings, is_admin
		FROM users WHERE LOWER(username) = LOWER($1)`

	conn := ur.db.conn
	row := conn.QueryRow(ctx, q, username)
	return scanUser(row)
}

func (ur *UserRepo) AdjustBalance(ctx context.Context, id string, delta float64) (float64, error) {
	q := `UPDATE users SET balance = balance + $2 WHERE user_id = $1 RETURNING balance`

	conn := ur.db.conn
	row := conn.QueryRow(ctx, q, id, delta)

	newBalance := 0.0
	if err := row.Scan(&newBalance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0.0, myerrors.ErrUserNotFound
		}
		return 0.0, err
	}
	return newBalance, nil
}

func (ur *UserRepo) AppendRating(ctx context.Context, id string, rating int) ([]int, error) {
	q := `UPDATE users SET ratings = array_append(ratings, $2) WHERE user_id = $1 RETURNING ratings`

	conn := ur.db.conn
	row := conn.QueryRow(ctx, q, id, rating)

	var ratings []int
	if err := row.Scan(&ratings); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, myerrors.ErrUserNotFound
		}
		return nil, err
	}
	return ratings, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Role,
		&u.Gender,
		&u.Balance,
		&u.Ratings,
		&u.Admin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, myerrors.ErrUserNotFound
		}
		return model.User{}, err
	}
	return u, nil
}
