package repository

import (
	"context"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/user-registry/internal/common/db"
	"github.com/AlibekovAA/user-registry/internal/common/logger"
	"github.com/AlibekovAA/user-registry/internal/common/resilience"
	"github.com/AlibekovAA/user-registry/internal/user/domain"
)

const userColumns = `id, email, first_name, last_name, birth_date,
	COALESCE(address, ''), COALESCE(phone_number, ''), created_at, updated_at`

type PgRepository struct {
	pool    *pgxpool.Pool
	breaker *resilience.CircuitBreaker
	retry   db.RetryConfig
	log     *logger.Logger
}

func NewPgRepository(pool *pgxpool.Pool, breaker *resilience.CircuitBreaker, log *logger.Logger) *PgRepository {
	return &PgRepository{
		pool:    pool,
		breaker: breaker,
		retry:   db.DefaultRetryConfig,
		log:     log,
	}
}

func (r *PgRepository) guard(ctx context.Context, fn func(context.Context) error) error {
	if r.breaker == nil {
		return fn(ctx)
	}
	return r.breaker.Call(ctx, fn)
}

// read runs an idempotent query, retrying transient failures.
func (r *PgRepository) read(ctx context.Context, fn func(context.Context) error) error {
	return r.guard(ctx, func(ctx context.Context) error {
		return db.RetryWithBackoff(ctx, r.log, r.retry, func() error {
			return fn(ctx)
		})
	})
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const operation = "create user"
	created := user

	err := r.guard(ctx, func(ctx context.Context) error {
		start := time.Now()
		row := r.pool.QueryRow(
			ctx,
			`INSERT INTO users (email, first_name, last_name, birth_date, address, phone_number)
			 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
			 RETURNING id, created_at, updated_at`,
			user.Email,
			user.FirstName,
			user.LastName,
			user.BirthDate,
			user.Address,
			user.PhoneNumber,
		)
		var id int64
		err := row.Scan(&id, &created.CreatedAt, &created.UpdatedAt)
		created.ID = domain.ID(id)
		if db.IsUniqueViolation(err) {
			db.MeasureQueryDuration(operation, start)
			return ErrEmailAlreadyExists
		}
		return db.HandleExecError(err, operation, start)
	})
	if err != nil {
		return domain.User{}, err
	}
	return created, nil
}

func (r *PgRepository) Update(ctx context.Context, user domain.User) error {
	const operation = "update user"

	return r.guard(ctx, func(ctx context.Context) error {
		start := time.Now()
		tag, err := r.pool.Exec(
			ctx,
			`UPDATE users
			 SET email = $2, first_name = $3, last_name = $4, birth_date = $5,
			     address = NULLIF($6, ''), phone_number = NULLIF($7, ''), updated_at = now()
			 WHERE id = $1`,
			int64(user.ID),
			user.Email,
			user.FirstName,
			user.LastName,
			user.BirthDate,
			user.Address,
			user.PhoneNumber,
		)
		if db.IsUniqueViolation(err) {
			db.MeasureQueryDuration(operation, start)
			return ErrEmailAlreadyExists
		}
		if err := db.HandleExecError(err, operation, start); err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	const operation = "delete user"

	return r.guard(ctx, func(ctx context.Context) error {
		start := time.Now()
		tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, int64(id))
		if err := db.HandleExecError(err, operation, start); err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return r.findOne(ctx, "find user by id", `SELECT `+userColumns+` FROM users WHERE id = $1`, int64(id))
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, "find user by email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PgRepository) findOne(ctx context.Context, operation, query string, arg any) (domain.User, error) {
	var user domain.User

	err := r.read(ctx, func(ctx context.Context) error {
		start := time.Now()
		err := scanUser(r.pool.QueryRow(ctx, query, arg), &user)
		return db.HandleQueryError(err, ErrUserNotFound, operation, start)
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) FindByBirthDateBetween(ctx context.Context, from, to time.Time) ([]domain.User, error) {
	const operation = "find users by birth date range"
	var users []domain.User

	err := r.read(ctx, func(ctx context.Context) error {
		users = users[:0]
		start := time.Now()
		rows, err := r.pool.Query(
			ctx,
			`SELECT `+userColumns+`
			 FROM users
			 WHERE birth_date BETWEEN $1 AND $2
			 ORDER BY birth_date ASC, id ASC`,
			from,
			to,
		)
		if err != nil {
			return db.HandleExecError(err, operation, start)
		}
		defer rows.Close()

		for rows.Next() {
			var u domain.User
			if err := scanUser(rows, &u); err != nil {
				return fmt.Errorf("failed to scan user: %w", err)
			}
			users = append(users, u)
		}

		return db.HandleExecError(rows.Err(), operation, start)
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func scanUser(row pgx.Row, user *domain.User) error {
	var id int64
	err := row.Scan(
		&id,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.BirthDate,
		&user.Address,
		&user.PhoneNumber,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	user.ID = domain.ID(id)
	return nil
}
