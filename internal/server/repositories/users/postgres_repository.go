package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/conduit/internal/common"
	"github.com/dmitrijs2005/conduit/internal/dbx"
	"github.com/dmitrijs2005/conduit/internal/server/models"
)

const userColumns = `id, username, email, bio, image, salt, hash, following, favorites, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, username, email, bio, image, salt, hash, following, favorites)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.Bio, user.Image, user.Salt, user.Hash,
		dbx.JSONStrings(user.Following), dbx.JSONStrings(user.Favorites)).
		Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dup := duplicateField(err); dup != "" {
			return nil, &common.DuplicateError{Field: dup}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.getOne(ctx, query, username)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var following, favorites dbx.JSONStrings

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.Bio, &user.Image,
		&user.Salt, &user.Hash, &following, &favorites,
		&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Following = following
	user.Favorites = favorites
	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users
		 SET username = $1, email = $2, bio = $3, image = $4, salt = $5, hash = $6,
		     following = $7, favorites = $8, updated_at = now()
		 WHERE id = $9
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.Bio, user.Image, user.Salt, user.Hash,
		dbx.JSONStrings(user.Following), dbx.JSONStrings(user.Favorites), user.ID)

	if err != nil {
		if dup := duplicateField(err); dup != "" {
			return &common.DuplicateError{Field: dup}
		}
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) CountFavoriting(ctx context.Context, articleID string) (int, error) {
	query := `SELECT count(*) FROM users WHERE favorites @> to_jsonb($1::text)`

	var count int
	if err := r.db.QueryRowContext(ctx, query, articleID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

// duplicateField maps a Postgres unique-violation error onto the offending
// field name, so the API can report "<field> is already taken" instead of a
// raw constraint error.
func duplicateField(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return ""
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return "username"
	case "users_email_key":
		return "email"
	default:
		return "user"
	}
}
