package articles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/conduit/internal/common"
	"github.com/dmitrijs2005/conduit/internal/dbx"
	"github.com/dmitrijs2005/conduit/internal/server/models"
)

const articleColumns = `id, slug, title, description, body, tag_list, favorites_count, author_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, article *models.Article) (*models.Article, error) {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO articles (id, slug, title, description, body, tag_list, author_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		article.ID, article.Slug, article.Title, article.Description, article.Body,
		dbx.JSONStrings(article.TagList), article.AuthorID).
		Scan(&article.CreatedAt, &article.UpdatedAt)

	if err != nil {
		if isSlugDuplicate(err) {
			return nil, &common.DuplicateError{Field: "slug"}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return article, nil
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug = $1`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return article, nil
}

func (r *PostgresRepository) Update(ctx context.Context, article *models.Article) error {
	query :=
		`UPDATE articles
		 SET slug = $1, title = $2, description = $3, body = $4, tag_list = $5, updated_at = now()
		 WHERE id = $6
		 `

	res, err := r.db.ExecContext(ctx, query,
		article.Slug, article.Title, article.Description, article.Body,
		dbx.JSONStrings(article.TagList), article.ID)

	if err != nil {
		if isSlugDuplicate(err) {
			return &common.DuplicateError{Field: "slug"}
		}
		return fmt.Errorf("db error: %w", err)
	}

	return checkAffected(res)
}

func (r *PostgresRepository) UpdateFavoritesCount(ctx context.Context, id string, count int) error {
	query := `UPDATE articles SET favorites_count = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, count, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return checkAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return checkAffected(res)
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*models.Article, int, error) {
	// an explicitly empty id filter can never match
	if (f.AuthorIDs != nil && len(f.AuthorIDs) == 0) || (f.IDs != nil && len(f.IDs) == 0) {
		return []*models.Article{}, 0, nil
	}

	where, args := buildFilter(f)

	var total int
	countQuery := `SELECT count(*) FROM articles` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := `SELECT ` + articleColumns + ` FROM articles` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := []*models.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		list = append(list, article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return list, total, nil
}

func (r *PostgresRepository) Tags(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT jsonb_array_elements_text(tag_list) AS tag FROM articles ORDER BY tag`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tags, nil
}

func buildFilter(f Filter) (string, []any) {
	conds := []string{}
	args := []any{}

	if f.Tag != "" {
		args = append(args, f.Tag)
		conds = append(conds, fmt.Sprintf("tag_list @> to_jsonb($%d::text)", len(args)))
	}
	if f.AuthorID != "" {
		args = append(args, f.AuthorID)
		conds = append(conds, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if len(f.AuthorIDs) > 0 {
		conds = append(conds, inClause("author_id", f.AuthorIDs, &args))
	}
	if len(f.IDs) > 0 {
		conds = append(conds, inClause("id", f.IDs, &args))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func inClause(column string, values []string, args *[]any) string {
	placeholders := make([]string, len(values))
	for i, v := range values {
		*args = append(*args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(*args))
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", "))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	article := &models.Article{}
	var tags dbx.JSONStrings

	err := row.Scan(
		&article.ID, &article.Slug, &article.Title, &article.Description, &article.Body,
		&tags, &article.FavoritesCount, &article.AuthorID,
		&article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		return nil, err
	}

	article.TagList = tags
	return article, nil
}

func checkAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func isSlugDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "articles_slug_key"
}
