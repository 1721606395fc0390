package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/wikitxt"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ wikitxt.ArticleService = (*ArticleService)(nil)

// ArticleService implements wikitxt.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

const articleColumns = "id, title, query, source_url, source_file, redirected_from, content_hash, text_length, image_count, fetched_at"

// UpsertArticle creates the entry or replaces the entry with the same title.
// A replaced entry keeps its ID; entry.ID is set to the stored ID.
func (s *ArticleService) UpsertArticle(ctx context.Context, entry *wikitxt.ArticleEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now().UTC()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(title) DO UPDATE SET
			query = excluded.query,
			source_url = excluded.source_url,
			source_file = excluded.source_file,
			redirected_from = excluded.redirected_from,
			content_hash = excluded.content_hash,
			text_length = excluded.text_length,
			image_count = excluded.image_count,
			fetched_at = excluded.fetched_at
		RETURNING id
	`, entry.ID, entry.Title, entry.Query, entry.SourceURL, entry.SourceFile, entry.RedirectedFrom,
		entry.ContentHash, entry.TextLength, entry.ImageCount, entry.FetchedAt.Format(time.RFC3339),
	).Scan(&entry.ID)

	return err
}

// FindArticleByTitle retrieves an entry by title.
func (s *ArticleService) FindArticleByTitle(ctx context.Context, title string) (*wikitxt.ArticleEntry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE title = ?", title)

	entry, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wikitxt.Errorf(wikitxt.ENOTFOUND, "article not found: %s", title)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// FindArticles retrieves entries matching the filter, newest first.
func (s *ArticleService) FindArticles(ctx context.Context, filter wikitxt.ArticleFilter) ([]*wikitxt.ArticleEntry, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + articleColumns + " FROM articles WHERE 1=1")

	if filter.Title != nil {
		query.WriteString(" AND title = ?")
		args = append(args, *filter.Title)
	}
	if filter.SourceFile != nil {
		query.WriteString(" AND source_file = ?")
		args = append(args, *filter.SourceFile)
	}

	query.WriteString(" ORDER BY fetched_at DESC, title ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*wikitxt.ArticleEntry
	for rows.Next() {
		entry, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// DeleteArticle removes an entry by title.
func (s *ArticleService) DeleteArticle(ctx context.Context, title string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE title = ?", title)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return wikitxt.Errorf(wikitxt.ENOTFOUND, "article not found: %s", title)
	}
	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(sc scanner) (*wikitxt.ArticleEntry, error) {
	var entry wikitxt.ArticleEntry
	var fetchedAt string

	if err := sc.Scan(&entry.ID, &entry.Title, &entry.Query, &entry.SourceURL, &entry.SourceFile,
		&entry.RedirectedFrom, &entry.ContentHash, &entry.TextLength, &entry.ImageCount, &fetchedAt); err != nil {
		return nil, err
	}

	t, err := parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}
	entry.FetchedAt = t
	return &entry, nil
}
