package mock

import (
	"context"

	"github.com/fwojciec/wikitxt"
)

var _ wikitxt.ArticleStore = (*ArticleStore)(nil)

// ArticleStore is a mock implementation of wikitxt.ArticleStore.
type ArticleStore struct {
	ExistsFn        func(title string) bool
	SaveArticleFn   func(ctx context.Context, article *wikitxt.Article) error
	RecordFailureFn func(ctx context.Context, target wikitxt.Target, err error) error
}

func (s *ArticleStore) Exists(title string) bool {
	return s.ExistsFn(title)
}

func (s *ArticleStore) SaveArticle(ctx context.Context, article *wikitxt.Article) error {
	return s.SaveArticleFn(ctx, article)
}

func (s *ArticleStore) RecordFailure(ctx context.Context, target wikitxt.Target, err error) error {
	return s.RecordFailureFn(ctx, target, err)
}

var _ wikitxt.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of wikitxt.ArticleService.
type ArticleService struct {
	UpsertArticleFn      func(ctx context.Context, entry *wikitxt.ArticleEntry) error
	FindArticleByTitleFn func(ctx context.Context, title string) (*wikitxt.ArticleEntry, error)
	FindArticlesFn       func(ctx context.Context, filter wikitxt.ArticleFilter) ([]*wikitxt.ArticleEntry, error)
	DeleteArticleFn      func(ctx context.Context, title string) error
}

func (s *ArticleService) UpsertArticle(ctx context.Context, entry *wikitxt.ArticleEntry) error {
	return s.UpsertArticleFn(ctx, entry)
}

func (s *ArticleService) FindArticleByTitle(ctx context.Context, title string) (*wikitxt.ArticleEntry, error) {
	return s.FindArticleByTitleFn(ctx, title)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter wikitxt.ArticleFilter) ([]*wikitxt.ArticleEntry, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, title string) error {
	return s.DeleteArticleFn(ctx, title)
}
