// Package service implements the news service operations on top of a
// repository.Store: listing assembly, guarded mutations and lookups.
//
// Listings validate the raw query, plan the window and run a single counted
// query. A filter that names a missing row is only detected after an empty
// result. Mutations check their target eagerly and run in one transaction
// with their outbox event.
package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/helixir/news-service/internal/domain"
	"github.com/helixir/news-service/internal/observability"
	"github.com/helixir/news-service/internal/outbox"
	"github.com/helixir/news-service/internal/repository"
)

// Deps holds what every service needs. Publisher and Metrics may be nil.
type Deps struct {
	Store     repository.Store
	Publisher *outbox.Publisher
	Validate  *validator.Validate
	Metrics   *observability.Metrics
	Logger    zerolog.Logger
}

// Services bundles the services of the API.
type Services struct {
	Articles *ArticleService
	Comments *CommentService
	Topics   *TopicService
	Users    *UserService
}

// New creates all services over deps.
func New(deps Deps) *Services {
	if deps.Validate == nil {
		deps.Validate = validator.New(validator.WithRequiredStructEnabled())
	}
	deps.Logger = observability.WithComponent(deps.Logger, "service")

	b := base{deps: deps}
	return &Services{
		Articles: &ArticleService{base: b},
		Comments: &CommentService{base: b},
		Topics:   &TopicService{base: b},
		Users:    &UserService{base: b},
	}
}

type base struct {
	deps Deps
}

// validate runs struct validation and reports failures as BadRequest.
func (b base) validate(v interface{}) error {
	if err := b.deps.Validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.NewBadRequestError(verrs[0].Field() + " failed " + verrs[0].Tag() + " validation")
		}
		return domain.WrapError(domain.KindBadRequest, err)
	}
	return nil
}

// exists runs one existence probe and records its outcome.
func (b base) exists(ctx context.Context, ex repository.ExistenceChecker, ref domain.ExistenceRef) error {
	err := ex.Exists(ctx, ref)
	if b.deps.Metrics != nil {
		result := "found"
		switch {
		case errors.Is(err, domain.ErrNotFound):
			result = "missing"
		case err != nil:
			result = "error"
		}
		b.deps.Metrics.RecordExistenceCheck(ref.Table, result)
	}
	return err
}

func (b base) publish(ctx context.Context, tx repository.Store, params outbox.EmitParams) error {
	return b.deps.Publisher.Publish(ctx, tx.Outbox(), params)
}

func (b base) recordListing(resource string, items int) {
	if b.deps.Metrics != nil {
		b.deps.Metrics.RecordListing(resource, items)
	}
}
