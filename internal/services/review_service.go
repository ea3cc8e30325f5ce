package services

import (
	"context"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
	Prods   *repos.ProductRepo
	cfg     Settings
}

func NewReviewService(db *sqlx.DB, cfg Settings) *ReviewService {
	return &ReviewService{Reviews: repos.NewReviewRepo(db), Prods: repos.NewProductRepo(db), cfg: cfg.withDefaults()}
}

func checkReview(rating int, comment string) (string, error) {
	if !validate.Rating(rating) {
		return "", domain.Invalid("rating", "must be between 1 and 5")
	}
	comment, ok := validate.Comment(comment)
	if !ok {
		return "", domain.Invalid("comment", "at most 2000 characters")
	}
	return comment, nil
}

// Create always attributes the review to v.
func (s *ReviewService) Create(ctx context.Context, v domain.Viewer, productID string, rating int, comment string) (domain.Review, error) {
	if v.UserID == "" {
		return domain.Review{}, domain.ErrUnauthorized
	}
	comment, err := checkReview(rating, comment)
	if err != nil {
		return domain.Review{}, err
	}
	if _, err := s.Prods.Get(ctx, productID); err != nil {
		return domain.Review{}, err
	}
	return s.Reviews.Create(ctx, domain.Review{ProductID: productID, UserID: v.UserID, Rating: rating, Comment: comment})
}

func (s *ReviewService) List(ctx context.Context, productID string, page int) (domain.Page[domain.Review], error) {
	limit, offset := window(page, s.cfg.PageSize)
	items, total, err := s.Reviews.List(ctx, productID, limit, offset)
	if err != nil {
		return domain.Page[domain.Review]{}, err
	}
	return pageOf(items, total, page, s.cfg.PageSize), nil
}

func (s *ReviewService) Get(ctx context.Context, id string) (domain.Review, error) {
	return s.Reviews.Get(ctx, id)
}

func (s *ReviewService) Update(ctx context.Context, v domain.Viewer, id string, rating int, comment string) (domain.Review, error) {
	rv, err := s.Reviews.Get(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	if !v.CanAct(rv.UserID) {
		return domain.Review{}, domain.ErrForbidden
	}
	comment, err = checkReview(rating, comment)
	if err != nil {
		return domain.Review{}, err
	}
	if err := s.Reviews.Update(ctx, id, rating, comment); err != nil {
		return domain.Review{}, err
	}
	rv.Rating, rv.Comment = rating, comment
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, v domain.Viewer, id string) error {
	rv, err := s.Reviews.Get(ctx, id)
	if err != nil {
		return err
	}
	if !v.CanAct(rv.UserID) {
		return domain.ErrForbidden
	}
	return s.Reviews.Delete(ctx, id)
}
