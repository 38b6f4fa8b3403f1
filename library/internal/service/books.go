package service

import (
	"context"

	"github.com/Astemirdum/library-borrowing/library/internal/errs"
	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"github.com/Astemirdum/library-borrowing/library/internal/repository"
	"github.com/shopspring/decimal"
)

var maxDailyFee = decimal.RequireFromString("999.99")

func validateBook(b model.Book) error {
	if !b.Cover.Valid() {
		return errs.NewValidation("cover", "must be one of HARD, SOFT")
	}
	if b.Inventory < 0 {
		return errs.NewValidation("inventory", "ensure this value is greater than or equal to 0")
	}
	switch {
	case b.DailyFee.IsNegative():
		return errs.NewValidation("dailyFee", "ensure this value is greater than or equal to 0")
	case !b.DailyFee.Equal(b.DailyFee.Round(2)):
		return errs.NewValidation("dailyFee", "ensure that there are no more than 2 decimal places")
	case b.DailyFee.GreaterThan(maxDailyFee):
		return errs.NewValidation("dailyFee", "ensure that there are no more than 5 digits in total")
	}
	return nil
}

func (s *Service) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, page, size)
}

func (s *Service) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	book := req.Book()
	if err := validateBook(book); err != nil {
		return model.Book{}, err
	}
	return s.repo.CreateBook(ctx, book)
}

func (s *Service) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (model.Book, error) {
	book := req.Book()
	book.ID = id
	if err := validateBook(book); err != nil {
		return model.Book{}, err
	}
	return s.repo.UpdateBook(ctx, book)
}

func (s *Service) PatchBook(ctx context.Context, id int64, patch model.BookPatch) (model.Book, error) {
	var updated model.Book
	err := s.repo.WithTx(ctx, func(repo repository.Repository) error {
		book, err := repo.GetBook(ctx, id)
		if err != nil {
			return err
		}
		book = patch.Apply(book)
		if err := validateBook(book); err != nil {
			return err
		}
		updated, err = repo.UpdateBook(ctx, book)
		return err
	})
	return updated, err
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}
