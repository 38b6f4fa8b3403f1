package repository

import (
	"context"
	"fmt"

	"github.com/Astemirdum/library-borrowing/library/internal/errs"
	"github.com/Astemirdum/library-borrowing/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var bookColumns = []string{"id", "title", "author", "cover", "inventory", "daily_fee"}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "cover", "inventory", "daily_fee").
		Values(book.Title, book.Author, book.Cover, book.Inventory, book.DailyFee).
		Suffix("returning id, title, author, cover, inventory, daily_fee").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	created, err := collectOne[model.Book](ctx, r.db, query, args...)
	if err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Error(err))
		return model.Book{}, err
	}
	return created, nil
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	return collectOne[model.Book](ctx, r.db, query, args...)
}

func (r *repository) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	q := paginate(qb.Select(bookColumns...).From(booksTableName).OrderBy("id"), page, size)

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books, err := collectAll[model.Book](ctx, r.db, query, args...)
	if err != nil {
		return model.ListBooks{}, err
	}

	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf("select count(*) from %s", booksTableName)).Scan(&total); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
		},
		Items: books,
	}, nil
}

func (r *repository) UpdateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		SetMap(map[string]any{
			"title":     book.Title,
			"author":    book.Author,
			"cover":     book.Cover,
			"inventory": book.Inventory,
			"daily_fee": book.DailyFee,
		}).
		Where(sq.Eq{"id": book.ID}).
		Suffix("returning id, title, author, cover, inventory, daily_fee").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	return collectOne[model.Book](ctx, r.db, query, args...)
}

func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(booksTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errs.NewValidation("book", "the book has borrowings and cannot be deleted")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) AdjustInventory(ctx context.Context, bookID int64, delta int) (model.Book, error) {
	q := fmt.Sprintf(`
update %s
    set inventory = inventory + @delta
where id = @book_id
returning id, title, author, cover, inventory, daily_fee`, booksTableName)

	book, err := collectOne[model.Book](ctx, r.db, q, pgx.NamedArgs{"book_id": bookID, "delta": delta})
	if err != nil {
		switch {
		case isCheckViolation(err):
			return model.Book{}, errs.ErrNoInventory
		case errors.Is(err, errs.ErrNotFound):
			return model.Book{}, err
		}
		return model.Book{}, errors.Wrap(err, "AdjustInventory")
	}
	return book, nil
}
