package repository

import (
	"context"

	"github.com/Astemirdum/library-borrowing/library/internal/errs"
	"github.com/Astemirdum/library-borrowing/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

var userColumns = []string{"id", "email", "password", "is_staff"}

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns("email", "password", "is_staff").
		Values(user.Email, user.Password, user.IsStaff).
		Suffix("returning id, email, password, is_staff").
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	created, err := collectOne[model.User](ctx, r.db, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, errs.ErrEmailTaken
		}
		r.log.Error("CreateUser", zap.String("email", user.Email), zap.Error(err))
		return model.User{}, err
	}
	return created, nil
}

func (r *repository) GetUser(ctx context.Context, id int64) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"id": id})
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"email": email})
}

func (r *repository) getUser(ctx context.Context, where sq.Eq) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	return collectOne[model.User](ctx, r.db, query, args...)
}
