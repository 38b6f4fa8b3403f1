package service

import (
	"context"
	"strings"

	"github.com/Astemirdum/library-borrowing/library/internal/errs"
	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"github.com/Astemirdum/library-borrowing/pkg/auth"
	"github.com/pkg/errors"
)

func (s *Service) Register(ctx context.Context, req model.UserCreateRequest) (model.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}
	return s.repo.CreateUser(ctx, model.User{
		Email:    strings.ToLower(req.Email),
		Password: hash,
	})
}

func (s *Service) Token(ctx context.Context, req model.TokenRequest) (model.TokenResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.TokenResponse{}, errs.ErrBadCredentials
		}
		return model.TokenResponse{}, err
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		return model.TokenResponse{}, errs.ErrBadCredentials
	}
	access, err := s.tokens.Issue(auth.Profile{
		UserID:  user.ID,
		Email:   user.Email,
		IsStaff: user.IsStaff,
	})
	if err != nil {
		return model.TokenResponse{}, errors.Wrap(err, "issue token")
	}
	return model.TokenResponse{Access: access}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (model.User, error) {
	return s.repo.GetUser(ctx, userID)
}
