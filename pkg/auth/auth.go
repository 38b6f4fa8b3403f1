package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

type Config struct {
	Secret string        `envconfig:"JWT_SECRET" json:"-"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

// Profile is the authenticated caller.
type Profile struct {
	UserID  int64  `json:"userId"`
	Email   string `json:"email"`
	IsStaff bool   `json:"isStaff"`
}

type Claims struct {
	Profile Profile `json:"profile"`
	jwt.RegisteredClaims
}

var (
	ErrNoProfile    = errors.New("no auth profile in context")
	ErrInvalidToken = errors.New("invalid token")
)

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(cfg Config) *TokenManager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *TokenManager) Issue(p Profile) (string, error) {
	now := m.now()
	claims := Claims{
		Profile: p,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *TokenManager) Parse(tokenStr string) (Profile, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return Profile{}, ErrInvalidToken
	}
	return claims.Profile, nil
}

type profileKey struct{}

func SetAuthContext(ctx context.Context, p Profile) context.Context {
	return context.WithValue(ctx, profileKey{}, p)
}

func GetProfile(ctx context.Context) (Profile, error) {
	p, ok := ctx.Value(profileKey{}).(Profile)
	if !ok {
		return Profile{}, ErrNoProfile
	}
	return p, nil
}
