package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/trainerlab/fieldlog/internal/models"
)

type AuthStore interface {
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	AddAccount(ctx context.Context, email string, passwordHash []byte) (int64, error)
}

// TokenSigner issues a credential for the given identity.
type TokenSigner func(uid int64, email string, admin bool) (string, error)

type AuthService struct {
	store      AuthStore
	signToken  TokenSigner
	bcryptCost int
}

type AuthResult struct {
	ID      int64
	Email   string
	IsAdmin bool
	Token   string
}

func NewAuthService(store AuthStore, signer TokenSigner, bcryptCost int) *AuthService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{store: store, signToken: signer, bcryptCost: bcryptCost}
}

// Register hashes the password and inserts the account. Duplicate emails are
// not pre-checked: the unique constraint fails the insert and the caller
// collapses that to a generic failure.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, NewInvalidError("email/password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	id, err := s.store.AddAccount(ctx, email, hash)
	if err != nil {
		return nil, err
	}
	token, err := s.signToken(id, email, false)
	if err != nil {
		return nil, err
	}
	return &AuthResult{ID: id, Email: email, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, NewInvalidError("email/password required")
	}
	acc, err := s.store.FindAccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, NewNotFoundError("user not found")
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return nil, NewInvalidError("invalid password")
	}
	token, err := s.signToken(acc.ID, acc.Email, acc.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &AuthResult{ID: acc.ID, Email: acc.Email, IsAdmin: acc.IsAdmin, Token: token}, nil
}
