package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service manages identity lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a pending, unblocked identity with role user and stores a
// hashed credential.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Identity, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.NIN = strings.TrimSpace(in.NIN)

	if in.FullName == "" || in.Email == "" || in.Password == "" || in.Phone == "" || in.NIN == "" {
		return Identity{}, fmt.Errorf("%w: all fields are required", ErrInvalidArgument)
	}
	if len(in.NIN) != NINLength {
		return Identity{}, fmt.Errorf("%w: NIN must be exactly %d characters", ErrInvalidArgument, NINLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, err
	}

	now := time.Now().UTC()
	rec := Identity{
		ID:                 uuid.New().String(),
		FullName:           in.FullName,
		Email:              in.Email,
		Phone:              in.Phone,
		CredentialHash:     hash,
		NIN:                in.NIN,
		Role:               RoleUser,
		VerificationStatus: StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return Identity{}, err
	}

	return rec, nil
}

// Authenticate verifies signin credentials. Unknown email and wrong password
// both return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (Identity, error) {
	if creds.Password == "" {
		return Identity{}, ErrInvalidCredentials
	}
	rec, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(rec.CredentialHash, []byte(creds.Password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return rec, nil
}

// Get fetches an identity by id.
func (s *Service) Get(ctx context.Context, id string) (Identity, error) {
	return s.repo.FindByID(ctx, id)
}

// ListAll returns every identity for administrative oversight.
func (s *Service) ListAll(ctx context.Context) ([]Identity, error) {
	return s.repo.FindAll(ctx)
}
