package exclusion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ninguard/ninguard/internal/identity"
	"github.com/ninguard/ninguard/internal/notification"
)

var (
	// ErrAlreadyVerified rejects re-verification of a verified identity.
	// The operation is deliberately not idempotent so misuse surfaces.
	ErrAlreadyVerified = errors.New("NIN is already verified")

	// ErrVerificationFailed indicates the authority rejected the NIN. No
	// state changes on this path.
	ErrVerificationFailed = errors.New("NIN verification failed")
)

// DefaultBlockReason is recorded when a self-block request gives no reason.
const DefaultBlockReason = "Self block requested"

// Status is the minimal tuple a partner learns about a queried NIN.
type Status struct {
	NIN          string     `json:"nin"`
	Excluded     bool       `json:"excluded"`
	BlockedUntil *time.Time `json:"blockedUntil,omitempty"`
	Reason       string     `json:"reason,omitempty"`
}

// Service is the state machine over verification status and block status.
// The two axes are independent: a pending identity can block itself and a
// verified one can be unblocked.
type Service struct {
	repo     identity.Repository
	provider VerificationProvider
	notifier notification.Notifier
	now      func() time.Time
}

// NewService creates the exclusion engine.
func NewService(repo identity.Repository, provider VerificationProvider, notifier notification.Notifier) *Service {
	return &Service{repo: repo, provider: provider, notifier: notifier, now: time.Now}
}

// WithClock overrides the engine's time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Verify runs a single verification attempt against the authority. Callers
// retry explicitly; the engine never does.
func (s *Service) Verify(ctx context.Context, identityID string) (identity.Identity, error) {
	rec, err := s.repo.FindByID(ctx, identityID)
	if err != nil {
		return identity.Identity{}, err
	}
	if rec.VerificationStatus == identity.StatusVerified {
		return identity.Identity{}, ErrAlreadyVerified
	}

	ok, err := s.provider.VerifyNIN(ctx, rec.NIN)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("verification provider: %w", err)
	}
	if !ok {
		return identity.Identity{}, ErrVerificationFailed
	}

	if err := s.repo.SetVerificationStatus(ctx, rec.ID, identity.StatusVerified); err != nil {
		return identity.Identity{}, err
	}
	rec.VerificationStatus = identity.StatusVerified
	return rec, nil
}

// RequestBlock activates a self-exclusion window of durationDays calendar
// days from now. A prior block is overwritten outright: last write wins, no
// merging of windows.
func (s *Service) RequestBlock(ctx context.Context, identityID string, durationDays int, reason string) (identity.Identity, error) {
	if durationDays <= 0 {
		return identity.Identity{}, fmt.Errorf("%w: duration must be a positive number of days", identity.ErrInvalidArgument)
	}
	if reason == "" {
		reason = DefaultBlockReason
	}

	until := s.now().AddDate(0, 0, durationDays).UTC()
	rec, err := s.repo.ApplyBlock(ctx, identityID, until, reason)
	if err != nil {
		return identity.Identity{}, err
	}

	if s.notifier != nil {
		// Best effort; a failed notification must not undo the block.
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindSelfExclusion,
			Destination: rec.Email,
			Body:        fmt.Sprintf("self-exclusion active until %s", until.Format(time.RFC3339)),
		})
	}

	return rec, nil
}

// CheckExclusion answers whether the NIN is excluded right now. Pure read:
// a lapsed block still sits in storage as IsBlocked=true but reports as not
// excluded once blockedUntil has passed.
func (s *Service) CheckExclusion(ctx context.Context, nin string) (Status, error) {
	rec, err := s.repo.FindByNIN(ctx, nin)
	if err != nil {
		return Status{}, err
	}

	st := Status{NIN: rec.NIN}
	if identity.IsCurrentlyExcluded(rec, s.now()) {
		st.Excluded = true
		st.BlockedUntil = rec.BlockedUntil
		st.Reason = rec.BlockReason
	}
	return st, nil
}
