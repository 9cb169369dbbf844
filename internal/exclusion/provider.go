package exclusion

import "context"

// VerificationProvider is the capability boundary to the NIN authority. A
// real integration substitutes here without touching engine logic.
type VerificationProvider interface {
	VerifyNIN(ctx context.Context, nin string) (bool, error)
}

// MockAuthority approves NINs that are exactly eleven digits. Stand-in until
// a real authority integration exists.
type MockAuthority struct{}

// NewMockAuthority constructs the stub verification provider.
func NewMockAuthority() *MockAuthority {
	return &MockAuthority{}
}

// VerifyNIN applies the well-formedness rule.
func (MockAuthority) VerifyNIN(_ context.Context, nin string) (bool, error) {
	if len(nin) != 11 {
		return false, nil
	}
	for _, r := range nin {
		if r < '0' || r > '9' {
			return false, nil
		}
	}
	return true, nil
}
