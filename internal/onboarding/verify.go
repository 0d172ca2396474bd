package onboarding

import (
	"context"
	"time"
)

// Verification results stored in VerificationStatus.
const (
	Verified   = "verified"
	Unverified = "unverified"
)

// CoverageRequest is what a coverage check gets to work with.
type CoverageRequest struct {
	Provider       string
	OtherInsurance string
	MemberID       string
	HasCardFront   bool
}

// Verifier checks whether a patient's plan covers the doula benefit.
type Verifier interface {
	Verify(ctx context.Context, req CoverageRequest) (bool, error)
}

// SimulatedVerifier stands in for a real eligibility check: it waits Delay
// and reports every plan as covered.
type SimulatedVerifier struct {
	Delay time.Duration
}

func (v SimulatedVerifier) Verify(ctx context.Context, _ CoverageRequest) (bool, error) {
	if v.Delay <= 0 {
		return true, ctx.Err()
	}
	t := time.NewTimer(v.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-t.C:
		return true, nil
	}
}
