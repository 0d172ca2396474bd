package main

import (
	"fmt"
	"slices"

	"github.com/rayahealth/intake/internal/certification"
	"github.com/rayahealth/intake/internal/draft"
	"github.com/rayahealth/intake/internal/onboarding"
	"github.com/rayahealth/intake/internal/submit"
)

func (a *app) client(endpoint string, opts ...submit.Option) *submit.Client {
	opts = append([]submit.Option{
		submit.WithLogger(a.logger),
		submit.WithTimeout(a.cfg.HTTP.Timeout),
	}, opts...)
	return submit.New(endpoint, opts...)
}

// loadDraft reads path, or returns nil when path is empty.
func loadDraft(path string) (*draft.Draft, error) {
	if path == "" {
		return nil, nil
	}
	return draft.Load(path)
}

// certificationSession builds a session, resuming from the draft at path
// when one is given. resume places the session on the saved step; without
// it the answers are loaded and the session starts from the beginning.
func (a *app) certificationSession(path string, resume bool) (*certification.Session, error) {
	d, err := loadDraft(path)
	if err != nil {
		return nil, err
	}
	sess := certification.NewSession(
		a.client(a.cfg.Certification.Endpoint),
		certification.WithLogger(a.logger),
		certification.WithUploadLimits(a.cfg.Uploads.EnforceLimits),
	)
	if d == nil {
		return sess, nil
	}
	if resume {
		err = d.Resume("certification", sess.Controller())
	} else {
		err = d.Apply("certification", sess.Store())
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sess, nil
}

func (a *app) onboardingSession(path string, resume bool) (*onboarding.Session, error) {
	d, err := loadDraft(path)
	if err != nil {
		return nil, err
	}
	opts := []onboarding.Option{
		onboarding.WithLogger(a.logger),
		onboarding.WithUploadLimits(a.cfg.Uploads.EnforceLimits),
		onboarding.WithPortalURL(a.cfg.Onboarding.PortalURL),
		onboarding.WithVerifier(onboarding.SimulatedVerifier{Delay: a.cfg.Onboarding.VerifyDelay}),
	}
	if d != nil && d.AccountID != "" {
		opts = append(opts, onboarding.WithAccountID(d.AccountID))
	}
	sess := onboarding.NewSession(a.client(a.cfg.Onboarding.Endpoint, submit.WithTextErrorBodies()), opts...)
	if d == nil {
		return sess, nil
	}
	if resume {
		err = d.Resume("onboarding", sess.Controller())
	} else {
		err = d.Apply("onboarding", sess.Store())
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sess, nil
}

// sortedErrors renders field errors as "field: message" lines.
func sortedErrors(errs map[string]string) []string {
	out := make([]string, 0, len(errs))
	for field, msg := range errs {
		out = append(out, field+": "+msg)
	}
	slices.Sort(out)
	return out
}
