package onboarding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rayahealth/intake/internal/attach"
	"github.com/rayahealth/intake/internal/flow"
	"github.com/rayahealth/intake/internal/form"
	"github.com/rayahealth/intake/internal/submit"
)

// Messages shown when the endpoint cannot be reached. The cause follows
// in parentheses.
const (
	SaveFailed   = "We could not save your info. Please try again."
	SubmitFailed = "Something went wrong sending your information. Please try again."
)

// DefaultPortalURL is where a patient goes once onboarding is complete.
const DefaultPortalURL = "https://care.findraya.com/"

// Session is one patient's pass through the wizard. It owns the answers
// and the checkpoint id issued by the endpoint.
type Session struct {
	ctrl      *flow.Controller
	client    *submit.Client
	verifier  Verifier
	logger    *zap.Logger
	now       func() time.Time
	portalURL string
	enforce   bool

	accountID string
	redirect  string
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithVerifier(v Verifier) Option {
	return func(s *Session) { s.verifier = v }
}

// WithClock sets the clock used by the date checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithPortalURL(url string) Option {
	return func(s *Session) { s.portalURL = url }
}

// WithUploadLimits turns the card photo type check on or off.
func WithUploadLimits(enforce bool) Option {
	return func(s *Session) { s.enforce = enforce }
}

// WithStore resumes from previously collected answers.
func WithStore(store *form.Store) Option {
	return func(s *Session) { s.ctrl = flow.NewController(s.ctrl.Graph(), store) }
}

// WithAccountID resumes with a checkpoint id from an earlier save.
func WithAccountID(id string) Option {
	return func(s *Session) { s.accountID = id }
}

// NewSession starts a fresh session. The client should be built with
// submit.WithTextErrorBodies so plain-text rejections reach the patient.
func NewSession(client *submit.Client, opts ...Option) *Session {
	s := &Session{
		client:    client,
		verifier:  SimulatedVerifier{Delay: 2500 * time.Millisecond},
		logger:    zap.NewNop(),
		now:       time.Now,
		portalURL: DefaultPortalURL,
		enforce:   true,
	}
	g := NewGraph(Hooks{SaveContact: s.saveContact, Submit: s.submit}, func() time.Time { return s.now() })
	s.ctrl = flow.NewController(g, NewStore())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Controller() *flow.Controller { return s.ctrl }

func (s *Session) Store() *form.Store { return s.ctrl.Store() }

// AccountID returns the checkpoint id, or "" before the first save.
func (s *Session) AccountID() string { return s.accountID }

// Redirect returns the portal URL once the final save succeeded.
func (s *Session) Redirect() string { return s.redirect }

// Next validates the current step and moves on, saving where the step
// requires it.
func (s *Session) Next(ctx context.Context) (bool, error) { return s.ctrl.Advance(ctx) }

// Back returns to the previous step.
func (s *Session) Back() error { return s.ctrl.Retreat() }

// Skip leaves the provider step without answering it.
func (s *Session) Skip() error { return s.ctrl.Jump("skip") }

// Attach encodes an insurance card photo.
func (s *Session) Attach(ctx context.Context, field, path string) error {
	if field != InsuranceFront && field != InsuranceBack {
		return fmt.Errorf("%w: %s takes no file", form.ErrKindMismatch, field)
	}
	return attach.Into(ctx, s.Store(), field, path, CardRule, s.enforce)
}

// Verify runs the coverage check and records its result.
func (s *Session) Verify(ctx context.Context) error {
	store := s.Store()
	provider, _ := store.Choice(InsuranceProvider)
	ok, err := s.verifier.Verify(ctx, CoverageRequest{
		Provider:       provider,
		OtherInsurance: store.Text(OtherInsurance),
		MemberID:       store.Text(MemberID),
		HasCardFront:   store.File(InsuranceFront) != nil,
	})
	if err != nil {
		return fmt.Errorf("verifying coverage: %w", err)
	}
	status := Unverified
	if ok {
		status = Verified
	}
	s.logger.Info("coverage checked", zap.String("provider", provider), zap.String("status", status))
	return store.SetChoice(VerificationStatus, status)
}

// SaveProgress sends the whole answer set. A returned id becomes the
// checkpoint and the card photo bytes are dropped from the session.
func (s *Session) SaveProgress(ctx context.Context) error {
	store := s.Store()
	payload := BuildPayload(store, s.accountID)
	s.logger.Debug("saving progress",
		zap.Bool("has_account", s.accountID != ""),
		zap.Bool("front_bytes", payload.InsuranceFrontBase64 != nil),
		zap.Bool("back_bytes", payload.InsuranceBackBase64 != nil))

	resp, err := s.client.Post(ctx, payload)
	if err != nil {
		s.logger.Error("save failed", zap.Error(err))
		return err
	}
	if resp.ID != "" {
		s.accountID = resp.ID
		front := store.ClearEncoded(InsuranceFront)
		back := store.ClearEncoded(InsuranceBack)
		s.logger.Info("progress saved", zap.String("account_id", resp.ID),
			zap.Bool("cleared_front", front), zap.Bool("cleared_back", back))
	}
	return nil
}

// Submit runs the remaining steps without interaction, checking coverage
// when the verification result is needed. A step with missing answers
// stops it with a *flow.IncompleteError.
func (s *Session) Submit(ctx context.Context) error {
	return s.ctrl.Drive(ctx, func(ctx context.Context, st *flow.Step) error {
		if st.ID == StepResult && !verified(s.Store()) {
			return s.Verify(ctx)
		}
		return nil
	})
}

func (s *Session) saveContact(ctx context.Context, _ *form.Store) error {
	if err := s.SaveProgress(ctx); err != nil {
		return submit.Fail(err, SaveFailed)
	}
	return nil
}

func (s *Session) submit(ctx context.Context, _ *form.Store) error {
	if err := s.SaveProgress(ctx); err != nil {
		return submit.Fail(err, SubmitFailed)
	}
	s.redirect = s.portalURL
	return nil
}
