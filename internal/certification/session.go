package certification

import (
	"context"

	"go.uber.org/zap"

	"github.com/rayahealth/intake/internal/attach"
	"github.com/rayahealth/intake/internal/flow"
	"github.com/rayahealth/intake/internal/form"
	"github.com/rayahealth/intake/internal/submit"
)

// SubmitFailed is shown when the endpoint cannot be reached or replies
// with something other than JSON.
const SubmitFailed = "Something went wrong. Please try again."

// Session is one applicant's pass through the wizard.
type Session struct {
	ctrl    *flow.Controller
	client  *submit.Client
	logger  *zap.Logger
	enforce bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithUploadLimits turns the file size and type limits on or off.
func WithUploadLimits(enforce bool) Option {
	return func(s *Session) { s.enforce = enforce }
}

// WithStore resumes from previously collected answers.
func WithStore(store *form.Store) Option {
	return func(s *Session) { s.ctrl = flow.NewController(s.ctrl.Graph(), store) }
}

// NewSession starts a fresh session that submits through client.
func NewSession(client *submit.Client, opts ...Option) *Session {
	s := &Session{client: client, logger: zap.NewNop(), enforce: true}
	s.ctrl = flow.NewController(NewGraph(s.submit), NewStore())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Controller exposes the step controller.
func (s *Session) Controller() *flow.Controller { return s.ctrl }

// Store returns the answers.
func (s *Session) Store() *form.Store { return s.ctrl.Store() }

// Next validates the current step and moves on. On the final step this
// submits the application.
func (s *Session) Next(ctx context.Context) (bool, error) { return s.ctrl.Advance(ctx) }

// Back returns to the previous step.
func (s *Session) Back() error { return s.ctrl.Retreat() }

// Attach encodes a file into a file field using the field's rule.
func (s *Session) Attach(ctx context.Context, field, path string) error {
	return attach.Into(ctx, s.Store(), field, path, Rules[field], s.enforce)
}

// AttachAll encodes several files into a multi-file field at once.
func (s *Session) AttachAll(ctx context.Context, field string, paths []string) error {
	return attach.IntoAll(ctx, s.Store(), field, paths, Rules[field], s.enforce)
}

// Submit runs the remaining steps without interaction and posts the
// application. A step with missing answers stops it with a
// *flow.IncompleteError.
func (s *Session) Submit(ctx context.Context) error {
	return s.ctrl.Drive(ctx, nil)
}

func (s *Session) submit(ctx context.Context, store *form.Store) error {
	payload := BuildPayload(store)
	s.logger.Info("submitting certification",
		zap.Int("additional_files", len(payload.AdditionalCertFiles)),
		zap.Int("insurance_files", len(payload.InsuranceFiles)))

	resp, err := s.client.Post(ctx, payload)
	if err != nil {
		s.logger.Error("certification submit failed", zap.Error(err))
		return submit.Fail(err, SubmitFailed)
	}
	if err := resp.RequireJSON(); err != nil {
		s.logger.Error("certification submit failed", zap.Error(err))
		return submit.Fail(err, SubmitFailed)
	}
	s.logger.Info("certification submitted", zap.Int("status", resp.Status), zap.String("id", resp.ID))
	return nil
}
