package wizard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayahealth/intake/internal/certification"
	"github.com/rayahealth/intake/internal/draft"
	"github.com/rayahealth/intake/internal/form"
	"github.com/rayahealth/intake/internal/onboarding"
	"github.com/rayahealth/intake/internal/submit"
)

func endpoint(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		calls.Add(1)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func onboardingWizard(t *testing.T, srv *httptest.Server) (*Wizard, *onboarding.Session) {
	t.Helper()
	client := submit.New(srv.URL, submit.WithHTTPClient(srv.Client()), submit.WithTextErrorBodies())
	sess := onboarding.NewSession(client,
		onboarding.WithVerifier(onboarding.SimulatedVerifier{}),
		onboarding.WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local) }))
	return NewWizard(context.Background(), Onboarding(sess)), sess
}

// advance runs the step commit and feeds its result back.
func advance(t *testing.T, w *Wizard) tea.Cmd {
	t.Helper()
	cmd := w.commit()
	require.NotNil(t, cmd)
	assert.NotEmpty(t, w.busy)
	_, next := w.Update(cmd())
	return next
}

func fillOnboarding(t *testing.T, s *form.Store) {
	t.Helper()
	for name, v := range map[string]string{
		onboarding.FirstName: "Lena", onboarding.LastName: "Ortiz",
		onboarding.Email: "lena@example.com", onboarding.Phone: "(555) 987-6543",
		onboarding.Address: "12 Palm Ave", onboarding.City: "Pasadena", onboarding.Zip: "91101",
		onboarding.DeliveryLocation: "Huntington Hospital, Pasadena",
		onboarding.DOB:              "03/09/1994", onboarding.BabyDueDate: "11/20/2024",
	} {
		require.NoError(t, s.SetText(name, v))
	}
	require.NoError(t, s.SetChoice(onboarding.SupportType, onboarding.Birth))
	require.NoError(t, s.SetChoice(onboarding.State, "CA"))
}

func TestWizard_AdvancesFromFirstStep(t *testing.T) {
	srv, calls := endpoint(t, http.StatusOK, `{"id":"a1"}`)
	w, sess := onboardingWizard(t, srv)

	w.stepScreen.Field(onboarding.FirstName).Text = "Lena"
	w.stepScreen.Field(onboarding.LastName).Text = "Ortiz"
	advance(t, w)

	if w.ctrl().Current() != onboarding.StepSupport {
		t.Errorf("Expected step %d, got %d", onboarding.StepSupport, w.ctrl().Current())
	}
	assert.Equal(t, "", w.busy)
	assert.Equal(t, "Lena", sess.Store().Text(onboarding.FirstName))
	assert.Equal(t, int32(0), calls.Load())
	assert.NotNil(t, w.stepScreen.Field(onboarding.SupportType))
}

func TestWizard_ValidationKeepsStep(t *testing.T) {
	srv, _ := endpoint(t, http.StatusOK, `{}`)
	w, sess := onboardingWizard(t, srv)

	advance(t, w)

	assert.Equal(t, onboarding.StepName, w.ctrl().Current())
	assert.Equal(t, PhaseStep, w.phase)
	assert.Equal(t, "Please fix the highlighted fields.", w.banner)
	assert.Equal(t, "First name is required", sess.Store().Error(onboarding.FirstName))
	assert.Equal(t, "First name is required", w.stepScreen.Field(onboarding.FirstName).Error)
}

func TestWizard_ContactSaveStoresAccount(t *testing.T) {
	srv, calls := endpoint(t, http.StatusOK, `{"id":"acc-7"}`)
	w, sess := onboardingWizard(t, srv)
	fillOnboarding(t, sess.Store())
	require.NoError(t, w.ctrl().Restore(onboarding.StepContact))
	w.buildStep()

	advance(t, w)

	assert.Equal(t, onboarding.StepAddress, w.ctrl().Current())
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "acc-7", sess.AccountID())
}

func TestWizard_EndpointFailureShowsAlert(t *testing.T) {
	srv, _ := endpoint(t, http.StatusBadRequest, "Email already registered")
	w, sess := onboardingWizard(t, srv)
	fillOnboarding(t, sess.Store())
	require.NoError(t, w.ctrl().Restore(onboarding.StepContact))
	w.buildStep()

	advance(t, w)

	assert.Equal(t, onboarding.StepContact, w.ctrl().Current())
	require.Equal(t, PhaseAlert, w.phase)
	assert.Equal(t, "Email already registered", w.alertScreen.Message())

	w.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, PhaseStep, w.phase)
	assert.Equal(t, onboarding.StepContact, w.ctrl().Current())
}

func TestWizard_SupportTypeAutoAdvances(t *testing.T) {
	srv, _ := endpoint(t, http.StatusOK, `{}`)
	w, _ := onboardingWizard(t, srv)
	require.NoError(t, w.ctrl().Restore(onboarding.StepSupport))
	w.buildStep()

	w.stepScreen.Field(onboarding.SupportType).Text = onboarding.Postpartum
	w.autoPending = true
	_, cmd := w.Update(autoAdvanceMsg{step: onboarding.StepSupport})
	require.NotNil(t, cmd)
	assert.False(t, w.autoPending)
	w.Update(cmd())

	assert.Equal(t, onboarding.StepContact, w.ctrl().Current())
}

func TestWizard_StaleAutoAdvanceIgnored(t *testing.T) {
	srv, _ := endpoint(t, http.StatusOK, `{}`)
	w, _ := onboardingWizard(t, srv)

	_, cmd := w.Update(autoAdvanceMsg{step: onboarding.StepSupport})
	assert.Nil(t, cmd)
	assert.Equal(t, onboarding.StepName, w.ctrl().Current())
}

func TestWizard_VerifiesOnEnteringResult(t *testing.T) {
	srv, _ := endpoint(t, http.StatusOK, `{}`)
	w, sess := onboardingWizard(t, srv)
	store := sess.Store()
	fillOnboarding(t, store)
	require.NoError(t, store.SetFlag(onboarding.WantInsuranceCheck, true))
	require.NoError(t, store.SetChoice(onboarding.InsuranceProvider, "kaiser"))
	require.NoError(t, store.SetText(onboarding.MemberID, "K123"))
	require.NoError(t, w.ctrl().Restore(onboarding.StepResult))

	cmd := w.startTask()
	require.NotNil(t, cmd)
	assert.Contains(t, w.busy, "Verifying Your Benefit")

	keyModel, keyCmd := w.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Same(t, w, keyModel)
	assert.Nil(t, keyCmd)

	w.Update(cmd())
	assert.Equal(t, "", w.busy)
	status, _ := store.Choice(onboarding.VerificationStatus)
	assert.Equal(t, onboarding.Verified, status)
	assert.Nil(t, w.startTask())
}

func TestWizard_SkipProvider(t *testing.T) {
	srv, _ := endpoint(t, http.StatusOK, `{}`)
	w, sess := onboardingWizard(t, srv)
	fillOnboarding(t, sess.Store())
	require.NoError(t, sess.Store().SetFlag(onboarding.WantInsuranceCheck, true))
	require.NoError(t, w.ctrl().Restore(onboarding.StepProvider))
	w.buildStep()

	w.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.Equal(t, onboarding.StepServices, w.ctrl().Current())
}

func TestWizard_CompletesOnSubmit(t *testing.T) {
	srv, calls := endpoint(t, http.StatusOK, `{"id":"acc-9"}`)
	w, sess := onboardingWizard(t, srv)
	fillOnboarding(t, sess.Store())
	require.NoError(t, sess.Store().SetFlag(onboarding.WantInsuranceCheck, false))
	require.NoError(t, w.ctrl().Restore(onboarding.StepServices))
	w.buildStep()

	w.stepScreen.Field(onboarding.SelectedServices).Selected = []string{"Postpartum Care"}
	advance(t, w)

	require.Equal(t, PhaseComplete, w.phase)
	assert.True(t, w.ctrl().Finished())
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, onboarding.DefaultPortalURL, sess.Redirect())

	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, w.finished)
	assert.NotNil(t, cmd)
}

func TestWizard_BackKeepsAnswers(t *testing.T) {
	srv, _ := endpoint(t, http.StatusOK, `{}`)
	w, sess := onboardingWizard(t, srv)
	require.NoError(t, w.ctrl().Restore(onboarding.StepAddress))
	w.buildStep()

	w.stepScreen.Field(onboarding.Address).Text = "12 Palm Ave"
	w.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, onboarding.StepContact, w.ctrl().Current())
	assert.Equal(t, "12 Palm Ave", sess.Store().Text(onboarding.Address))
}

func TestWizard_EscOnFirstStepQuits(t *testing.T) {
	srv, _ := endpoint(t, http.StatusOK, `{}`)
	w, _ := onboardingWizard(t, srv)

	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, w.cancelled)
	assert.NotNil(t, cmd)
}

func TestWizard_SaveDraft(t *testing.T) {
	srv, _ := endpoint(t, http.StatusOK, `{}`)
	w, _ := onboardingWizard(t, srv)
	w.stepScreen.Field(onboarding.FirstName).Text = "Lena"
	path := filepath.Join(t.TempDir(), "draft.yaml")

	require.NoError(t, w.intake.sync(w.store(), w.stepScreen.Fields(), w.hidden))
	require.NoError(t, w.saveDraft(path))
	assert.Equal(t, "Draft saved to "+path, w.status)

	d, err := draft.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "onboarding", d.Form)
	assert.Equal(t, "Lena", d.Answers[onboarding.FirstName])
}

func TestWizard_UploadErrorsStayInline(t *testing.T) {
	srv, calls := endpoint(t, http.StatusOK, `{}`)
	client := submit.New(srv.URL, submit.WithHTTPClient(srv.Client()))
	sess := certification.NewSession(client)
	w := NewWizard(context.Background(), Certification(sess))
	require.NoError(t, w.ctrl().Restore(certification.StepQualifications))
	w.buildStep()

	w.stepScreen.Field(certification.YearsExperience).Text = "5 years"
	w.stepScreen.Field(certification.Certifications).Text = "DONA"
	w.stepScreen.Field(certification.CertificationFile).Text = filepath.Join(t.TempDir(), "missing.pdf")
	advance(t, w)

	assert.Equal(t, certification.StepQualifications, w.ctrl().Current())
	assert.Equal(t, "Some files could not be attached.", w.banner)
	assert.NotEmpty(t, sess.Store().Error(certification.CertificationFile))
	assert.Equal(t, int32(0), calls.Load())
}

func TestWizard_ViewShowsProgress(t *testing.T) {
	srv, _ := endpoint(t, http.StatusOK, `{}`)
	w, _ := onboardingWizard(t, srv)

	view := w.View()
	assert.True(t, strings.Contains(view, "Step 1 of 11"), "Expected progress in view, got:\n%s", view)
}

func TestWizard_AttachesFileBatch(t *testing.T) {
	srv, _ := endpoint(t, http.StatusOK, `{}`)
	sess := certification.NewSession(submit.New(srv.URL, submit.WithHTTPClient(srv.Client())))
	w := NewWizard(context.Background(), Certification(sess))
	require.NoError(t, w.ctrl().Restore(certification.StepBusiness))
	w.buildStep()

	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"policy.pdf", "rider.pdf"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("%PDF-1.7"), 0o644))
		paths = append(paths, p)
	}
	w.stepScreen.Field(certification.InsuranceFiles).Text = strings.Join(paths, "\n")
	advance(t, w)

	assert.Equal(t, certification.StepServiceApproach, w.ctrl().Current())
	files := sess.Store().Files(certification.InsuranceFiles)
	require.Len(t, files, 2)
	assert.Equal(t, "policy.pdf", files[0].Name)
	assert.Equal(t, "rider.pdf", files[1].Name)
}

func TestWizard_ViewWhileCommandRuns(t *testing.T) {
	srv, _ := endpoint(t, http.StatusOK, `{"id":"acc-3"}`)
	w, sess := onboardingWizard(t, srv)
	fillOnboarding(t, sess.Store())
	require.NoError(t, w.ctrl().Restore(onboarding.StepContact))
	w.buildStep()

	cmd := w.commit()
	require.NotNil(t, cmd)

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- cmd() }()

	var msg tea.Msg
	for msg == nil {
		view := w.View()
		if !strings.Contains(view, "Sending your information...") {
			t.Fatalf("Expected busy view, got:\n%s", view)
		}
		assert.Contains(t, view, w.busyTitle)
		select {
		case msg = <-msgs:
		default:
		}
	}

	w.Update(msg)
	assert.Equal(t, onboarding.StepAddress, w.ctrl().Current())
	assert.Equal(t, "acc-3", sess.AccountID())
}
