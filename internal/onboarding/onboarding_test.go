package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayahealth/intake/internal/flow"
	"github.com/rayahealth/intake/internal/form"
	"github.com/rayahealth/intake/internal/submit"
)

var fixedNow = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local) }

// intakeServer answers every save with the next reply and records the
// decoded request bodies.
type intakeServer struct {
	*httptest.Server
	mu      sync.Mutex
	bodies  []map[string]any
	replies []reply
}

type reply struct {
	status int
	body   string
}

func newIntakeServer(t *testing.T, replies ...reply) *intakeServer {
	t.Helper()
	is := &intakeServer{replies: replies}
	is.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var doc map[string]any
		_ = json.Unmarshal(raw, &doc)

		is.mu.Lock()
		n := len(is.bodies)
		is.bodies = append(is.bodies, doc)
		rep := reply{http.StatusOK, `{"status":"success"}`}
		if n < len(is.replies) {
			rep = is.replies[n]
		}
		is.mu.Unlock()

		w.WriteHeader(rep.status)
		_, _ = io.WriteString(w, rep.body)
	}))
	t.Cleanup(is.Close)
	return is
}

func (is *intakeServer) session(opts ...Option) *Session {
	client := submit.New(is.URL, submit.WithHTTPClient(is.Client()), submit.WithTextErrorBodies())
	opts = append([]Option{WithClock(fixedNow), WithVerifier(SimulatedVerifier{})}, opts...)
	return NewSession(client, opts...)
}

func (is *intakeServer) requests() []map[string]any {
	is.mu.Lock()
	defer is.mu.Unlock()
	return append([]map[string]any(nil), is.bodies...)
}

func fillThroughDates(t *testing.T, s *form.Store) {
	t.Helper()
	for name, v := range map[string]string{
		FirstName: "Lena", LastName: "Ortiz",
		Email: "lena@example.com", Phone: "(555) 987-6543",
		Address: "12 Palm Ave", City: "Pasadena", Zip: "91101",
		DeliveryLocation: "Huntington Hospital, Pasadena",
		DOB:              "03/09/1994", BabyDueDate: "11/20/2024",
	} {
		require.NoError(t, s.SetText(name, v))
	}
	require.NoError(t, s.SetChoice(SupportType, Birth))
	require.NoError(t, s.SetChoice(State, "CA"))
}

func TestDateLabel(t *testing.T) {
	tests := map[string]string{
		Birth:      "Baby's Due Date",
		Postpartum: "Baby's Birth Date",
		Loss:       "Date of Loss",
		Abortion:   "Procedure Date",
		"":         "Relevant Date",
		"surgery":  "Relevant Date",
	}
	for in, want := range tests {
		if got := DateLabel(in); got != want {
			t.Errorf("DateLabel(%q): Expected %q, got %q", in, want, got)
		}
	}
}

func TestCoverageFor(t *testing.T) {
	for _, p := range Providers {
		c := CoverageFor(p.Value)
		if p.Type == "Medi-Cal Only" && c.Title != "Medi-Cal Doula Benefit" {
			t.Errorf("%s: Expected Medi-Cal coverage, got %q", p.Value, c.Title)
		}
	}

	assert.Equal(t, "Medi-Cal Doula Benefit", CoverageFor("medi-cal").Title)
	assert.Equal(t, "Medi-Cal Doula Benefit", CoverageFor("lacare").Title)
	assert.Len(t, CoverageFor("healthnet").Visits, 5)

	assert.Equal(t, "Typical Doula Benefit Coverage", CoverageFor("kaiser").Title)
	assert.Equal(t, "Typical Doula Benefit Coverage", CoverageFor("").Title)
	assert.Len(t, CoverageFor("aetna").Visits, 4)
}

func TestIsMediCal(t *testing.T) {
	assert.True(t, IsMediCal("Medi-Cal (Fee-for-Service)"))
	assert.True(t, IsMediCal("IEHP"))
	assert.False(t, IsMediCal("blueshield"))
	assert.False(t, IsMediCal(OtherProvider))
	assert.Len(t, VerifiedBenefits("calviva"), 5)
	assert.Len(t, VerifiedBenefits("cigna"), 4)
}

func TestServicesFor(t *testing.T) {
	assert.Equal(t, ServicesFor(Birth), ServicesFor(""))
	assert.Contains(t, ServicesFor(Loss), "Grief Counseling Referrals")
	list := ServicesFor(Abortion)
	list[0] = "changed"
	assert.Equal(t, "Pre-procedure Support", ServicesFor(Abortion)[0])
}

func TestPaths(t *testing.T) {
	got := NewGraph(Hooks{}, fixedNow).Paths()
	want := [][]flow.StepID{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, flow.Done},
		{0, 1, 2, 3, 4, 5, 6, 7, 10, flow.Done},
		{0, 1, 2, 3, 4, 5, 6, 10, flow.Done},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestContactStep(t *testing.T) {
	step := NewGraph(Hooks{}, fixedNow).Step(StepContact)
	tests := []struct {
		name, email, phone string
		want               map[string]string
	}{
		{"neither", "", "", map[string]string{Email: "Please enter an email address or phone number"}},
		{"email only", "a@b.co", "", map[string]string{}},
		{"phone only", "", "(555) 123-4567", map[string]string{}},
		{"bad email", "a@b", "(555) 123-4567", map[string]string{Email: "Email address is invalid"}},
		{"partial phone", "a@b.co", "(555) 12", map[string]string{Phone: "Phone number must be in format (xxx) xxx-xxxx"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			_ = s.SetText(Email, tt.email)
			_ = s.SetText(Phone, tt.phone)
			if diff := cmp.Diff(tt.want, step.Validate(s)); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeliveryStep(t *testing.T) {
	step := NewGraph(Hooks{}, fixedNow).Step(StepDelivery)
	s := NewStore()
	assert.NotEmpty(t, step.Validate(s)[DeliveryLocation])

	_ = s.SetText(DeliveryLocation, "Other (specify in notes)")
	assert.Empty(t, step.Validate(s))
	assert.Equal(t, []string{DeliveryLocation, DeliveryNotes, DeliveryUnknown}, step.VisibleFields(s))

	require.NoError(t, SetDeliveryUnknown(s, true))
	assert.Empty(t, s.Text(DeliveryLocation))
	assert.Empty(t, step.Validate(s))
	assert.Equal(t, []string{DeliveryUnknown}, step.VisibleFields(s))
}

func TestDatesStep(t *testing.T) {
	step := NewGraph(Hooks{}, fixedNow).Step(StepDates)
	s := NewStore()
	_ = s.SetText(DOB, "12/25/2024")
	_ = s.SetText(BabyDueDate, "02/30/2024")
	errs := step.Validate(s)
	assert.Equal(t, "Birth date cannot be in the future", errs[DOB])
	assert.Equal(t, "Enter a valid date in MM/DD/YYYY format", errs[BabyDueDate])
}

func TestVerificationStepMandatoryOnlyWhenChecking(t *testing.T) {
	step := NewGraph(Hooks{}, fixedNow).Step(StepVerification)
	s := NewStore()
	_ = s.SetFlag(WantInsuranceCheck, true)
	assert.NotEmpty(t, step.Validate(s)[MemberID])

	_ = s.AttachFile(InsuranceFront, form.Attachment{Name: "front.jpg", Encoded: "AA=="})
	assert.Empty(t, step.Validate(s))

	s = NewStore()
	_ = s.SetFlag(WantInsuranceCheck, false)
	assert.Empty(t, step.Validate(s))
}

func TestBranchingAndBack(t *testing.T) {
	srv := newIntakeServer(t)

	t.Run("self-pay", func(t *testing.T) {
		sess := srv.session()
		fillThroughDates(t, sess.Store())
		require.NoError(t, sess.Controller().Restore(StepInsuranceChoice))
		_ = sess.Store().SetFlag(WantInsuranceCheck, false)
		ok, err := sess.Next(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, StepServices, sess.Controller().Current())

		require.NoError(t, sess.Back())
		assert.Equal(t, StepInsuranceChoice, sess.Controller().Current())
	})

	t.Run("skip provider", func(t *testing.T) {
		sess := srv.session()
		_ = sess.Store().SetFlag(WantInsuranceCheck, true)
		require.NoError(t, sess.Controller().Restore(StepProvider))
		require.NoError(t, sess.Skip())
		assert.Equal(t, StepServices, sess.Controller().Current())

		require.NoError(t, sess.Back())
		assert.Equal(t, StepProvider, sess.Controller().Current())
	})

	t.Run("verified", func(t *testing.T) {
		sess := srv.session()
		_ = sess.Store().SetFlag(WantInsuranceCheck, true)
		require.NoError(t, sess.Controller().Restore(StepResult))
		require.NoError(t, sess.Verify(context.Background()))
		ok, err := sess.Next(context.Background())
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, sess.Back())
		assert.Equal(t, StepResult, sess.Controller().Current())
	})
}

func TestSaveProgress_StoresIDAndClearsCardBytes(t *testing.T) {
	srv := newIntakeServer(t, reply{http.StatusOK, `{"id":"001ACC"}`}, reply{http.StatusOK, `{"id":"001ACC"}`})
	sess := srv.session()
	s := sess.Store()
	fillThroughDates(t, s)
	require.NoError(t, s.AttachFile(InsuranceFront, form.Attachment{Name: "front.jpg", Encoded: "/9j/AA==", ContentType: "image/jpeg"}))

	require.NoError(t, sess.SaveProgress(context.Background()))
	assert.Equal(t, "001ACC", sess.AccountID())
	require.NotNil(t, s.File(InsuranceFront))
	assert.Equal(t, "front.jpg", s.File(InsuranceFront).Name)
	assert.False(t, s.File(InsuranceFront).HasContent())

	require.NoError(t, sess.SaveProgress(context.Background()))
	reqs := srv.requests()
	require.Len(t, reqs, 2)

	assert.Nil(t, reqs[0]["accountId"])
	assert.Equal(t, "/9j/AA==", reqs[0]["insuranceFrontBase64"])
	assert.Equal(t, "1994-03-09", reqs[0]["dob"])
	assert.Equal(t, "2024-11-20", reqs[0]["babyDueDate"])

	assert.Equal(t, "001ACC", reqs[1]["accountId"])
	assert.Equal(t, "front.jpg", reqs[1]["insuranceFront"])
	assert.Nil(t, reqs[1]["insuranceFrontBase64"])
}

func TestContactSaveFailureBlocksAdvance(t *testing.T) {
	tests := []struct {
		name  string
		reply reply
		want  string
	}{
		{"json message", reply{http.StatusBadRequest, `{"message":"Invalid phone"}`}, "Invalid phone"},
		{"text body", reply{http.StatusBadGateway, `upstream down`}, "upstream down"},
		{"empty body", reply{http.StatusInternalServerError, ``}, "Salesforce error (500)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newIntakeServer(t, tt.reply)
			sess := srv.session()
			fillThroughDates(t, sess.Store())
			require.NoError(t, sess.Controller().Restore(StepContact))

			ok, err := sess.Next(context.Background())
			assert.False(t, ok)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, StepContact, sess.Controller().Current())
			assert.Empty(t, sess.AccountID())
		})
	}
}

func TestContactSaveNetworkFailure(t *testing.T) {
	srv := newIntakeServer(t)
	url := srv.URL
	srv.Close()

	sess := NewSession(submit.New(url), WithClock(fixedNow))
	fillThroughDates(t, sess.Store())
	require.NoError(t, sess.Controller().Restore(StepContact))

	_, err := sess.Next(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), SaveFailed+" ("), "Expected fallback with cause, got %q", err.Error())
	assert.Contains(t, err.Error(), "connection refused")
	var failure *submit.Failure
	assert.True(t, errors.As(err, &failure))
}

func TestSubmit_EndToEnd(t *testing.T) {
	srv := newIntakeServer(t, reply{http.StatusOK, `{"id":"001NEW"}`}, reply{http.StatusOK, `{"id":"001NEW"}`})
	sess := srv.session(WithPortalURL("https://portal.example.test/"))
	s := sess.Store()
	fillThroughDates(t, s)
	_ = s.SetFlag(WantInsuranceCheck, true)
	_ = s.SetChoice(InsuranceProvider, "healthnet")
	_ = s.SetText(MemberID, "HN-42")
	_ = s.Toggle(SelectedServices, "Prenatal Visits")

	require.NoError(t, sess.Submit(context.Background()))
	assert.True(t, sess.Controller().Finished())
	assert.Equal(t, "https://portal.example.test/", sess.Redirect())

	reqs := srv.requests()
	require.Len(t, reqs, 2, "contact checkpoint plus final save")
	assert.Nil(t, reqs[0]["accountId"])
	assert.Equal(t, "001NEW", reqs[1]["accountId"])
	assert.Equal(t, []any{"Prenatal Visits"}, reqs[1]["selectedServices"])
	assert.NotContains(t, reqs[1], VerificationStatus)
}

func TestSubmit_FinalFailureKeepsSession(t *testing.T) {
	srv := newIntakeServer(t, reply{http.StatusOK, `{"id":"001X"}`}, reply{http.StatusInternalServerError, ``})
	sess := srv.session()
	s := sess.Store()
	fillThroughDates(t, s)
	_ = s.SetFlag(WantInsuranceCheck, false)
	_ = s.Toggle(SelectedServices, "Emotional Support")

	err := sess.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Salesforce error (500)", err.Error())
	assert.Equal(t, StepServices, sess.Controller().Current())
	assert.Empty(t, sess.Redirect())
	assert.Equal(t, "001X", sess.AccountID())
}

func TestBuildPayload_Nulls(t *testing.T) {
	p := BuildPayload(NewStore(), "")
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	for _, key := range []string{"supportType", "deliveryUnknown", "dob", "babyDueDate", "wantInsuranceCheck", "insuranceFront", "insuranceFrontBase64", "accountId"} {
		v, ok := doc[key]
		if !ok || v != nil {
			t.Errorf("Expected %s to be null, got %v (present=%v)", key, v, ok)
		}
	}
	assert.Equal(t, []any{}, doc["rankedDoulas"])
	assert.Equal(t, "", doc["otp"])
	assert.Equal(t, "", doc["state"])
}

func TestSimulatedVerifier_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := SimulatedVerifier{Delay: time.Hour}.Verify(ctx, CoverageRequest{})
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAttach_OnlyCards(t *testing.T) {
	sess := NewSession(submit.New("http://unused.invalid"))
	err := sess.Attach(context.Background(), MemberID, "/tmp/x.png")
	assert.ErrorIs(t, err, form.ErrKindMismatch)
}
