package onboarding

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rayahealth/intake/internal/flow"
	"github.com/rayahealth/intake/internal/form"
	"github.com/rayahealth/intake/internal/validate"
)

// Step ids.
const (
	StepName flow.StepID = iota
	StepSupport
	StepContact
	StepAddress
	StepDelivery
	StepDates
	StepInsuranceChoice
	StepProvider
	StepVerification
	StepResult
	StepServices
)

// Hooks are the endpoint calls tied to steps.
type Hooks struct {
	// SaveContact checkpoints the answers when leaving the contact step.
	SaveContact func(context.Context, *form.Store) error
	// Submit sends the final answers when leaving the services step.
	Submit func(context.Context, *form.Store) error
}

func wantsCheck(s *form.Store) bool {
	v, ok := s.Flag(WantInsuranceCheck)
	return ok && v
}

func selfPay(s *form.Store) bool {
	v, ok := s.Flag(WantInsuranceCheck)
	return ok && !v
}

func verified(s *form.Store) bool {
	v, _ := s.Choice(VerificationStatus)
	return v == Verified
}

// NeedsNotes reports whether a delivery location asks for free-text notes.
func NeedsNotes(location string) bool {
	return strings.Contains(strings.ToLower(location), "specify in notes")
}

// NewGraph lays out the wizard. now is the clock used by date checks.
func NewGraph(h Hooks, now func() time.Time) *flow.Graph {
	return flow.MustGraph("onboarding",
		&flow.Step{
			ID:     StepName,
			Title:  "Welcome",
			Fields: fixed(FirstName, LastName),
			Validate: func(s *form.Store) map[string]string {
				return map[string]string{
					FirstName: validate.Required(s.Text(FirstName), "First name is required"),
					LastName:  validate.Required(s.Text(LastName), "Last name is required"),
				}
			},
		},
		&flow.Step{
			ID:     StepSupport,
			Title:  "What type of support are you looking for?",
			Fields: fixed(SupportType),
			Validate: func(s *form.Store) map[string]string {
				_, ok := s.Choice(SupportType)
				return map[string]string{SupportType: validate.Chosen(ok, "Please select a type of support")}
			},
		},
		&flow.Step{
			ID:            StepContact,
			Title:         "How can we reach you?",
			Fields:        fixed(Email, Phone),
			Validate:      validateContact,
			BeforeAdvance: h.SaveContact,
		},
		&flow.Step{
			ID:     StepAddress,
			Title:  "Where are you located?",
			Fields: fixed(Address, City, State, Zip),
			Validate: func(s *form.Store) map[string]string {
				_, state := s.Choice(State)
				return map[string]string{
					Address: validate.Required(s.Text(Address), "Street address is required"),
					City:    validate.Required(s.Text(City), "City is required"),
					State:   validate.Chosen(state, "Please select a state"),
					Zip:     validate.Required(s.Text(Zip), "ZIP is required"),
				}
			},
		},
		&flow.Step{
			ID:    StepDelivery,
			Title: "Where do you plan to receive care?",
			Fields: func(s *form.Store) []string {
				if unknown, _ := s.Flag(DeliveryUnknown); unknown {
					return []string{DeliveryUnknown}
				}
				out := []string{DeliveryLocation}
				if NeedsNotes(s.Text(DeliveryLocation)) {
					out = append(out, DeliveryNotes)
				}
				return append(out, DeliveryUnknown)
			},
			Validate: func(s *form.Store) map[string]string {
				unknown, _ := s.Flag(DeliveryUnknown)
				if unknown || strings.TrimSpace(s.Text(DeliveryLocation)) != "" {
					return nil
				}
				return map[string]string{DeliveryLocation: `Please enter a location or select "I don't know yet"`}
			},
		},
		&flow.Step{
			ID:     StepDates,
			Title:  "Tell us about you",
			Fields: fixed(DOB, BabyDueDate),
			Validate: func(s *form.Store) map[string]string {
				t := now()
				return map[string]string{
					DOB:         validate.BirthDate(s.Text(DOB), t),
					BabyDueDate: validate.RelevantDate(s.Text(BabyDueDate), t),
				}
			},
		},
		&flow.Step{
			ID:     StepInsuranceChoice,
			Title:  "Would you like us to check if your insurance covers the doula benefit?",
			Fields: fixed(WantInsuranceCheck),
			Validate: func(s *form.Store) map[string]string {
				_, ok := s.Flag(WantInsuranceCheck)
				return map[string]string{WantInsuranceCheck: validate.Chosen(ok, "Please select an option")}
			},
			Next: []flow.Edge{
				{Name: "check", To: StepProvider, When: wantsCheck},
				{Name: "self-pay", To: StepServices, When: selfPay},
			},
		},
		&flow.Step{
			ID:    StepProvider,
			Title: "Please add your Health Insurance Details Below",
			Fields: func(s *form.Store) []string {
				if p, _ := s.Choice(InsuranceProvider); p == OtherProvider {
					return []string{InsuranceProvider, OtherInsurance}
				}
				return []string{InsuranceProvider}
			},
			Jumps: []flow.Edge{{Name: "skip", To: StepServices}},
		},
		&flow.Step{
			ID:     StepVerification,
			Title:  "Insurance Verification",
			Fields: fixed(MemberID, InsuranceFront, InsuranceBack),
			Validate: func(s *form.Store) map[string]string {
				if !wantsCheck(s) || strings.TrimSpace(s.Text(MemberID)) != "" || s.File(InsuranceFront) != nil {
					return nil
				}
				return map[string]string{MemberID: "Please enter your member ID or upload the front of your card"}
			},
		},
		&flow.Step{
			ID:    StepResult,
			Title: "Verifying Your Benefit",
			Validate: func(s *form.Store) map[string]string {
				if verified(s) {
					return nil
				}
				return map[string]string{VerificationStatus: "We have not been able to verify your coverage yet"}
			},
		},
		&flow.Step{
			ID:     StepServices,
			Title:  "What services are you interested in?",
			Fields: fixed(SelectedServices, DoulaPreferences),
			Validate: func(s *form.Store) map[string]string {
				return map[string]string{
					SelectedServices: validate.MinSelected(s.Selected(SelectedServices), "Please select at least one service"),
				}
			},
			BeforeAdvance: h.Submit,
			Next:          []flow.Edge{{Name: "submit", To: flow.Done}},
			Back: []flow.Edge{
				{Name: "self-pay", To: StepInsuranceChoice, When: selfPay},
				{Name: "verified", To: StepResult, When: verified},
				{Name: "provider", To: StepProvider},
			},
		},
	)
}

func validateContact(s *form.Store) map[string]string {
	email := strings.TrimSpace(s.Text(Email))
	phone := strings.TrimSpace(s.Text(Phone))
	if email == "" && phone == "" {
		return map[string]string{Email: "Please enter an email address or phone number"}
	}
	errs := map[string]string{}
	if email != "" && !validate.IsEmail(email) {
		errs[Email] = "Email address is invalid"
	}
	if phone != "" && !validate.IsPhone(phone) {
		errs[Phone] = "Phone number must be in format (xxx) xxx-xxxx"
	}
	return errs
}

func fixed(names ...string) func(*form.Store) []string {
	return func(*form.Store) []string { return slices.Clone(names) }
}

// SetDeliveryUnknown records the "I don't know yet" answer. Checking it
// drops any location already entered.
func SetDeliveryUnknown(s *form.Store, unknown bool) error {
	if err := s.SetFlag(DeliveryUnknown, unknown); err != nil {
		return err
	}
	if unknown {
		return s.SetText(DeliveryLocation, "")
	}
	return nil
}
