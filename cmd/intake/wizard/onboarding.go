package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/rayahealth/intake/cmd/intake/wizard/screens"
	"github.com/rayahealth/intake/internal/flow"
	"github.com/rayahealth/intake/internal/form"
	"github.com/rayahealth/intake/internal/onboarding"
	"github.com/rayahealth/intake/internal/validate"
)

// Onboarding lays out the patient onboarding form.
func Onboarding(sess *onboarding.Session) *Intake {
	return &Intake{
		Name:    "onboarding",
		Heading: "Raya Health",
		Session: sess,
		Layout: map[flow.StepID][]string{
			onboarding.StepName:            {onboarding.FirstName, onboarding.LastName},
			onboarding.StepSupport:         {onboarding.SupportType},
			onboarding.StepContact:         {onboarding.Email, onboarding.Phone},
			onboarding.StepAddress:         {onboarding.Address, onboarding.City, onboarding.State, onboarding.Zip},
			onboarding.StepDelivery:        {onboarding.DeliveryLocation, onboarding.DeliveryNotes, onboarding.DeliveryUnknown},
			onboarding.StepDates:           {onboarding.DOB, onboarding.BabyDueDate},
			onboarding.StepInsuranceChoice: {onboarding.WantInsuranceCheck},
			onboarding.StepProvider:        {onboarding.InsuranceProvider, onboarding.OtherInsurance},
			onboarding.StepVerification:    {onboarding.MemberID, onboarding.InsuranceFront, onboarding.InsuranceBack},
			onboarding.StepServices:        {onboarding.SelectedServices, onboarding.DoulaPreferences},
		},
		Fields: onboardingFields,
		Subtitles: map[flow.StepID]string{
			onboarding.StepName:            "Let's get you matched with a doula. First, what's your name?",
			onboarding.StepSupport:         "Doulas provide care for many different journeys.",
			onboarding.StepContact:         "We will send you access to the platform via email and text.",
			onboarding.StepAddress:         "We'll use this to find doulas near you.",
			onboarding.StepDelivery:        "Tell us the hospital, birth center or other place you plan to go.",
			onboarding.StepDates:           "This helps us find the right doula for your timeline.",
			onboarding.StepInsuranceChoice: "Many plans cover doula care at no cost to you.",
			onboarding.StepProvider:        "Select your plan. Press Ctrl+K to skip for now.",
			onboarding.StepVerification:    "Enter your member ID or attach photos of your insurance card.",
			onboarding.StepServices:        "Select all the services you'd like help with.",
		},
		Bodies: map[flow.StepID]func(*form.Store) string{
			onboarding.StepProvider: func(s *form.Store) string {
				provider, _ := s.Choice(onboarding.InsuranceProvider)
				c := onboarding.CoverageFor(provider)
				return visitList(c.Title, c.Description, c.Visits, c.Note)
			},
			onboarding.StepResult: func(s *form.Store) string {
				provider, _ := s.Choice(onboarding.InsuranceProvider)
				return visitList("Congratulations! You're covered for the doula benefit!",
					"Your plan includes:", onboarding.VerifiedBenefits(provider), "")
			},
		},
		AutoAdvance: map[flow.StepID]time.Duration{
			onboarding.StepSupport: onboarding.AutoAdvanceDelay,
		},
		OnEnter: map[flow.StepID]Task{
			onboarding.StepResult: {
				Busy: "Verifying Your Benefit... We're checking your coverage for doula services.",
				When: func(s *form.Store) bool {
					v, _ := s.Choice(onboarding.VerificationStatus)
					return v != onboarding.Verified
				},
				Run: sess.Verify,
			},
		},
		Couple: func(key string, s *form.Store) error {
			if key != onboarding.DeliveryUnknown {
				return nil
			}
			unknown, _ := s.Flag(onboarding.DeliveryUnknown)
			return onboarding.SetDeliveryUnknown(s, unknown)
		},
		Complete: func() screens.CompletionMsg {
			return screens.CompletionMsg{
				Title:     "You're all set!",
				Message:   "Thank you for sharing your information. We'll match you with a doula and reach out soon.",
				ListTitle: "What's Next?",
				Items: []string{
					"Watch for an email and text with your platform access",
					"Browse doulas matched to your needs",
					"Schedule a free consultation",
				},
				Link: sess.Redirect(),
			}
		},
	}
}

func visitList(title, description string, visits []onboarding.Visit, note string) string {
	var b strings.Builder
	b.WriteString(title + "\n" + description + "\n")
	for _, v := range visits {
		fmt.Fprintf(&b, "  • %s: %s\n", v.Name, v.Description)
	}
	if note != "" {
		b.WriteString(note)
	}
	return strings.TrimRight(b.String(), "\n")
}

func supportOptions() []screens.Option {
	out := []screens.Option{unset}
	for _, t := range onboarding.SupportTypes {
		out = append(out, screens.Option{Label: t.Title + ": " + t.Description, Value: t.Type})
	}
	return out
}

func stateOptions() []screens.Option {
	out := []screens.Option{unset}
	for _, st := range onboarding.States {
		out = append(out, screens.Option{Label: st.Label, Value: st.Value})
	}
	return out
}

func providerOptions() []screens.Option {
	out := []screens.Option{unset}
	for _, p := range onboarding.Providers {
		out = append(out, screens.Option{Label: p.DisplayName(), Value: p.Value})
	}
	return out
}

var onboardingFields = map[string]FieldSpec{
	onboarding.FirstName: {Kind: screens.FieldInput, Title: "First Name *", Placeholder: "First name"},
	onboarding.LastName:  {Kind: screens.FieldInput, Title: "Last Name *", Placeholder: "Last name"},

	onboarding.SupportType: {
		Kind: screens.FieldSelect, Title: "What type of support are you looking for?",
		Options: fixedOptions(supportOptions()...),
	},

	onboarding.Email: {Kind: screens.FieldInput, Title: "Email", Placeholder: "you@example.com"},
	onboarding.Phone: {
		Kind: screens.FieldInput, Title: "Phone", Placeholder: "(555) 123-4567",
		Normalize: validate.FormatPhone,
	},

	onboarding.Address: {Kind: screens.FieldInput, Title: "Street Address *", Placeholder: "123 Main St"},
	onboarding.City: {
		Kind: screens.FieldInput, Title: "City *", Placeholder: "Los Angeles",
		Normalize: validate.FormatCity,
	},
	onboarding.State: {Kind: screens.FieldSelect, Title: "State *", Options: fixedOptions(stateOptions()...)},
	onboarding.Zip: {
		Kind: screens.FieldInput, Title: "ZIP *", Placeholder: "90001",
		Normalize: validate.FormatZip,
	},

	onboarding.DeliveryLocation: {
		Kind: screens.FieldInput, Title: "Delivery location", Placeholder: "Start typing a hospital or birth center",
		Suggestions: onboarding.DeliveryLocations,
	},
	onboarding.DeliveryNotes:   {Kind: screens.FieldText, Title: "Notes", Placeholder: "Tell us more about where you plan to deliver"},
	onboarding.DeliveryUnknown: {Kind: screens.FieldConfirm, Title: "I don't know yet"},

	onboarding.DOB: {Kind: screens.FieldInput, Title: "Your Date of Birth *", Placeholder: "mm/dd/yyyy", Normalize: dateInput},
	onboarding.BabyDueDate: {
		Kind: screens.FieldInput, Placeholder: "mm/dd/yyyy", Normalize: dateInput,
		TitleFor: func(s *form.Store) string {
			t, _ := s.Choice(onboarding.SupportType)
			return onboarding.DateLabel(t) + " *"
		},
	},

	onboarding.WantInsuranceCheck: {
		Kind: screens.FieldSelect, Title: "Check my insurance?",
		Options: fixedOptions(
			unset,
			screens.Option{Label: "Yes, check my coverage", Value: "true"},
			screens.Option{Label: "No, I'll self-pay", Value: "false"},
		),
	},

	onboarding.InsuranceProvider: {
		Kind: screens.FieldSelect, Title: "Insurance Provider",
		Description: "Popular plans: " + strings.Join(onboarding.FeaturedPlans, ", "),
		Options:     fixedOptions(providerOptions()...),
	},
	onboarding.OtherInsurance: {Kind: screens.FieldInput, Title: "Insurance name", Placeholder: "Enter your insurance name"},

	onboarding.MemberID: {Kind: screens.FieldInput, Title: "Member ID", Placeholder: "Member ID from your card"},
	onboarding.InsuranceFront: {
		Kind: screens.FieldPath, Title: "Front of insurance card",
		Description: "Image file", Placeholder: "/path/to/card-front.jpg",
	},
	onboarding.InsuranceBack: {
		Kind: screens.FieldPath, Title: "Back of insurance card",
		Description: "Image file", Placeholder: "/path/to/card-back.jpg",
	},

	onboarding.SelectedServices: {
		Kind: screens.FieldMultiSelect, Title: "Services *",
		Options: func(s *form.Store) []screens.Option {
			t, _ := s.Choice(onboarding.SupportType)
			return plainOptions(onboarding.ServicesFor(t))
		},
	},
	onboarding.DoulaPreferences: {
		Kind: screens.FieldText, Title: "Doula preferences",
		Placeholder: "Language, background, or anything else that matters to you",
	},
}
