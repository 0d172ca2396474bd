package certification

import (
	"context"
	"slices"
	"strings"

	"github.com/rayahealth/intake/internal/flow"
	"github.com/rayahealth/intake/internal/form"
	"github.com/rayahealth/intake/internal/validate"
)

// Step ids.
const (
	StepContact flow.StepID = iota
	StepPersonal
	StepQualifications
	StepAdditionalCerts
	StepBusiness
	StepServiceApproach
	StepFinal
)

// NewGraph lays out the wizard. submit runs as the final step's hook; the
// session moves to flow.Done only when it returns nil.
func NewGraph(submit func(context.Context, *form.Store) error) *flow.Graph {
	return flow.MustGraph("certification",
		&flow.Step{
			ID:       StepContact,
			Title:    "Doula Intake Form",
			Fields:   fixed(FirstName, LastName, Email, Phone),
			Validate: validateContact,
		},
		&flow.Step{
			ID:    StepPersonal,
			Title: "Personal Details",
			Fields: func(s *form.Store) []string {
				return withOther(s, Pronouns, PronounsOther, DOB, WebsiteOrInstagram, Ethnicity, CitiesServed)
			},
			Validate: func(s *form.Store) map[string]string {
				return map[string]string{
					DOB:          validate.Required(s.Text(DOB), "Date of birth is required"),
					CitiesServed: validate.Required(s.Text(CitiesServed), "Please enter cities/counties served"),
				}
			},
		},
		&flow.Step{
			ID:     StepQualifications,
			Title:  "Professional Qualifications",
			Fields: fixed(YearsExperience, Certifications, CertificationFile),
			Validate: func(s *form.Store) map[string]string {
				return map[string]string{
					YearsExperience: validate.Required(s.Text(YearsExperience), "Years of experience is required"),
					Certifications:  validate.Required(s.Text(Certifications), "Please describe your certifications"),
				}
			},
		},
		&flow.Step{
			ID:       StepAdditionalCerts,
			Title:    "Additional Certifications",
			Fields:   additionalCertFields,
			Validate: validateAdditionalCerts,
		},
		&flow.Step{
			ID:    StepBusiness,
			Title: "Business & Insurance",
			Fields: func(s *form.Store) []string {
				out := []string{NPINumber, InsuranceFiles}
				out = append(out, withOther(s, InNetworkOrgs, InNetworkOrgsOther)...)
				return append(out, MediCalApprovalFile, WantMediCalAssistance)
			},
			Validate: func(s *form.Store) map[string]string {
				npi := s.Text(NPINumber)
				if npi != "" && !validate.IsNPI(npi) {
					return map[string]string{NPINumber: "NPI must be exactly 10 digits"}
				}
				return nil
			},
		},
		&flow.Step{
			ID:    StepServiceApproach,
			Title: "Service Approach",
			Fields: func(s *form.Store) []string {
				out := []string{FamiliesSupported}
				out = append(out, withOther(s, CareTypes, CareTypesOther)...)
				return append(out, AvailableMonths, Languages, EngagementPreferences, InPersonLaborSupport, Bio, Philosophy)
			},
			Validate: func(s *form.Store) map[string]string {
				return map[string]string{
					Bio:                   validate.Required(s.Text(Bio), "Please provide a short bio"),
					CareTypes:             validate.MinSelected(s.Selected(CareTypes), "Please select at least one care type"),
					EngagementPreferences: validate.MinSelected(s.Selected(EngagementPreferences), "Please select at least one preference"),
					AvailableMonths:       validate.MinSelected(s.Selected(AvailableMonths), "Please select at least one month"),
				}
			},
		},
		&flow.Step{
			ID:    StepFinal,
			Title: "Final Details",
			Fields: func(s *form.Store) []string {
				out := []string{HeadshotFile, VaccinationEncouragement}
				if v, _ := s.Choice(VaccinationEncouragement); v == Other {
					out = append(out, VaccinationEncouragementOther)
				}
				out = append(out, ReferralSource)
				if v, _ := s.Choice(ReferralSource); v == Other {
					out = append(out, ReferralSourceOther)
				}
				return append(out, FinalComments)
			},
			Validate: func(s *form.Store) map[string]string {
				v, _ := s.Choice(VaccinationEncouragement)
				return map[string]string{
					VaccinationEncouragement: validate.Chosen(v != "", "Please select an option"),
				}
			},
			BeforeAdvance: submit,
			Next:          []flow.Edge{{Name: "submit", To: flow.Done}},
		},
	)
}

func validateContact(s *form.Store) map[string]string {
	errs := map[string]string{
		FirstName: validate.Required(s.Text(FirstName), "First name is required"),
		LastName:  validate.Required(s.Text(LastName), "Last name is required"),
	}
	switch phone := s.Text(Phone); {
	case strings.TrimSpace(phone) == "":
		errs[Phone] = "Phone number is required"
	case !validate.IsPhone(validate.FormatPhone(phone)):
		errs[Phone] = "Please enter a valid 10-digit phone number"
	}
	switch email := s.Text(Email); {
	case strings.TrimSpace(email) == "":
		errs[Email] = "Email is required"
	case !validate.IsEmail(email):
		errs[Email] = "Please enter a valid email"
	}
	return errs
}

func additionalCertFields(s *form.Store) []string {
	out := withOther(s, AdditionalCerts, AdditionalCertsOther)
	out = append(out, AdditionalCertFiles, Specialties, CPRCertified)
	if v, _ := s.Choice(CPRCertified); v == Yes {
		out = append(out, CPRFile)
	}
	out = append(out, HIPAATrained)
	if v, _ := s.Choice(HIPAATrained); v == Yes {
		out = append(out, HIPAAFile)
	}
	return out
}

func validateAdditionalCerts(s *form.Store) map[string]string {
	_, cpr := s.Choice(CPRCertified)
	_, hipaa := s.Choice(HIPAATrained)
	return map[string]string{
		Specialties:  validate.Required(s.Text(Specialties), "Please list your specialties"),
		CPRCertified: validate.Chosen(cpr, "Please select an option"),
		HIPAATrained: validate.Chosen(hipaa, "Please select an option"),
	}
}

func fixed(names ...string) func(*form.Store) []string {
	return func(*form.Store) []string { return slices.Clone(names) }
}

// withOther returns set followed by its free-text "Other" field when Other
// is selected, then rest.
func withOther(s *form.Store, set, other string, rest ...string) []string {
	out := []string{set}
	if slices.Contains(s.Selected(set), Other) {
		out = append(out, other)
	}
	return append(out, rest...)
}
