package wizard

import (
	"github.com/rayahealth/intake/cmd/intake/wizard/screens"
	"github.com/rayahealth/intake/internal/certification"
	"github.com/rayahealth/intake/internal/flow"
	"github.com/rayahealth/intake/internal/validate"
)

func credentialOptions(opts []certification.Labeled) []screens.Option {
	out := []screens.Option{unset}
	for _, o := range opts {
		out = append(out, screens.Option{Label: o.Label, Value: o.Value})
	}
	return out
}

func hint(field string) string { return certification.Rules[field].Hint }

// Certification lays out the doula certification form.
func Certification(sess *certification.Session) *Intake {
	return &Intake{
		Name:    "certification",
		Heading: "Raya Doula Certification",
		Session: sess,
		Layout: map[flow.StepID][]string{
			certification.StepContact: {
				certification.FirstName, certification.LastName, certification.Email, certification.Phone,
			},
			certification.StepPersonal: {
				certification.Pronouns, certification.PronounsOther, certification.DOB,
				certification.WebsiteOrInstagram, certification.Ethnicity, certification.CitiesServed,
			},
			certification.StepQualifications: {
				certification.YearsExperience, certification.Certifications, certification.CertificationFile,
			},
			certification.StepAdditionalCerts: {
				certification.AdditionalCerts, certification.AdditionalCertsOther, certification.AdditionalCertFiles,
				certification.Specialties, certification.CPRCertified, certification.CPRFile,
				certification.HIPAATrained, certification.HIPAAFile,
			},
			certification.StepBusiness: {
				certification.NPINumber, certification.InsuranceFiles, certification.InNetworkOrgs,
				certification.InNetworkOrgsOther, certification.MediCalApprovalFile, certification.WantMediCalAssistance,
			},
			certification.StepServiceApproach: {
				certification.FamiliesSupported, certification.CareTypes, certification.CareTypesOther,
				certification.AvailableMonths, certification.Languages, certification.EngagementPreferences,
				certification.InPersonLaborSupport, certification.Bio, certification.Philosophy,
			},
			certification.StepFinal: {
				certification.HeadshotFile, certification.VaccinationEncouragement,
				certification.VaccinationEncouragementOther, certification.ReferralSource,
				certification.ReferralSourceOther, certification.FinalComments,
			},
		},
		Subtitles: map[flow.StepID]string{
			certification.StepContact: "Join our network of doulas. Let's start with your contact details.",
		},
		Fields: certificationFields,
		Complete: func() screens.CompletionMsg {
			return screens.CompletionMsg{
				Title: "Thank You!",
				Message: "Your certification form has been submitted successfully. Our team will review " +
					"your qualifications and get back to you within 3-5 business days.",
				ListTitle: "What's Next?",
				Items: []string{
					"We'll verify your certifications and credentials",
					"You'll receive an email with next steps",
					"Schedule an onboarding call with our team",
				},
			}
		},
	}
}

var certificationFields = map[string]FieldSpec{
	certification.FirstName: {Kind: screens.FieldInput, Title: "First Name *", Placeholder: "Enter your first name"},
	certification.LastName:  {Kind: screens.FieldInput, Title: "Last Name *", Placeholder: "Enter your last name"},
	certification.Email:     {Kind: screens.FieldInput, Title: "Email Address *", Placeholder: "you@example.com"},
	certification.Phone: {
		Kind: screens.FieldInput, Title: "Phone Number *", Placeholder: "(555) 123-4567",
		Normalize: validate.FormatPhone,
	},

	certification.Pronouns: {
		Kind: screens.FieldMultiSelect, Title: "Preferred Pronouns",
		Options: fixedOptions(plainOptions(certification.PronounOptions)...),
	},
	certification.PronounsOther:      {Kind: screens.FieldInput, Title: "Other pronouns", Placeholder: "Please specify your pronouns"},
	certification.DOB:                {Kind: screens.FieldInput, Title: "Date of Birth *", Placeholder: "mm/dd/yyyy", Normalize: dateInput},
	certification.WebsiteOrInstagram: {Kind: screens.FieldInput, Title: "Website or Instagram Profile", Placeholder: "https://... or @handle"},
	certification.Ethnicity:          {Kind: screens.FieldInput, Title: "What is your ethnicity?", Placeholder: "Optional - helps match you to patients"},
	certification.CitiesServed:       {Kind: screens.FieldInput, Title: "Cities/Counties Served *", Placeholder: "e.g., Los Angeles County, Orange County"},

	certification.YearsExperience: {Kind: screens.FieldInput, Title: "Years of Experience *", Placeholder: "e.g., 5 years"},
	certification.Certifications: {
		Kind: screens.FieldText, Title: "What doula certification(s) do you hold? *",
		Placeholder: "Describe your certifications...",
	},
	certification.CertificationFile: {
		Kind: screens.FieldPath, Title: "Upload Certification(s)",
		Description: hint(certification.CertificationFile), Placeholder: "/path/to/certificate.pdf",
	},

	certification.AdditionalCerts: {
		Kind: screens.FieldMultiSelect, Title: "Additional Certifications",
		Options: fixedOptions(plainOptions(certification.AdditionalCertOptions)...),
	},
	certification.AdditionalCertsOther: {Kind: screens.FieldInput, Title: "Other certifications", Placeholder: "Please specify other certifications"},
	certification.AdditionalCertFiles: {
		Kind: screens.FieldPaths, Title: "Upload additional certification files (optional)",
		Description: hint(certification.AdditionalCertFiles), Placeholder: "One path per line",
	},
	certification.Specialties: {
		Kind: screens.FieldText, Title: "What are your specialties? Please list all of them. *",
		Placeholder: "e.g., Plus-Size, LGBTQ+, IVF, high-risk pregnancies, VBAC, first-time parents...",
	},
	certification.CPRCertified: {
		Kind:    screens.FieldSelect,
		Title:   "Are you CPR certified from the American Red Cross (ARC) or American Heart Association (AHA)? *",
		Options: fixedOptions(credentialOptions(certification.CredentialOptions)...),
	},
	certification.CPRFile: {
		Kind: screens.FieldPath, Title: "Upload your CPR certification",
		Description: hint(certification.CPRFile), Placeholder: "/path/to/cpr.pdf",
	},
	certification.HIPAATrained: {
		Kind: screens.FieldSelect, Title: "Do you have HIPAA training certification? *",
		Options: fixedOptions(credentialOptions(certification.CredentialOptions)...),
	},
	certification.HIPAAFile: {
		Kind: screens.FieldPath, Title: "Upload your HIPAA certification",
		Description: hint(certification.HIPAAFile), Placeholder: "/path/to/hipaa.pdf",
	},

	certification.NPINumber: {
		Kind: screens.FieldInput, Title: "Please list your National Provider Identifier (NPI) for yourself below.",
		Placeholder: "10-digit NPI Number", Normalize: validate.NormalizeNPI,
	},
	certification.InsuranceFiles: {
		Kind:        screens.FieldPaths,
		Title:       "If you have any kind of insurance associated with your practice, please upload them below.",
		Description: hint(certification.InsuranceFiles), Placeholder: "One path per line",
	},
	certification.InNetworkOrgs: {
		Kind: screens.FieldMultiSelect, Title: "In-Network Organizations",
		Options: fixedOptions(plainOptions(certification.InsuranceOrganizations)...),
	},
	certification.InNetworkOrgsOther: {Kind: screens.FieldInput, Title: "Other organizations", Placeholder: "Please specify other organizations"},
	certification.MediCalApprovalFile: {
		Kind: screens.FieldPath, Title: "If you are Medi-Cal Approved, please upload your Medi-Cal/DHCS approval letter.",
		Description: hint(certification.MediCalApprovalFile), Placeholder: "/path/to/approval.pdf",
	},
	certification.WantMediCalAssistance: {
		Kind:    screens.FieldSelect,
		Title:   "If you are not Medi-Cal Approved, would you like Raya Health to assist you in getting Medi-Cal Approved?",
		Options: fixedOptions(credentialOptions(certification.MediCalAssistanceOptions)...),
	},

	certification.FamiliesSupported: {Kind: screens.FieldInput, Title: "Approximately how many families have you supported?", Placeholder: "e.g., 50+ families"},
	certification.CareTypes: {
		Kind: screens.FieldMultiSelect, Title: "What type of Doula Care do you offer? (Check all that apply) *",
		Description: "Please check ALL that apply",
		Options:     fixedOptions(plainOptions(certification.CareTypeOptions)...),
	},
	certification.CareTypesOther: {Kind: screens.FieldInput, Title: "Other care types", Placeholder: "Please specify..."},
	certification.AvailableMonths: {
		Kind: screens.FieldMultiSelect, Title: "What months are you available to take on patients? *",
		Options: fixedOptions(plainOptions(certification.MonthOptions)...),
	},
	certification.Languages: {Kind: screens.FieldInput, Title: "Languages Spoken", Placeholder: "e.g., English, Spanish, Mandarin"},
	certification.EngagementPreferences: {
		Kind: screens.FieldMultiSelect, Title: "How do you prefer to engage with your patients? (Check all that apply) *",
		Options: fixedOptions(plainOptions(certification.EngagementOptions)...),
	},
	certification.InPersonLaborSupport: {Kind: screens.FieldConfirm, Title: "Will you support patients IN-PERSON during labor + delivery?"},
	certification.Bio:                  {Kind: screens.FieldText, Title: "Short Bio *", Placeholder: "Tell families about yourself and your background..."},
	certification.Philosophy:           {Kind: screens.FieldText, Title: "Care Philosophy", Placeholder: "Describe your approach to doula care..."},

	certification.HeadshotFile: {
		Kind: screens.FieldPath, Title: "Professional Headshot",
		Description: hint(certification.HeadshotFile), Placeholder: "/path/to/headshot.jpg",
	},
	certification.VaccinationEncouragement: {
		Kind:    screens.FieldSelect,
		Title:   "Are you comfortable encouraging vaccinations for both mom, child, and family members? *",
		Options: fixedOptions(append([]screens.Option{unset}, plainOptions(certification.VaccinationOptions)...)...),
	},
	certification.VaccinationEncouragementOther: {Kind: screens.FieldInput, Title: "Please specify", Placeholder: "Please specify..."},
	certification.ReferralSource: {
		Kind: screens.FieldSelect, Title: "How did you hear about Raya?",
		Options: fixedOptions(append([]screens.Option{unset}, plainOptions(certification.ReferralSources)...)...),
	},
	certification.ReferralSourceOther: {Kind: screens.FieldInput, Title: "Please specify", Placeholder: "Please specify"},
	certification.FinalComments:       {Kind: screens.FieldText, Title: "Final Comments or Questions", Placeholder: "Anything else you'd like us to know?"},
}
