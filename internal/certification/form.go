// Package certification defines the seven-step doula certification wizard:
// its fields, step layout, validation and the payload sent on submit.
package certification

import (
	"github.com/rayahealth/intake/internal/attach"
	"github.com/rayahealth/intake/internal/form"
)

// Field names. They double as the payload keys wherever the payload does
// not rename them.
const (
	FirstName = "firstName"
	LastName  = "lastName"
	Email     = "email"
	Phone     = "phone"

	Pronouns           = "pronouns"
	PronounsOther      = "pronounsOther"
	DOB                = "dob"
	WebsiteOrInstagram = "websiteOrInstagram"
	Ethnicity          = "ethnicity"
	CitiesServed       = "citiesServed"

	YearsExperience   = "yearsExperience"
	Certifications    = "certifications"
	CertificationFile = "certificationFile"

	AdditionalCerts      = "additionalCerts"
	AdditionalCertsOther = "additionalCertsOther"
	AdditionalCertFiles  = "additionalCertFiles"
	Specialties          = "specialties"
	CPRCertified         = "cprCertified"
	CPRFile              = "cprFile"
	HIPAATrained         = "hipaaTrained"
	HIPAAFile            = "hipaaFile"

	NPINumber             = "npiNumber"
	InsuranceFiles        = "insuranceFiles"
	InNetworkOrgs         = "inNetworkOrgs"
	InNetworkOrgsOther    = "inNetworkOrgsOther"
	MediCalApprovalFile   = "mediCalApprovalFile"
	WantMediCalAssistance = "wantMediCalAssistance"

	FamiliesSupported     = "familiesSupported"
	CareTypes             = "careTypes"
	CareTypesOther        = "careTypesOther"
	AvailableMonths       = "availableMonths"
	Languages             = "languages"
	EngagementPreferences = "engagementPreferences"
	InPersonLaborSupport  = "inPersonLaborSupport"
	Bio                   = "bio"
	Philosophy            = "philosophy"

	HeadshotFile                  = "headshotFile"
	VaccinationEncouragement      = "vaccinationEncouragement"
	VaccinationEncouragementOther = "vaccinationEncouragementOther"
	ReferralSource                = "referralSource"
	ReferralSourceOther           = "referralSourceOther"
	FinalComments                 = "finalComments"
)

// MaxFiles caps every multi-file field.
const MaxFiles = 5

// Schema lists every answer the wizard collects.
var Schema = form.Schema{
	{Name: FirstName, Kind: form.Text},
	{Name: LastName, Kind: form.Text},
	{Name: Email, Kind: form.Text},
	{Name: Phone, Kind: form.Text},

	{Name: Pronouns, Kind: form.Set},
	{Name: PronounsOther, Kind: form.Text},
	{Name: DOB, Kind: form.Text},
	{Name: WebsiteOrInstagram, Kind: form.Text},
	{Name: Ethnicity, Kind: form.Text},
	{Name: CitiesServed, Kind: form.Text},

	{Name: YearsExperience, Kind: form.Text},
	{Name: Certifications, Kind: form.Text},
	{Name: CertificationFile, Kind: form.File},

	{Name: AdditionalCerts, Kind: form.Set},
	{Name: AdditionalCertsOther, Kind: form.Text},
	{Name: AdditionalCertFiles, Kind: form.Files, MaxFiles: MaxFiles},
	{Name: Specialties, Kind: form.Text},
	{Name: CPRCertified, Kind: form.Choice},
	{Name: CPRFile, Kind: form.File},
	{Name: HIPAATrained, Kind: form.Choice},
	{Name: HIPAAFile, Kind: form.File},

	{Name: NPINumber, Kind: form.Text},
	{Name: InsuranceFiles, Kind: form.Files, MaxFiles: MaxFiles},
	{Name: InNetworkOrgs, Kind: form.Set},
	{Name: InNetworkOrgsOther, Kind: form.Text},
	{Name: MediCalApprovalFile, Kind: form.File},
	{Name: WantMediCalAssistance, Kind: form.Choice},

	{Name: FamiliesSupported, Kind: form.Text},
	{Name: CareTypes, Kind: form.Set},
	{Name: CareTypesOther, Kind: form.Text},
	{Name: AvailableMonths, Kind: form.Set},
	{Name: Languages, Kind: form.Text},
	{Name: EngagementPreferences, Kind: form.Set},
	{Name: InPersonLaborSupport, Kind: form.Flag},
	{Name: Bio, Kind: form.Text},
	{Name: Philosophy, Kind: form.Text},

	{Name: HeadshotFile, Kind: form.File},
	{Name: VaccinationEncouragement, Kind: form.Choice},
	{Name: VaccinationEncouragementOther, Kind: form.Text},
	{Name: ReferralSource, Kind: form.Choice},
	{Name: ReferralSourceOther, Kind: form.Text},
	{Name: FinalComments, Kind: form.Text},
}

// NewStore returns an empty answer store for the wizard.
func NewStore() *form.Store { return form.NewStore(Schema) }

// Answers for the tri-state credential questions.
const (
	Yes       = "yes"
	No        = "no"
	InProcess = "in_process"
	LearnMore = "learn_more"
	Other     = "Other"
)

// Labeled is a selectable value with its display label.
type Labeled struct {
	Value string
	Label string
}

var (
	PronounOptions = []string{"she/her/hers", "he/him/his", "they/them", Other}

	AdditionalCertOptions = []string{
		"Lactation Counselor/Consultant",
		"Childbirth Educator",
		"Postpartum Care Specialist",
		"Infant Massage",
		"Placenta Encapsulation",
		Other,
	}

	CareTypeOptions = []string{
		"In Person Labor / Birth",
		"Virtual Labor / Birth",
		"Postpartum",
		"Prenatal/Antepartum",
		"Miscarriage",
		"Abortion",
		"IVF Support",
		Other,
	}

	InsuranceOrganizations = []string{
		"Medi-Cal",
		"Kaiser Permanente",
		"Anthem Blue Cross",
		"Blue Shield of California",
		"Health Net",
		"Molina Healthcare",
		"L.A. Care Health Plan",
		"Inland Empire Health Plan",
		Other,
	}

	EngagementOptions = []string{"In person", "At their residence", "Virtually", "At the hospital"}

	MonthOptions = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}

	ReferralSources = []string{
		"Word of mouth",
		"Social media",
		"Raya website",
		"Community event",
		"Healthcare provider referral",
		Other,
	}

	VaccinationOptions = []string{"Yes", "No", Other}

	CredentialOptions = []Labeled{
		{Yes, "Yes"},
		{No, "No"},
		{InProcess, "In the process"},
	}

	MediCalAssistanceOptions = []Labeled{
		{Yes, "Yes"},
		{No, "No"},
		{LearnMore, "I want to learn more about the process"},
	}
)

var (
	documents = []string{".pdf", ".jpg", ".jpeg", ".png"}

	// Rules holds the accept-list and size limit of every file field.
	Rules = map[string]attach.Rule{
		CertificationFile:   {Accept: documents, MaxBytes: 10 << 20, Hint: "PDF, JPG, or PNG (max 10MB)"},
		AdditionalCertFiles: {Accept: documents, MaxBytes: 100 << 20, Hint: "Upload up to 5 files. Max 100 MB per file."},
		CPRFile:             {Accept: documents, Hint: "PDF, JPG, or PNG"},
		HIPAAFile:           {Accept: documents, Hint: "PDF, JPG, or PNG"},
		InsuranceFiles:      {Accept: documents, MaxBytes: 100 << 20, Hint: "Upload up to 5 supported files. Max 100 MB per file."},
		MediCalApprovalFile: {Accept: []string{".pdf"}, MaxBytes: 1 << 20, Hint: "PDF only (max 1MB)"},
		HeadshotFile:        {Accept: []string{".jpg", ".jpeg", ".png"}, Hint: "JPG or PNG, professional quality preferred"},
	}
)
