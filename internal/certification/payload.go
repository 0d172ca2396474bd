package certification

import (
	"strings"

	"github.com/rayahealth/intake/internal/form"
	"github.com/rayahealth/intake/internal/validate"
)

// File is an attachment as the endpoint expects it.
type File struct {
	FileName    string `json:"fileName"`
	Base64Data  string `json:"base64Data"`
	ContentType string `json:"contentType"`
}

// Payload is the JSON document posted on submit.
type Payload struct {
	FirstName          string   `json:"firstName"`
	LastName           string   `json:"lastName"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Pronouns           []string `json:"pronouns"`
	PronounsOther      string   `json:"pronounsOther"`
	DOB                string   `json:"dob"`
	WebsiteOrInstagram string   `json:"websiteOrInstagram"`
	CitiesServed       string   `json:"citiesServed"`
	Ethnicity          string   `json:"ethnicity"`

	YearsExperience   string `json:"yearsExperience"`
	Certifications    string `json:"certifications"`
	CertificationFile *File  `json:"certificationFile"`

	AdditionalCerts      []string `json:"additionalCerts"`
	AdditionalCertsOther string   `json:"additionalCertsOther"`
	AdditionalCertFiles  []File   `json:"additionalCertFiles"`
	Specialties          string   `json:"specialties"`
	CPRCertified         bool     `json:"cprCertified"`
	CPRFile              *File    `json:"cprFile"`
	HIPAATrained         bool     `json:"hipaaTrained"`
	HIPAAFile            *File    `json:"hipaaFile"`

	NPINumber             string   `json:"npiNumber"`
	InsuranceFiles        []File   `json:"insuranceFiles"`
	InNetworkOrgs         []string `json:"inNetworkOrgs"`
	InNetworkOrgsOther    string   `json:"inNetworkOrgsOther"`
	MediCalApprovalFile   *File    `json:"mediCalApprovalFile"`
	WantMediCalAssistance *string  `json:"wantMediCalAssistance"`

	FamiliesSupported     string   `json:"familiesSupported"`
	CareTypes             []string `json:"careTypes"`
	CareTypesOther        string   `json:"careTypesOther"`
	Languages             string   `json:"languages"`
	EngagementPreferences []string `json:"engagementPreferences"`
	InPersonLaborSupport  bool     `json:"inPersonLaborSupport"`
	Bio                   string   `json:"bio"`
	Philosophy            string   `json:"philosophy"`
	AvailableMonths       []string `json:"availableMonths"`

	HeadshotFile            *File  `json:"headshotFile"`
	VaccinationComfort      string `json:"vaccinationComfort"`
	VaccinationComfortOther string `json:"vaccinationComfortOther"`
	ReferralSource          string `json:"referralSource"`
	ReferralSourceOther     string `json:"referralSourceOther"`
	FinalComments           string `json:"finalComments"`
}

// BuildPayload maps the answers onto the endpoint's document. It is the only
// place where field names differ from the payload keys.
func BuildPayload(s *form.Store) Payload {
	cpr, _ := s.Choice(CPRCertified)
	hipaa, _ := s.Choice(HIPAATrained)
	labor, laborSet := s.Flag(InPersonLaborSupport)
	vaccination, _ := s.Choice(VaccinationEncouragement)
	referral, _ := s.Choice(ReferralSource)

	var mediCal *string
	if v, ok := s.Choice(WantMediCalAssistance); ok {
		mediCal = &v
	}

	return Payload{
		FirstName:          s.Text(FirstName),
		LastName:           s.Text(LastName),
		Email:              s.Text(Email),
		Phone:              validate.FormatPhone(s.Text(Phone)),
		Pronouns:           s.Selected(Pronouns),
		PronounsOther:      s.Text(PronounsOther),
		DOB:                s.Text(DOB),
		WebsiteOrInstagram: s.Text(WebsiteOrInstagram),
		CitiesServed:       s.Text(CitiesServed),
		Ethnicity:          s.Text(Ethnicity),

		YearsExperience:   s.Text(YearsExperience),
		Certifications:    s.Text(Certifications),
		CertificationFile: fileData(s.File(CertificationFile)),

		AdditionalCerts:      s.Selected(AdditionalCerts),
		AdditionalCertsOther: s.Text(AdditionalCertsOther),
		AdditionalCertFiles:  filesData(s.Files(AdditionalCertFiles)),
		Specialties:          s.Text(Specialties),
		CPRCertified:         cpr == Yes,
		CPRFile:              fileData(s.File(CPRFile)),
		HIPAATrained:         hipaa == Yes,
		HIPAAFile:            fileData(s.File(HIPAAFile)),

		NPINumber:             s.Text(NPINumber),
		InsuranceFiles:        filesData(s.Files(InsuranceFiles)),
		InNetworkOrgs:         s.Selected(InNetworkOrgs),
		InNetworkOrgsOther:    s.Text(InNetworkOrgsOther),
		MediCalApprovalFile:   fileData(s.File(MediCalApprovalFile)),
		WantMediCalAssistance: mediCal,

		FamiliesSupported:     s.Text(FamiliesSupported),
		CareTypes:             s.Selected(CareTypes),
		CareTypesOther:        s.Text(CareTypesOther),
		Languages:             s.Text(Languages),
		EngagementPreferences: s.Selected(EngagementPreferences),
		InPersonLaborSupport:  laborSet && labor,
		Bio:                   s.Text(Bio),
		Philosophy:            s.Text(Philosophy),
		AvailableMonths:       s.Selected(AvailableMonths),

		HeadshotFile:            fileData(s.File(HeadshotFile)),
		VaccinationComfort:      vaccination,
		VaccinationComfortOther: s.Text(VaccinationEncouragementOther),
		ReferralSource:          referral,
		ReferralSourceOther:     s.Text(ReferralSourceOther),
		FinalComments:           finalComments(s.Text(FinalComments), cpr, hipaa),
	}
}

// finalComments appends the in-process credential notes to the free text.
func finalComments(text, cpr, hipaa string) string {
	var lines []string
	if text != "" {
		lines = append(lines, text)
	}
	if cpr == InProcess {
		lines = append(lines, "CPR Certification: In Process")
	}
	if hipaa == InProcess {
		lines = append(lines, "HIPAA Training: In Process")
	}
	return strings.Join(lines, "\n")
}

func fileData(a *form.Attachment) *File {
	if a == nil || !a.HasContent() {
		return nil
	}
	ct := a.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &File{FileName: a.Name, Base64Data: a.Encoded, ContentType: ct}
}

func filesData(in []form.Attachment) []File {
	out := make([]File, 0, len(in))
	for i := range in {
		if f := fileData(&in[i]); f != nil {
			out = append(out, *f)
		}
	}
	return out
}
