package onboarding

import (
	"github.com/rayahealth/intake/internal/form"
	"github.com/rayahealth/intake/internal/validate"
)

// Payload is the JSON document sent on every save. Unset answers go out as
// null, dates in YYYY-MM-DD form.
type Payload struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	SupportType *string `json:"supportType"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`

	DeliveryLocation string `json:"deliveryLocation"`
	DeliveryUnknown  *bool  `json:"deliveryUnknown"`
	DeliveryNotes    string `json:"deliveryNotes"`

	DOB         *string `json:"dob"`
	BabyDueDate *string `json:"babyDueDate"`

	WantInsuranceCheck   *bool   `json:"wantInsuranceCheck"`
	InsuranceProvider    string  `json:"insuranceProvider"`
	OtherInsurance       string  `json:"otherInsurance"`
	MemberID             string  `json:"memberId"`
	InsuranceFront       *string `json:"insuranceFront"`
	InsuranceBack        *string `json:"insuranceBack"`
	InsuranceFrontBase64 *string `json:"insuranceFrontBase64"`
	InsuranceBackBase64  *string `json:"insuranceBackBase64"`

	SelectedServices []string `json:"selectedServices"`
	DoulaPreferences string   `json:"doulaPreferences"`
	RankedDoulas     []string `json:"rankedDoulas"`
	OTP              string   `json:"otp"`

	AccountID *string `json:"accountId"`
}

// BuildPayload maps the answers onto the endpoint's document. accountID is
// the checkpoint from an earlier save, or "".
func BuildPayload(s *form.Store, accountID string) Payload {
	p := Payload{
		FirstName:   s.Text(FirstName),
		LastName:    s.Text(LastName),
		Phone:       s.Text(Phone),
		Email:       s.Text(Email),
		SupportType: choice(s, SupportType),

		Address: s.Text(Address),
		City:    s.Text(City),
		Zip:     s.Text(Zip),

		DeliveryLocation: s.Text(DeliveryLocation),
		DeliveryUnknown:  flag(s, DeliveryUnknown),
		DeliveryNotes:    s.Text(DeliveryNotes),

		DOB:         date(s.Text(DOB)),
		BabyDueDate: date(s.Text(BabyDueDate)),

		WantInsuranceCheck: flag(s, WantInsuranceCheck),
		OtherInsurance:     s.Text(OtherInsurance),
		MemberID:           s.Text(MemberID),

		SelectedServices: s.Selected(SelectedServices),
		DoulaPreferences: s.Text(DoulaPreferences),
		RankedDoulas:     []string{},
	}
	if v, ok := s.Choice(State); ok {
		p.State = v
	}
	if v, ok := s.Choice(InsuranceProvider); ok {
		p.InsuranceProvider = v
	}
	p.InsuranceFront, p.InsuranceFrontBase64 = card(s.File(InsuranceFront))
	p.InsuranceBack, p.InsuranceBackBase64 = card(s.File(InsuranceBack))
	if accountID != "" {
		p.AccountID = &accountID
	}
	return p
}

func choice(s *form.Store, name string) *string {
	if v, ok := s.Choice(name); ok {
		return &v
	}
	return nil
}

func flag(s *form.Store, name string) *bool {
	if v, ok := s.Flag(name); ok {
		return &v
	}
	return nil
}

func date(display string) *string {
	if v, ok := validate.CanonicalDate(display); ok {
		return &v
	}
	return nil
}

// card splits an insurance card photo into its file name and bytes. The
// bytes are null once the endpoint holds them.
func card(a *form.Attachment) (name, encoded *string) {
	if a == nil {
		return nil, nil
	}
	n := a.Name
	name = &n
	if a.HasContent() {
		e := a.Encoded
		encoded = &e
	}
	return name, encoded
}
