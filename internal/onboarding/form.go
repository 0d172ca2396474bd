// Package onboarding defines the eleven-step patient onboarding wizard. The
// contact step checkpoints the answers with the intake endpoint; the
// returned account id is echoed on every later save.
package onboarding

import (
	"time"

	"github.com/rayahealth/intake/internal/attach"
	"github.com/rayahealth/intake/internal/form"
)

const (
	FirstName = "firstName"
	LastName  = "lastName"
	Phone     = "phone"
	Email     = "email"

	SupportType = "supportType"

	Address = "address"
	City    = "city"
	State   = "state"
	Zip     = "zip"

	DeliveryLocation = "deliveryLocation"
	DeliveryUnknown  = "deliveryUnknown"
	DeliveryNotes    = "deliveryNotes"

	DOB         = "dob"
	BabyDueDate = "babyDueDate"

	WantInsuranceCheck = "wantInsuranceCheck"
	InsuranceProvider  = "insuranceProvider"
	OtherInsurance     = "otherInsurance"
	MemberID           = "memberId"
	InsuranceFront     = "insuranceFront"
	InsuranceBack      = "insuranceBack"

	// VerificationStatus holds the coverage check result. It never leaves
	// the session.
	VerificationStatus = "verificationStatus"

	SelectedServices = "selectedServices"
	DoulaPreferences = "doulaPreferences"
)

// Schema lists every answer the wizard collects.
var Schema = form.Schema{
	{Name: FirstName, Kind: form.Text},
	{Name: LastName, Kind: form.Text},
	{Name: Phone, Kind: form.Text},
	{Name: Email, Kind: form.Text},
	{Name: SupportType, Kind: form.Choice},
	{Name: Address, Kind: form.Text},
	{Name: City, Kind: form.Text},
	{Name: State, Kind: form.Choice},
	{Name: Zip, Kind: form.Text},
	{Name: DeliveryLocation, Kind: form.Text},
	{Name: DeliveryUnknown, Kind: form.Flag},
	{Name: DeliveryNotes, Kind: form.Text},
	{Name: DOB, Kind: form.Text},
	{Name: BabyDueDate, Kind: form.Text},
	{Name: WantInsuranceCheck, Kind: form.Flag},
	{Name: InsuranceProvider, Kind: form.Choice},
	{Name: OtherInsurance, Kind: form.Text},
	{Name: MemberID, Kind: form.Text},
	{Name: InsuranceFront, Kind: form.File},
	{Name: InsuranceBack, Kind: form.File},
	{Name: VerificationStatus, Kind: form.Choice},
	{Name: SelectedServices, Kind: form.Set},
	{Name: DoulaPreferences, Kind: form.Text},
}

// NewStore returns an empty answer store for the wizard.
func NewStore() *form.Store { return form.NewStore(Schema) }

// AutoAdvanceDelay is how long the support type screen waits after a pick
// before moving on.
const AutoAdvanceDelay = 300 * time.Millisecond

// Support types.
const (
	Birth      = "birth"
	Postpartum = "postpartum"
	Loss       = "loss"
	Abortion   = "abortion"
)

// Support is one card on the support type screen.
type Support struct {
	Type        string
	Title       string
	Description string
}

var SupportTypes = []Support{
	{Birth, "Birth Support", "Pregnancy, labor, delivery & postpartum care"},
	{Postpartum, "Postpartum Support", "Support after delivery, recovery & newborn care"},
	{Loss, "Pregnancy Loss", "Support for miscarriage or stillbirth"},
	{Abortion, "Abortion Support", "Care before, during & after your procedure"},
}

// Labeled is a selectable value with its display label.
type Labeled struct {
	Value string
	Label string
}

var States = []Labeled{
	{"CA", "California"},
	{"AZ", "Arizona"},
	{"NV", "Nevada"},
	{"OR", "Oregon"},
	{"WA", "Washington"},
}

// DeliveryLocations are the suggestions offered while typing a location.
var DeliveryLocations = []string{
	"Cedars-Sinai Medical Center, Los Angeles",
	"UCLA Medical Center, Los Angeles",
	"Kaiser Permanente Los Angeles Medical Center",
	"Providence Saint John's Health Center, Santa Monica",
	"Good Samaritan Hospital, Los Angeles",
	"Huntington Hospital, Pasadena",
	"Long Beach Memorial Medical Center",
	"Hoag Hospital, Newport Beach",
	"Sharp Mary Birch Hospital, San Diego",
	"UCSD Medical Center, San Diego",
	"Stanford Health Care, Palo Alto",
	"UCSF Medical Center, San Francisco",
	"Sutter Health CPMC, San Francisco",
	"Kaiser Permanente San Francisco",
	"John Muir Medical Center, Walnut Creek",
	"Community Regional Medical Center, Fresno",
	"UC Davis Medical Center, Sacramento",
	"Loma Linda University Medical Center",
	"Riverside Community Hospital",
	"Kaiser Permanente Riverside",
	"Birth Center (specify in notes)",
	"Home Birth",
	"Other (specify in notes)",
}

// CardRule applies to both insurance card photos.
var CardRule = attach.Rule{Accept: []string{"image/*"}, Hint: "Click to upload"}
