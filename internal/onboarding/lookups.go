package onboarding

import (
	"slices"
	"strings"
)

var services = map[string][]string{
	Birth:      {"Prenatal Visits", "Labor & Delivery Support", "Postpartum Care", "Lactation Support", "Childbirth Education", "Emotional Support"},
	Postpartum: {"Postpartum Recovery Support", "Lactation Support", "Newborn Care Education", "Emotional Support", "Sleep Support", "Return To Work Planning"},
	Loss:       {"Emotional Support During Loss", "Hospital Accompaniment", "Postpartum Recovery Support", "Grief Counseling Referrals", "Return To Work Support"},
	Abortion:   {"Pre-procedure Support", "Procedure Accompaniment", "Post-procedure Care", "Emotional Support", "Recovery Planning"},
}

// ServicesFor lists the services offered for a support type. Unknown or
// empty types get the birth list.
func ServicesFor(supportType string) []string {
	if list, ok := services[supportType]; ok {
		return slices.Clone(list)
	}
	return slices.Clone(services[Birth])
}

// DateLabel names the second date asked for on the dates step.
func DateLabel(supportType string) string {
	switch supportType {
	case Birth:
		return "Baby's Due Date"
	case Postpartum:
		return "Baby's Birth Date"
	case Loss:
		return "Date of Loss"
	case Abortion:
		return "Procedure Date"
	default:
		return "Relevant Date"
	}
}

// Provider is an insurance plan the patient can pick.
type Provider struct {
	Value string
	Label string
	// Type describes which members of the plan have doula coverage.
	Type string
}

// OtherProvider is the catch-all plan that asks for a name.
const OtherProvider = "other"

var Providers = []Provider{
	{"kaiser", "Kaiser Permanente", "All Patients"},
	{"anthem", "Anthem Blue Cross", "All Patients"},
	{"blueshield", "Blue Shield of California", "Medi-Cal & Commercial (with prior auth)"},
	{"blueshield-promise", "Blue Shield Promise Plan", "Medi-Cal Only"},
	{"healthnet", "Health Net", "Medi-Cal Only"},
	{"molina", "Molina Healthcare", "All Patients"},
	{"lacare", "L.A. Care Health Plan", "Medi-Cal, LACC & LACC Direct"},
	{"aetna", "Aetna", "All Patients"},
	{"cigna", "Cigna", "All Patients"},
	{"united", "United Healthcare", "All Patients"},
	{"bcbs", "Blue Cross Blue Shield", "All Patients"},
	{"iehp", "Inland Empire Health Plan", "Medi-Cal Only"},
	{"ccah", "Central California Alliance for Health", "Medi-Cal Only"},
	{"hpsj", "Health Plan of San Joaquin", "Medi-Cal Only"},
	{"partnership", "Partnership Health Plan", "Medi-Cal Only"},
	{"cchp", "Contra Costa Health Plan", "All Patients"},
	{"calviva", "CalViva Health", "Medi-Cal Only"},
	{"sharp", "SHARP", "Prior Auth Required"},
	{"sutter", "Sutter Health Plus", "Select Patients with Doula Coverage"},
	{"medi-cal", "Medi-Cal (Fee-for-Service)", "All Medi-Cal Patients"},
	{OtherProvider, "Other", ""},
}

// FeaturedPlans are shown above the provider list.
var FeaturedPlans = []string{"Kaiser", "Anthem", "Health Net", "Molina", "L.A. Care", "Blue Shield"}

// DisplayName renders a provider the way the picker lists it.
func (p Provider) DisplayName() string {
	if p.Type == "" {
		return p.Label
	}
	return p.Label + " (" + p.Type + ")"
}

var mediCalPlans = []string{"healthnet", "lacare", "blueshield-promise", "iehp", "ccah", "hpsj", "partnership", "calviva"}

// IsMediCal reports whether a provider value is a Medi-Cal plan.
func IsMediCal(provider string) bool {
	p := strings.ToLower(provider)
	return strings.Contains(p, "medi-cal") || slices.Contains(mediCalPlans, p)
}

// Visit is one line of a coverage summary.
type Visit struct {
	Name        string
	Description string
}

// Coverage describes the typical doula benefit of a kind of plan.
type Coverage struct {
	Title       string
	Description string
	Visits      []Visit
	Note        string
}

var baseVisits = []Visit{
	{"One initial visit", "90 minutes"},
	{"Up to 8 additional visits", "Any combination of prenatal and postpartum visits (minimum 1 hour each)"},
	{"Support during labor and delivery", "Including labor and delivery resulting in a stillbirth, abortion, or miscarriage"},
	{"Up to 2 extended postpartum visits", "3 hour visits after delivery"},
}

var (
	defaultCoverage = Coverage{
		Title:       "Typical Doula Benefit Coverage",
		Description: "Most insurance plans that cover doula services include:",
		Visits:      baseVisits,
		Note:        "Coverage varies by plan. Raya Health will verify your specific benefits.",
	}
	mediCalCoverage = Coverage{
		Title:       "Medi-Cal Doula Benefit",
		Description: "California Medi-Cal covers comprehensive doula services:",
		Visits: append(slices.Clone(baseVisits),
			Visit{"9 additional postpartum visits", "With provider recommendation (Medi-Cal exclusive benefit)"}),
		Note: "No prior authorization required. Standing recommendation from DHCS Medical Director covers initial services.",
	}
)

// CoverageFor returns the coverage summary for a provider value.
func CoverageFor(provider string) Coverage {
	c := defaultCoverage
	if IsMediCal(provider) {
		c = mediCalCoverage
	}
	c.Visits = slices.Clone(c.Visits)
	return c
}

// VerifiedBenefits lists what a verified patient gets.
func VerifiedBenefits(provider string) []Visit {
	out := []Visit{
		{"One initial visit", "90 minutes"},
		{"8 additional visits", "Prenatal and postpartum visits"},
		{"Support during labor and delivery", "Including stillbirth, abortion, or miscarriage"},
		{"Up to 2 extended postpartum visits", "3 Hour visits after delivery"},
	}
	if IsMediCal(provider) {
		out = append(out, Visit{"9 additional postpartum visits", "Medi-Cal exclusive benefit"})
	}
	return out
}
