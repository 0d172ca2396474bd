package help

// HelpText contains information about a field
type HelpText struct {
	Title       string
	Description string
	Details     string
}

// Texts holds help for the fields that need more than their label. Keys are
// the answer field names.
var Texts = map[string]HelpText{
	"phone": {
		Title:       "PHONE NUMBER",
		Description: "A US number we can call or text.",
		Details:     "Digits only are kept and shown as (555) 123-4567.",
	},
	"dob": {
		Title:       "DATE OF BIRTH",
		Description: "Enter as MM/DD/YYYY.",
		Details:     "The date must exist on the calendar. Patient onboarding also needs a year from 1900 on and a date that is not in the future.",
	},
	"certifications": {
		Title:       "DOULA CERTIFICATIONS",
		Description: "List every doula certification you hold.",
		Details:     "Include the certifying organization, e.g. DONA International, CAPPA, ProDoula.",
	},
	"certificationFile": {
		Title:       "CERTIFICATION UPLOAD",
		Description: "Path to a scan or photo of your certificate.",
		Details:     "PDF, JPG, or PNG (max 10MB)",
	},
	"additionalCertFiles": {
		Title:       "ADDITIONAL CERTIFICATION FILES",
		Description: "One file path per line.",
		Details:     "Upload up to 5 files. Max 100 MB per file.",
	},
	"cprCertified": {
		Title:       "CPR CERTIFICATION",
		Description: "American Red Cross (ARC) or American Heart Association (AHA).",
		Details:     "Answer \"In the process\" if you are currently enrolled; we will note it with your application.",
	},
	"hipaaTrained": {
		Title:       "HIPAA TRAINING",
		Description: "Training on patient privacy rules.",
		Details:     "Answer \"In the process\" if you are currently enrolled; we will note it with your application.",
	},
	"npiNumber": {
		Title:       "NPI NUMBER",
		Description: "Your individual National Provider Identifier.",
		Details:     "Exactly 10 digits. Leave blank if you do not have one yet.",
	},
	"insuranceFiles": {
		Title:       "PRACTICE INSURANCE",
		Description: "Liability or other insurance tied to your practice.",
		Details:     "Upload up to 5 supported files. Max 100 MB per file.",
	},
	"mediCalApprovalFile": {
		Title:       "MEDI-CAL APPROVAL",
		Description: "Your Medi-Cal/DHCS approval letter.",
		Details:     "PDF only (max 1MB)",
	},
	"wantMediCalAssistance": {
		Title:       "MEDI-CAL ENROLLMENT",
		Description: "Raya Health can help you get approved as a Medi-Cal provider.",
	},
	"headshotFile": {
		Title:       "HEADSHOT",
		Description: "Shown to families when they browse doulas.",
		Details:     "JPG or PNG, professional quality preferred",
	},
	"deliveryLocation": {
		Title:       "CARE LOCATION",
		Description: "Hospital, birth center, home, or other.",
		Details:     "Pick \"Birth Center\" or \"Other\" to add notes about the location.",
	},
	"babyDueDate": {
		Title:       "KEY DATE",
		Description: "Due date, birth date, or date of loss or procedure.",
		Details:     "Enter as MM/DD/YYYY. Any real date from 1900 through next year is accepted.",
	},
	"insuranceProvider": {
		Title:       "INSURANCE PROVIDER",
		Description: "The plan listed on your insurance card.",
		Details:     "Many plans, including Medi-Cal, cover doula services at no cost to you.",
	},
	"memberId": {
		Title:       "MEMBER ID",
		Description: "Printed on the front of your insurance card.",
		Details:     "Either a member ID or a photo of the front of the card is enough.",
	},
	"insuranceFront": {
		Title:       "CARD PHOTO",
		Description: "Path to a photo of your insurance card.",
		Details:     "Any image format.",
	},
}
