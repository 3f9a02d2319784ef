package domain

// Profile is the POS profile assigned to a user: pricing, permitted item groups,
// the default customer, and receipt branding. Every field except Name is optional.
type Profile struct {
	Name             string
	Customer         string
	SellingPriceList string
	ItemGroups       []string
	CompanyAddress   string
	CustomLogo       string // relative asset path
	CRNo             string // commercial registration number
	GSM              string
	POBox            string
	Address          string
	Terms            string
}
