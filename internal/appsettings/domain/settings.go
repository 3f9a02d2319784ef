package domain

// Setting keys stored in app_settings.
const (
	KeyPOSLogo = "pos_logo"
)

// Settings holds the POS app settings singleton (from app_settings table or defaults).
type Settings struct {
	// POSLogo is the relative path of the logo shown on the client's welcome page; empty if unset.
	POSLogo string
}
