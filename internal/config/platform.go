package config

type Platform string

const (
	Facebook  Platform = "facebook"
	Twitter   Platform = "twitter"
	Instagram Platform = "instagram"
	Telegram  Platform = "telegram"
	WhatsApp  Platform = "whatsapp"
	Snapchat  Platform = "snapchat"
)

type PlatformKind string

const (
	// KindLink platforms expose a web compose endpoint that accepts a
	// pre-filled caption.
	KindLink PlatformKind = "link"
	// KindManual platforms have no web compose API; the user posts the
	// captured card by hand.
	KindManual PlatformKind = "manual"
)

type PlatformConfig struct {
	Name string
	Kind PlatformKind
}

// SharePlatforms is the closed set of supported social platforms. Which kind
// a platform resolves to is fixed at design time, not loaded from data.
var SharePlatforms = map[Platform]PlatformConfig{
	Facebook: {
		Name: "Facebook",
		Kind: KindLink,
	},
	Twitter: {
		Name: "Twitter / X",
		Kind: KindLink,
	},
	Telegram: {
		Name: "Telegram",
		Kind: KindLink,
	},
	WhatsApp: {
		Name: "WhatsApp",
		Kind: KindLink,
	},
	Instagram: {
		Name: "Instagram",
		Kind: KindManual,
	},
	Snapchat: {
		Name: "Snapchat",
		Kind: KindManual,
	},
}

// DefaultShareTargets is the target list stored on a result when the caller
// does not provide one.
var DefaultShareTargets = []Platform{Facebook, Instagram, Twitter, WhatsApp, Telegram}
