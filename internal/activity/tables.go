package activity

// Tables holds the fixed name and domain lists the Categorizer matches
// against. Tables are configuration data: build one at startup and pass it
// to NewCategorizer.
type Tables struct {
	ProductiveApps    []string `yaml:"productive_apps" json:"productive_apps"`
	CommunicationApps []string `yaml:"communication_apps" json:"communication_apps"`
	EntertainmentApps []string `yaml:"entertainment_apps" json:"entertainment_apps"`

	// SocialApps, NewsApps and ShoppingApps are carried as configuration but
	// are not consulted by Categorize.
	SocialApps   []string `yaml:"social_apps" json:"social_apps"`
	NewsApps     []string `yaml:"news_apps" json:"news_apps"`
	ShoppingApps []string `yaml:"shopping_apps" json:"shopping_apps"`

	Browsers []string `yaml:"browsers" json:"browsers"`

	ProductiveDomains    []string `yaml:"productive_domains" json:"productive_domains"`
	SocialDomains        []string `yaml:"social_domains" json:"social_domains"`
	EntertainmentDomains []string `yaml:"entertainment_domains" json:"entertainment_domains"`
}

// DefaultTables returns the built-in category tables.
func DefaultTables() Tables {
	return Tables{
		ProductiveApps: []string{
			"Visual Studio Code", "IntelliJ IDEA", "WebStorm", "Sublime Text", "Notepad++",
			"Terminal", "Command Prompt", "PowerShell", "Git Bash", "Figma", "Adobe XD", "Sketch",
		},
		CommunicationApps: []string{"Slack", "Discord", "Microsoft Teams", "Zoom", "Skype", "Telegram", "WhatsApp"},
		EntertainmentApps: []string{"YouTube", "Netflix", "Steam", "Spotify", "VLC", "Games"},
		SocialApps:        []string{"Facebook", "Instagram", "Twitter", "LinkedIn", "TikTok", "Reddit"},
		NewsApps:          []string{"Google News", "BBC", "CNN", "RIA", "Lenta.ru"},
		ShoppingApps:      []string{"Amazon", "eBay", "AliExpress", "Wildberries", "Ozon"},
		Browsers:          []string{"chrome", "firefox", "edge", "safari"},
		ProductiveDomains: []string{
			"github.com", "stackoverflow.com", "developer.mozilla.org",
			"docs.microsoft.com", "angular.io", "reactjs.org", "vuejs.org",
			"medium.com", "dev.to", "habr.com", "tproger.ru",
		},
		SocialDomains: []string{
			"facebook.com", "instagram.com", "twitter.com", "linkedin.com",
			"vk.com", "ok.ru", "tiktok.com", "reddit.com",
		},
		EntertainmentDomains: []string{
			"youtube.com", "netflix.com", "twitch.tv", "steam.com",
			"spotify.com", "music.yandex.ru",
		},
	}
}
