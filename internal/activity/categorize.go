package activity

import "strings"

// Categorizer maps (appName, windowTitle, url) to a Category. It holds only
// lowercased copies of its tables and is safe for concurrent use.
type Categorizer struct {
	productiveApps       []string
	communicationApps    []string
	entertainmentApps    []string
	browsers             []string
	productiveDomains    []string
	socialDomains        []string
	entertainmentDomains []string
}

// NewCategorizer builds a Categorizer over a snapshot of t.
func NewCategorizer(t Tables) *Categorizer {
	return &Categorizer{
		productiveApps:       lowerAll(t.ProductiveApps),
		communicationApps:    lowerAll(t.CommunicationApps),
		entertainmentApps:    lowerAll(t.EntertainmentApps),
		browsers:             lowerAll(t.Browsers),
		productiveDomains:    lowerAll(t.ProductiveDomains),
		socialDomains:        lowerAll(t.SocialDomains),
		entertainmentDomains: lowerAll(t.EntertainmentDomains),
	}
}

// Categorize applies the layered rules in order; the first match wins:
//  1. productive app in app name or title
//  2. browser app: productive, social, entertainment domain, else browsing
//  3. communication app in app name
//  4. entertainment app in app name or title
//  5. other
//
// Domain lists match by substring so that subdomains are tolerated.
func (c *Categorizer) Categorize(appName, windowTitle, rawURL string) Category {
	app := strings.ToLower(appName)
	title := strings.ToLower(windowTitle)

	if containsAny(app, c.productiveApps) || containsAny(title, c.productiveApps) {
		return CategoryProductive
	}

	if containsAny(app, c.browsers) {
		if rawURL != "" {
			domain := ExtractDomain(rawURL)
			switch {
			case containsAny(domain, c.productiveDomains):
				return CategoryProductive
			case containsAny(domain, c.socialDomains):
				return CategorySocial
			case containsAny(domain, c.entertainmentDomains):
				return CategoryEntertainment
			}
		}
		return CategoryBrowsing
	}

	if containsAny(app, c.communicationApps) {
		return CategoryCommunication
	}

	if containsAny(app, c.entertainmentApps) || containsAny(title, c.entertainmentApps) {
		return CategoryEntertainment
	}

	return CategoryOther
}

// containsAny reports whether s contains any of the (already lowercased) needles.
func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
