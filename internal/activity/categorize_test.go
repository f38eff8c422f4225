package activity

import "testing"

func TestCategorize_DefaultTables(t *testing.T) {
	c := NewCategorizer(DefaultTables())

	tests := []struct {
		name  string
		app   string
		title string
		want  Category
	}{
		{name: "ide by app name", app: "Visual Studio Code", title: "main.go", want: CategoryProductive},
		{name: "ide beats browser overlap", app: "Visual Studio Code", title: "https://youtube.com/x - chrome", want: CategoryProductive},
		{name: "productive app in title", app: "Windows Explorer", title: "PowerShell", want: CategoryProductive},
		{name: "browser productive domain", app: "Chrome", title: "foo https://github.com/foo", want: CategoryProductive},
		{name: "browser social domain", app: "Chrome", title: "https://facebook.com/x", want: CategorySocial},
		{name: "browser entertainment domain", app: "Firefox", title: "https://www.youtube.com/watch?v=1", want: CategoryEntertainment},
		{name: "browser subdomain", app: "Microsoft Edge", title: "https://m.vk.com/feed", want: CategorySocial},
		{name: "browser unknown domain", app: "Safari", title: "https://example.org", want: CategoryBrowsing},
		{name: "browser without url", app: "Chrome", title: "GitHub - foo", want: CategoryBrowsing},
		{name: "communication", app: "Slack", title: "general", want: CategoryCommunication},
		{name: "communication case-insensitive", app: "DISCORD", title: "", want: CategoryCommunication},
		{name: "communication ignores title", app: "Notes", title: "Slack export", want: CategoryOther},
		{name: "entertainment app", app: "Spotify", title: "Song", want: CategoryEntertainment},
		{name: "entertainment by title", app: "mpv", title: "Netflix trailer", want: CategoryEntertainment},
		{name: "other", app: "Calculator", title: "Calculator", want: CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Categorize(tt.app, tt.title, ExtractURL(tt.title))
			if got != tt.want {
				t.Errorf("Categorize(%q, %q) = %q, want %q", tt.app, tt.title, got, tt.want)
			}
		})
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	c := NewCategorizer(DefaultTables())
	first := c.Categorize("Chrome", "https://github.com/foo", "https://github.com/foo")
	for i := 0; i < 100; i++ {
		if got := c.Categorize("Chrome", "https://github.com/foo", "https://github.com/foo"); got != first {
			t.Fatalf("iteration %d: got %q, want %q", i, got, first)
		}
	}
}

func TestCategorize_SubstringDomainCrossMatch(t *testing.T) {
	// "ok.ru" is a substring of "book.ru"; substring matching is intentional.
	c := NewCategorizer(DefaultTables())
	got := c.Categorize("chrome", "", "https://book.ru/catalog")
	if got != CategorySocial {
		t.Errorf("Categorize = %q, want %q", got, CategorySocial)
	}
}

func TestCategorize_FixtureTables(t *testing.T) {
	c := NewCategorizer(Tables{
		ProductiveApps:       []string{"Vim"},
		Browsers:             []string{"Lynx"},
		ProductiveDomains:    []string{"go.dev"},
		EntertainmentDomains: []string{"example.com"},
	})

	if got := c.Categorize("vim", "notes", ""); got != CategoryProductive {
		t.Errorf("vim = %q, want productive", got)
	}
	if got := c.Categorize("lynx", "", "https://pkg.go.dev/x"); got != CategoryProductive {
		t.Errorf("lynx go.dev = %q, want productive", got)
	}
	if got := c.Categorize("lynx", "", "https://example.com"); got != CategoryEntertainment {
		t.Errorf("lynx example.com = %q, want entertainment", got)
	}
	// Chrome is not a browser in these tables.
	if got := c.Categorize("Chrome", "", "https://go.dev"); got != CategoryOther {
		t.Errorf("chrome = %q, want other", got)
	}
}

func TestCategorize_UnusedBucketsNotConsulted(t *testing.T) {
	c := NewCategorizer(DefaultTables())
	for _, app := range []string{"Amazon", "BBC", "Reddit"} {
		if got := c.Categorize(app, "", ""); got != CategoryOther {
			t.Errorf("Categorize(%q) = %q, want other", app, got)
		}
	}
}

func TestNewCategorizer_CopiesTables(t *testing.T) {
	tables := Tables{ProductiveApps: []string{"Vim"}}
	c := NewCategorizer(tables)
	tables.ProductiveApps[0] = "Emacs"

	if got := c.Categorize("Vim", "", ""); got != CategoryProductive {
		t.Errorf("mutating source tables changed categorizer: got %q", got)
	}
}
