package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/avrora/internal/activity"
)

// CategoriesFile is the optional YAML file that extends the built-in category tables.
const CategoriesFile = "categories.yaml"

// LoadTables returns the built-in category tables extended with entries from
// baseDir/categories.yaml. A missing file yields the defaults.
func LoadTables(baseDir string) (activity.Tables, error) {
	defaults := activity.DefaultTables()

	data, err := os.ReadFile(filepath.Join(baseDir, CategoriesFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return activity.Tables{}, err
	}

	var overlay activity.Tables
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return activity.Tables{}, fmt.Errorf("parse %s: %w", CategoriesFile, err)
	}

	return MergeTables(defaults, overlay), nil
}

// MergeTables appends overlay entries to each base list, deduplicated.
func MergeTables(base, overlay activity.Tables) activity.Tables {
	return activity.Tables{
		ProductiveApps:       mergeStringSlice(base.ProductiveApps, overlay.ProductiveApps),
		CommunicationApps:    mergeStringSlice(base.CommunicationApps, overlay.CommunicationApps),
		EntertainmentApps:    mergeStringSlice(base.EntertainmentApps, overlay.EntertainmentApps),
		SocialApps:           mergeStringSlice(base.SocialApps, overlay.SocialApps),
		NewsApps:             mergeStringSlice(base.NewsApps, overlay.NewsApps),
		ShoppingApps:         mergeStringSlice(base.ShoppingApps, overlay.ShoppingApps),
		Browsers:             mergeStringSlice(base.Browsers, overlay.Browsers),
		ProductiveDomains:    mergeStringSlice(base.ProductiveDomains, overlay.ProductiveDomains),
		SocialDomains:        mergeStringSlice(base.SocialDomains, overlay.SocialDomains),
		EntertainmentDomains: mergeStringSlice(base.EntertainmentDomains, overlay.EntertainmentDomains),
	}
}
