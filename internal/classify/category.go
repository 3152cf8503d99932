package classify

import (
	"encoding/json"
	"io"
	"os"
	"strings"
)

// DefaultCategory is the catch-all bucket for workflows and integrations
// that no mapping claims.
const DefaultCategory = "Business Process Automation"

// CategoryTable maps a workflow filename to its curated category label.
type CategoryTable map[string]string

// Lookup returns the category for a filename, falling back to
// DefaultCategory when the table has no entry.
func (t CategoryTable) Lookup(filename string) string {
	if c, ok := t[filename]; ok && c != "" {
		return c
	}
	return DefaultCategory
}

// ReadCategoryTable decodes the curated category file: a JSON array of
// {filename, category} entries.
func ReadCategoryTable(r io.Reader) (CategoryTable, error) {
	var entries []struct {
		Filename string `json:"filename"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, err
	}
	table := make(CategoryTable, len(entries))
	for _, e := range entries {
		table[e.Filename] = e.Category
	}
	return table, nil
}

// LoadCategoryTable reads the category file from disk.
func LoadCategoryTable(path string) (CategoryTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCategoryTable(f)
}

var integrationCategories = map[string]string{
	"telegram":     "Communication & Messaging",
	"slack":        "Communication & Messaging",
	"discord":      "Communication & Messaging",
	"gmail":        "Communication & Messaging",
	"googlesheets": "Data Processing & Analysis",
	"airtable":     "Data Processing & Analysis",
	"notion":       "Project Management",
	"trello":       "Project Management",
	"asana":        "Project Management",
	"github":       "Technical Infrastructure & DevOps",
	"gitlab":       "Technical Infrastructure & DevOps",
	"shopify":      "E-commerce & Retail",
	"stripe":       "Financial & Accounting",
	"paypal":       "Financial & Accounting",
	"hubspot":      "CRM & Sales",
	"salesforce":   "CRM & Sales",
	"pipedrive":    "CRM & Sales",
	"mailchimp":    "Marketing & Advertising Automation",
	"sendgrid":     "Marketing & Advertising Automation",
	"twitter":      "Social Media Management",
	"linkedin":     "Social Media Management",
	"facebook":     "Social Media Management",
	"youtube":      "Creative Content & Video Automation",
	"wordpress":    "Creative Content & Video Automation",
	"dropbox":      "Cloud Storage & File Management",
	"googledrive":  "Cloud Storage & File Management",
	"awss3":        "Cloud Storage & File Management",
	"http":         "Web Scraping & Data Extraction",
	"webhook":      "Technical Infrastructure & DevOps",
	"openai":       "AI Agent Development",
	"anthropic":    "AI Agent Development",
}

// IntegrationCategory maps an integration identifier to its category label.
func IntegrationCategory(name string) string {
	if c, ok := integrationCategories[strings.ToLower(name)]; ok {
		return c
	}
	return DefaultCategory
}
