package model

var DefaultCategories = []string{
	"technology",
	"programming",
	"design",
	"lifestyle",
	"travel",
	"notes",
}

// SiteSettings is a read-only snapshot handed to the engines once per session.
type SiteSettings struct {
	Categories      []string `json:"categories"`
	Tags            []string `json:"tags"`
	DefaultPageSize int      `json:"default_page_size"`
}

func (s SiteSettings) HasCategory(category string) bool {
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}
