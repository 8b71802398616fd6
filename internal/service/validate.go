package service

import (
	"strings"

	"github.com/BloggingApp/blog-console/internal/model"
)

// validateContent enforces the required-field rules. A published post needs
// both title and content; a draft needs at least one of them.
func validateContent(title, content string, draft bool) error {
	hasTitle := strings.TrimSpace(title) != ""
	hasContent := strings.TrimSpace(content) != ""

	if draft {
		if !hasTitle && !hasContent {
			return newValidationError("title", "a draft needs a title or some content")
		}
		return nil
	}

	if !hasTitle {
		return newValidationError("title", "title is required to publish")
	}
	if !hasContent {
		return newValidationError("content", "content is required to publish")
	}
	return nil
}

func validateCategory(settings model.SiteSettings, category string) error {
	if category == "" {
		return nil
	}
	if !settings.HasCategory(category) {
		return newValidationError("category", "unknown category "+category)
	}
	return nil
}
