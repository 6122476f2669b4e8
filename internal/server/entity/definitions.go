package entity

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/ndenisov/showcase/internal/common"
)

// PlaceholderTitle marks hidden gallery records that keep a category name
// alive while it has no real items.
const PlaceholderTitle = "Category Placeholder"

// DefaultPortfolioColor is the gradient applied when a portfolio item does
// not specify one.
const DefaultPortfolioColor = "from-blue-500/20 to-cyan-500/20"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Clients sorts by creation time and hides inactive records from
// unauthorized listings (the filter is applied by the caller).
func Clients() Definition {
	return Definition{
		Table:     "clients",
		SortField: "createdAt",
		Required:  []string{"name"},
		Normalize: func(doc Document) error {
			trimFields(doc, "name", "logo", "website", "description")
			return nil
		},
		Defaults: func(doc Document) {
			setDefault(doc, "logo", "")
			setDefault(doc, "website", "")
			setDefault(doc, "description", "")
			setDefault(doc, "isActive", true)
		},
	}
}

func TeamMembers() Definition {
	return Definition{
		Table:      "team",
		SortField:  "createdAt",
		AssetField: "image",
		KeyPrefix:  "team",
	}
}

// Portfolios accept technologies either as a JSON array or as a JSON-encoded
// string (the multipart form case); an unparseable string is a validation
// error.
func Portfolios() Definition {
	return Definition{
		Table:      "portfolios",
		SortField:  "createdAt",
		AssetField: "image",
		KeyPrefix:  "portfolio",
		Normalize: func(doc Document) error {
			if s, ok := doc["technologies"].(string); ok {
				var techs []any
				if err := json.Unmarshal([]byte(s), &techs); err != nil {
					return common.NewValidationError("technologies must be a list of strings")
				}
				doc["technologies"] = techs
			}
			return nil
		},
		Defaults: func(doc Document) {
			setDefault(doc, "color", DefaultPortfolioColor)
		},
	}
}

// GalleryItems sort by their event date (numeric milliseconds) and require
// an image on creation.
func GalleryItems() Definition {
	return Definition{
		Table:        "gallery",
		SortField:    "date",
		Required:     []string{"title", "description", "category"},
		AssetField:   "image",
		RequireAsset: true,
		KeyPrefix:    "gallery",
		Normalize: func(doc Document) error {
			if s, ok := doc["date"].(string); ok {
				parsed, err := parseDate(s)
				if err != nil {
					return common.NewValidationError("invalid date")
				}
				doc["date"] = float64(parsed.UnixMilli())
			}
			return nil
		},
		Defaults: func(doc Document) {
			setDefault(doc, "location", "")
			setDefault(doc, "readMoreLink", "")
			setDefault(doc, "isActive", true)
			setDefault(doc, "date", float64(time.Now().UnixMilli()))
		},
	}
}

func Services() Definition {
	return Definition{
		Table:     "services",
		SortField: "createdAt",
	}
}

func Sentences() Definition {
	return Definition{
		Table:     "sentences",
		SortField: "timestamp",
		Defaults: func(doc Document) {
			setDefault(doc, "timestamp", time.Now().UTC().Format(time.RFC3339Nano))
		},
	}
}

// Contacts store the sender's email lowercased and validate its shape.
func Contacts() Definition {
	return Definition{
		Table:      "contacts",
		SortField:  "createdAt",
		Required:   []string{"name", "email", "subject"},
		AssetField: "resume",
		KeyPrefix:  "resumes",
		Normalize: func(doc Document) error {
			trimFields(doc, "name", "email", "subject")
			if email, ok := doc["email"].(string); ok && email != "" {
				if !emailPattern.MatchString(email) {
					return common.NewValidationError("invalid email")
				}
				doc["email"] = strings.ToLower(email)
			}
			return nil
		},
		Defaults: func(doc Document) {
			setDefault(doc, "phone", "")
			setDefault(doc, "message", "")
			setDefault(doc, "type", "contact")
			setDefault(doc, "status", "pending")
			setDefault(doc, "replies", []any{})
		},
	}
}

func trimFields(doc Document, fields ...string) {
	for _, f := range fields {
		if s, ok := doc[f].(string); ok {
			doc[f] = strings.TrimSpace(s)
		}
	}
}

func setDefault(doc Document, field string, value any) {
	if _, ok := doc[field]; !ok {
		doc[field] = value
	}
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
