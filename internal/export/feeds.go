// Package export turns optimized results into retail feed formats. All
// exporters are pure, synchronous transforms: deterministic for a given
// input order and total for well-formed results.
package export

import (
	"encoding/csv"
	"encoding/xml"
	"strings"

	"github.com/feedlift/feedlift/internal/models"
)

// maxCustomLabelTags caps how many semantic tags flow into custom_label_0.
const maxCustomLabelTags = 5

const (
	feedTitle       = "AI Optimized Product Feed"
	feedDescription = "Products optimized for AI shopping assistants"
	googleNamespace = "http://base.google.com/ns/1.0"
)

type merchantFeed struct {
	XMLName    xml.Name        `xml:"rss"`
	Version    string          `xml:"version,attr"`
	GNamespace string          `xml:"xmlns:g,attr"`
	Channel    merchantChannel `xml:"channel"`
}

type merchantChannel struct {
	Title       string         `xml:"title"`
	Description string         `xml:"description"`
	Items       []merchantItem `xml:"item"`
}

type merchantItem struct {
	ID           string `xml:"g:id"`
	Title        string `xml:"g:title"`
	Description  string `xml:"g:description"`
	Availability string `xml:"g:availability"`
	Condition    string `xml:"g:condition"`
	CustomLabel0 string `xml:"g:custom_label_0,omitempty"`
}

// MerchantXML renders a Google Merchant RSS 2.0 feed, one item per result,
// pretty-printed with 2-space indentation.
func MerchantXML(results []*models.OptimizedResult) string {
	feed := merchantFeed{
		Version:    "2.0",
		GNamespace: googleNamespace,
		Channel: merchantChannel{
			Title:       feedTitle,
			Description: feedDescription,
			Items:       make([]merchantItem, 0, len(results)),
		},
	}

	for _, r := range results {
		feed.Channel.Items = append(feed.Channel.Items, merchantItem{
			ID:           r.ProductID,
			Title:        r.AITitle,
			Description:  r.AIDescription,
			Availability: "in_stock",
			Condition:    "new",
			CustomLabel0: customLabel(r.SemanticTags),
		})
	}

	// Marshal of a fixed struct of strings cannot fail.
	data, _ := xml.MarshalIndent(feed, "", "  ")
	return xml.Header + string(data) + "\n"
}

// SocialCSV renders the Meta/TikTok catalog CSV with the fixed header
// id,title,description,availability,condition,custom_label_0.
func SocialCSV(results []*models.OptimizedResult) string {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"id", "title", "description", "availability", "condition", "custom_label_0"})
	for _, r := range results {
		_ = w.Write([]string{
			r.ProductID,
			r.AITitle,
			r.AIDescription,
			"in_stock",
			"new",
			customLabel(r.SemanticTags),
		})
	}
	w.Flush()

	return buf.String()
}

// customLabel joins the first five semantic tags with "|".
func customLabel(tags []string) string {
	if len(tags) > maxCustomLabelTags {
		tags = tags[:maxCustomLabelTags]
	}
	return strings.Join(tags, "|")
}
