package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxWebpageChars caps the extracted text fed back to the model
const maxWebpageChars = 10000

// ============================================================================
// Web Tool Implementations
// ============================================================================

func (e *Executor) executeFetchWebpage(ctx context.Context, args map[string]interface{}) *ToolResult {
	rawURL, _ := args["url"].(string)
	if rawURL == "" {
		return &ToolResult{Success: false, Error: "url is required"}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return &ToolResult{Success: false, Error: "url must be http:// or https://"}
	}

	req, _ := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	req.Header.Set("User-Agent", "CodebaseGenius/1.0")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("Failed to fetch page: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return &ToolResult{Success: false, Error: fmt.Sprintf("Page returned status %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return &ToolResult{Success: false, Error: fmt.Sprintf("Failed to parse page: %v", err)}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	text := extractReadableText(doc)

	truncated := false
	if len(text) > maxWebpageChars {
		text = text[:maxWebpageChars] + "\n... (truncated)"
		truncated = true
	}

	return &ToolResult{
		Success: true,
		Data: map[string]interface{}{
			"url":       rawURL,
			"title":     title,
			"text":      text,
			"truncated": truncated,
		},
	}
}

// extractReadableText pulls visible prose out of a page, skipping chrome
func extractReadableText(doc *goquery.Document) string {
	doc.Find("script, style, nav, footer, header, noscript, iframe").Remove()

	root := doc.Find("main, article").First()
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}

	var parts []string
	root.Find("h1, h2, h3, h4, p, li, pre, td").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if t != "" {
			parts = append(parts, t)
		}
	})

	if len(parts) == 0 {
		return strings.TrimSpace(root.Text())
	}
	return strings.Join(parts, "\n")
}
