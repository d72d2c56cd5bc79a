// Package markup prepares raw HTML for static analysis.
package markup

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

const truncationMarker = "\n<!-- markup truncated -->"

var ErrNoBody = errors.New("markup has no <body>")

type CleanConfig struct {
	TagsToRemove         []string
	AttrsToRemove        []string
	AttrPrefixesToRemove []string
	// MaxOutputSize truncates the rendered body; zero disables truncation.
	MaxOutputSize    int
	CustomAttrFilter func(attr html.Attribute) bool
}

var DefaultCleanConfig = CleanConfig{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe",
		"link", "meta", "head", "title", "template",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
	},
	AttrPrefixesToRemove: []string{"data-", "aria-", "on"},
	MaxOutputSize:        130_000,
}

// Clean strips comments, noise tags and noise attributes and returns the
// rendered <body> element.
func Clean(raw string, cfg *CleanConfig) (string, error) {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}

	body := findElement(doc, "body")
	if body == nil {
		return "", ErrNoBody
	}

	cleanNode(body, cfg)

	var sb strings.Builder
	if err := html.Render(&sb, body); err != nil {
		return "", fmt.Errorf("render markup: %w", err)
	}
	return truncate(sb.String(), cfg.MaxOutputSize), nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func cleanNode(n *html.Node, cfg *CleanConfig) {
	switch {
	case n.Type == html.CommentNode:
		detach(n)
		return
	case n.Type != html.ElementNode:
		return
	case slices.Contains(cfg.TagsToRemove, n.Data):
		detach(n)
		return
	}

	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return shouldRemoveAttr(a, cfg)
	})

	// Children may detach themselves, so grab the sibling first.
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		cleanNode(c, cfg)
		c = next
	}
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func shouldRemoveAttr(attr html.Attribute, cfg *CleanConfig) bool {
	if slices.Contains(cfg.AttrsToRemove, attr.Key) {
		return true
	}
	for _, prefix := range cfg.AttrPrefixesToRemove {
		if strings.HasPrefix(attr.Key, prefix) {
			return true
		}
	}
	return cfg.CustomAttrFilter != nil && cfg.CustomAttrFilter(attr)
}

func truncate(s string, maxSize int) string {
	if maxSize <= 0 || len(s) <= maxSize {
		return s
	}
	return s[:maxSize] + truncationMarker
}
