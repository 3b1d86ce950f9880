// Package render produces the on-token metadata document: a JSON data
// URI embedding a base64 SVG badge. Rendering is deterministic so the
// same token always yields byte-identical output.
package render

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html"
)

// TokenAttributes is everything the renderer needs to draw a badge
type TokenAttributes struct {
	TokenID       int64
	CatalogName   string
	OptionName    string
	AttendeeName  string
	TicketCode    string
	SpecialStatus string
}

// Renderer draws a badge image for a token
type Renderer interface {
	Render(attrs TokenAttributes) ([]byte, error)
}

// SVGRenderer renders a simple ticket badge as SVG
type SVGRenderer struct {
	eventName string
}

// NewSVGRenderer creates a renderer branded with the event name
func NewSVGRenderer(eventName string) *SVGRenderer {
	return &SVGRenderer{eventName: eventName}
}

// Render draws the badge. Output depends only on the attributes, never
// on time or randomness.
func (r *SVGRenderer) Render(attrs TokenAttributes) ([]byte, error) {
	status := ""
	if attrs.SpecialStatus != "" {
		status = fmt.Sprintf(`<text x="20" y="230" font-size="16" fill="#f5a623">%s</text>`,
			html.EscapeString(attrs.SpecialStatus))
	}

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="400" height="260" viewBox="0 0 400 260">
<rect width="400" height="260" rx="16" fill="#1c1c28"/>
<text x="20" y="50" font-size="28" fill="#ffffff">%s</text>
<text x="20" y="90" font-size="18" fill="#9b9b9b">%s</text>
<text x="20" y="140" font-size="20" fill="#ffffff">%s</text>
<text x="20" y="175" font-size="16" fill="#9b9b9b">%s</text>
<text x="320" y="230" font-size="16" fill="#4a90d9">#%d</text>
%s
</svg>`,
		html.EscapeString(r.eventName),
		html.EscapeString(attrs.CatalogName),
		html.EscapeString(attrs.OptionName),
		html.EscapeString(attrs.AttendeeName),
		attrs.TokenID,
		status,
	)
	return []byte(svg), nil
}

// metadata is the JSON document embedded in the token URI
type metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// TokenURI builds the data:application/json;base64 document for a token,
// embedding the rendered image as a base64 SVG data URI.
func TokenURI(r Renderer, attrs TokenAttributes) (string, error) {
	image, err := r.Render(attrs)
	if err != nil {
		return "", fmt.Errorf("render badge: %w", err)
	}

	doc := metadata{
		Name:        fmt.Sprintf("Ticket #%d", attrs.TokenID),
		Description: fmt.Sprintf("%s ticket, %s", attrs.OptionName, attrs.CatalogName),
		Image:       "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(image),
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(raw), nil
}
