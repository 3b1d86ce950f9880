package render

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAttrs() TokenAttributes {
	return TokenAttributes{
		TokenID:      7,
		CatalogName:  "early bird",
		OptionName:   "Conference",
		AttendeeName: "Patrick Aljord",
		TicketCode:   "xyz",
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewSVGRenderer("ETHDubai")

	first, err := r.Render(testAttrs())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := r.Render(testAttrs())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRenderEscapesAttributeText(t *testing.T) {
	r := NewSVGRenderer("ETHDubai")
	attrs := testAttrs()
	attrs.AttendeeName = `<script>alert("x")</script>`

	svg, err := r.Render(attrs)
	require.NoError(t, err)
	assert.NotContains(t, string(svg), "<script>")
}

func TestRenderShowsSpecialStatus(t *testing.T) {
	r := NewSVGRenderer("ETHDubai")
	attrs := testAttrs()
	attrs.SpecialStatus = "speaker"

	svg, err := r.Render(attrs)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "speaker")
}

func TestTokenURIRoundTrip(t *testing.T) {
	r := NewSVGRenderer("ETHDubai")

	uri, err := TokenURI(r, testAttrs())
	require.NoError(t, err)

	const jsonPrefix = "data:application/json;base64,"
	require.True(t, strings.HasPrefix(uri, jsonPrefix))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, jsonPrefix))
	require.NoError(t, err)

	var doc struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Ticket #7", doc.Name)

	const imagePrefix = "data:image/svg+xml;base64,"
	require.True(t, strings.HasPrefix(doc.Image, imagePrefix))

	svg, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(doc.Image, imagePrefix))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(svg), "<svg"))
	assert.Contains(t, string(svg), "Conference")
}

func TestTokenURIIsIdempotent(t *testing.T) {
	r := NewSVGRenderer("ETHDubai")

	first, err := TokenURI(r, testAttrs())
	require.NoError(t, err)
	second, err := TokenURI(r, testAttrs())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
