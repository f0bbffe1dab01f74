package gists

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/Sternrassler/gistview/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderPage(t *testing.T, page Page) string {
	t.Helper()

	renderer, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderer.Render(&buf, page))
	return buf.String()
}

func TestRender_Listing(t *testing.T) {
	body := renderPage(t, Page{
		PageContext: NewPageContext("octocat", 2, 5),
		Status:      http.StatusOK,
		Message:     ListingMessage("octocat", 2),
		Gists: []client.Gist{
			{ID: "1", Description: "Hello World Examples", HTMLURL: "https://gist.github.com/1"},
			{ID: "2", HTMLURL: "https://gist.github.com/2"},
		},
	})

	assert.Contains(t, body, "<title>GitHub Gists</title>")
	assert.Contains(t, body, "<h1>Displaying gists for 'octocat' - Page 2</h1>")
	assert.Contains(t, body, "Hello World Examples")
	assert.Contains(t, body, "No description available")
	assert.Contains(t, body, `href="https://gist.github.com/1"`)
	assert.Contains(t, body, `href="https://gist.github.com/2"`)
	assert.Contains(t, body, `<a href="/octocat?page=1&amp;per_page=5">Previous</a>`)
	assert.Contains(t, body, `<a href="/octocat?page=3&amp;per_page=5">Next</a>`)
	assert.NotContains(t, body, "No gists found for this user.")
}

func TestRender_Empty(t *testing.T) {
	body := renderPage(t, Page{
		PageContext: PageContext{User: "ghost", Page: 1, PerPage: 5, PrevPage: 1, NextPage: 2},
		Status:      http.StatusNotFound,
		Message:     NotFoundMessage("ghost"),
	})

	assert.Contains(t, body, "User 'ghost' not found.")
	assert.Contains(t, body, "No gists found for this user.")
	assert.Contains(t, body, "Previous")
	assert.Contains(t, body, "Next")
}

func TestRender_EscapesUntrustedContent(t *testing.T) {
	body := renderPage(t, Page{
		PageContext: NewPageContext("<script>", 1, 5),
		Status:      http.StatusOK,
		Message:     ListingMessage("<script>alert(1)</script>", 1),
		Gists: []client.Gist{
			{Description: "<b>bold</b>", HTMLURL: "javascript:alert(1)"},
		},
	})

	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, body, "&lt;b&gt;bold&lt;/b&gt;")
	assert.False(t, strings.Contains(body, `href="javascript:`), "unsafe URL scheme must be filtered")
}

func TestPage_Heading(t *testing.T) {
	page := Page{Message: "User 'a&b' not found."}
	assert.Equal(t, "User 'a&amp;b' not found.", string(page.Heading()))
}

func TestMustNewRenderer(t *testing.T) {
	assert.NotPanics(t, func() { MustNewRenderer() })
}
