package site

import (
	"net/url"
	"testing"

	"github.com/huangsam/locmeta/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasePath(t *testing.T) {
	assert.Equal(t, "/", BasePath("localhost", "/portfolio/"))
	assert.Equal(t, "/", BasePath("127.0.0.1", "/portfolio/"))
	assert.Equal(t, "/portfolio/", BasePath("ada.github.io", "/portfolio/"))
}

func TestBuildNav(t *testing.T) {
	pages := DefaultPages("https://github.com/ada/portfolio")

	t.Run("remote host", func(t *testing.T) {
		current, err := url.Parse("https://ada.github.io/portfolio/projects/")
		require.NoError(t, err)

		links := BuildNav(pages, current, "/portfolio/")
		require.Len(t, links, 5)
		assert.Equal(t, schema.NavLink{Title: "Home", Href: "/portfolio/"}, links[0])
		assert.Equal(t, schema.NavLink{Title: "Projects", Href: "/portfolio/projects/", Current: true}, links[1])
		assert.False(t, links[2].Current)
		assert.Equal(t, schema.NavLink{
			Title:    "GitHub",
			Href:     "https://github.com/ada/portfolio",
			External: true,
			Target:   "_blank",
			Rel:      "noopener noreferrer",
		}, links[4])
	})

	t.Run("local host", func(t *testing.T) {
		current, err := url.Parse("http://localhost:8080/")
		require.NoError(t, err)

		links := BuildNav(pages, current, BasePath(current.Hostname(), "/portfolio/"))
		assert.Equal(t, "/", links[0].Href)
		assert.True(t, links[0].Current)
		assert.Equal(t, "/contact/", links[3].Href)
		assert.False(t, links[3].External)
	})
}

func TestHostname(t *testing.T) {
	assert.Equal(t, "localhost", hostname("localhost:8080"))
	assert.Equal(t, "example.com", hostname("example.com"))
	assert.Equal(t, "::1", hostname("[::1]:80"))
}
