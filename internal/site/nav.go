// Package site serves the portfolio pages, the meta page and the JSON API
// over HTTP.
package site

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/huangsam/locmeta/schema"
)

// DefaultPages is the navigation used when the config file names none.
func DefaultPages(githubURL string) []schema.NavPage {
	return []schema.NavPage{
		{URL: "", Title: "Home"},
		{URL: "projects/", Title: "Projects"},
		{URL: "resume/", Title: "Resume"},
		{URL: "contact/", Title: "Contact"},
		{URL: githubURL, Title: "GitHub"},
	}
}

// BasePath returns "/" for local hosts and the configured base otherwise.
func BasePath(hostname, configured string) string {
	if hostname == "localhost" || hostname == "127.0.0.1" {
		return "/"
	}
	return configured
}

// BuildNav resolves pages against the current URL. Relative page URLs are
// prefixed with basePath. A link is current when it points at the same host
// and path; links to another host open in a new tab.
func BuildNav(pages []schema.NavPage, current *url.URL, basePath string) []schema.NavLink {
	links := make([]schema.NavLink, 0, len(pages))
	for _, p := range pages {
		href := p.URL
		if !strings.HasPrefix(href, "http") {
			href = basePath + href
		}
		link := schema.NavLink{Title: p.Title, Href: href}

		target, err := current.Parse(href)
		if err == nil {
			link.Current = target.Host == current.Host && target.Path == current.Path
			link.External = target.Host != current.Host
		}
		if link.External {
			link.Target = "_blank"
			link.Rel = "noopener noreferrer"
		}
		links = append(links, link)
	}
	return links
}

// requestURL rebuilds the absolute URL the client asked for.
func requestURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return &url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path}
}

// hostname strips the port from a Host header.
func hostname(host string) string {
	return (&url.URL{Host: host}).Hostname()
}
