// Package detect derives product details from a URL when the live extraction
// service is unavailable or inconclusive.
package detect

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Guessed struct {
	Name  string
	Store string
}

var (
	titleCaser    = cases.Title(language.English)
	separatorRuns = regexp.MustCompile(`[-_.]+`)
	spaceRuns     = regexp.MustCompile(`\s+`)
)

// Known page extensions stripped from the last path segment. Anything else,
// e.g. "product.oruga", is product text and its dots become word breaks.
var pageExtensions = map[string]bool{
	"html": true, "htm": true, "php": true,
	"asp": true, "aspx": true, "jsp": true, "shtml": true,
}

// NormalizeURL prefixes https:// when the URL carries no scheme.
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL != "" && !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	return rawURL
}

// Guess derives a best-effort product name and store from the URL alone.
// Returns nil when the URL cannot be parsed; the caller must then prompt for
// manual entry.
func Guess(rawURL string) *Guessed {
	u, err := url.Parse(NormalizeURL(rawURL))
	if err != nil || u.Hostname() == "" {
		return nil
	}

	store := storeName(u.Hostname())
	name := nameFromPath(u.Path)
	if name == "" {
		name = store
	}
	if store == "" && name == "" {
		return nil
	}
	return &Guessed{Name: name, Store: store}
}

// storeName splits the host on dots, drops a leading "www" and the trailing
// public-suffix segment, and title-cases what remains.
func storeName(host string) string {
	segments := strings.Split(host, ".")
	if len(segments) > 0 && segments[0] == "www" {
		segments = segments[1:]
	}
	if len(segments) > 1 {
		segments = segments[:len(segments)-1]
	}
	return titleCaser.String(strings.Join(segments, " "))
}

func nameFromPath(path string) string {
	segments := strings.Split(path, "/")
	var last string
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			last = segments[i]
			break
		}
	}
	if last == "" {
		return ""
	}
	if unescaped, err := url.PathUnescape(last); err == nil {
		last = unescaped
	}
	if dot := strings.LastIndex(last, "."); dot > 0 && pageExtensions[strings.ToLower(last[dot+1:])] {
		last = last[:dot]
	}
	cleaned := separatorRuns.ReplaceAllString(last, " ")
	cleaned = strings.TrimSpace(spaceRuns.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return ""
	}
	return titleCaser.String(cleaned)
}
