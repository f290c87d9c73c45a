package edgar

import (
	"html"
	"log"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

// Resolver locates the machine-readable transaction document linked from a
// filing's human-readable index page.
type Resolver struct {
	Client    *http.Client
	UserAgent string
	FormType  string
}

// NewResolver creates a resolver for the given form type code.
func NewResolver(userAgent, formType, proxyURL string, timeout time.Duration) *Resolver {
	return &Resolver{
		Client:    newHTTPClient(proxyURL, timeout),
		UserAgent: userAgent,
		FormType:  formType,
	}
}

// document is one row of the index page's document table.
type document struct {
	Name string // linked filename
	Type string // form type column ("4", "EX-24", ...)
	Href string
}

var (
	rowRe    = regexp.MustCompile(`(?is)<tr[^>]*>.*?</tr>`)
	cellRe   = regexp.MustCompile(`(?is)<td[^>]*>(.*?)</td>`)
	anchorRe = regexp.MustCompile(`(?is)<a[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
)

func stripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagRe.ReplaceAllString(s, "")))
}

// parseDocumentTable scans the index page for document rows. A row counts
// when it links a file; its type is the first non-empty cell after the link
// cell, which tolerates layout changes better than fixed column offsets.
func parseDocumentTable(body string) []document {
	var docs []document
	for _, row := range rowRe.FindAllString(body, -1) {
		cells := cellRe.FindAllStringSubmatch(row, -1)

		anchorIdx := -1
		var href, name string
		for i, c := range cells {
			if m := anchorRe.FindStringSubmatch(c[1]); m != nil {
				anchorIdx = i
				href = m[1]
				name = stripTags(m[2])
				break
			}
		}
		if anchorIdx < 0 {
			continue
		}
		if name == "" {
			name = path.Base(href)
		}

		docType := ""
		for _, c := range cells[anchorIdx+1:] {
			if t := stripTags(c[1]); t != "" {
				docType = t
				break
			}
		}

		docs = append(docs, document{Name: name, Type: docType, Href: href})
	}
	return docs
}

// isTransactionDocument reports whether a document row is the structured
// transaction document for the configured form type.
func (r *Resolver) isTransactionDocument(d document) bool {
	return d.Type == r.FormType && strings.HasSuffix(strings.ToLower(d.Name), ".xml")
}

// Resolve returns the absolute URL of the filing's transaction document.
// ok is false when the page cannot be fetched or contains no matching row;
// callers treat that as "cannot auto-classify", never as a processing error.
func (r *Resolver) Resolve(indexURL string) (string, bool) {
	body, err := get(r.Client, indexURL, r.UserAgent)
	if err != nil {
		log.Printf("[WARN] resolver: %v", err)
		return "", false
	}

	base, err := url.Parse(indexURL)
	if err != nil {
		log.Printf("[WARN] resolver: bad index URL %q: %v", indexURL, err)
		return "", false
	}

	for _, d := range parseDocumentTable(string(body)) {
		if !r.isTransactionDocument(d) {
			continue
		}
		ref, err := url.Parse(d.Href)
		if err != nil {
			log.Printf("[WARN] resolver: bad document href %q: %v", d.Href, err)
			continue
		}
		return base.ResolveReference(ref).String(), true
	}
	return "", false
}
