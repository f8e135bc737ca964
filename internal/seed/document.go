package seed

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-content-bot/records"
)

// Document is one seed record read from a Markdown file. The Markdown body
// becomes the record description.
type Document struct {
	Path        string
	ContentType string
	Scope       string
	Name        string
	URL         string
	Media       string
	Caption     string
	Body        string
}

type frontMatterEnvelope struct {
	ContentType string `yaml:"content_type"`
	Scope       string `yaml:"scope"`
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Media       string `yaml:"media"`
	Caption     string `yaml:"caption"`
}

// ParseDocument extracts the frontmatter and body of a seed file.
func ParseDocument(path string, source []byte) (Document, error) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Document{}, fmt.Errorf("seed: parse frontmatter %s: %w", path, err)
	}
	return Document{
		Path:        path,
		ContentType: strings.TrimSpace(meta.ContentType),
		Scope:       strings.TrimSpace(meta.Scope),
		Name:        strings.TrimSpace(meta.Name),
		URL:         strings.TrimSpace(meta.URL),
		Media:       strings.TrimSpace(meta.Media),
		Caption:     strings.TrimSpace(meta.Caption),
		Body:        strings.TrimSpace(string(body)),
	}, nil
}

// Fields returns the non-empty captured values of the document.
func (d Document) Fields() records.Fields {
	out := records.Fields{records.FieldName: d.Name}
	set := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	set(records.FieldURL, d.URL)
	set(records.FieldDescription, d.Body)
	set(records.FieldMedia, d.Media)
	if d.Media != "" {
		set(records.FieldCaption, d.Caption)
	}
	return out
}
