package feed

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var ErrMissingLink = errors.New("entry has no link")

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Run converts a raw entry into its canonical form. Only a missing link is an
// error: without it the entry cannot be deduplicated.
func (n *Normalizer) Run(raw RawEntry) (Entry, error) {
	link := strings.TrimSpace(raw.Link)
	if link == "" {
		return Entry{}, ErrMissingLink
	}

	body := raw.Description
	if strings.TrimSpace(body) == "" {
		body = raw.Summary
	}
	if strings.TrimSpace(body) == "" {
		body = ""
	}

	return Entry{
		Title:       strings.TrimSpace(raw.Title),
		Body:        body,
		Link:        link,
		PublishedAt: n.parsePublished(raw.Published),
	}, nil
}

func (n *Normalizer) parsePublished(value string) (published *time.Time) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	// dateparse can panic on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			published = nil
		}
	}()

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return nil
	}

	t = t.UTC()
	return &t
}
