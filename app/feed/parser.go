package feed

import (
	"bytes"
	"cmp"
	"fmt"

	"github.com/mmcdole/gofeed"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Run(data []byte) (*Metadata, []RawEntry, error) {
	// gofeed parsers keep per-document state, so each run gets its own.
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Language:    feed.Language,
	}

	entries := make([]RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, p.rawEntry(item))
	}

	return metadata, entries, nil
}

func (p *Parser) rawEntry(item *gofeed.Item) RawEntry {
	raw := RawEntry{
		Title:       item.Title,
		Description: item.Description,
		Summary:     item.Content,
		Link:        item.Link,
		Published:   cmp.Or(item.Published, item.Updated),
	}

	if raw.Link == "" {
		for _, link := range item.Links {
			if link != "" {
				raw.Link = link
				break
			}
		}
	}

	return raw
}
