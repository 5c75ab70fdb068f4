package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/gorilla/feeds"
)

// FeedOptions describes the Atom feed itself.
type FeedOptions struct {
	Title string
	// Link is the public URL of the events API; item links append the event id.
	Link string
}

// Feed builds an Atom-ready feed with one item per event, in list order.
func (x Exporter) Feed(events []event.Event, opts FeedOptions) (*feeds.Feed, error) {
	if opts.Title == "" {
		opts.Title = "Events"
	}
	link := strings.TrimSuffix(opts.Link, "/")

	feed := &feeds.Feed{
		Title:       opts.Title,
		Link:        &feeds.Link{Href: link},
		Description: fmt.Sprintf("%d events", len(events)),
		Id:          link,
		Created:     x.now(),
	}

	for i := range events {
		ev := &events[i]
		start, _, err := x.span(ev)
		if err != nil {
			return nil, err
		}

		var desc strings.Builder
		fmt.Fprintf(&desc, "%s %s-%s", ev.Date, ev.StartTime, ev.EndTime)
		if ev.Location != "" {
			fmt.Fprintf(&desc, " @ %s", ev.Location)
		}
		if ev.Description != "" {
			fmt.Fprintf(&desc, "\n%s", ev.Description)
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Title:       ev.Title,
			Link:        &feeds.Link{Href: link + "/" + ev.ID},
			Id:          ev.ID,
			Description: desc.String(),
			Created:     start,
		})
	}
	return feed, nil
}

// WriteAtom writes events as an Atom feed.
func (x Exporter) WriteAtom(w io.Writer, events []event.Event, opts FeedOptions) error {
	feed, err := x.Feed(events, opts)
	if err != nil {
		return err
	}
	if err := feed.WriteAtom(w); err != nil {
		return fmt.Errorf("failed to write atom feed: %w", err)
	}
	return nil
}
