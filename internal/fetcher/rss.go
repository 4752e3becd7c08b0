package fetcher

import (
	"encoding/xml"
	"fmt"
	"time"
)

// Minimal RSS 2.0 and Atom shapes: just the fields the pipeline uses.

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Content     string `xml:"encoded"`
	PubDate     string `xml:"pubDate"`
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title   string     `xml:"title"`
	Links   []atomLink `xml:"link"`
	Summary string     `xml:"summary"`
	Content string     `xml:"content"`
	Updated string     `xml:"updated"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

// feedEntry is the normalized form both formats decode into.
type feedEntry struct {
	Title     string
	Link      string
	Body      string
	Published time.Time
}

// parseFeed decodes RSS 2.0 or Atom payloads into normalized entries.
func parseFeed(raw []byte) ([]feedEntry, error) {
	var rss rssFeed
	if err := xml.Unmarshal(raw, &rss); err == nil && len(rss.Channel.Items) > 0 {
		entries := make([]feedEntry, 0, len(rss.Channel.Items))
		for _, item := range rss.Channel.Items {
			body := item.Content
			if body == "" {
				body = item.Description
			}
			entries = append(entries, feedEntry{
				Title:     item.Title,
				Link:      item.Link,
				Body:      body,
				Published: parseFeedTime(item.PubDate),
			})
		}
		return entries, nil
	}

	var atom atomFeed
	if err := xml.Unmarshal(raw, &atom); err == nil && len(atom.Entries) > 0 {
		entries := make([]feedEntry, 0, len(atom.Entries))
		for _, entry := range atom.Entries {
			body := entry.Content
			if body == "" {
				body = entry.Summary
			}
			entries = append(entries, feedEntry{
				Title:     entry.Title,
				Link:      atomHref(entry.Links),
				Body:      body,
				Published: parseFeedTime(entry.Updated),
			})
		}
		return entries, nil
	}

	return nil, fmt.Errorf("payload is neither RSS nor Atom")
}

func atomHref(links []atomLink) string {
	for _, l := range links {
		if l.Rel == "" || l.Rel == "alternate" {
			return l.Href
		}
	}
	if len(links) > 0 {
		return links[0].Href
	}
	return ""
}

var feedTimeLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

func parseFeedTime(v string) time.Time {
	for _, layout := range feedTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
