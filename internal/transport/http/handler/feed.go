package handler

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/live-redirect-api/internal/domain"
)

const (
	nsAtom    = "http://www.w3.org/2005/Atom"
	nsYouTube = "http://www.youtube.com/xml/schemas/2015"
)

type atomFeed struct {
	XMLName xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	Entries []atomEntry `xml:"http://www.w3.org/2005/Atom entry"`
}

type atomEntry struct {
	VideoID   string `xml:"http://www.youtube.com/xml/schemas/2015 videoId"`
	ChannelID string `xml:"http://www.youtube.com/xml/schemas/2015 channelId"`
}

// parseFeed extracts one notification per <entry>. Entries are returned as found,
// including ones missing an identifier; callers validate them.
func parseFeed(body []byte) ([]domain.VideoNotification, error) {
	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	out := make([]domain.VideoNotification, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		out = append(out, domain.VideoNotification{
			VideoID:   strings.TrimSpace(e.VideoID),
			ChannelID: strings.TrimSpace(e.ChannelID),
		})
	}
	return out, nil
}
