package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/tickerpulse/internal/contracts"
	"github.com/wonny/tickerpulse/pkg/config"
	"github.com/wonny/tickerpulse/pkg/httputil"
	"github.com/wonny/tickerpulse/pkg/logger"
)

const SourceNews = "News"

// NewsFeed reads the Google News RSS search feed
type NewsFeed struct {
	client  *httputil.Client
	baseURL string
	query   string
	logger  *logger.Logger
}

// NewNewsFeed creates an RSS-backed feed
func NewNewsFeed(feed config.FeedConfig, client *httputil.Client, log *logger.Logger) *NewsFeed {
	return &NewsFeed{
		client:  client,
		baseURL: strings.TrimRight(feed.BaseURL, "/"),
		query:   feed.Query,
		logger:  log.Component("news_feed"),
	}
}

// Name returns the feed name
func (f *NewsFeed) Name() string { return "news" }

type rssDocument struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
	Source      struct {
		Text string `xml:",chardata"`
	} `xml:"source"`
}

var pubDateLayouts = []string{time.RFC1123Z, time.RFC1123}

// FetchMentions returns the items of the search feed
func (f *NewsFeed) FetchMentions(ctx context.Context) ([]contracts.Post, error) {
	params := url.Values{}
	params.Set("q", f.query)
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	body, err := f.client.GetBody(ctx, f.baseURL+"/rss/search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news feed: %w", err)
	}

	posts, err := ParseRSS(body)
	if err != nil {
		return nil, err
	}

	f.logger.WithField("count", len(posts)).Debug("Fetched news mentions")
	return posts, nil
}

// ParseRSS converts an RSS document into posts. Items without a parsable
// pubDate are skipped.
func ParseRSS(data []byte) ([]contracts.Post, error) {
	var doc rssDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse RSS: %w", err)
	}

	posts := make([]contracts.Post, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		ts, ok := parsePubDate(item.PubDate)
		if !ok {
			continue
		}

		id := item.GUID
		if id == "" {
			id = item.Link
		}

		content := strings.TrimSpace(item.Title)
		if desc := stripHTML(item.Description); desc != "" && desc != content {
			content += "\n\n" + desc
		}

		author := strings.TrimSpace(item.Source.Text)
		if author == "" {
			author = "Google News"
		}

		posts = append(posts, contracts.Post{
			ID:        id,
			Author:    author,
			Content:   content,
			Timestamp: ts.UTC(),
			Source:    SourceNews,
			URL:       item.Link,
		})
	}
	return posts, nil
}

func parsePubDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// stripHTML returns the visible text of an HTML fragment
func stripHTML(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
