package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/wonny/tickerpulse/internal/contracts"
	"github.com/wonny/tickerpulse/pkg/config"
	"github.com/wonny/tickerpulse/pkg/logger"
)

const (
	SourceReddit = "Reddit"
	userAgent    = "tickerpulse/1.0"
	searchLimit  = 50
)

// SocialFeed searches Reddit for recent mentions of the configured query
type SocialFeed struct {
	client  *resty.Client
	limiter *rate.Limiter
	query   string
	logger  *logger.Logger
}

// NewSocialFeed creates a Reddit-backed feed
func NewSocialFeed(feed config.FeedConfig, fetch config.FetchConfig, log *logger.Logger) *SocialFeed {
	client := resty.New().
		SetBaseURL(strings.TrimRight(feed.BaseURL, "/")).
		SetTimeout(fetch.Timeout).
		SetRetryCount(fetch.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("User-Agent", userAgent).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
		})

	return &SocialFeed{
		client:  client,
		limiter: newLimiter(fetch.RatePerSec),
		query:   feed.Query,
		logger:  log.Component("social_feed"),
	}
}

// Name returns the feed name
func (f *SocialFeed) Name() string { return "social" }

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Author     string  `json:"author"`
	Permalink  string  `json:"permalink"`
	Thumbnail  string  `json:"thumbnail"`
	CreatedUTC float64 `json:"created_utc"`
}

// FetchMentions returns the newest posts matching the query
func (f *SocialFeed) FetchMentions(ctx context.Context) ([]contracts.Post, error) {
	if err := wait(ctx, f.limiter); err != nil {
		return nil, err
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     f.query,
			"sort":  "new",
			"limit": fmt.Sprintf("%d", searchLimit),
		}).
		Get("/search.json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reddit search: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HTTP error %d when fetching reddit search", resp.StatusCode())
	}

	var listing redditListing
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		return nil, fmt.Errorf("failed to parse reddit JSON: %w", err)
	}

	posts := make([]contracts.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, f.toPost(child.Data))
	}

	f.logger.WithField("count", len(posts)).Debug("Fetched social mentions")
	return posts, nil
}

func (f *SocialFeed) toPost(p redditPost) contracts.Post {
	content := strings.TrimSpace(p.Title)
	if body := strings.TrimSpace(p.Selftext); body != "" {
		content += "\n\n" + body
	}

	sec, frac := math.Modf(p.CreatedUTC)
	post := contracts.Post{
		ID:        p.ID,
		Author:    p.Author,
		Content:   content,
		Timestamp: time.Unix(int64(sec), int64(frac*1e9)).UTC(),
		Source:    SourceReddit,
	}
	if strings.HasPrefix(p.Thumbnail, "http") {
		post.ProfileImage = p.Thumbnail
	}
	if p.Permalink != "" {
		post.URL = "https://www.reddit.com" + p.Permalink
	}
	return post
}

func newLimiter(perSec float64) *rate.Limiter {
	if perSec <= 0 {
		return nil
	}
	burst := int(perSec)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSec), burst)
}

func wait(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}
	if err := l.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}
	return nil
}
