package contracts

import (
	"sort"
	"time"
)

// Post is a single social or news mention
// ⭐ SSOT: feed → cache → API 공통 포스트 구조
type Post struct {
	ID           string    `json:"id"`
	Author       string    `json:"author"`
	Content      string    `json:"content"`
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"` // "Reddit", "News", "Twitter"
	ProfileImage string    `json:"profile_image"`
	URL          string    `json:"url"`
}

// SortNewestFirst orders posts by timestamp descending, keeping input order on ties
func SortNewestFirst(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp.After(posts[j].Timestamp)
	})
}

// Latest returns at most n posts from the head of the slice
func Latest(posts []Post, n int) []Post {
	if len(posts) <= n {
		return posts
	}
	return posts[:n]
}
