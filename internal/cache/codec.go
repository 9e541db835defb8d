package cache

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wonny/tickerpulse/internal/contracts"
)

// postColumns is the header of the posts artifact
var postColumns = []string{"id", "author", "content", "timestamp", "source", "profile_image", "url"}

// timestamps written by older producers may be naive ISO-8601
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// EncodePosts renders posts as CSV with a header row
func EncodePosts(posts []contracts.Post) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(postColumns); err != nil {
		return nil, err
	}
	for _, p := range posts {
		ts := ""
		if !p.Timestamp.IsZero() {
			ts = p.Timestamp.Format(time.RFC3339Nano)
		}
		row := []string{p.ID, p.Author, p.Content, ts, p.Source, p.ProfileImage, p.URL}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodePosts parses the posts CSV. Columns are matched by header name,
// so column order is free and unknown columns are ignored.
func DecodePosts(data []byte) ([]contracts.Post, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("posts artifact has no header")
	}
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	if _, ok := index["id"]; !ok {
		return nil, fmt.Errorf("posts artifact is missing the id column")
	}

	posts := make([]contracts.Post, 0)
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse row %d: %w", line, err)
		}

		field := func(name string) string {
			if i, ok := index[name]; ok && i < len(record) {
				return record[i]
			}
			return ""
		}

		ts, err := parseTimestamp(field("timestamp"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		posts = append(posts, contracts.Post{
			ID:           field("id"),
			Author:       field("author"),
			Content:      field("content"),
			Timestamp:    ts,
			Source:       field("source"),
			ProfileImage: field("profile_image"),
			URL:          field("url"),
		})
	}

	return posts, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
