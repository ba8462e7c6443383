package domain

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// Status is a single tweet as relayed downstream.
type Status struct {
	ID             string       `json:"id"`
	Text           string       `json:"text"`
	UserScreenName string       `json:"user_screen_name"`
	UserName       string       `json:"user_name"`
	CreatedAt      string       `json:"created_at"`
	InReplyToID    string       `json:"in_reply_to_status_id,omitempty"`
	URLs           []string     `json:"urls,omitempty"`
	Preview        *LinkPreview `json:"preview,omitempty"`
}

// LinkPreview carries Open Graph metadata of a status' first link.
type LinkPreview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// ParseStatuses extracts statuses from a timeline body. A single status
// object is accepted as a one-element timeline.
func ParseStatuses(raw []byte) ([]Status, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("timeline body is not valid JSON")
	}

	root := gjson.ParseBytes(raw)
	switch {
	case root.IsArray():
		out := make([]Status, 0, len(root.Array()))
		root.ForEach(func(_, v gjson.Result) bool {
			if s, ok := statusFrom(v); ok {
				out = append(out, s)
			}
			return true
		})
		return out, nil
	case root.IsObject():
		if s, ok := statusFrom(root); ok {
			return []Status{s}, nil
		}
		return nil, nil
	default:
		return nil, errors.New("timeline body is neither an array nor an object")
	}
}

func statusFrom(v gjson.Result) (Status, bool) {
	id := v.Get("id_str").String()
	if id == "" {
		id = v.Get("id").Raw
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Status{}, false
	}

	s := Status{
		ID:             id,
		Text:           v.Get("text").String(),
		UserScreenName: v.Get("user.screen_name").String(),
		UserName:       v.Get("user.name").String(),
		CreatedAt:      v.Get("created_at").String(),
		InReplyToID:    v.Get("in_reply_to_status_id_str").String(),
	}
	v.Get("entities.urls.#.expanded_url").ForEach(func(_, u gjson.Result) bool {
		if link := strings.TrimSpace(u.String()); link != "" {
			s.URLs = append(s.URLs, link)
		}
		return true
	})
	if len(s.URLs) == 0 {
		v.Get("entities.urls.#.url").ForEach(func(_, u gjson.Result) bool {
			if link := strings.TrimSpace(u.String()); link != "" {
				s.URLs = append(s.URLs, link)
			}
			return true
		})
	}
	return s, true
}
