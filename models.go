package main

import (
	"encoding/json"
	"strings"
)

// Issue is one GitHub issue record as stored in a snapshot directory.
// Only the fields the classifier and the summaries need are decoded;
// everything else in the raw record is ignored.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"` // "open" or "closed"
	Labels    LabelList `json:"labels"`
	HTMLURL   string    `json:"html_url"`
	User      IssueUser `json:"user"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
	ClosedAt  string    `json:"closed_at"`
}

type IssueUser struct {
	Login string `json:"login"`
}

// LabelList accepts both the GitHub API shape ([{"name": "bug"}, ...]) and a
// plain list of strings (["bug", ...]). Anything else decodes to an empty set.
type LabelList []string

func (l *LabelList) UnmarshalJSON(data []byte) error {
	var objs []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &objs); err == nil {
		names := make([]string, 0, len(objs))
		for _, o := range objs {
			names = append(names, o.Name)
		}
		*l = names
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		*l = names
		return nil
	}

	*l = nil
	return nil
}

// HasBugLabel reports whether the issue carries the "bug" label.
// Label comparison is case-insensitive.
func (i Issue) HasBugLabel() bool {
	for _, name := range i.Labels {
		if strings.EqualFold(name, "bug") {
			return true
		}
	}
	return false
}

// SearchText is the text all classifiers run against: title and body,
// lowercased, body treated as empty when absent.
func (i Issue) SearchText() string {
	return strings.ToLower(i.Title + " " + i.Body)
}

// Discussion is one GitHub discussion as returned by the GraphQL API.
// Discussions are fetched and stored for completeness but never enter
// the bug statistics.
type Discussion struct {
	Number    int                `json:"number"`
	Title     string             `json:"title"`
	Body      string             `json:"body"`
	Closed    bool               `json:"closed"`
	URL       string             `json:"url"`
	CreatedAt string             `json:"createdAt"`
	UpdatedAt string             `json:"updatedAt"`
	ClosedAt  string             `json:"closedAt"`
	Author    DiscussionAuthor   `json:"author"`
	Category  DiscussionCategory `json:"category"`
	Labels    DiscussionLabels   `json:"labels"`
	Comments  DiscussionComments `json:"comments"`
}

type DiscussionAuthor struct {
	Login string `json:"login"`
}

type DiscussionCategory struct {
	Name string `json:"name"`
}

type DiscussionLabels struct {
	Nodes []struct {
		Name string `json:"name"`
	} `json:"nodes"`
}

type DiscussionComments struct {
	Nodes []DiscussionComment `json:"nodes"`
}

type DiscussionComment struct {
	ID        string           `json:"id"`
	Body      string           `json:"body"`
	CreatedAt string           `json:"createdAt"`
	Author    DiscussionAuthor `json:"author"`
}
