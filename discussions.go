package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

const discussionsQuery = `
query($owner: String!, $repo: String!, $cursor: String) {
  repository(owner: $owner, name: $repo) {
    discussions(first: 100, after: $cursor) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        number
        title
        body
        createdAt
        updatedAt
        closedAt
        closed
        url
        author { login }
        category { name }
        labels(first: 10) {
          nodes { name }
        }
        comments(first: 100) {
          nodes {
            id
            body
            createdAt
            author { login }
          }
        }
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type discussionsResponse struct {
	Data struct {
		Repository struct {
			Discussions struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Nodes []json.RawMessage `json:"nodes"`
			} `json:"discussions"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchedDiscussion pairs the decoded discussion with its raw GraphQL node.
type FetchedDiscussion struct {
	Discussion
	Raw json.RawMessage
}

// FetchDiscussions retrieves all discussions for a repository via the GraphQL
// API with cursor pagination. Discussions require a token; without one the
// GraphQL endpoint rejects the request.
func FetchDiscussions(cfg Config, owner, repo string) ([]FetchedDiscussion, error) {
	var all []FetchedDiscussion
	var cursor *string

	for {
		variables := map[string]any{
			"owner":  owner,
			"repo":   repo,
			"cursor": cursor,
		}
		result, err := postDiscussionsQuery(cfg, variables)
		if err != nil {
			return nil, err
		}
		if len(result.Errors) > 0 {
			return nil, fmt.Errorf("GraphQL error: %s", result.Errors[0].Message)
		}

		nodes := result.Data.Repository.Discussions.Nodes
		for _, raw := range nodes {
			var d Discussion
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, fmt.Errorf("parsing discussion node: %w", err)
			}
			all = append(all, FetchedDiscussion{Discussion: d, Raw: raw})
		}

		log.Printf("github fetch discussions batch=%d total=%d", len(nodes), len(all))

		pageInfo := result.Data.Repository.Discussions.PageInfo
		if !pageInfo.HasNextPage {
			break
		}
		end := pageInfo.EndCursor
		cursor = &end
	}

	log.Printf("github fetch discussions done total=%d", len(all))
	return all, nil
}

func postDiscussionsQuery(cfg Config, variables map[string]any) (*discussionsResponse, error) {
	payload, err := json.Marshal(graphQLRequest{Query: discussionsQuery, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encoding GraphQL request: %w", err)
	}

	req, err := http.NewRequest("POST", cfg.GitHubAPIURL+"/graphql", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	setGitHubHeaders(req, cfg)
	req.Header.Set("Content-Type", "application/json")

	resp, err := externalHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("GitHub GraphQL API returned %d: %s", resp.StatusCode, string(body))
	}

	var result discussionsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing GraphQL response: %w", err)
	}
	return &result, nil
}
