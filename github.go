package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
)

const issuesPerPage = 100

// FetchedIssue pairs the decoded issue with the raw API record so snapshots
// keep every field the API returned, not just the ones classification reads.
type FetchedIssue struct {
	Issue
	Raw json.RawMessage
}

// FetchIssues retrieves all issues (open and closed) for a repository via the
// REST API, newest first. The issues endpoint also returns pull requests;
// those are filtered out here.
func FetchIssues(cfg Config, owner, repo string) ([]FetchedIssue, error) {
	var all []FetchedIssue
	page := 1

	for {
		apiURL := fmt.Sprintf("%s/repos/%s/%s/issues?state=all&per_page=%d&page=%d&sort=created&direction=desc",
			cfg.GitHubAPIURL, url.PathEscape(owner), url.PathEscape(repo), issuesPerPage, page)

		body, err := githubGET(cfg, apiURL)
		if err != nil {
			return nil, fmt.Errorf("fetching issues page %d: %w", page, err)
		}

		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("parsing issues page %d: %w", page, err)
		}
		if len(items) == 0 {
			break
		}

		pageIssues := 0
		for _, raw := range items {
			issue, ok, err := decodeIssueItem(raw)
			if err != nil {
				return nil, fmt.Errorf("parsing issue on page %d: %w", page, err)
			}
			if !ok {
				continue
			}
			all = append(all, FetchedIssue{Issue: issue, Raw: raw})
			pageIssues++
		}

		log.Printf("github fetch issues page=%d issues=%d skipped_prs=%d", page, pageIssues, len(items)-pageIssues)

		if len(items) < issuesPerPage {
			break
		}
		page++
	}

	log.Printf("github fetch issues done total=%d", len(all))
	return all, nil
}

// decodeIssueItem decodes one item from the issues endpoint. ok is false when
// the item is a pull request (the endpoint mixes both).
func decodeIssueItem(raw json.RawMessage) (Issue, bool, error) {
	var probe struct {
		PullRequest json.RawMessage `json:"pull_request"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Issue{}, false, err
	}
	if probe.PullRequest != nil {
		return Issue{}, false, nil
	}

	var issue Issue
	if err := json.Unmarshal(raw, &issue); err != nil {
		return Issue{}, false, err
	}
	return issue, true, nil
}

func githubGET(cfg Config, apiURL string) ([]byte, error) {
	req, err := http.NewRequest("GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	setGitHubHeaders(req, cfg)

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
		return nil, fmt.Errorf("GitHub API returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func setGitHubHeaders(req *http.Request, cfg Config) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if cfg.GitHubToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.GitHubToken)
	}
}
