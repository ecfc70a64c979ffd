// Package update checks GitHub for a newer released version.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultRepo    = "xeij/tellme"
	defaultAPIBase = "https://api.github.com"
	checkTimeout   = 5 * time.Second
)

type release struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	HTMLURL    string `json:"html_url"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
}

// Info describes an available update.
type Info struct {
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
}

// Notice is the one-line message shown to the user.
func (i Info) Notice() string {
	return fmt.Sprintf("New version %s available (current %s): %s",
		i.LatestVersion, i.CurrentVersion, i.ReleaseURL)
}

// Checker looks up the latest GitHub release.
type Checker struct {
	http    *http.Client
	apiBase string
	repo    string
	current string
}

// NewChecker builds a checker for the given current version string.
func NewChecker(current string) *Checker {
	return &Checker{
		http:    &http.Client{Timeout: checkTimeout},
		apiBase: defaultAPIBase,
		repo:    defaultRepo,
		current: current,
	}
}

// Check returns update info when a newer stable release exists. Drafts and
// prereleases are ignored.
func (c *Checker) Check(ctx context.Context) (Info, bool, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.apiBase, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Info{}, false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Info{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Info{}, false, fmt.Errorf("update check: status %s", resp.Status)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return Info{}, false, err
	}
	if rel.Draft || rel.Prerelease {
		return Info{}, false, nil
	}

	if !newerVersion(c.current, rel.TagName) {
		return Info{}, false, nil
	}
	return Info{
		CurrentVersion: c.current,
		LatestVersion:  strings.TrimPrefix(rel.TagName, "v"),
		ReleaseURL:     rel.HTMLURL,
	}, true, nil
}

// Quick runs Check with a short timeout and swallows every failure: an
// unreachable release API must never get in the user's way.
func (c *Checker) Quick(ctx context.Context) (Info, bool) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	info, ok, err := c.Check(ctx)
	if err != nil {
		return Info{}, false
	}
	return info, ok
}

// newerVersion reports whether latest is strictly newer than current.
// Versions are dotted integer triples with an optional leading v; anything
// unparsable compares as not newer.
func newerVersion(current, latest string) bool {
	cur, ok := parseVersion(current)
	if !ok {
		return false
	}
	lat, ok := parseVersion(latest)
	if !ok {
		return false
	}

	for i := 0; i < 3; i++ {
		if lat[i] != cur[i] {
			return lat[i] > cur[i]
		}
	}
	return false
}

func parseVersion(v string) ([3]int, bool) {
	var out [3]int
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(v), "v"), ".")
	if len(parts) != 3 {
		return out, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return out, false
		}
		out[i] = n
	}
	return out, true
}
