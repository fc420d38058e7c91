package github

import (
	"fmt"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
)

// Client wraps GitHub API operations
type Client struct {
	rest *api.RESTClient
}

// NewClient creates a new GitHub client using the gh CLI credentials
func NewClient() (*Client, error) {
	rest, err := api.DefaultRESTClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}
	return &Client{rest: rest}, nil
}

// NewClientWithOptions creates a client with explicit host, token or transport
func NewClientWithOptions(opts api.ClientOptions) (*Client, error) {
	rest, err := api.NewRESTClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}
	return &Client{rest: rest}, nil
}

// ParseRepo splits "owner/repo" into owner and repo
func ParseRepo(fullRepo string) (string, string, error) {
	parts := strings.Split(fullRepo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo format: %s (expected owner/repo)", fullRepo)
	}
	return parts[0], parts[1], nil
}

// Issue represents a GitHub issue from the API
type Issue struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	State       string     `json:"state"`
	StateReason string     `json:"state_reason"`
	HTMLURL     string     `json:"html_url"`
	User        User       `json:"user"`
	Assignee    *User      `json:"assignee"`
	Labels      []Label    `json:"labels"`
	Milestone   *Milestone `json:"milestone"`
	Comments    int        `json:"comments"`
	PullRequest *struct{}  `json:"pull_request"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ClosedAt    *time.Time `json:"closed_at"`
}

// User represents a GitHub user
type User struct {
	Login string `json:"login"`
}

// Label represents a GitHub label
type Label struct {
	Name string `json:"name"`
}

// Milestone is used as the sprint of an issue
type Milestone struct {
	Title string `json:"title"`
}

// Comment represents a GitHub comment
type Comment struct {
	ID        int       `json:"id"`
	Body      string    `json:"body"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// isPullRequest reports whether the /issues entry is a pull request
func (i *Issue) isPullRequest() bool {
	return i.PullRequest != nil
}
