package vectordb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Kavirubc/simili-rca/internal/config"
	"github.com/Kavirubc/simili-rca/internal/logger"
	"github.com/qdrant/go-client/qdrant"
)

const defaultGRPCPort = 6334

// Client wraps the Qdrant gRPC client
type Client struct {
	qdrant *qdrant.Client
	log    *logger.Logger
}

// NewClient connects to Qdrant over gRPC. Qdrant Cloud hosts and https URLs
// use TLS.
func NewClient(cfg *config.QdrantConfig, log *logger.Logger) (*Client, error) {
	host, port := parseHostPort(cfg.URL)
	useTLS := strings.HasPrefix(cfg.URL, "https://") ||
		strings.HasSuffix(host, ".qdrant.io") || strings.HasSuffix(host, ".qdrant.cloud")

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}

	return &Client{qdrant: client, log: log.With("component", "vectordb")}, nil
}

// parseHostPort accepts host, host:port and http(s) URLs; the port defaults
// to the gRPC port
func parseHostPort(raw string) (string, int) {
	s := strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	s = strings.TrimRight(s, "/")

	host, portStr, found := strings.Cut(s, ":")
	if !found {
		return s, defaultGRPCPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		port = defaultGRPCPort
	}
	return host, port
}

// Close closes the connection
func (c *Client) Close() error {
	if c.qdrant != nil {
		return c.qdrant.Close()
	}
	return nil
}

// Collection returns a handle bound to one collection
func (c *Client) Collection(name string) *Collection {
	return &Collection{client: c, name: name}
}
