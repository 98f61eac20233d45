package plugin

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrIntegrityMismatch marks a declared-hash verification failure. Unlike
// other load failures it is never downgraded to a warning.
var ErrIntegrityMismatch = errors.New("integrity mismatch")

// remoteFetchTimeout bounds a single fetch attempt, not the whole retry loop.
const remoteFetchTimeout = 30 * time.Second

// Fetcher downloads remote plugin definitions with retry and mandatory
// integrity verification when a hash is declared.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher using the given client, or a default client
// when nil.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: remoteFetchTimeout}
	}
	return &Fetcher{client: client}
}

// Fetch retrieves a plugin definition by URL. Transient HTTP failures are
// retried with exponential backoff. When integrity is non-empty it must match
// the sha256 of the fetched body before the definition is evaluated; a
// mismatch is an error, never a silent skip.
func (f *Fetcher) Fetch(ctx context.Context, url, integrity string) (*DefinitionPlugin, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d", url, resp.StatusCode))
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("fetch remote plugin: %w", err)
	}

	if integrity != "" {
		if err := verifyIntegrity(body, integrity); err != nil {
			return nil, fmt.Errorf("remote plugin %s: %w", url, err)
		}
	}

	return ParseDefinition(body)
}

// verifyIntegrity checks a declared sha256 digest, accepting both the bare hex
// form and the "sha256-<hex>" prefix form.
func verifyIntegrity(body []byte, integrity string) error {
	want := strings.TrimPrefix(integrity, "sha256-")
	sum := sha256.Sum256(body)
	got := hex.EncodeToString(sum[:])
	if !strings.EqualFold(got, want) {
		return fmt.Errorf("%w: declared sha256 %s, fetched content has %s", ErrIntegrityMismatch, want, got)
	}
	return nil
}
