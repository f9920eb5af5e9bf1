package format

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var httpClient = &http.Client{
	Timeout: 15 * time.Second,
}

const maxFetchSize = 8 << 20

// ReadInput reads a QR payload from a file path, "-" for stdin, or the raw string.
//
// Unlike Load, URLs are not fetched: a Turkish verification URL is itself a
// valid payload.
func ReadInput(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "-" || input == "" {
		stat, err := os.Stdin.Stat()
		if err != nil {
			return "", fmt.Errorf("cannot read stdin: %w", err)
		}
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", fmt.Errorf("no input provided (use a file path, raw string, --image, or pipe to stdin)")
		}
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	if !strings.Contains(input, "://") {
		if st, err := os.Stat(input); err == nil && !st.IsDir() {
			b, err := os.ReadFile(input)
			if err != nil {
				return "", fmt.Errorf("reading file %s: %w", input, err)
			}
			return strings.TrimSpace(string(b)), nil
		}
	}

	return input, nil
}

// Load reads bytes from an http(s) URL or a local file path.
func Load(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "https://") || strings.HasPrefix(source, "http://") {
		return fetchURL(ctx, source)
	}
	b, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", source, err)
	}
	return b, nil
}

func fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	return b, nil
}
