package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pierrec/lz4"

	"github.com/aldo-g/earliest-elephant/storage"
)

// Fetcher retrieves the raw bytes behind a dataset or image reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// DefaultFetcher reads http(s) URLs over the network and everything else through storage.
// References ending in ".lz4" are decompressed transparently.
type DefaultFetcher struct {
	Client *http.Client
}

// NewFetcher returns a fetcher with a bounded HTTP client.
func NewFetcher() *DefaultFetcher {
	return &DefaultFetcher{Client: &http.Client{Timeout: 30 * time.Second}}
}

func (f *DefaultFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if isRemote(ref) {
		data, err = f.fetchHTTP(ctx, ref)
	} else {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err = storage.ReadFile(ref)
	}
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(ref), ".lz4") {
		return Decompress(data)
	}
	return data, nil
}

func (f *DefaultFetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Compress wraps data in an LZ4 frame.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := lz4.NewWriter(&buf)

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress reads a whole LZ4 frame.
func Decompress(data []byte) ([]byte, error) {
	reader := lz4.NewReader(bytes.NewReader(data))

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	return buf.Bytes(), nil
}
