package pagedata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

var ErrUpstream = errors.New("page data upstream error")

// HTTPSource fetches the page's global data from the host-side bridge endpoint.
type HTTPSource struct {
	url    string
	client *client.Client
}

func NewHTTPSource(url string, timeout time.Duration) (*HTTPSource, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c, err := client.NewClient(client.WithDialTimeout(timeout), client.WithClientReadTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("page data client: %w", err)
	}
	return &HTTPSource{url: url, client: c}, nil
}

func (s *HTTPSource) PageData(ctx context.Context) ([]byte, error) {
	status, body, err := s.client.Get(ctx, nil, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch page data: %w", err)
	}
	if status != consts.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, status)
	}
	return body, nil
}

// FileSource re-reads a JSON snapshot on every call so external writers can replace it.
type FileSource struct {
	Path string
}

func (s FileSource) PageData(_ context.Context) ([]byte, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read page data: %w", err)
	}
	return b, nil
}

type StaticSource struct {
	Data []byte
}

func (s StaticSource) PageData(_ context.Context) ([]byte, error) {
	return s.Data, nil
}
