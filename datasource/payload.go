package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sgostarter/i/commerr"
)

// Fetcher returns the raw payload behind an expanded URI.
type Fetcher func(ctx context.Context, uri string) ([]byte, error)

// FileFetcher reads payloads from files below root. An empty root takes the URI as a plain path.
func FileFetcher(root string) Fetcher {
	return func(ctx context.Context, uri string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := uri
		if root != "" {
			path = filepath.Join(root, filepath.Clean("/"+uri))
		}

		return os.ReadFile(path)
	}
}

// HTTPFetcher GETs payloads; a nil client means http.DefaultClient.
func HTTPFetcher(client *http.Client) Fetcher {
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context, uri string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}

		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: %s", uri, resp.Status)
		}

		return io.ReadAll(resp.Body)
	}
}

type payloadSourceImpl struct {
	uriTemplate string
	dataType    DataType
	fetcher     Fetcher
}

// NewPayloadSource loads a range by expanding uriTemplate (see ExpandURI), fetching the payload and
// decoding it as dataType. Values outside the requested range are dropped.
func NewPayloadSource(uriTemplate string, dataType DataType, fetcher Fetcher) (Source, error) {
	if strings.TrimSpace(uriTemplate) == "" || fetcher == nil {
		return nil, commerr.ErrInvalidArgument
	}

	if _, err := ParseDataType(string(dataType)); err != nil {
		return nil, err
	}

	return &payloadSourceImpl{
		uriTemplate: uriTemplate,
		dataType:    dataType,
		fetcher:     fetcher,
	}, nil
}

func (impl *payloadSourceImpl) Load(ctx context.Context, start, end time.Time) (map[int64]float64, error) {
	raw, err := impl.fetcher(ctx, ExpandURI(impl.uriTemplate, start, end))
	if err != nil {
		return nil, err
	}

	decoded, err := Decode(impl.dataType, raw)
	if err != nil {
		return nil, err
	}

	values := make(map[int64]float64, len(decoded))

	for ts, v := range decoded {
		if InRange(ts, start, end) {
			values[ts] = v
		}
	}

	return values, nil
}
