package openapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/api-typegen/pkg/config"
	"github.com/blimu-dev/api-typegen/pkg/document"
)

// DefaultTimeout bounds the retrieval of a remote document.
const DefaultTimeout = 30 * time.Second

// LoadDocument loads an API description from a local file path or an HTTP(S) URL
func LoadDocument(ctx context.Context, input string) (*document.Document, error) {
	return LoadDocumentWithClient(ctx, &http.Client{Timeout: DefaultTimeout}, input)
}

// LoadDocumentWithClient loads an API description, fetching remote inputs with client
func LoadDocumentWithClient(ctx context.Context, client *http.Client, input string) (*document.Document, error) {
	data, err := Read(ctx, client, input)
	if err != nil {
		return nil, err
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", input, err)
	}
	return doc, nil
}

// Read returns the raw bytes of input.
func Read(ctx context.Context, client *http.Client, input string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	location := &url.URL{Path: input}
	if config.IsURL(input) {
		u, err := url.Parse(input)
		if err != nil {
			return nil, err
		}
		location = u
	}

	withContext := *client
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	withContext.Transport = contextTransport{ctx: ctx, base: base}

	loader := openapi3.NewLoader()
	loader.ReadFromURIFunc = openapi3.ReadFromURIs(openapi3.ReadFromHTTP(&withContext), openapi3.ReadFromFile)

	data, err := loader.ReadFromURIFunc(loader, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", input, err)
	}
	return data, nil
}

// contextTransport binds outgoing requests to a context.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}
