package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingDoer records calls and serves canned responses.
type countingDoer struct {
	calls    int
	status   int
	body     string
	err      error
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return &http.Response{
		StatusCode: d.status,
		Body:       io.NopCloser(strings.NewReader(d.body)),
		Header:     make(http.Header),
	}, nil
}

func pageWithText(text string) string {
	return fmt.Sprintf("<html><body><article><p>%s</p></article></body></html>", text)
}

func newTestFetcher(doer *countingDoer) *Fetcher {
	return New(time.Second, time.Second,
		WithHTTPClient(doer),
		WithBlocklist([]string{"bloomberg.com", "wsj.com", "ft.com"}),
		WithMinChars(100),
	)
}

func TestFetchBlocklistedDomainMakesNoNetworkCall(t *testing.T) {
	doer := &countingDoer{status: http.StatusOK, body: pageWithText(strings.Repeat("a", 500))}
	f := newTestFetcher(doer)

	article, err := f.Fetch(context.Background(), "https://www.bloomberg.com/news/some-article")

	assert.Nil(t, article)
	assert.ErrorIs(t, err, ErrBlocklisted)
	assert.Equal(t, 0, doer.calls, "blocklisted fetch must not touch the network")
}

func TestFetchMinLengthBoundary(t *testing.T) {
	// 99 extracted characters: rejected.
	doer := &countingDoer{status: http.StatusOK, body: pageWithText(strings.Repeat("a", 99))}
	f := newTestFetcher(doer)

	article, err := f.Fetch(context.Background(), "https://example.com/short")
	assert.Nil(t, article)
	assert.ErrorIs(t, err, ErrTooShort)

	// Exactly 100: accepted. The boundary is inclusive.
	doer = &countingDoer{status: http.StatusOK, body: pageWithText(strings.Repeat("a", 100))}
	f = newTestFetcher(doer)

	article, err = f.Fetch(context.Background(), "https://example.com/exactly")
	require.NoError(t, err)
	require.NotNil(t, article)
	assert.Len(t, article.FullText, 100)
}

func TestFetchNonOKStatus(t *testing.T) {
	doer := &countingDoer{status: http.StatusForbidden, body: "denied"}
	f := newTestFetcher(doer)

	article, err := f.Fetch(context.Background(), "https://example.com/blocked")
	assert.Nil(t, article)
	assert.Error(t, err)
}

func TestFetchTransportError(t *testing.T) {
	doer := &countingDoer{err: errors.New("connection refused")}
	f := newTestFetcher(doer)

	article, err := f.Fetch(context.Background(), "https://example.com/down")
	assert.Nil(t, article)
	assert.Error(t, err)
}

func TestFetchEmptyExtraction(t *testing.T) {
	doer := &countingDoer{status: http.StatusOK, body: "<html><body><nav>menu</nav></body></html>"}
	f := newTestFetcher(doer)

	article, err := f.Fetch(context.Background(), "https://example.com/empty")
	assert.Nil(t, article)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestFetchSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotReferer string
	doer := &headerDoer{
		inner: &countingDoer{status: http.StatusOK, body: pageWithText(strings.Repeat("news text ", 30))},
		onReq: func(req *http.Request) {
			gotUA = req.Header.Get("User-Agent")
			gotReferer = req.Header.Get("Referer")
		},
	}
	f := New(time.Second, time.Second, WithHTTPClient(doer), WithMinChars(100))

	_, err := f.Fetch(context.Background(), "https://example.com/article")
	require.NoError(t, err)
	assert.Contains(t, gotUA, "Mozilla/5.0")
	assert.Equal(t, "https://www.google.com/", gotReferer)
}

type headerDoer struct {
	inner *countingDoer
	onReq func(*http.Request)
}

func (d *headerDoer) Do(req *http.Request) (*http.Response, error) {
	d.onReq(req)
	return d.inner.Do(req)
}

func TestExtractSkipsBoilerplate(t *testing.T) {
	html := `<html><body>
		<nav><p>home about contact something longer</p></nav>
		<article>
			<p>This is the first real paragraph of the article body text.</p>
			<p>Subscribe to our newsletter for more updates every day.</p>
			<p>This is the second real paragraph with more body text in it.</p>
			<p>This is the third real paragraph, closing out the story.</p>
		</article>
	</body></html>`

	_, text, err := extract(strings.NewReader(html))
	require.NoError(t, err)
	assert.Contains(t, text, "first real paragraph")
	assert.Contains(t, text, "third real paragraph")
	assert.NotContains(t, text, "newsletter")
	assert.NotContains(t, text, "home about contact")
}

func TestExtractTitle(t *testing.T) {
	html := `<html><head><title>Page Title</title></head><body>
		<h1>The Real Headline</h1>
		<article><p>Body paragraph long enough to be collected here.</p></article>
	</body></html>`

	title, _, err := extract(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, "The Real Headline", title)
}
