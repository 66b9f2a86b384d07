package overlay

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greenSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="10" height="10" fill="#00ff00"/></svg>`

func TestIdentityIsRemote(t *testing.T) {
	assert.False(t, Identity("😁").IsRemote())
	assert.True(t, Identity(LegacyGrinURL).IsRemote())
	assert.True(t, Identity("http://localhost/a.png").IsRemote())
	assert.Equal(t, "😁", Identity("😁").String())
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.Len(t, opts, 8)
	assert.Equal(t, Identity("😁"), opts[0].Value)
	assert.True(t, opts[len(opts)-1].Value.IsRemote())

	o, ok := FindByLabel(opts, "😡")
	require.True(t, ok)
	assert.Equal(t, Identity("😡"), o.Value)
	_, ok = FindByLabel(opts, "nope")
	assert.False(t, ok)

	assert.Equal(t, "😁", Labels(opts)[0])
}

func newTestFetcher() *Fetcher {
	f := NewFetcher(5*time.Second, 1<<20, nil)
	f.SVGEdge = 32
	return f
}

func TestFetchPNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	img, err := newTestFetcher().Fetch(context.Background(), Identity(srv.URL+"/x.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())
}

func TestFetchSVG(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// served without a content type; the suffix decides
		w.Write([]byte(greenSVG))
	}))
	defer srv.Close()

	img, err := newTestFetcher().Fetch(context.Background(), Identity(srv.URL+"/1f601.svg"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
	r, g, _, a := img.At(16, 16).RGBA()
	assert.Less(t, r, uint32(0x2000))
	assert.Greater(t, g, uint32(0xc000))
	assert.Greater(t, a, uint32(0xc000))
}

func TestFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/missing.png"):
			http.NotFound(w, r)
		case strings.HasSuffix(r.URL.Path, "/big.png"):
			w.Write(bytes.Repeat([]byte{0}, 2<<20))
		default:
			w.Write([]byte("garbage"))
		}
	}))
	defer srv.Close()

	f := newTestFetcher()
	for _, path := range []string{"/missing.png", "/big.png", "/garbage.png"} {
		_, err := f.Fetch(context.Background(), Identity(srv.URL+path))
		assert.True(t, errors.Is(err, ErrFetch), "%s: %v", path, err)
	}

	_, err := f.Fetch(context.Background(), Identity("😁"))
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestFetcher().Fetch(ctx, Identity(srv.URL+"/slow.png"))
	assert.ErrorIs(t, err, ErrFetch)
}
