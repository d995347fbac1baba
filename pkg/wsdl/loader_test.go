package wsdl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	data  []byte
	err   error
	calls []string
}

func (f *stubFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	return f.data, f.err
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoader_LocalFile(t *testing.T) {
	fetcher := &stubFetcher{}
	l := &Loader{CacheDir: t.TempDir(), Fetcher: fetcher, Logger: quiet()}

	src, err := SourceFor("hm")
	require.NoError(t, err)

	defs, err := l.Load(context.Background(), src.WithLocation("testdata/sei.wsdl"))
	require.NoError(t, err)
	assert.True(t, defs.HasOperation("listarUnidades"))
	assert.Empty(t, fetcher.calls)
}

func TestLoader_LocalFileMissing(t *testing.T) {
	l := &Loader{Logger: quiet()}
	src, err := SourceFor("hm")
	require.NoError(t, err)

	_, err = l.Load(context.Background(), src.WithLocation(filepath.Join(t.TempDir(), "absent.wsdl")))
	assert.ErrorIs(t, err, ErrInvalidWSDL)
}

func TestLoader_DownloadsAndCaches(t *testing.T) {
	data, err := os.ReadFile("testdata/sei.wsdl")
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "cache")
	fetcher := &stubFetcher{data: data}
	l := &Loader{CacheDir: dir, Fetcher: fetcher, Logger: quiet()}

	src, err := SourceFor("homologação")
	require.NoError(t, err)

	defs, err := l.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "https://seihm.anatel.gov.br/sei/ws/SeiWS.php", defs.Endpoint)
	assert.Equal(t, []string{src.Location}, fetcher.calls)

	cached, err := os.ReadFile(filepath.Join(dir, "seihm.wsdl"))
	require.NoError(t, err)
	assert.Equal(t, data, cached)

	// second load is served from the cache
	_, err = l.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, fetcher.calls, 1)
}

func TestLoader_NoCacheDir(t *testing.T) {
	data, err := os.ReadFile("testdata/sei.wsdl")
	require.NoError(t, err)

	fetcher := &stubFetcher{data: data}
	l := &Loader{Fetcher: fetcher, Logger: quiet()}
	src, err := SourceFor("pd")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = l.Load(context.Background(), src)
		require.NoError(t, err)
	}
	assert.Len(t, fetcher.calls, 2)
}

func TestLoader_InvalidDownloadNotCached(t *testing.T) {
	dir := t.TempDir()
	fetcher := &stubFetcher{data: []byte("<html>manutenção</html>")}
	l := &Loader{CacheDir: dir, Fetcher: fetcher, Logger: quiet()}
	src, err := SourceFor("pd")
	require.NoError(t, err)

	_, err = l.Load(context.Background(), src)
	assert.ErrorIs(t, err, ErrInvalidWSDL)

	_, err = os.Stat(filepath.Join(dir, "sei.wsdl"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoader_FetchError(t *testing.T) {
	cause := errors.New("connection refused")
	l := &Loader{Fetcher: &stubFetcher{err: cause}, Logger: quiet()}
	src, err := SourceFor("pd")
	require.NoError(t, err)

	_, err = l.Load(context.Background(), src)
	assert.ErrorIs(t, err, ErrInvalidWSDL)
	assert.ErrorIs(t, err, cause)
}

func TestLoader_NoFetcher(t *testing.T) {
	l := &Loader{Logger: quiet()}
	src, err := SourceFor("pd")
	require.NoError(t, err)

	_, err = l.Load(context.Background(), src)
	assert.ErrorIs(t, err, ErrInvalidWSDL)
}
