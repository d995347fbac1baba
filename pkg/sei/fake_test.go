package sei

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-sei/pkg/soap"
)

type fakeCall struct {
	op     string
	names  []string
	params map[string]any
}

// fakeCaller records calls and answers from fixed results
type fakeCaller struct {
	mu      sync.Mutex
	calls   []fakeCall
	results map[string]any
	errs    map[string]error
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		results: map[string]any{
			"listarUnidades": []any{
				map[string]any{"IdUnidade": "110000965", "Sigla": "SFI", "Descricao": "Superintendência de Fiscalização"},
				map[string]any{"IdUnidade": "110000973", "Sigla": "FISF", "Descricao": "Gerência de Fiscalização"},
				map[string]any{"IdUnidade": "110000966", "Sigla": "FIGF"},
			},
			"listarUsuarios": []any{
				map[string]any{"IdUsuario": "100001310", "Sigla": "rsilva", "Nome": "Ronaldo da Silva"},
			},
			"listarSeries": []any{
				map[string]any{"IdSerie": "11", "Nome": "Ofício"},
			},
			"listarPaises": []any{
				map[string]any{"IdPais": "76", "Nome": "Brasil"},
			},
		},
		errs: make(map[string]error),
	}
}

func (f *fakeCaller) Call(_ context.Context, operation string, params []soap.Param) (any, error) {
	call := fakeCall{op: operation, params: make(map[string]any)}
	for _, p := range params {
		call.names = append(call.names, p.Name)
		call.params[p.Name] = p.Value
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if err, ok := f.errs[operation]; ok {
		return nil, err
	}
	return f.results[operation], nil
}

func (f *fakeCaller) set(op string, result any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[op] = result
}

func (f *fakeCaller) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

func (f *fakeCaller) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (f *fakeCaller) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCaller) last(t *testing.T, op string) fakeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].op == op {
			return f.calls[i]
		}
	}
	t.Fatalf("no call to %s", op)
	return fakeCall{}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return Config{
		Ambiente:     "homologacao",
		SiglaSistema: "InovaFiscaliza",
		ChaveAPI:     "chave-secreta",
		SiglaUnidade: "FISF",
	}
}

func newTestClient(t *testing.T, f *fakeCaller, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithCaller(f), WithLogger(discardLogger())}, opts...)
	c, err := NewClient(context.Background(), testConfig(), opts...)
	require.NoError(t, err)
	return c
}
