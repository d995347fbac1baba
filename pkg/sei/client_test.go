package sei_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-sei/pkg/sei"
	"github.com/sirosfoundation/go-sei/pkg/sei/seitest"
	"github.com/sirosfoundation/go-sei/pkg/soap"
	"github.com/sirosfoundation/go-sei/pkg/wsdl"
)

type countingFetcher struct {
	n atomic.Int32
}

func (f *countingFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	f.n.Add(1)
	return nil, errors.New("unexpected fetch")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServerClient(t *testing.T, server *seitest.Server, cacheDir string) *sei.Client {
	t.Helper()
	client, err := sei.NewClient(context.Background(), sei.Config{
		Ambiente:     "homologação",
		SiglaSistema: "InovaFiscaliza",
		ChaveAPI:     "chave",
		SiglaUnidade: "FISF",
		WSDLLocation: server.URL + "?wsdl",
		CacheDir:     cacheDir,
	}, sei.WithLogger(quietLogger()))
	require.NoError(t, err)
	return client
}

func TestNewClient_InvalidAmbiente(t *testing.T) {
	fetcher := &countingFetcher{}

	_, err := sei.NewClient(context.Background(), sei.Config{
		Ambiente:     "invalid",
		SiglaSistema: "InovaFiscaliza",
		ChaveAPI:     "chave",
	}, sei.WithFetcher(fetcher))

	require.Error(t, err)
	assert.ErrorIs(t, err, sei.ErrInvalidAmbiente)
	assert.Contains(t, err.Error(), "invalid")
	assert.Equal(t, int32(0), fetcher.n.Load())
}

func TestNewClient_ConfigurationErrors(t *testing.T) {
	fetcher := &countingFetcher{}

	_, err := sei.NewClient(context.Background(), sei.Config{Ambiente: "producao", SiglaSistema: "InovaFiscaliza"}, sei.WithFetcher(fetcher))
	assert.ErrorIs(t, err, sei.ErrInvalidChaveAPI)

	_, err = sei.NewClient(context.Background(), sei.Config{Ambiente: "pd", ChaveAPI: "chave"}, sei.WithFetcher(fetcher))
	assert.ErrorIs(t, err, sei.ErrMissingSiglaSistema)

	assert.Equal(t, int32(0), fetcher.n.Load())
}

func TestNewClient_InvalidWSDL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wsdl")
	require.NoError(t, os.WriteFile(path, []byte("<html>not a contract</html>"), 0o644))

	_, err := sei.NewClient(context.Background(), sei.Config{
		Ambiente:     "homologacao",
		SiglaSistema: "InovaFiscaliza",
		ChaveAPI:     "chave",
		WSDLLocation: path,
	}, sei.WithLogger(quietLogger()))
	assert.ErrorIs(t, err, sei.ErrInvalidWSDL)
}

func TestClient_EndToEnd(t *testing.T) {
	server := seitest.NewServer()
	defer server.Close()
	server.Respond("reabrirProcesso", "1")

	cacheDir := t.TempDir()
	client := newServerClient(t, server, cacheDir)
	assert.Equal(t, wsdl.Homologacao, client.Ambiente())
	require.NotNil(t, client.Definitions())
	assert.True(t, client.Definitions().HasOperation("reabrirProcesso"))

	ok, err := client.ReabrirProcesso(context.Background(), "53500.000124/2024-04")
	require.NoError(t, err)
	assert.True(t, ok)

	calls := server.Calls("reabrirProcesso")
	require.Len(t, calls, 1)
	assert.Equal(t, `"SeiAction"`, calls[0].SOAPAction)
	assert.Equal(t, "InovaFiscaliza", calls[0].Params["SiglaSistema"])
	assert.Equal(t, "chave", calls[0].Params["IdentificacaoServico"])
	assert.Equal(t, "110000973", calls[0].Params["IdUnidade"])
	assert.Equal(t, "53500.000124/2024-04", calls[0].Params["ProtocoloProcedimento"])

	// the contract was cached and is reused by the next client
	_, err = os.Stat(filepath.Join(cacheDir, "seihm.wsdl"))
	require.NoError(t, err)
	newServerClient(t, server, cacheDir)
	assert.Equal(t, 1, server.WSDLFetches())
}

func TestClient_EndToEndDirectories(t *testing.T) {
	server := seitest.NewServer()
	defer server.Close()
	server.Respond("enviarProcesso", "1")

	client := newServerClient(t, server, "")
	ctx := context.Background()

	ok, err := client.EnviarProcesso(ctx, sei.EnvioProcesso{
		ProtocoloProcedimento: "53500.000124/2024-04",
		UnidadesDestino:       []string{"SFI", "FIGF"},
		SinReabrir:            sei.Sim,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	unidades, err := client.ListarUnidades(ctx)
	require.NoError(t, err)
	assert.Len(t, unidades, 3)
	assert.Len(t, server.Calls("listarUnidades"), 1)

	calls := server.Calls("enviarProcesso")
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"110000965", "110000966"}, calls[0].Params["UnidadesDestino"])
}

func TestClient_EndToEndFault(t *testing.T) {
	server := seitest.NewServer()
	defer server.Close()
	server.Fail("concluirProcesso", "Processo [53500.000124/2024-04] não encontrado.")

	client := newServerClient(t, server, "")

	ok, err := client.ConcluirProcesso(context.Background(), "53500.000124/2024-04")
	require.Error(t, err)
	assert.False(t, ok)

	var fault *soap.Fault
	require.True(t, errors.As(err, &fault), "got %v", err)
	assert.Contains(t, fault.String, "não encontrado")

	var callErr *sei.CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, "concluirProcesso", callErr.Operation)
}

func TestClient_EndToEndQuery(t *testing.T) {
	server := seitest.NewServer()
	defer server.Close()
	server.Handle("consultarProcedimento", func(params map[string]any) (any, error) {
		return map[string]any{
			"IdProcedimento":        "3130803",
			"ProcedimentoFormatado": params["ProtocoloProcedimento"],
			"Assuntos": []any{
				map[string]any{"CodigoEstruturado": "01.01", "Descricao": "Fiscalização"},
			},
		}, nil
	})

	client := newServerClient(t, server, "")

	r, err := client.ConsultarProcedimento(context.Background(), "53500.000124/2024-04", sei.ConsultaProcedimento{
		SinRetornarAssuntos: sei.Sim,
	})
	require.NoError(t, err)
	assert.Equal(t, "3130803", r.String("IdProcedimento"))
	assert.Equal(t, "53500.000124/2024-04", r.String("ProcedimentoFormatado"))
	assert.Len(t, r["Assuntos"], 1)

	calls := server.Calls("consultarProcedimento")
	require.Len(t, calls, 1)
	assert.Equal(t, "S", calls[0].Params["SinRetornarAssuntos"])
	assert.NotContains(t, calls[0].Params, "SinRetornarInteressados")
}
