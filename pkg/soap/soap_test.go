package soap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-sei/pkg/transport"
)

func TestEncodeRequest_ParameterOrderAndOmission(t *testing.T) {
	data, err := EncodeRequest("Sei", "atribuirProcesso", []Param{
		{Name: "SiglaSistema", Value: "InovaFiscaliza"},
		{Name: "IdentificacaoServico", Value: "chave"},
		{Name: "IdUnidade", Value: "110000965"},
		{Name: "ProtocoloProcedimento", Value: "53500.000124/2024-04"},
		{Name: "IdUsuario", Value: nil},
		{Name: "SinReabrir", Value: "S"},
	})
	require.NoError(t, err)

	doc := NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	call := doc.FindElement("//atribuirProcesso")
	require.NotNil(t, call)
	assert.Equal(t, "tns", call.Space)

	var names []string
	for _, c := range call.ChildElements() {
		names = append(names, c.Tag)
	}
	assert.Equal(t, []string{"SiglaSistema", "IdentificacaoServico", "IdUnidade", "ProtocoloProcedimento", "SinReabrir"}, names)
	assert.Equal(t, "53500.000124/2024-04", call.SelectElement("ProtocoloProcedimento").Text())
}

func TestEncodeRequest_ListsAndStructs(t *testing.T) {
	data, err := EncodeRequest("Sei", "registrarAnotacao", []Param{
		{Name: "UnidadesDestino", Value: []string{"110000965", "110001021"}},
		{Name: "Anotacoes", Value: []Struct{{
			{Name: "ProtocoloProcedimento", Value: "53500.000612/2024-11"},
			{Name: "Descricao", Value: "Teste & <anotação>"},
			{Name: "SinPrioridade", Value: nil},
		}}},
	})
	require.NoError(t, err)

	doc := NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	unidades := doc.FindElement("//UnidadesDestino")
	require.NotNil(t, unidades)
	assert.Equal(t, "xsd:string[2]", unidades.SelectAttrValue("SOAP-ENC:arrayType", ""))
	items := unidades.SelectElements("item")
	require.Len(t, items, 2)
	assert.Equal(t, "110001021", items[1].Text())

	anotacao := doc.FindElement("//Anotacoes/item")
	require.NotNil(t, anotacao)
	assert.Equal(t, "Teste & <anotação>", anotacao.SelectElement("Descricao").Text())
	assert.Nil(t, anotacao.SelectElement("SinPrioridade"))
}

func TestEncodeRequest_UnsupportedValue(t *testing.T) {
	_, err := EncodeRequest("Sei", "listarUnidades", []Param{{Name: "IdSerie", Value: 1.5}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedValue))
	assert.Contains(t, err.Error(), "IdSerie")
}

type anotacao struct{ texto string }

func (a anotacao) SOAPValue() any {
	return Struct{{Name: "Descricao", Value: a.texto}}
}

func TestEncodeRequest_Valuer(t *testing.T) {
	data, err := EncodeRequest("Sei", "registrarAnotacao", []Param{
		{Name: "Anotacoes", Value: []any{anotacao{texto: "primeira"}}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Descricao>primeira</Descricao>")
}

type registro map[string]any

func TestEncodeRequest_NamedMapsAndSlices(t *testing.T) {
	data, err := EncodeRequest("Sei", "incluirDocumento", []Param{
		{Name: "Documento", Value: registro{"Tipo": "G", "IdSerie": "11"}},
		{Name: "Interessados", Value: []registro{{"Sigla": "rsilva"}, {"Sigla": "mlima"}}},
	})
	require.NoError(t, err)

	doc := NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	documento := doc.FindElement("//Documento")
	require.NotNil(t, documento)
	assert.Equal(t, "11", documento.SelectElement("IdSerie").Text())

	interessados := doc.FindElement("//Interessados")
	require.NotNil(t, interessados)
	assert.Equal(t, "SOAP-ENC:Struct[2]", interessados.SelectAttrValue("SOAP-ENC:arrayType", ""))
	items := interessados.SelectElements("item")
	require.Len(t, items, 2)
	assert.Equal(t, "mlima", items[1].SelectElement("Sigla").Text())

	_, err = EncodeRequest("Sei", "incluirDocumento", []Param{{Name: "Mapa", Value: map[int]string{1: "a"}}})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

const listarUnidadesResponse = `<?xml version="1.0" encoding="UTF-8"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/" xmlns:ns1="Sei"
  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:SOAP-ENC="http://schemas.xmlsoap.org/soap/encoding/">
  <SOAP-ENV:Body>
    <ns1:listarUnidadesResponse>
      <parametros SOAP-ENC:arrayType="ns1:Unidade[2]" xsi:type="SOAP-ENC:Array">
        <item xsi:type="ns1:Unidade">
          <IdUnidade>110000965</IdUnidade>
          <Sigla>SFI</Sigla>
          <Descricao>Superintendência de Fiscalização</Descricao>
          <SinProtocolo>N</SinProtocolo>
          <SinArquivamento xsi:nil="true"/>
        </item>
        <item xsi:type="ns1:Unidade">
          <IdUnidade>110000973</IdUnidade>
          <Sigla>FISF</Sigla>
          <Descricao/>
        </item>
      </parametros>
    </ns1:listarUnidadesResponse>
  </SOAP-ENV:Body>
</SOAP-ENV:Envelope>`

func TestDecodeResponse_Array(t *testing.T) {
	got, err := DecodeResponse([]byte(listarUnidadesResponse))
	require.NoError(t, err)

	want := []any{
		map[string]any{
			"IdUnidade":       "110000965",
			"Sigla":           "SFI",
			"Descricao":       "Superintendência de Fiscalização",
			"SinProtocolo":    "N",
			"SinArquivamento": nil,
		},
		map[string]any{
			"IdUnidade": "110000973",
			"Sigla":     "FISF",
			"Descricao": "",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded payload mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeResponse_Scalar(t *testing.T) {
	data, err := EncodeResponse("Sei", "atribuirProcesso", "1")
	require.NoError(t, err)

	got, err := DecodeResponse(data)
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestDecodeResponse_NilAndEmptyArray(t *testing.T) {
	data, err := EncodeResponse("Sei", "listarCargos", nil)
	require.NoError(t, err)
	got, err := DecodeResponse(data)
	require.NoError(t, err)
	assert.Nil(t, got)

	data, err = EncodeResponse("Sei", "listarCargos", []any{})
	require.NoError(t, err)
	got, err = DecodeResponse(data)
	require.NoError(t, err)
	assert.Equal(t, []any{}, got)
}

func TestDecodeResponse_NestedStructure(t *testing.T) {
	data, err := EncodeResponse("Sei", "consultarProcedimento", map[string]any{
		"IdProcedimento":        "3130803",
		"ProcedimentoFormatado": "53500.000124/2024-04",
		"TipoProcedimento": map[string]any{
			"IdTipoProcedimento": "100000623",
			"Nome":               "Demanda Externa: Judiciário",
		},
		"Assuntos": []any{
			map[string]any{"CodigoEstruturado": "01.01", "Descricao": "Fiscalização"},
		},
	})
	require.NoError(t, err)

	got, err := DecodeResponse(data)
	require.NoError(t, err)

	m, ok := got.(map[string]any)
	require.True(t, ok, "expected map, got %T", got)
	assert.Equal(t, "3130803", m["IdProcedimento"])
	assert.Equal(t, "Demanda Externa: Judiciário", m["TipoProcedimento"].(map[string]any)["Nome"])
	assert.Len(t, m["Assuntos"], 1)
}

func TestDecodeResponse_RepeatedElements(t *testing.T) {
	body := `<Envelope><Body><r><ret><Nome>a</Nome><Nome>b</Nome><Nome>c</Nome></ret></r></Body></Envelope>`
	got, err := DecodeResponse([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Nome": []any{"a", "b", "c"}}, got)
}

func TestDecodeResponse_Latin1(t *testing.T) {
	// "Região" encoded as ISO-8859-1
	body := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?>`+
		`<Envelope><Body><listarPaisesResponse><parametros>Regi`), 0xe3, 'o')
	body = append(body, []byte(`</parametros></listarPaisesResponse></Body></Envelope>`)...)

	got, err := DecodeResponse(body)
	require.NoError(t, err)
	assert.Equal(t, "Região", got)
}

func TestDecodeResponse_Fault(t *testing.T) {
	_, err := DecodeResponse(EncodeFault("SOAP-ENV:Server", "Processo não encontrado."))
	require.Error(t, err)

	var fault *Fault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, "SOAP-ENV:Server", fault.Code)
	assert.Equal(t, "Processo não encontrado.", fault.String)
}

func TestDecodeResponse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not xml", "<<<"},
		{"no envelope", "<html><body/></html>"},
		{"no body", `<Envelope xmlns="http://schemas.xmlsoap.org/soap/envelope/"><Header/></Envelope>`},
		{"empty body", `<Envelope><Body></Body></Envelope>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeResponse([]byte(tt.body))
			assert.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestParseFault_SOAP12(t *testing.T) {
	body := `<env:Envelope xmlns:env="http://www.w3.org/2003/05/soap-envelope"><env:Body><env:Fault>
		<env:Code><env:Value>env:Receiver</env:Value></env:Code>
		<env:Reason><env:Text xml:lang="pt">Falha</env:Text></env:Reason>
	</env:Fault></env:Body></env:Envelope>`

	fault, ok := ParseFault([]byte(body))
	require.True(t, ok)
	assert.Equal(t, "env:Receiver", fault.Code)
	assert.Equal(t, "Falha", fault.String)
}

func TestClient_Call(t *testing.T) {
	var gotAction string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.Header.Get("SOAPAction")

		doc := NewDocument()
		_, err := doc.ReadFrom(r.Body)
		assert.NoError(t, err)
		assert.NotNil(t, doc.FindElement("//reabrirProcesso"))

		data, _ := EncodeResponse("Sei", "reabrirProcesso", "1")
		w.Write(data)
	}))
	defer server.Close()

	client := NewClient(server.URL, "Sei", transport.NewHTTPSClient(nil),
		WithSOAPActions(map[string]string{"reabrirProcesso": "SeiAction"}))

	got, err := client.Call(context.Background(), "reabrirProcesso", []Param{
		{Name: "ProtocoloProcedimento", Value: "53500.000124/2024-04"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	assert.Equal(t, `"SeiAction"`, gotAction)
	assert.Equal(t, server.URL, client.Endpoint())
}

func TestClient_Call_FaultOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(EncodeFault("SOAP-ENV:Server", "Unidade [999] não encontrada."))
	}))
	defer server.Close()

	client := NewClient(server.URL, "Sei", transport.NewHTTPSClient(nil))

	_, err := client.Call(context.Background(), "concluirProcesso", nil)

	var fault *Fault
	require.True(t, errors.As(err, &fault), "got %v", err)
	assert.True(t, strings.Contains(fault.String, "999"))
}

func TestClient_Call_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "Sei", transport.NewHTTPSClient(nil))

	_, err := client.Call(context.Background(), "concluirProcesso", nil)
	assert.True(t, errors.Is(err, transport.ErrTransport), "got %v", err)
}

func TestClient_DefaultSOAPAction(t *testing.T) {
	client := NewClient("http://localhost", "Sei", nil)
	assert.Equal(t, "Sei#listarUnidades", client.soapAction("listarUnidades"))
}
