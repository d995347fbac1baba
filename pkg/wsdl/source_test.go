package wsdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmbiente(t *testing.T) {
	tests := []struct {
		name string
		want Ambiente
	}{
		{"homologacao", Homologacao},
		{"Homologação", Homologacao},
		{"  HOMOLOGAÇÃO ", Homologacao},
		{"hm", Homologacao},
		{"producao", Producao},
		{"Produção", Producao},
		{"PD", Producao},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmbiente(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmbiente_Invalid(t *testing.T) {
	for _, name := range []string{"", "invalid", "teste", "homolog"} {
		_, err := ParseAmbiente(name)
		assert.ErrorIs(t, err, ErrInvalidAmbiente, name)
	}
}

func TestSourceFor(t *testing.T) {
	hm, err := SourceFor("Homologação")
	require.NoError(t, err)
	assert.Equal(t, Source{
		Ambiente:  Homologacao,
		Location:  "https://seihm.anatel.gov.br/sei/controlador_ws.php?servico=sei",
		CacheFile: "seihm.wsdl",
	}, hm)
	assert.True(t, hm.IsRemote())

	pd, err := SourceFor("pd")
	require.NoError(t, err)
	assert.Equal(t, "https://sei.anatel.gov.br/sei/controlador_ws.php?servico=sei", pd.Location)
	assert.Equal(t, "sei.wsdl", pd.CacheFile)

	_, err = SourceFor("qa")
	assert.ErrorIs(t, err, ErrInvalidAmbiente)
}

func TestSource_WithLocation(t *testing.T) {
	src, err := SourceFor("hm")
	require.NoError(t, err)

	assert.Equal(t, src, src.WithLocation(""))

	local := src.WithLocation("testdata/sei.wsdl")
	assert.Equal(t, "testdata/sei.wsdl", local.Location)
	assert.Equal(t, Homologacao, local.Ambiente)
	assert.False(t, local.IsRemote())
}
