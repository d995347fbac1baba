package sei

import (
	"context"
	"strconv"
)

// ListarUnidades returns every unit keyed by acronym. The listing is
// fetched once per client; see Refresh.
func (c *Client) ListarUnidades(ctx context.Context) (map[string]Unidade, error) {
	return listDirectory(ctx, c, DirUnidades, unidadeFrom)
}

// ListarUsuarios returns the users of the session unit keyed by login
func (c *Client) ListarUsuarios(ctx context.Context) (map[string]Usuario, error) {
	return listDirectory(ctx, c, DirUsuarios, usuarioFrom)
}

// ListarSeries returns the document types of the session unit keyed by name
func (c *Client) ListarSeries(ctx context.Context) (map[string]Serie, error) {
	return listDirectory(ctx, c, DirSeries, serieFrom)
}

// ListarPaises returns the countries keyed by name
func (c *Client) ListarPaises(ctx context.Context) (map[string]Pais, error) {
	return listDirectory(ctx, c, DirPaises, paisFrom)
}

func listDirectory[T any](ctx context.Context, c *Client, dir Directory, conv func(Record) T) (map[string]T, error) {
	t, err := c.table(ctx, dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]T, len(t))
	for key, r := range t {
		out[key] = conv(r)
	}
	return out, nil
}

// ListarEstados returns the states of a country given by name.
// An empty name lists every state.
func (c *Client) ListarEstados(ctx context.Context, pais string) ([]Record, error) {
	idPais, err := c.optionalPais(ctx, pais)
	if err != nil {
		return nil, err
	}
	return c.list(ctx, OpListarEstados, Params{"IdPais": idPais})
}

// ListarCidades returns the cities of a country and, optionally, of a state
func (c *Client) ListarCidades(ctx context.Context, pais, idEstado string) ([]Record, error) {
	idPais, err := c.optionalPais(ctx, pais)
	if err != nil {
		return nil, err
	}
	return c.list(ctx, OpListarCidades, Params{"IdPais": idPais, "IdEstado": idEstado})
}

func (c *Client) optionalPais(ctx context.Context, pais string) (string, error) {
	if pais == "" {
		return "", nil
	}
	return c.ResolverPais(ctx, pais)
}

// ListarCargos returns the job titles, or only idCargo when given
func (c *Client) ListarCargos(ctx context.Context, idCargo string) ([]Record, error) {
	return c.list(ctx, OpListarCargos, Params{"IdCargo": idCargo})
}

// ListarTiposProcedimento returns the process types available to the session
// unit, optionally restricted to a document type name
func (c *Client) ListarTiposProcedimento(ctx context.Context, serie, sinIndividual string) ([]Record, error) {
	if err := ValidarSinalizadorOpcional("SinIndividual", sinIndividual); err != nil {
		return nil, err
	}
	var idSerie string
	if serie != "" {
		id, err := c.ResolverSerie(ctx, serie)
		if err != nil {
			return nil, err
		}
		idSerie = id
	}
	return c.list(ctx, OpListarTiposProcedimento, Params{
		"IdSerie":       idSerie,
		"SinIndividual": optional(sinIndividual),
	})
}

// ListarHipotesesLegais returns the legal grounds for restricted ("1") or
// secret ("2") access. Empty lists both.
func (c *Client) ListarHipotesesLegais(ctx context.Context, nivelAcesso string) ([]Record, error) {
	if nivelAcesso != "" {
		if err := ValidarNivelAcesso("NivelAcesso", nivelAcesso); err != nil {
			return nil, err
		}
	}
	return c.list(ctx, OpListarHipotesesLegais, Params{"NivelAcesso": nivelAcesso})
}

// ListarExtensoesPermitidas returns the file extensions accepted for upload
func (c *Client) ListarExtensoesPermitidas(ctx context.Context, idArquivoExtensao string) ([]Record, error) {
	return c.list(ctx, OpListarExtensoesPermitidas, Params{"IdArquivoExtensao": idArquivoExtensao})
}

// ListarTiposPrioridade returns the process priority types
func (c *Client) ListarTiposPrioridade(ctx context.Context) ([]Record, error) {
	return c.list(ctx, OpListarTiposPrioridade, nil)
}

// ListarTiposConferencia returns the document conference types
func (c *Client) ListarTiposConferencia(ctx context.Context) ([]Record, error) {
	return c.list(ctx, OpListarTiposConferencia, nil)
}

// ListarMarcadoresUnidade returns the markers of the session unit
func (c *Client) ListarMarcadoresUnidade(ctx context.Context) ([]Record, error) {
	return c.list(ctx, OpListarMarcadoresUnidade, nil)
}

// FiltroContatos filters ListarContatos. Zero values mean no filter.
type FiltroContatos struct {
	IdTipoContato   string
	PaginaRegistros int
	PaginaAtual     int
	Sigla           string
	Nome            string
	Cpf             string
	Cnpj            string
	Matricula       string
}

// ListarContatos returns one page of contacts
func (c *Client) ListarContatos(ctx context.Context, f FiltroContatos) ([]Record, error) {
	if f.PaginaRegistros < 0 {
		return nil, invalid(ErrValidation, "PaginaRegistros", strconv.Itoa(f.PaginaRegistros))
	}
	if f.PaginaAtual < 0 {
		return nil, invalid(ErrValidation, "PaginaAtual", strconv.Itoa(f.PaginaAtual))
	}
	params := Params{
		"IdTipoContato": f.IdTipoContato,
		"Sigla":         f.Sigla,
		"Nome":          f.Nome,
		"Cpf":           f.Cpf,
		"Cnpj":          f.Cnpj,
		"Matricula":     f.Matricula,
	}
	if f.PaginaRegistros > 0 {
		params["PaginaRegistros"] = f.PaginaRegistros
	}
	if f.PaginaAtual > 0 {
		params["PaginaAtual"] = f.PaginaAtual
	}
	return c.list(ctx, OpListarContatos, params)
}

func (c *Client) list(ctx context.Context, op Operation, params Params) ([]Record, error) {
	result, err := c.Invoke(ctx, op, params)
	if err != nil {
		return nil, err
	}
	return asRecords(op, result)
}
