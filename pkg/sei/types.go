package sei

import (
	"fmt"

	"github.com/sirosfoundation/go-sei/pkg/soap"
)

// Params maps wire part names to values. Accepted values are string, int,
// []string, map[string]any, []map[string]any, []any, soap.Struct and types
// implementing soap.Valuer. Maps keyed by string and slices of them may be
// named types, so a Params or a Record can be nested. Nil values are not sent.
type Params map[string]any

// Record is a decoded SEI structure
type Record map[string]any

// String returns the field as a string, empty when absent or not a leaf
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Session identifies the calling system. It is fixed when the client is built.
type Session struct {
	SiglaSistema         string
	IdentificacaoServico string
	SiglaUnidade         string
}

// Unidade is an organizational unit
type Unidade struct {
	IdUnidade       string
	Sigla           string
	Descricao       string
	SinProtocolo    string
	SinArquivamento string
	SinOuvidoria    string
}

// Usuario is a user of a unit
type Usuario struct {
	IdUsuario string
	Sigla     string
	Nome      string
}

// Serie is a document type
type Serie struct {
	IdSerie        string
	Nome           string
	Aplicabilidade string
}

// Pais is a country
type Pais struct {
	IdPais string
	Nome   string
}

func unidadeFrom(r Record) Unidade {
	return Unidade{
		IdUnidade:       r.String("IdUnidade"),
		Sigla:           r.String("Sigla"),
		Descricao:       r.String("Descricao"),
		SinProtocolo:    r.String("SinProtocolo"),
		SinArquivamento: r.String("SinArquivamento"),
		SinOuvidoria:    r.String("SinOuvidoria"),
	}
}

func usuarioFrom(r Record) Usuario {
	return Usuario{IdUsuario: r.String("IdUsuario"), Sigla: r.String("Sigla"), Nome: r.String("Nome")}
}

func serieFrom(r Record) Serie {
	return Serie{IdSerie: r.String("IdSerie"), Nome: r.String("Nome"), Aplicabilidade: r.String("Aplicabilidade")}
}

func paisFrom(r Record) Pais {
	return Pais{IdPais: r.String("IdPais"), Nome: r.String("Nome")}
}

// Assunto is a classification subject of a process
type Assunto struct {
	CodigoEstruturado string
	Descricao         string
}

// SOAPValue implements soap.Valuer
func (a Assunto) SOAPValue() any {
	return soap.Struct{
		{Name: "CodigoEstruturado", Value: a.CodigoEstruturado},
		{Name: "Descricao", Value: optional(a.Descricao)},
	}
}

// Interessado is an interested party of a process or document
type Interessado struct {
	Sigla string
	Nome  string
}

// SOAPValue implements soap.Valuer
func (i Interessado) SOAPValue() any {
	return soap.Struct{
		{Name: "Sigla", Value: i.Sigla},
		{Name: "Nome", Value: i.Nome},
	}
}

// Procedimento describes a process to be created
type Procedimento struct {
	IdTipoProcedimento string
	NumeroProtocolo    string
	DataAutuacao       string
	Especificacao      string
	IdTipoPrioridade   string
	Assuntos           []Assunto
	Interessados       []Interessado
	Observacao         string
	// NivelAcesso is "0" (public, default), "1" (restricted) or "2" (secret)
	NivelAcesso     string
	IdHipoteseLegal string
}

// SOAPValue implements soap.Valuer
func (p Procedimento) SOAPValue() any {
	nivel := p.NivelAcesso
	if nivel == "" {
		nivel = NivelAcessoPublico
	}
	return soap.Struct{
		{Name: "IdTipoProcedimento", Value: p.IdTipoProcedimento},
		{Name: "NumeroProtocolo", Value: optional(p.NumeroProtocolo)},
		{Name: "DataAutuacao", Value: optional(p.DataAutuacao)},
		{Name: "Especificacao", Value: p.Especificacao},
		{Name: "IdTipoPrioridade", Value: optional(p.IdTipoPrioridade)},
		{Name: "Assuntos", Value: valuers(p.Assuntos)},
		{Name: "Interessados", Value: valuers(p.Interessados)},
		{Name: "Observacao", Value: optional(p.Observacao)},
		{Name: "NivelAcesso", Value: nivel},
		{Name: "IdHipoteseLegal", Value: optional(p.IdHipoteseLegal)},
	}
}

func (p Procedimento) validate() error {
	if p.IdTipoProcedimento == "" {
		return invalid(ErrMissingParameter, "IdTipoProcedimento", "")
	}
	return ValidarNivelAcessoProcedimento("NivelAcesso", p.NivelAcesso)
}

// Document kinds
const (
	DocumentoGerado   = "G"
	DocumentoRecebido = "R"
)

// Documento is a document to be included in a process.
//
// A generated document (Tipo "G") carries HTML content; a received document
// (Tipo "R") carries the base64 content of an external file and its NomeArquivo.
type Documento struct {
	Tipo string
	// IdProcedimento or ProtocoloProcedimento locate the target process.
	// Both are left empty when the process is created in the same call.
	IdProcedimento        string
	ProtocoloProcedimento string
	IdSerie               string
	// Serie is the document type name, resolved to IdSerie when IdSerie is empty
	Serie             string
	Numero            string
	NomeArvore        string
	Data              string
	Descricao         string
	IdTipoConferencia string
	Interessados      []Interessado
	Observacao        string
	NomeArquivo       string
	NivelAcesso       string
	IdHipoteseLegal   string
	// Conteudo is base64 encoded
	Conteudo     string
	SinBloqueado string
}

// SOAPValue implements soap.Valuer
func (d Documento) SOAPValue() any {
	return soap.Struct{
		{Name: "Tipo", Value: d.Tipo},
		{Name: "IdProcedimento", Value: optional(d.IdProcedimento)},
		{Name: "ProtocoloProcedimento", Value: optional(d.ProtocoloProcedimento)},
		{Name: "IdSerie", Value: d.IdSerie},
		{Name: "Numero", Value: optional(d.Numero)},
		{Name: "NomeArvore", Value: optional(d.NomeArvore)},
		{Name: "Data", Value: optional(d.Data)},
		{Name: "Descricao", Value: optional(d.Descricao)},
		{Name: "IdTipoConferencia", Value: optional(d.IdTipoConferencia)},
		{Name: "Interessados", Value: valuers(d.Interessados)},
		{Name: "Observacao", Value: optional(d.Observacao)},
		{Name: "NomeArquivo", Value: optional(d.NomeArquivo)},
		{Name: "NivelAcesso", Value: optional(d.NivelAcesso)},
		{Name: "IdHipoteseLegal", Value: optional(d.IdHipoteseLegal)},
		{Name: "Conteudo", Value: optional(d.Conteudo)},
		{Name: "SinBloqueado", Value: optional(d.SinBloqueado)},
	}
}

func (d Documento) validate() error {
	if err := ValidarTipoDocumento("Tipo", d.Tipo); err != nil {
		return err
	}
	if d.IdSerie == "" && d.Serie == "" {
		return invalid(ErrMissingParameter, "IdSerie", "")
	}
	if d.NivelAcesso != "" {
		if err := ValidarNivelAcessoProcedimento("NivelAcesso", d.NivelAcesso); err != nil {
			return err
		}
	}
	return ValidarSinalizadorOpcional("SinBloqueado", d.SinBloqueado)
}

// Anotacao is a note attached to a process in the session unit
type Anotacao struct {
	ProtocoloProcedimento string
	Descricao             string
	SinPrioridade         string
}

// SOAPValue implements soap.Valuer
func (a Anotacao) SOAPValue() any {
	return soap.Struct{
		{Name: "ProtocoloProcedimento", Value: a.ProtocoloProcedimento},
		{Name: "Descricao", Value: a.Descricao},
		{Name: "SinPrioridade", Value: optional(a.SinPrioridade)},
	}
}

// DefinicaoMarcador sets the marker of a process
type DefinicaoMarcador struct {
	ProtocoloProcedimento string
	IdMarcador            string
	Texto                 string
}

// SOAPValue implements soap.Valuer
func (d DefinicaoMarcador) SOAPValue() any {
	return soap.Struct{
		{Name: "ProtocoloProcedimento", Value: d.ProtocoloProcedimento},
		{Name: "IdMarcador", Value: d.IdMarcador},
		{Name: "Texto", Value: optional(d.Texto)},
	}
}

// AtributoAndamento is a named value of a progress entry
type AtributoAndamento struct {
	Nome     string
	Valor    string
	IdOrigem string
}

// SOAPValue implements soap.Valuer
func (a AtributoAndamento) SOAPValue() any {
	return soap.Struct{
		{Name: "Nome", Value: a.Nome},
		{Name: "Valor", Value: a.Valor},
		{Name: "IdOrigem", Value: optional(a.IdOrigem)},
	}
}

// optional maps the empty string to an omitted element
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optionalList(l []string) any {
	if len(l) == 0 {
		return nil
	}
	return l
}

func valuers[T soap.Valuer](items []T) any {
	if len(items) == 0 {
		return nil
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// asRecord converts a decoded payload to a Record
func asRecord(op Operation, v any) (Record, error) {
	switch m := v.(type) {
	case map[string]any:
		return Record(m), nil
	case nil:
		return nil, fmt.Errorf("%w: %s returned no data", ErrUnexpectedResponse, op)
	default:
		return nil, fmt.Errorf("%w: %s returned %T", ErrUnexpectedResponse, op, v)
	}
}

// asRecords converts a decoded list payload. A single structure is
// accepted as a one element list and nil as an empty one.
func asRecords(op Operation, v any) ([]Record, error) {
	switch l := v.(type) {
	case nil:
		return []Record{}, nil
	case map[string]any:
		return []Record{Record(l)}, nil
	case []any:
		out := make([]Record, 0, len(l))
		for i, item := range l {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s item %d is %T", ErrUnexpectedResponse, op, i, item)
			}
			out = append(out, Record(m))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s returned %T", ErrUnexpectedResponse, op, v)
	}
}
