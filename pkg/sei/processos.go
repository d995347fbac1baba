package sei

import (
	"context"
	"strings"
)

// AtribuirProcesso assigns a process to a user of the session unit.
// sinReabrir "S" reopens the process if it is closed in the unit.
func (c *Client) AtribuirProcesso(ctx context.Context, protocolo, siglaUsuario, sinReabrir string) (bool, error) {
	if err := required("ProtocoloProcedimento", protocolo); err != nil {
		return false, err
	}
	if err := ValidarSinalizador("SinReabrir", sinReabrir); err != nil {
		return false, err
	}
	idUsuario, err := c.ResolverUsuario(ctx, siglaUsuario)
	if err != nil {
		return false, err
	}

	return c.mutate(ctx, OpAtribuirProcesso, Params{
		"ProtocoloProcedimento": protocolo,
		"IdUsuario":             idUsuario,
		"SinReabrir":            sinReabrir,
	})
}

// EnvioProcesso describes the sending of a process to other units
type EnvioProcesso struct {
	ProtocoloProcedimento string
	// UnidadesDestino holds unit acronyms. They are sent in one request.
	UnidadesDestino               []string
	SinManterAbertoUnidade        string
	SinRemoverAnotacao            string
	SinEnviarEmailNotificacao     string
	DataRetornoProgramado         string
	DiasRetornoProgramado         string
	SinDiasUteisRetornoProgramado string
	SinReabrir                    string
}

// EnviarProcesso sends a process to the destination units
func (c *Client) EnviarProcesso(ctx context.Context, e EnvioProcesso) (bool, error) {
	if err := required("ProtocoloProcedimento", e.ProtocoloProcedimento); err != nil {
		return false, err
	}
	if len(e.UnidadesDestino) == 0 {
		return false, invalid(ErrMissingParameter, "UnidadesDestino", "")
	}
	if err := flags(map[string]string{
		"SinManterAbertoUnidade":        e.SinManterAbertoUnidade,
		"SinRemoverAnotacao":            e.SinRemoverAnotacao,
		"SinEnviarEmailNotificacao":     e.SinEnviarEmailNotificacao,
		"SinDiasUteisRetornoProgramado": e.SinDiasUteisRetornoProgramado,
		"SinReabrir":                    e.SinReabrir,
	}); err != nil {
		return false, err
	}
	unidades, err := c.resolveUnidades(ctx, e.UnidadesDestino)
	if err != nil {
		return false, err
	}

	return c.mutate(ctx, OpEnviarProcesso, Params{
		"ProtocoloProcedimento":         e.ProtocoloProcedimento,
		"UnidadesDestino":               unidades,
		"SinManterAbertoUnidade":        optional(e.SinManterAbertoUnidade),
		"SinRemoverAnotacao":            optional(e.SinRemoverAnotacao),
		"SinEnviarEmailNotificacao":     optional(e.SinEnviarEmailNotificacao),
		"DataRetornoProgramado":         optional(e.DataRetornoProgramado),
		"DiasRetornoProgramado":         optional(e.DiasRetornoProgramado),
		"SinDiasUteisRetornoProgramado": optional(e.SinDiasUteisRetornoProgramado),
		"SinReabrir":                    optional(e.SinReabrir),
	})
}

// ConcluirProcesso closes a process in the session unit
func (c *Client) ConcluirProcesso(ctx context.Context, protocolo string) (bool, error) {
	return c.processo(ctx, OpConcluirProcesso, protocolo)
}

// ReabrirProcesso reopens a process in the session unit
func (c *Client) ReabrirProcesso(ctx context.Context, protocolo string) (bool, error) {
	return c.processo(ctx, OpReabrirProcesso, protocolo)
}

// BloquearProcesso blocks a process
func (c *Client) BloquearProcesso(ctx context.Context, protocolo string) (bool, error) {
	return c.processo(ctx, OpBloquearProcesso, protocolo)
}

// DesbloquearProcesso unblocks a process
func (c *Client) DesbloquearProcesso(ctx context.Context, protocolo string) (bool, error) {
	return c.processo(ctx, OpDesbloquearProcesso, protocolo)
}

// RemoverSobrestamentoProcesso lifts the suspension of a process
func (c *Client) RemoverSobrestamentoProcesso(ctx context.Context, protocolo string) (bool, error) {
	return c.processo(ctx, OpRemoverSobrestamentoProcesso, protocolo)
}

func (c *Client) processo(ctx context.Context, op Operation, protocolo string) (bool, error) {
	if err := required("ProtocoloProcedimento", protocolo); err != nil {
		return false, err
	}
	return c.mutate(ctx, op, Params{"ProtocoloProcedimento": protocolo})
}

// AnexarProcesso attaches anexado to principal
func (c *Client) AnexarProcesso(ctx context.Context, principal, anexado string) (bool, error) {
	if err := required("ProtocoloProcedimentoPrincipal", principal); err != nil {
		return false, err
	}
	if err := required("ProtocoloProcedimentoAnexado", anexado); err != nil {
		return false, err
	}
	return c.mutate(ctx, OpAnexarProcesso, Params{
		"ProtocoloProcedimentoPrincipal": principal,
		"ProtocoloProcedimentoAnexado":   anexado,
	})
}

// DesanexarProcesso detaches anexado from principal
func (c *Client) DesanexarProcesso(ctx context.Context, principal, anexado, motivo string) (bool, error) {
	if err := required("ProtocoloProcedimentoPrincipal", principal); err != nil {
		return false, err
	}
	if err := required("ProtocoloProcedimentoAnexado", anexado); err != nil {
		return false, err
	}
	if err := required("Motivo", motivo); err != nil {
		return false, err
	}
	return c.mutate(ctx, OpDesanexarProcesso, Params{
		"ProtocoloProcedimentoPrincipal": principal,
		"ProtocoloProcedimentoAnexado":   anexado,
		"Motivo":                         motivo,
	})
}

// RelacionarProcesso links two processes
func (c *Client) RelacionarProcesso(ctx context.Context, protocolo1, protocolo2 string) (bool, error) {
	return c.relacionamento(ctx, OpRelacionarProcesso, protocolo1, protocolo2)
}

// RemoverRelacionamentoProcesso removes the link between two processes
func (c *Client) RemoverRelacionamentoProcesso(ctx context.Context, protocolo1, protocolo2 string) (bool, error) {
	return c.relacionamento(ctx, OpRemoverRelacionamentoProcesso, protocolo1, protocolo2)
}

func (c *Client) relacionamento(ctx context.Context, op Operation, protocolo1, protocolo2 string) (bool, error) {
	if err := required("ProtocoloProcedimento1", protocolo1); err != nil {
		return false, err
	}
	if err := required("ProtocoloProcedimento2", protocolo2); err != nil {
		return false, err
	}
	return c.mutate(ctx, op, Params{
		"ProtocoloProcedimento1": protocolo1,
		"ProtocoloProcedimento2": protocolo2,
	})
}

// SobrestarProcesso suspends a process, optionally bound to another one
func (c *Client) SobrestarProcesso(ctx context.Context, protocolo, vinculado, motivo string) (bool, error) {
	if err := required("ProtocoloProcedimento", protocolo); err != nil {
		return false, err
	}
	if err := required("Motivo", motivo); err != nil {
		return false, err
	}
	return c.mutate(ctx, OpSobrestarProcesso, Params{
		"ProtocoloProcedimento":          protocolo,
		"ProtocoloProcedimentoVinculado": optional(vinculado),
		"Motivo":                         motivo,
	})
}

// ConsultaProcedimento selects the optional blocks returned by ConsultarProcedimento.
// Each flag is "S", "N" or empty (left out).
type ConsultaProcedimento struct {
	SinRetornarAssuntos                   string
	SinRetornarInteressados               string
	SinRetornarObservacoes                string
	SinRetornarAndamentoGeracao           string
	SinRetornarAndamentoConclusao         string
	SinRetornarUltimoAndamento            string
	SinRetornarUnidadesProcedimentoAberto string
	SinRetornarProcedimentosRelacionados  string
	SinRetornarProcedimentosAnexados      string
}

func (q ConsultaProcedimento) flags() map[string]string {
	return map[string]string{
		"SinRetornarAssuntos":                   q.SinRetornarAssuntos,
		"SinRetornarInteressados":               q.SinRetornarInteressados,
		"SinRetornarObservacoes":                q.SinRetornarObservacoes,
		"SinRetornarAndamentoGeracao":           q.SinRetornarAndamentoGeracao,
		"SinRetornarAndamentoConclusao":         q.SinRetornarAndamentoConclusao,
		"SinRetornarUltimoAndamento":            q.SinRetornarUltimoAndamento,
		"SinRetornarUnidadesProcedimentoAberto": q.SinRetornarUnidadesProcedimentoAberto,
		"SinRetornarProcedimentosRelacionados":  q.SinRetornarProcedimentosRelacionados,
		"SinRetornarProcedimentosAnexados":      q.SinRetornarProcedimentosAnexados,
	}
}

// ConsultarProcedimento returns the data of a process
func (c *Client) ConsultarProcedimento(ctx context.Context, protocolo string, q ConsultaProcedimento) (Record, error) {
	if err := required("ProtocoloProcedimento", protocolo); err != nil {
		return nil, err
	}
	sin := q.flags()
	if err := flags(sin); err != nil {
		return nil, err
	}

	params := Params{"ProtocoloProcedimento": protocolo}
	for name, v := range sin {
		params[name] = optional(v)
	}
	result, err := c.Invoke(ctx, OpConsultarProcedimento, params)
	if err != nil {
		return nil, err
	}
	return asRecord(OpConsultarProcedimento, result)
}

// GeracaoProcedimento describes a process to be created in the session unit
type GeracaoProcedimento struct {
	Procedimento              Procedimento
	Documentos                []Documento
	ProcedimentosRelacionados []string
	// UnidadesEnvio holds unit acronyms the new process is sent to
	UnidadesEnvio                 []string
	SinManterAbertoUnidade        string
	SinEnviarEmailNotificacao     string
	DataRetornoProgramado         string
	DiasRetornoProgramado         string
	SinDiasUteisRetornoProgramado string
	IdMarcador                    string
	TextoMarcador                 string
}

// GerarProcedimento creates a process. The result carries IdProcedimento,
// ProcedimentoFormatado and the included documents.
func (c *Client) GerarProcedimento(ctx context.Context, g GeracaoProcedimento) (Record, error) {
	if err := g.Procedimento.validate(); err != nil {
		return nil, err
	}
	if err := flags(map[string]string{
		"SinManterAbertoUnidade":        g.SinManterAbertoUnidade,
		"SinEnviarEmailNotificacao":     g.SinEnviarEmailNotificacao,
		"SinDiasUteisRetornoProgramado": g.SinDiasUteisRetornoProgramado,
	}); err != nil {
		return nil, err
	}
	documentos, err := c.prepararDocumentos(ctx, g.Documentos)
	if err != nil {
		return nil, err
	}
	unidades, err := c.resolveUnidades(ctx, g.UnidadesEnvio)
	if err != nil {
		return nil, err
	}

	result, err := c.Invoke(ctx, OpGerarProcedimento, Params{
		"Procedimento":                  g.Procedimento,
		"Documentos":                    valuers(documentos),
		"ProcedimentosRelacionados":     optionalList(g.ProcedimentosRelacionados),
		"UnidadesEnvio":                 optionalList(unidades),
		"SinManterAbertoUnidade":        optional(g.SinManterAbertoUnidade),
		"SinEnviarEmailNotificacao":     optional(g.SinEnviarEmailNotificacao),
		"DataRetornoProgramado":         optional(g.DataRetornoProgramado),
		"DiasRetornoProgramado":         optional(g.DiasRetornoProgramado),
		"SinDiasUteisRetornoProgramado": optional(g.SinDiasUteisRetornoProgramado),
		"IdMarcador":                    optional(g.IdMarcador),
		"TextoMarcador":                 optional(g.TextoMarcador),
	})
	if err != nil {
		return nil, err
	}
	return asRecord(OpGerarProcedimento, result)
}

// ConcluirControlePrazo closes the deadline control of the processes
func (c *Client) ConcluirControlePrazo(ctx context.Context, protocolos []string) (bool, error) {
	if len(protocolos) == 0 {
		return false, invalid(ErrMissingParameter, "Protocolos", "")
	}
	return c.mutate(ctx, OpConcluirControlePrazo, Params{"Protocolos": protocolos})
}

// RegistrarAnotacao records notes on processes of the session unit
func (c *Client) RegistrarAnotacao(ctx context.Context, anotacoes []Anotacao) (bool, error) {
	if len(anotacoes) == 0 {
		return false, invalid(ErrMissingParameter, "Anotacoes", "")
	}
	for _, a := range anotacoes {
		if err := required("ProtocoloProcedimento", a.ProtocoloProcedimento); err != nil {
			return false, err
		}
		if err := ValidarSinalizadorOpcional("SinPrioridade", a.SinPrioridade); err != nil {
			return false, err
		}
	}
	return c.mutate(ctx, OpRegistrarAnotacao, Params{"Anotacoes": valuers(anotacoes)})
}

// DefinirMarcador sets markers on processes of the session unit
func (c *Client) DefinirMarcador(ctx context.Context, definicoes []DefinicaoMarcador) (bool, error) {
	if len(definicoes) == 0 {
		return false, invalid(ErrMissingParameter, "Definicoes", "")
	}
	for _, d := range definicoes {
		if err := required("ProtocoloProcedimento", d.ProtocoloProcedimento); err != nil {
			return false, err
		}
		if err := required("IdMarcador", d.IdMarcador); err != nil {
			return false, err
		}
	}
	return c.mutate(ctx, OpDefinirMarcador, Params{"Definicoes": valuers(definicoes)})
}

// Email is a message sent from a process; it is recorded as a document
type Email struct {
	ProtocoloProcedimento string
	De                    string
	Para                  []string
	CCO                   []string
	Assunto               string
	Mensagem              string
	// IdDocumentos are attached to the message
	IdDocumentos []string
}

// addressSeparator joins several recipients in one wire field
const addressSeparator = ";"

// EnviarEmail sends an email from a process. Every address is checked
// before the request is built.
func (c *Client) EnviarEmail(ctx context.Context, e Email) (Record, error) {
	if err := required("ProtocoloProcedimento", e.ProtocoloProcedimento); err != nil {
		return nil, err
	}
	if err := ValidarEmail("De", e.De); err != nil {
		return nil, err
	}
	if len(e.Para) == 0 {
		return nil, invalid(ErrMissingParameter, "Para", "")
	}
	for _, addr := range e.Para {
		if err := ValidarEmail("Para", addr); err != nil {
			return nil, err
		}
	}
	for _, addr := range e.CCO {
		if err := ValidarEmail("CCO", addr); err != nil {
			return nil, err
		}
	}
	if err := required("Assunto", e.Assunto); err != nil {
		return nil, err
	}

	result, err := c.Invoke(ctx, OpEnviarEmail, Params{
		"ProtocoloProcedimento": e.ProtocoloProcedimento,
		"De":                    e.De,
		"Para":                  strings.Join(e.Para, addressSeparator),
		"CCO":                   optional(strings.Join(e.CCO, addressSeparator)),
		"Assunto":               e.Assunto,
		"Mensagem":              e.Mensagem,
		"IdDocumentos":          optionalList(e.IdDocumentos),
	})
	if err != nil {
		return nil, err
	}
	return asRecord(OpEnviarEmail, result)
}
