package sei

import (
	"slices"

	"github.com/sirosfoundation/go-sei/pkg/wsdl"
)

// Operation names a remote SEI operation
type Operation string

// Operations exposed by the SEI web service
const (
	OpAtribuirProcesso              Operation = "atribuirProcesso"
	OpEnviarProcesso                Operation = "enviarProcesso"
	OpConcluirProcesso              Operation = "concluirProcesso"
	OpReabrirProcesso               Operation = "reabrirProcesso"
	OpAnexarProcesso                Operation = "anexarProcesso"
	OpDesanexarProcesso             Operation = "desanexarProcesso"
	OpRelacionarProcesso            Operation = "relacionarProcesso"
	OpRemoverRelacionamentoProcesso Operation = "removerRelacionamentoProcesso"
	OpSobrestarProcesso             Operation = "sobrestarProcesso"
	OpRemoverSobrestamentoProcesso  Operation = "removerSobrestamentoProcesso"
	OpBloquearProcesso              Operation = "bloquearProcesso"
	OpDesbloquearProcesso           Operation = "desbloquearProcesso"
	OpConsultarProcedimento         Operation = "consultarProcedimento"
	OpGerarProcedimento             Operation = "gerarProcedimento"
	OpConcluirControlePrazo         Operation = "concluirControlePrazo"
	OpRegistrarAnotacao             Operation = "registrarAnotacao"
	OpDefinirMarcador               Operation = "definirMarcador"
	OpEnviarEmail                   Operation = "enviarEmail"

	OpConsultarDocumento Operation = "consultarDocumento"
	OpIncluirDocumento   Operation = "incluirDocumento"
	OpCancelarDocumento  Operation = "cancelarDocumento"
	OpBloquearDocumento  Operation = "bloquearDocumento"

	OpGerarBloco                    Operation = "gerarBloco"
	OpConsultarBloco                Operation = "consultarBloco"
	OpExcluirBloco                  Operation = "excluirBloco"
	OpConcluirBloco                 Operation = "concluirBloco"
	OpReabrirBloco                  Operation = "reabrirBloco"
	OpDisponibilizarBloco           Operation = "disponibilizarBloco"
	OpCancelarDisponibilizacaoBloco Operation = "cancelarDisponibilizacaoBloco"
	OpIncluirDocumentoBloco         Operation = "incluirDocumentoBloco"
	OpRetirarDocumentoBloco         Operation = "retirarDocumentoBloco"
	OpIncluirProcessoBloco          Operation = "incluirProcessoBloco"
	OpRetirarProcessoBloco          Operation = "retirarProcessoBloco"

	OpLancarAndamento            Operation = "lancarAndamento"
	OpListarAndamentos           Operation = "listarAndamentos"
	OpListarAndamentosMarcadores Operation = "listarAndamentosMarcadores"

	OpListarUnidades            Operation = "listarUnidades"
	OpListarUsuarios            Operation = "listarUsuarios"
	OpListarSeries              Operation = "listarSeries"
	OpListarPaises              Operation = "listarPaises"
	OpListarEstados             Operation = "listarEstados"
	OpListarCidades             Operation = "listarCidades"
	OpListarCargos              Operation = "listarCargos"
	OpListarTiposProcedimento   Operation = "listarTiposProcedimento"
	OpListarHipotesesLegais     Operation = "listarHipotesesLegais"
	OpListarExtensoesPermitidas Operation = "listarExtensoesPermitidas"
	OpListarTiposPrioridade     Operation = "listarTiposPrioridade"
	OpListarTiposConferencia    Operation = "listarTiposConferencia"
	OpListarMarcadoresUnidade   Operation = "listarMarcadoresUnidade"
	OpListarContatos            Operation = "listarContatos"
)

// Identification parts, always filled from the session
const (
	partSiglaSistema         = "SiglaSistema"
	partIdentificacaoServico = "IdentificacaoServico"
	partIdUnidade            = "IdUnidade"
)

// operationSpec describes the input message of an operation.
// parts lists the wire parts that follow the identification parts, in order.
type operationSpec struct {
	unitScoped bool
	parts      []string
}

func unit(parts ...string) operationSpec {
	return operationSpec{unitScoped: true, parts: parts}
}

var catalogue = map[Operation]operationSpec{
	OpAtribuirProcesso: unit("ProtocoloProcedimento", "IdUsuario", "SinReabrir"),
	OpEnviarProcesso: unit("ProtocoloProcedimento", "UnidadesDestino", "SinManterAbertoUnidade",
		"SinRemoverAnotacao", "SinEnviarEmailNotificacao", "DataRetornoProgramado",
		"DiasRetornoProgramado", "SinDiasUteisRetornoProgramado", "SinReabrir"),
	OpConcluirProcesso:              unit("ProtocoloProcedimento"),
	OpReabrirProcesso:               unit("ProtocoloProcedimento"),
	OpAnexarProcesso:                unit("ProtocoloProcedimentoPrincipal", "ProtocoloProcedimentoAnexado"),
	OpDesanexarProcesso:             unit("ProtocoloProcedimentoPrincipal", "ProtocoloProcedimentoAnexado", "Motivo"),
	OpRelacionarProcesso:            unit("ProtocoloProcedimento1", "ProtocoloProcedimento2"),
	OpRemoverRelacionamentoProcesso: unit("ProtocoloProcedimento1", "ProtocoloProcedimento2"),
	OpSobrestarProcesso:             unit("ProtocoloProcedimento", "ProtocoloProcedimentoVinculado", "Motivo"),
	OpRemoverSobrestamentoProcesso:  unit("ProtocoloProcedimento"),
	OpBloquearProcesso:              unit("ProtocoloProcedimento"),
	OpDesbloquearProcesso:           unit("ProtocoloProcedimento"),
	OpConsultarProcedimento: unit("ProtocoloProcedimento", "SinRetornarAssuntos",
		"SinRetornarInteressados", "SinRetornarObservacoes", "SinRetornarAndamentoGeracao",
		"SinRetornarAndamentoConclusao", "SinRetornarUltimoAndamento",
		"SinRetornarUnidadesProcedimentoAberto", "SinRetornarProcedimentosRelacionados",
		"SinRetornarProcedimentosAnexados"),
	OpGerarProcedimento: unit("Procedimento", "Documentos", "ProcedimentosRelacionados",
		"UnidadesEnvio", "SinManterAbertoUnidade", "SinEnviarEmailNotificacao",
		"DataRetornoProgramado", "DiasRetornoProgramado", "SinDiasUteisRetornoProgramado",
		"IdMarcador", "TextoMarcador"),
	OpConcluirControlePrazo: unit("Protocolos"),
	OpRegistrarAnotacao:     unit("Anotacoes"),
	OpDefinirMarcador:       unit("Definicoes"),
	OpEnviarEmail:           unit("ProtocoloProcedimento", "De", "Para", "CCO", "Assunto", "Mensagem", "IdDocumentos"),

	OpConsultarDocumento: unit("ProtocoloDocumento", "SinRetornarAndamentoGeracao",
		"SinRetornarAssinaturas", "SinRetornarPublicacao", "SinRetornarCampos"),
	OpIncluirDocumento:  unit("Documento"),
	OpCancelarDocumento: unit("ProtocoloDocumento", "Motivo"),
	OpBloquearDocumento: unit("ProtocoloDocumento"),

	OpGerarBloco:                    unit("Tipo", "Descricao", "UnidadesDisponibilizacao", "Documentos", "SinDisponibilizar"),
	OpConsultarBloco:                unit("IdBloco", "SinRetornarProtocolos"),
	OpExcluirBloco:                  unit("IdBloco"),
	OpConcluirBloco:                 unit("IdBloco"),
	OpReabrirBloco:                  unit("IdBloco"),
	OpDisponibilizarBloco:           unit("IdBloco"),
	OpCancelarDisponibilizacaoBloco: unit("IdBloco"),
	OpIncluirDocumentoBloco:         unit("IdBloco", "ProtocoloDocumento", "Anotacao"),
	OpRetirarDocumentoBloco:         unit("IdBloco", "ProtocoloDocumento"),
	OpIncluirProcessoBloco:          unit("IdBloco", "ProtocoloProcedimento", "Anotacao"),
	OpRetirarProcessoBloco:          unit("IdBloco", "ProtocoloProcedimento"),

	OpLancarAndamento:            unit("ProtocoloProcedimento", "IdTarefa", "IdTarefaModulo", "Atributos"),
	OpListarAndamentos:           unit("ProtocoloProcedimento", "SinRetornarAtributos", "Andamentos", "Tarefas", "TarefasModulos"),
	OpListarAndamentosMarcadores: unit("ProtocoloProcedimento", "Marcadores"),

	// listarUnidades is the only listing that is not bound to a unit; it
	// feeds the resolution of the session unit itself.
	OpListarUnidades:            {parts: []string{"IdTipoProcedimento", "IdSerie"}},
	OpListarUsuarios:            unit("IdUsuario"),
	OpListarSeries:              unit("IdTipoProcedimento"),
	OpListarPaises:              unit(),
	OpListarEstados:             unit("IdPais"),
	OpListarCidades:             unit("IdPais", "IdEstado"),
	OpListarCargos:              unit("IdCargo"),
	OpListarTiposProcedimento:   unit("IdSerie", "SinIndividual"),
	OpListarHipotesesLegais:     unit("NivelAcesso"),
	OpListarExtensoesPermitidas: unit("IdArquivoExtensao"),
	OpListarTiposPrioridade:     unit(),
	OpListarTiposConferencia:    unit(),
	OpListarMarcadoresUnidade:   unit(),
	OpListarContatos: unit("IdTipoContato", "PaginaRegistros", "PaginaAtual", "Sigla",
		"Nome", "Cpf", "Cnpj", "Matricula"),
}

// Operations returns every operation of the catalogue, sorted by name
func Operations() []Operation {
	ops := make([]Operation, 0, len(catalogue))
	for op := range catalogue {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}

// Parts returns the wire parts of op in the order they are sent,
// identification parts included
func (op Operation) Parts() []string {
	spec, ok := catalogue[op]
	if !ok {
		return nil
	}
	return spec.wireParts()
}

// UnitScoped reports whether op carries the session IdUnidade
func (op Operation) UnitScoped() bool {
	return catalogue[op].unitScoped
}

func (s operationSpec) wireParts() []string {
	parts := []string{partSiglaSistema, partIdentificacaoServico}
	if s.unitScoped {
		parts = append(parts, partIdUnidade)
	}
	return append(parts, s.parts...)
}

func (s operationSpec) accepts(name string) bool {
	return isIdentification(name) || slices.Contains(s.parts, name)
}

func isIdentification(name string) bool {
	return name == partSiglaSistema || name == partIdentificacaoServico || name == partIdUnidade
}

// partMismatches lists the operations whose wire parts differ from the input
// message declared in defs. Operations the WSDL lacks or declares without
// parts are not compared.
func partMismatches(defs *wsdl.Definitions) []Operation {
	if defs == nil {
		return nil
	}
	var out []Operation
	for _, op := range Operations() {
		declared, ok := defs.Operations[string(op)]
		if !ok || len(declared.Parts) == 0 {
			continue
		}
		if !slices.Equal(op.Parts(), declared.Parts) {
			out = append(out, op)
		}
	}
	return out
}
