package sei

import "context"

// LancarAndamento records a progress entry on a process. The result
// describes the created entry.
func (c *Client) LancarAndamento(ctx context.Context, protocolo, idTarefa, idTarefaModulo string, atributos []AtributoAndamento) (Record, error) {
	if err := required("ProtocoloProcedimento", protocolo); err != nil {
		return nil, err
	}
	if idTarefa == "" && idTarefaModulo == "" {
		return nil, invalid(ErrMissingParameter, "IdTarefa", "")
	}

	result, err := c.Invoke(ctx, OpLancarAndamento, Params{
		"ProtocoloProcedimento": protocolo,
		"IdTarefa":              optional(idTarefa),
		"IdTarefaModulo":        optional(idTarefaModulo),
		"Atributos":             valuers(atributos),
	})
	if err != nil {
		return nil, err
	}
	return asRecord(OpLancarAndamento, result)
}

// ConsultaAndamentos filters ListarAndamentos. Empty lists mean no filter.
type ConsultaAndamentos struct {
	SinRetornarAtributos string
	Andamentos           []string
	Tarefas              []string
	TarefasModulos       []string
}

// ListarAndamentos returns the progress history of a process
func (c *Client) ListarAndamentos(ctx context.Context, protocolo string, q ConsultaAndamentos) ([]Record, error) {
	if err := required("ProtocoloProcedimento", protocolo); err != nil {
		return nil, err
	}
	if err := ValidarSinalizadorOpcional("SinRetornarAtributos", q.SinRetornarAtributos); err != nil {
		return nil, err
	}

	result, err := c.Invoke(ctx, OpListarAndamentos, Params{
		"ProtocoloProcedimento": protocolo,
		"SinRetornarAtributos":  optional(q.SinRetornarAtributos),
		"Andamentos":            optionalList(q.Andamentos),
		"Tarefas":               optionalList(q.Tarefas),
		"TarefasModulos":        optionalList(q.TarefasModulos),
	})
	if err != nil {
		return nil, err
	}
	return asRecords(OpListarAndamentos, result)
}

// ListarAndamentosMarcadores returns the marker history of a process,
// optionally restricted to some marker ids
func (c *Client) ListarAndamentosMarcadores(ctx context.Context, protocolo string, marcadores []string) ([]Record, error) {
	if err := required("ProtocoloProcedimento", protocolo); err != nil {
		return nil, err
	}

	result, err := c.Invoke(ctx, OpListarAndamentosMarcadores, Params{
		"ProtocoloProcedimento": protocolo,
		"Marcadores":            optionalList(marcadores),
	})
	if err != nil {
		return nil, err
	}
	return asRecords(OpListarAndamentosMarcadores, result)
}
