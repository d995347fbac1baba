package sei

import (
	"context"
	"fmt"
)

// Bloco describes a block to be created in the session unit
type Bloco struct {
	// Tipo is A (assinatura), R (reunião) or I (interno)
	Tipo      string
	Descricao string
	// UnidadesDisponibilizacao holds unit acronyms the block is made available to
	UnidadesDisponibilizacao []string
	// Documentos holds document protocols included on creation
	Documentos        []string
	SinDisponibilizar string
}

// GerarBloco creates a block and returns its IdBloco
func (c *Client) GerarBloco(ctx context.Context, b Bloco) (string, error) {
	if err := ValidarTipoBloco("Tipo", b.Tipo); err != nil {
		return "", err
	}
	if err := required("Descricao", b.Descricao); err != nil {
		return "", err
	}
	if err := ValidarSinalizadorOpcional("SinDisponibilizar", b.SinDisponibilizar); err != nil {
		return "", err
	}
	unidades, err := c.resolveUnidades(ctx, b.UnidadesDisponibilizacao)
	if err != nil {
		return "", err
	}

	result, err := c.Invoke(ctx, OpGerarBloco, Params{
		"Tipo":                     b.Tipo,
		"Descricao":                b.Descricao,
		"UnidadesDisponibilizacao": optionalList(unidades),
		"Documentos":               optionalList(b.Documentos),
		"SinDisponibilizar":        optional(b.SinDisponibilizar),
	})
	if err != nil {
		return "", err
	}

	id, ok := result.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("%w: %s returned %v", ErrUnexpectedResponse, OpGerarBloco, result)
	}
	return id, nil
}

// ConsultarBloco returns the data of a block, with its protocols when
// sinRetornarProtocolos is "S"
func (c *Client) ConsultarBloco(ctx context.Context, idBloco, sinRetornarProtocolos string) (Record, error) {
	if err := required("IdBloco", idBloco); err != nil {
		return nil, err
	}
	if err := ValidarSinalizadorOpcional("SinRetornarProtocolos", sinRetornarProtocolos); err != nil {
		return nil, err
	}

	result, err := c.Invoke(ctx, OpConsultarBloco, Params{
		"IdBloco":               idBloco,
		"SinRetornarProtocolos": optional(sinRetornarProtocolos),
	})
	if err != nil {
		return nil, err
	}
	return asRecord(OpConsultarBloco, result)
}

// ExcluirBloco deletes a block
func (c *Client) ExcluirBloco(ctx context.Context, idBloco string) (bool, error) {
	return c.bloco(ctx, OpExcluirBloco, idBloco)
}

// ConcluirBloco closes a block
func (c *Client) ConcluirBloco(ctx context.Context, idBloco string) (bool, error) {
	return c.bloco(ctx, OpConcluirBloco, idBloco)
}

// ReabrirBloco reopens a closed block
func (c *Client) ReabrirBloco(ctx context.Context, idBloco string) (bool, error) {
	return c.bloco(ctx, OpReabrirBloco, idBloco)
}

// DisponibilizarBloco makes a block available to its units
func (c *Client) DisponibilizarBloco(ctx context.Context, idBloco string) (bool, error) {
	return c.bloco(ctx, OpDisponibilizarBloco, idBloco)
}

// CancelarDisponibilizacaoBloco withdraws a block from its units
func (c *Client) CancelarDisponibilizacaoBloco(ctx context.Context, idBloco string) (bool, error) {
	return c.bloco(ctx, OpCancelarDisponibilizacaoBloco, idBloco)
}

func (c *Client) bloco(ctx context.Context, op Operation, idBloco string) (bool, error) {
	if err := required("IdBloco", idBloco); err != nil {
		return false, err
	}
	return c.mutate(ctx, op, Params{"IdBloco": idBloco})
}

// IncluirDocumentoBloco adds a document to a block
func (c *Client) IncluirDocumentoBloco(ctx context.Context, idBloco, protocoloDocumento, anotacao string) (bool, error) {
	if err := required("IdBloco", idBloco); err != nil {
		return false, err
	}
	if err := required("ProtocoloDocumento", protocoloDocumento); err != nil {
		return false, err
	}
	return c.mutate(ctx, OpIncluirDocumentoBloco, Params{
		"IdBloco":            idBloco,
		"ProtocoloDocumento": protocoloDocumento,
		"Anotacao":           optional(anotacao),
	})
}

// RetirarDocumentoBloco removes a document from a block
func (c *Client) RetirarDocumentoBloco(ctx context.Context, idBloco, protocoloDocumento string) (bool, error) {
	if err := required("IdBloco", idBloco); err != nil {
		return false, err
	}
	if err := required("ProtocoloDocumento", protocoloDocumento); err != nil {
		return false, err
	}
	return c.mutate(ctx, OpRetirarDocumentoBloco, Params{
		"IdBloco":            idBloco,
		"ProtocoloDocumento": protocoloDocumento,
	})
}

// IncluirProcessoBloco adds a process to a block
func (c *Client) IncluirProcessoBloco(ctx context.Context, idBloco, protocolo, anotacao string) (bool, error) {
	if err := required("IdBloco", idBloco); err != nil {
		return false, err
	}
	if err := required("ProtocoloProcedimento", protocolo); err != nil {
		return false, err
	}
	return c.mutate(ctx, OpIncluirProcessoBloco, Params{
		"IdBloco":               idBloco,
		"ProtocoloProcedimento": protocolo,
		"Anotacao":              optional(anotacao),
	})
}

// RetirarProcessoBloco removes a process from a block
func (c *Client) RetirarProcessoBloco(ctx context.Context, idBloco, protocolo string) (bool, error) {
	if err := required("IdBloco", idBloco); err != nil {
		return false, err
	}
	if err := required("ProtocoloProcedimento", protocolo); err != nil {
		return false, err
	}
	return c.mutate(ctx, OpRetirarProcessoBloco, Params{
		"IdBloco":               idBloco,
		"ProtocoloProcedimento": protocolo,
	})
}
