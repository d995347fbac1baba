package sei

import "context"

// ConsultaDocumento selects the optional blocks returned by ConsultarDocumento
type ConsultaDocumento struct {
	SinRetornarAndamentoGeracao string
	SinRetornarAssinaturas      string
	SinRetornarPublicacao       string
	SinRetornarCampos           string
}

// ConsultarDocumento returns the data of a document
func (c *Client) ConsultarDocumento(ctx context.Context, protocoloDocumento string, q ConsultaDocumento) (Record, error) {
	if err := required("ProtocoloDocumento", protocoloDocumento); err != nil {
		return nil, err
	}
	sin := map[string]string{
		"SinRetornarAndamentoGeracao": q.SinRetornarAndamentoGeracao,
		"SinRetornarAssinaturas":      q.SinRetornarAssinaturas,
		"SinRetornarPublicacao":       q.SinRetornarPublicacao,
		"SinRetornarCampos":           q.SinRetornarCampos,
	}
	if err := flags(sin); err != nil {
		return nil, err
	}

	params := Params{"ProtocoloDocumento": protocoloDocumento}
	for name, v := range sin {
		params[name] = optional(v)
	}
	result, err := c.Invoke(ctx, OpConsultarDocumento, params)
	if err != nil {
		return nil, err
	}
	return asRecord(OpConsultarDocumento, result)
}

// IncluirDocumento adds a document to an existing process. The result
// carries IdDocumento, DocumentoFormatado and LinkAcesso.
func (c *Client) IncluirDocumento(ctx context.Context, d Documento) (Record, error) {
	if d.ProtocoloProcedimento == "" && d.IdProcedimento == "" {
		return nil, invalid(ErrMissingParameter, "ProtocoloProcedimento", "")
	}
	docs, err := c.prepararDocumentos(ctx, []Documento{d})
	if err != nil {
		return nil, err
	}

	result, err := c.Invoke(ctx, OpIncluirDocumento, Params{"Documento": docs[0]})
	if err != nil {
		return nil, err
	}
	return asRecord(OpIncluirDocumento, result)
}

// prepararDocumentos validates documents and resolves series given by name
func (c *Client) prepararDocumentos(ctx context.Context, docs []Documento) ([]Documento, error) {
	out := make([]Documento, 0, len(docs))
	for _, d := range docs {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if d.IdSerie == "" {
			id, err := c.ResolverSerie(ctx, d.Serie)
			if err != nil {
				return nil, err
			}
			d.IdSerie = id
		}
		out = append(out, d)
	}
	return out, nil
}

// CancelarDocumento cancels a document
func (c *Client) CancelarDocumento(ctx context.Context, protocoloDocumento, motivo string) (bool, error) {
	if err := required("ProtocoloDocumento", protocoloDocumento); err != nil {
		return false, err
	}
	if err := required("Motivo", motivo); err != nil {
		return false, err
	}
	return c.mutate(ctx, OpCancelarDocumento, Params{
		"ProtocoloDocumento": protocoloDocumento,
		"Motivo":             motivo,
	})
}

// BloquearDocumento prevents further changes to a document
func (c *Client) BloquearDocumento(ctx context.Context, protocoloDocumento string) (bool, error) {
	if err := required("ProtocoloDocumento", protocoloDocumento); err != nil {
		return false, err
	}
	return c.mutate(ctx, OpBloquearDocumento, Params{"ProtocoloDocumento": protocoloDocumento})
}
