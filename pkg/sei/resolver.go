package sei

import (
	"context"
	"fmt"
)

// ResolverUnidade returns the IdUnidade of a unit acronym
func (c *Client) ResolverUnidade(ctx context.Context, sigla string) (string, error) {
	return c.resolve(ctx, DirUnidades, sigla)
}

// ResolverUsuario returns the IdUsuario of a login in the session unit
func (c *Client) ResolverUsuario(ctx context.Context, sigla string) (string, error) {
	return c.resolve(ctx, DirUsuarios, sigla)
}

// ResolverSerie returns the IdSerie of a document type name
func (c *Client) ResolverSerie(ctx context.Context, nome string) (string, error) {
	return c.resolve(ctx, DirSeries, nome)
}

// ResolverPais returns the IdPais of a country name
func (c *Client) ResolverPais(ctx context.Context, nome string) (string, error) {
	return c.resolve(ctx, DirPaises, nome)
}

func (c *Client) resolve(ctx context.Context, dir Directory, key string) (string, error) {
	spec := directories[dir]
	t, err := c.table(ctx, dir)
	if err != nil {
		return "", err
	}

	r, ok := t[key]
	if !ok {
		return "", invalid(spec.notFound, "", key)
	}

	id := r.String(spec.id)
	if id == "" {
		return "", fmt.Errorf("%w: %s %q has no %s", ErrUnexpectedResponse, dir, key, spec.id)
	}
	return id, nil
}

// resolveUnidades maps unit acronyms to their ids, keeping order
func (c *Client) resolveUnidades(ctx context.Context, siglas []string) ([]string, error) {
	if len(siglas) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(siglas))
	for _, sigla := range siglas {
		id, err := c.ResolverUnidade(ctx, sigla)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
