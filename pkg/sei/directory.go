package sei

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Directory names one of the lookup tables kept by the client
type Directory string

// Directories
const (
	DirUnidades Directory = "unidades"
	DirUsuarios Directory = "usuarios"
	DirSeries   Directory = "series"
	DirPaises   Directory = "paises"
)

// Table maps a human readable key to its record
type Table map[string]Record

type directorySpec struct {
	list     Operation
	filters  Params
	key      string
	id       string
	notFound error
}

var directories = map[Directory]directorySpec{
	DirUnidades: {
		list:     OpListarUnidades,
		filters:  Params{"IdTipoProcedimento": "", "IdSerie": ""},
		key:      "Sigla",
		id:       "IdUnidade",
		notFound: ErrInvalidUnidade,
	},
	DirUsuarios: {
		list:     OpListarUsuarios,
		filters:  Params{"IdUsuario": ""},
		key:      "Sigla",
		id:       "IdUsuario",
		notFound: ErrInvalidUsuario,
	},
	DirSeries: {
		list:     OpListarSeries,
		filters:  Params{"IdTipoProcedimento": ""},
		key:      "Nome",
		id:       "IdSerie",
		notFound: ErrInvalidSerie,
	},
	DirPaises: {
		list:     OpListarPaises,
		key:      "Nome",
		id:       "IdPais",
		notFound: ErrInvalidPais,
	},
}

// directory memoizes listing results for the lifetime of a client.
// Tables never expire; Refresh drops them explicitly.
type directory struct {
	mu     sync.RWMutex
	tables map[Directory]Table
	group  singleflight.Group
}

func newDirectory() *directory {
	return &directory{tables: make(map[Directory]Table)}
}

func (d *directory) get(dir Directory) (Table, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.tables[dir]
	return t, ok
}

func (d *directory) put(dir Directory, t Table) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables[dir] = t
}

func (d *directory) drop(dirs ...Directory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(dirs) == 0 {
		clear(d.tables)
		return
	}
	for _, dir := range dirs {
		delete(d.tables, dir)
	}
}

// table returns the table for dir, issuing its listing call on first use.
// Concurrent first uses share one call. The shared call does not inherit the
// cancellation of the caller that started it; each caller stops waiting when
// its own ctx is done.
func (c *Client) table(ctx context.Context, dir Directory) (Table, error) {
	spec, ok := directories[dir]
	if !ok {
		return nil, fmt.Errorf("unknown directory %q", dir)
	}
	if t, ok := c.dir.get(dir); ok {
		return t, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.dir.group.DoChan(string(dir), func() (any, error) {
		if t, ok := c.dir.get(dir); ok {
			return t, nil
		}

		raw, err := c.Invoke(shared, spec.list, spec.filters)
		if err != nil {
			return nil, err
		}
		t, err := buildTable(spec, raw)
		if err != nil {
			return nil, err
		}

		c.dir.put(dir, t)
		c.logger.Debug("directory loaded", "directory", string(dir), "entries", len(t))
		return t, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Table), nil
	}
}

// buildTable indexes a listing by its key field. Later entries win on
// duplicate keys; entries without a key are skipped.
func buildTable(spec directorySpec, raw any) (Table, error) {
	records, err := asRecords(spec.list, raw)
	if err != nil {
		return nil, err
	}
	t := make(Table, len(records))
	for _, r := range records {
		key := r.String(spec.key)
		if key == "" {
			continue
		}
		t[key] = r
	}
	return t, nil
}

// Refresh drops the cached tables so that the next lookup lists them again.
// Without arguments every table is dropped.
func (c *Client) Refresh(dirs ...Directory) {
	c.dir.drop(dirs...)
}

// RefreshAll drops every cached table
func (c *Client) RefreshAll() {
	c.dir.drop()
}
