// Package wsdl selects, loads and parses the WSDL contract of a SEI environment.
//
// Each environment maps to a remote WSDL URL and to a cache file name. A
// [Loader] reads the cache file when present and otherwise downloads the
// contract, storing it atomically for the next run.
package wsdl

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidAmbiente is returned for an unknown environment name
	ErrInvalidAmbiente = errors.New("ambiente inválido")
	// ErrInvalidWSDL is returned when a WSDL cannot be loaded or lacks required parts
	ErrInvalidWSDL = errors.New("WSDL inválido")
)

// Ambiente names a SEI deployment
type Ambiente string

const (
	// Homologacao is the staging deployment
	Homologacao Ambiente = "homologacao"
	// Producao is the production deployment
	Producao Ambiente = "producao"
)

const urlTemplate = "https://%s.anatel.gov.br/sei/controlador_ws.php?servico=sei"

var aliases = map[string]Ambiente{
	"homologacao": Homologacao,
	"hm":          Homologacao,
	"producao":    Producao,
	"pd":          Producao,
}

// Source tells where the WSDL of an environment lives
type Source struct {
	Ambiente Ambiente
	// Location is an http(s) URL or a local file path
	Location string
	// CacheFile is the file name used inside the loader cache directory
	CacheFile string
}

// ParseAmbiente matches name against the known environments. Case and
// accents are ignored, so "Homologação" and "homologacao" are the same.
func ParseAmbiente(name string) (Ambiente, error) {
	if a, ok := aliases[fold(name)]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidAmbiente, name)
}

// SourceFor returns the default WSDL source of an environment
func SourceFor(name string) (Source, error) {
	a, err := ParseAmbiente(name)
	if err != nil {
		return Source{}, err
	}

	switch a {
	case Homologacao:
		return Source{Ambiente: a, Location: fmt.Sprintf(urlTemplate, "seihm"), CacheFile: "seihm.wsdl"}, nil
	default:
		return Source{Ambiente: a, Location: fmt.Sprintf(urlTemplate, "sei"), CacheFile: "sei.wsdl"}, nil
	}
}

// WithLocation returns a copy of s reading from location instead
func (s Source) WithLocation(location string) Source {
	if location != "" {
		s.Location = location
	}
	return s
}

// IsRemote reports whether the location must be fetched over HTTP
func (s Source) IsRemote() bool {
	return strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://")
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
