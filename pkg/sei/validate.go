package sei

import (
	"regexp"
	"slices"
)

// Flag values
const (
	Sim = "S"
	Nao = "N"
)

// Block kinds
const (
	BlocoAssinatura = "A"
	BlocoReuniao    = "R"
	BlocoInterno    = "I"
)

// Access levels
const (
	NivelAcessoPublico  = "0"
	NivelAcessoRestrito = "1"
	NivelAcessoSigiloso = "2"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidarSinalizador accepts only "S" or "N"
func ValidarSinalizador(field, value string) error {
	if value != Sim && value != Nao {
		return invalid(ErrInvalidSinalizador, field, value)
	}
	return nil
}

// ValidarSinalizadorOpcional is ValidarSinalizador that also accepts an
// empty value, which leaves the flag out of the request
func ValidarSinalizadorOpcional(field, value string) error {
	if value == "" {
		return nil
	}
	return ValidarSinalizador(field, value)
}

// ValidarEmail checks the local@domain.tld structure of an address
func ValidarEmail(field, value string) error {
	if !emailPattern.MatchString(value) {
		return invalid(ErrInvalidEmail, field, value)
	}
	return nil
}

// ValidarTipoBloco accepts A (assinatura), R (reunião) and I (interno)
func ValidarTipoBloco(field, value string) error {
	return oneOf(ErrInvalidTipoBloco, field, value, BlocoAssinatura, BlocoReuniao, BlocoInterno)
}

// ValidarNivelAcesso accepts the restricted and secret levels used as filters
func ValidarNivelAcesso(field, value string) error {
	return oneOf(ErrInvalidNivelAcesso, field, value, NivelAcessoRestrito, NivelAcessoSigiloso)
}

// ValidarNivelAcessoProcedimento accepts every access level. Empty means public.
func ValidarNivelAcessoProcedimento(field, value string) error {
	if value == "" {
		return nil
	}
	return oneOf(ErrInvalidNivelAcesso, field, value, NivelAcessoPublico, NivelAcessoRestrito, NivelAcessoSigiloso)
}

// ValidarTipoDocumento accepts G (gerado) and R (recebido)
func ValidarTipoDocumento(field, value string) error {
	return oneOf(ErrInvalidTipoDocumento, field, value, DocumentoGerado, DocumentoRecebido)
}

func oneOf(sentinel error, field, value string, allowed ...string) error {
	if !slices.Contains(allowed, value) {
		return invalid(sentinel, field, value)
	}
	return nil
}

func required(field, value string) error {
	if value == "" {
		return invalid(ErrMissingParameter, field, value)
	}
	return nil
}

// flags validates a set of optional flags keyed by wire name
func flags(values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	// deterministic error for several bad flags
	slices.Sort(names)
	for _, name := range names {
		if err := ValidarSinalizadorOpcional(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}
