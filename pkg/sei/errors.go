package sei

import (
	"errors"
	"fmt"

	"github.com/sirosfoundation/go-sei/pkg/transport"
	"github.com/sirosfoundation/go-sei/pkg/wsdl"
)

// Configuration errors, returned by NewClient
var (
	// ErrInvalidAmbiente is returned for an unknown environment name
	ErrInvalidAmbiente = wsdl.ErrInvalidAmbiente
	// ErrInvalidWSDL is returned when the environment contract cannot be loaded
	ErrInvalidWSDL = wsdl.ErrInvalidWSDL
	// ErrInvalidChaveAPI is returned when no service key is configured
	ErrInvalidChaveAPI = errors.New("chave de API inválida")
	// ErrMissingSiglaSistema is returned when the calling system is not identified
	ErrMissingSiglaSistema = errors.New("sigla do sistema não informada")
)

// Local validation errors. All of them match ErrValidation with errors.Is.
var (
	ErrValidation           = errors.New("parâmetro inválido")
	ErrInvalidSinalizador   = errors.New("sinalizador inválido")
	ErrInvalidEmail         = errors.New("email inválido")
	ErrInvalidTipoBloco     = errors.New("tipo de bloco inválido")
	ErrInvalidNivelAcesso   = errors.New("nível de acesso inválido")
	ErrInvalidTipoDocumento = errors.New("tipo de documento inválido")
	ErrMissingParameter     = errors.New("parâmetro obrigatório não informado")

	ErrInvalidUnidade = errors.New("unidade inválida")
	ErrInvalidUsuario = errors.New("usuário inválido")
	ErrInvalidSerie   = errors.New("série inválida")
	ErrInvalidPais    = errors.New("país inválido")
)

// Dispatch and remote errors
var (
	// ErrUnknownOperation is returned for an operation outside the catalogue
	ErrUnknownOperation = errors.New("operação desconhecida")
	// ErrUnsupportedOperation is returned when the loaded WSDL does not advertise the operation
	ErrUnsupportedOperation = errors.New("operação não suportada pelo WSDL")
	// ErrUnknownParameter is returned for a parameter the operation does not declare
	ErrUnknownParameter = errors.New("parâmetro desconhecido")
	// ErrUnexpectedResponse is returned when a payload does not have the expected shape
	ErrUnexpectedResponse = errors.New("resposta inesperada")
	// ErrTransport marks network and HTTP failures
	ErrTransport = transport.ErrTransport
)

// ValidationError reports an input rejected before any network call
type ValidationError struct {
	// Field is the wire name of the offending parameter, empty for lookups
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Value)
	}
	return fmt.Sprintf("%v: %s=%q", e.Err, e.Field, e.Value)
}

// Unwrap exposes both the specific sentinel and ErrValidation
func (e *ValidationError) Unwrap() []error {
	return []error{e.Err, ErrValidation}
}

func invalid(sentinel error, field, value string) error {
	return &ValidationError{Field: field, Value: value, Err: sentinel}
}

// CallError wraps a failure of a remote operation with its name.
// The underlying error is a *soap.Fault, a transport error or a decoding error.
type CallError struct {
	Operation string
	CallID    string
	Err       error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("sei: %s: %v", e.Operation, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
