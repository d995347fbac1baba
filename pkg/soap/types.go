// Package soap provides the SOAP 1.1 RPC envelope codec used to talk to SEI.
//
// Requests are built from ordered parameter lists; responses are decoded into
// generic values: string for leaves, []any for arrays and map[string]any for
// structures. A nil value stands for an element carrying xsi:nil="true".
package soap

import (
	"errors"
	"fmt"
)

// Namespace constants
const (
	NsSOAPEnv = "http://schemas.xmlsoap.org/soap/envelope/"
	NsSOAPEnc = "http://schemas.xmlsoap.org/soap/encoding/"
	NsXSI     = "http://www.w3.org/2001/XMLSchema-instance"
	NsXSD     = "http://www.w3.org/2001/XMLSchema"
)

// itemTag is the element name used for array members
const itemTag = "item"

var (
	// ErrMalformedResponse is returned when a response body is not a usable SOAP envelope
	ErrMalformedResponse = errors.New("malformed SOAP response")
	// ErrUnsupportedValue is returned when a parameter value has no wire encoding
	ErrUnsupportedValue = errors.New("unsupported SOAP value")
)

// Param is a named wire parameter. Order is significant in RPC bodies.
type Param struct {
	Name  string
	Value any
}

// Struct is an ordered structure value. Fields with a nil value are omitted.
type Struct []Param

// Get returns the value of the named field
func (s Struct) Get(name string) (any, bool) {
	for _, p := range s {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Valuer is implemented by types that know their own wire representation
type Valuer interface {
	SOAPValue() any
}

// Fault represents a SOAP fault returned by the remote service
type Fault struct {
	Code   string
	String string
	Actor  string
	Detail string
}

func (f *Fault) Error() string {
	msg := fmt.Sprintf("soap fault %s: %s", f.Code, f.String)
	if f.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, f.Detail)
	}
	return msg
}
