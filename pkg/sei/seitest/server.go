// Package seitest provides a fake SEI endpoint for tests.
//
// The server answers WSDL requests (GET) with a contract generated from the
// client operation catalogue, pointing soap:address at itself, and decodes
// RPC calls (POST), recording them and replying with configured results.
package seitest

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/beevik/etree"

	"github.com/sirosfoundation/go-sei/pkg/sei"
	"github.com/sirosfoundation/go-sei/pkg/soap"
)

// Namespace is the target namespace of the generated WSDL
const Namespace = "Sei"

// Call is a request received by the server
type Call struct {
	Operation  string
	SOAPAction string
	Params     map[string]any
}

// HandlerFunc computes the result of an operation. Returning a *soap.Fault
// sends that fault; any other error is sent as a server fault.
type HandlerFunc func(params map[string]any) (any, error)

// Server is a fake SEI web service
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	handlers    map[string]HandlerFunc
	calls       []Call
	wsdlFetches int
}

// NewServer starts a server with the default directory data loaded
func NewServer() *Server {
	s := &Server{handlers: make(map[string]HandlerFunc)}
	s.SetDefaultData()
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	return s
}

// SetDefaultData answers the directory listings with a small fixed data set
func (s *Server) SetDefaultData() {
	s.Respond("listarUnidades", []any{
		map[string]any{"IdUnidade": "110000965", "Sigla": "SFI", "Descricao": "Superintendência de Fiscalização"},
		map[string]any{"IdUnidade": "110000973", "Sigla": "FISF", "Descricao": "Gerência de Fiscalização"},
		map[string]any{"IdUnidade": "110000966", "Sigla": "FIGF", "Descricao": "Gerência de Fiscalização Geral"},
	})
	s.Respond("listarUsuarios", []any{
		map[string]any{"IdUsuario": "100001310", "Sigla": "rsilva", "Nome": "Ronaldo da Silva"},
		map[string]any{"IdUsuario": "100000141", "Sigla": "mfaria", "Nome": "Marina Faria"},
	})
	s.Respond("listarSeries", []any{
		map[string]any{"IdSerie": "11", "Nome": "Ofício", "Aplicabilidade": "T"},
		map[string]any{"IdSerie": "7", "Nome": "Despacho", "Aplicabilidade": "I"},
	})
	s.Respond("listarPaises", []any{
		map[string]any{"IdPais": "76", "Nome": "Brasil"},
		map[string]any{"IdPais": "32", "Nome": "Argentina"},
	})
}

// Handle sets the handler of an operation
func (s *Server) Handle(operation string, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[operation] = fn
}

// Respond makes operation always return result
func (s *Server) Respond(operation string, result any) {
	s.Handle(operation, func(map[string]any) (any, error) {
		return result, nil
	})
}

// Fail makes operation return a SOAP fault
func (s *Server) Fail(operation, message string) {
	s.Handle(operation, func(map[string]any) (any, error) {
		return nil, &soap.Fault{Code: "SOAP-ENV:Server", String: message}
	})
}

// Calls returns the calls received for operation, all calls when empty
func (s *Server) Calls(operation string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if operation == "" || c.Operation == operation {
			out = append(out, c)
		}
	}
	return out
}

// WSDLFetches returns how many times the contract was downloaded
func (s *Server) WSDLFetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wsdlFetches
}

// WSDL returns the contract advertised by the server
func (s *Server) WSDL() []byte {
	return GenerateWSDL(s.URL)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		s.wsdlFetches++
		s.mu.Unlock()
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.Write(s.WSDL())
	case http.MethodPost:
		s.serveCall(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) serveCall(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeFault(w, "SOAP-ENV:Client", err.Error())
		return
	}
	op, params, err := soap.DecodeRequest(data)
	if err != nil {
		writeFault(w, "SOAP-ENV:Client", err.Error())
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Operation: op, SOAPAction: r.Header.Get("SOAPAction"), Params: params})
	fn, ok := s.handlers[op]
	s.mu.Unlock()

	if !ok {
		writeFault(w, "SOAP-ENV:Server", "Operação "+op+" não configurada.")
		return
	}

	result, err := fn(params)
	if err != nil {
		var fault *soap.Fault
		if errors.As(err, &fault) {
			writeFault(w, fault.Code, fault.String)
			return
		}
		writeFault(w, "SOAP-ENV:Server", err.Error())
		return
	}

	body, err := soap.EncodeResponse(Namespace, op, result)
	if err != nil {
		writeFault(w, "SOAP-ENV:Server", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.Write(body)
}

func writeFault(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write(soap.EncodeFault(code, message))
}

// GenerateWSDL builds an RPC WSDL declaring every catalogue operation,
// served at endpoint
func GenerateWSDL(endpoint string) []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	defs := doc.CreateElement("wsdl:definitions")
	defs.CreateAttr("name", "SeiWS")
	defs.CreateAttr("targetNamespace", Namespace)
	defs.CreateAttr("xmlns:wsdl", "http://schemas.xmlsoap.org/wsdl/")
	defs.CreateAttr("xmlns:soap", "http://schemas.xmlsoap.org/wsdl/soap/")
	defs.CreateAttr("xmlns:xsd", soap.NsXSD)
	defs.CreateAttr("xmlns:tns", Namespace)

	ops := sei.Operations()
	for _, op := range ops {
		msg := defs.CreateElement("wsdl:message")
		msg.CreateAttr("name", string(op)+"Request")
		for _, part := range op.Parts() {
			p := msg.CreateElement("wsdl:part")
			p.CreateAttr("name", part)
			p.CreateAttr("type", "xsd:string")
		}
	}

	portType := defs.CreateElement("wsdl:portType")
	portType.CreateAttr("name", "SeiPortType")
	for _, op := range ops {
		o := portType.CreateElement("wsdl:operation")
		o.CreateAttr("name", string(op))
		o.CreateElement("wsdl:input").CreateAttr("message", "tns:"+string(op)+"Request")
	}

	binding := defs.CreateElement("wsdl:binding")
	binding.CreateAttr("name", "SeiBinding")
	binding.CreateAttr("type", "tns:SeiPortType")
	sb := binding.CreateElement("soap:binding")
	sb.CreateAttr("style", "rpc")
	sb.CreateAttr("transport", "http://schemas.xmlsoap.org/soap/http")
	for _, op := range ops {
		o := binding.CreateElement("wsdl:operation")
		o.CreateAttr("name", string(op))
		o.CreateElement("soap:operation").CreateAttr("soapAction", "SeiAction")
	}

	service := defs.CreateElement("wsdl:service")
	service.CreateAttr("name", "SeiService")
	port := service.CreateElement("wsdl:port")
	port.CreateAttr("name", "SeiPortService")
	port.CreateAttr("binding", "tns:SeiBinding")
	port.CreateElement("soap:address").CreateAttr("location", endpoint)

	doc.Indent(2)
	data, _ := doc.WriteToBytes()
	return data
}
