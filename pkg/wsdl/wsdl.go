package wsdl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Definitions is the subset of a WSDL 1.1 document the client relies on
type Definitions struct {
	Name            string
	TargetNamespace string
	// Endpoint is the soap:address location of the first service port
	Endpoint   string
	Operations map[string]Operation
}

// Operation describes one advertised RPC operation
type Operation struct {
	Name       string
	SOAPAction string
	// Parts lists the input message parts in declaration order
	Parts []string
}

// HasOperation reports whether the contract advertises name
func (d *Definitions) HasOperation(name string) bool {
	_, ok := d.Operations[name]
	return ok
}

// OperationNames returns the advertised operation names, sorted
func (d *Definitions) OperationNames() []string {
	names := make([]string, 0, len(d.Operations))
	for name := range d.Operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SOAPActions returns the SOAPAction of every operation that declares one
func (d *Definitions) SOAPActions() map[string]string {
	actions := make(map[string]string, len(d.Operations))
	for name, op := range d.Operations {
		if op.SOAPAction != "" {
			actions[name] = op.SOAPAction
		}
	}
	return actions
}

// Parse reads a WSDL 1.1 document
func Parse(data []byte) (*Definitions, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWSDL, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "definitions" {
		return nil, fmt.Errorf("%w: missing definitions element", ErrInvalidWSDL)
	}

	defs := &Definitions{
		Name:            root.SelectAttrValue("name", ""),
		TargetNamespace: root.SelectAttrValue("targetNamespace", ""),
		Operations:      make(map[string]Operation),
	}

	messages := make(map[string][]string)
	for _, msg := range children(root, "message") {
		var parts []string
		for _, part := range children(msg, "part") {
			parts = append(parts, part.SelectAttrValue("name", ""))
		}
		messages[msg.SelectAttrValue("name", "")] = parts
	}

	for _, portType := range children(root, "portType") {
		for _, op := range children(portType, "operation") {
			name := op.SelectAttrValue("name", "")
			o := Operation{Name: name}
			if input := first(op, "input"); input != nil {
				o.Parts = messages[localName(input.SelectAttrValue("message", ""))]
			}
			defs.Operations[name] = o
		}
	}

	for _, binding := range children(root, "binding") {
		for _, op := range children(binding, "operation") {
			name := op.SelectAttrValue("name", "")
			o, ok := defs.Operations[name]
			if !ok {
				continue
			}
			if soapOp := first(op, "operation"); soapOp != nil {
				o.SOAPAction = soapOp.SelectAttrValue("soapAction", "")
			}
			defs.Operations[name] = o
		}
	}

	for _, service := range children(root, "service") {
		for _, port := range children(service, "port") {
			if addr := first(port, "address"); addr != nil && defs.Endpoint == "" {
				defs.Endpoint = addr.SelectAttrValue("location", "")
			}
		}
	}

	if defs.Endpoint == "" {
		return nil, fmt.Errorf("%w: missing soap:address location", ErrInvalidWSDL)
	}
	if defs.TargetNamespace == "" {
		return nil, fmt.Errorf("%w: missing targetNamespace", ErrInvalidWSDL)
	}

	return defs, nil
}

func children(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

func first(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func localName(qname string) string {
	if i := strings.LastIndex(qname, ":"); i >= 0 {
		return qname[i+1:]
	}
	return qname
}
