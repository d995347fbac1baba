package soap

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// DecodeResponse extracts the return value of an RPC response envelope.
// A SOAP fault in the body is returned as a *Fault error.
func DecodeResponse(data []byte) (any, error) {
	body, err := readBody(data)
	if err != nil {
		return nil, err
	}

	elems := body.ChildElements()
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	first := elems[0]
	if first.Tag == "Fault" {
		return nil, decodeFault(first)
	}

	ret := first.ChildElements()
	if len(ret) == 0 {
		return nil, nil
	}
	return decodeValue(ret[0]), nil
}

// DecodeRequest returns the operation and parameters of an RPC request
// envelope. It is the server side counterpart of EncodeRequest.
func DecodeRequest(data []byte) (string, map[string]any, error) {
	body, err := readBody(data)
	if err != nil {
		return "", nil, err
	}

	elems := body.ChildElements()
	if len(elems) == 0 {
		return "", nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	call := elems[0]
	params := make(map[string]any)
	for _, p := range call.ChildElements() {
		params[p.Tag] = decodeValue(p)
	}
	return call.Tag, params, nil
}

// ParseFault returns the fault carried by data, if any
func ParseFault(data []byte) (*Fault, bool) {
	body, err := readBody(data)
	if err != nil {
		return nil, false
	}
	for _, el := range body.ChildElements() {
		if el.Tag == "Fault" {
			return decodeFault(el), true
		}
	}
	return nil, false
}

// NewDocument returns an etree document that accepts non UTF-8 payloads
func NewDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	return doc
}

func readBody(data []byte) (*etree.Element, error) {
	doc := NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	env := doc.Root()
	if env == nil || env.Tag != "Envelope" {
		return nil, fmt.Errorf("%w: missing envelope", ErrMalformedResponse)
	}

	body := childByTag(env, "Body")
	if body == nil {
		return nil, fmt.Errorf("%w: missing body", ErrMalformedResponse)
	}
	return body, nil
}

func decodeFault(el *etree.Element) *Fault {
	f := &Fault{
		Code:   childText(el, "faultcode"),
		String: childText(el, "faultstring"),
		Actor:  childText(el, "faultactor"),
	}
	if detail := childByTag(el, "detail"); detail != nil {
		f.Detail = strings.TrimSpace(innerText(detail))
	}

	// SOAP 1.2 layout
	if f.Code == "" {
		if code := childByTag(el, "Code"); code != nil {
			f.Code = childText(code, "Value")
		}
	}
	if f.String == "" {
		if reason := childByTag(el, "Reason"); reason != nil {
			f.String = childText(reason, "Text")
		}
	}
	return f
}

func decodeValue(el *etree.Element) any {
	if isNil(el) {
		return nil
	}

	children := el.ChildElements()
	if len(children) == 0 {
		if isArray(el) {
			return []any{}
		}
		return el.Text()
	}

	if isArray(el) || allItems(children) {
		list := make([]any, 0, len(children))
		for _, c := range children {
			list = append(list, decodeValue(c))
		}
		return list
	}

	m := make(map[string]any, len(children))
	for _, c := range children {
		v := decodeValue(c)
		if prev, ok := m[c.Tag]; ok {
			// repeated element without array markup
			if list, isList := prev.([]any); isList {
				m[c.Tag] = append(list, v)
			} else {
				m[c.Tag] = []any{prev, v}
			}
			continue
		}
		m[c.Tag] = v
	}
	return m
}

func isNil(el *etree.Element) bool {
	for _, a := range el.Attr {
		if a.Key == "nil" && (a.Value == "true" || a.Value == "1") {
			return true
		}
	}
	return false
}

func isArray(el *etree.Element) bool {
	for _, a := range el.Attr {
		if a.Key == "arrayType" {
			return true
		}
		if a.Key == "type" && strings.HasSuffix(a.Value, "Array") {
			return true
		}
	}
	return false
}

func allItems(children []*etree.Element) bool {
	for _, c := range children {
		if c.Tag != itemTag {
			return false
		}
	}
	return true
}

func childByTag(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func childText(el *etree.Element, tag string) string {
	if c := childByTag(el, tag); c != nil {
		return strings.TrimSpace(innerText(c))
	}
	return ""
}

func innerText(el *etree.Element) string {
	var sb strings.Builder
	for _, t := range el.Child {
		switch n := t.(type) {
		case *etree.CharData:
			sb.WriteString(n.Data)
		case *etree.Element:
			sb.WriteString(innerText(n))
		}
	}
	return sb.String()
}
