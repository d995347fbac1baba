package soap

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/beevik/etree"
)

// EncodeRequest builds an RPC request envelope for the operation.
// Parameters with a nil value are left out of the body.
func EncodeRequest(namespace, operation string, params []Param) ([]byte, error) {
	doc, body := newEnvelope()
	body.Parent().CreateAttr("xmlns:tns", namespace)

	call := body.CreateElement("tns:" + operation)
	for _, p := range params {
		if p.Value == nil {
			continue
		}
		if err := encodeValue(call.CreateElement(p.Name), p.Value); err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
	}

	return doc.WriteToBytes()
}

// EncodeResponse builds the response envelope a SEI endpoint returns for
// the operation. It backs fake endpoints in tests and tools.
func EncodeResponse(namespace, operation string, result any) ([]byte, error) {
	doc, body := newEnvelope()
	body.Parent().CreateAttr("xmlns:ns1", namespace)

	resp := body.CreateElement("ns1:" + operation + "Response")
	ret := resp.CreateElement("parametros")
	if result == nil {
		ret.CreateAttr("xsi:nil", "true")
	} else if err := encodeValue(ret, result); err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}

	return doc.WriteToBytes()
}

// EncodeFault builds a SOAP 1.1 fault envelope
func EncodeFault(code, message string) []byte {
	doc, body := newEnvelope()

	fault := body.CreateElement("soapenv:Fault")
	fault.CreateElement("faultcode").SetText(code)
	fault.CreateElement("faultstring").SetText(message)

	data, _ := doc.WriteToBytes()
	return data
}

func newEnvelope() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", NsSOAPEnv)
	env.CreateAttr("xmlns:SOAP-ENC", NsSOAPEnc)
	env.CreateAttr("xmlns:xsi", NsXSI)
	env.CreateAttr("xmlns:xsd", NsXSD)

	return doc, env.CreateElement("soapenv:Body")
}

func encodeValue(el *etree.Element, v any) error {
	switch val := v.(type) {
	case nil:
		el.CreateAttr("xsi:nil", "true")
	case string:
		el.SetText(val)
	case int:
		el.SetText(strconv.Itoa(val))
	case int64:
		el.SetText(strconv.FormatInt(val, 10))
	case Valuer:
		return encodeValue(el, val.SOAPValue())
	case Struct:
		for _, p := range val {
			if p.Value == nil {
				continue
			}
			if err := encodeValue(el.CreateElement(p.Name), p.Value); err != nil {
				return fmt.Errorf("%s: %w", p.Name, err)
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := encodeValue(el.CreateElement(k), val[k]); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
	case []string:
		markArray(el, "xsd:string", len(val))
		for _, s := range val {
			el.CreateElement(itemTag).SetText(s)
		}
	case []Struct:
		markArray(el, "SOAP-ENC:Struct", len(val))
		for _, s := range val {
			if err := encodeValue(el.CreateElement(itemTag), s); err != nil {
				return err
			}
		}
	case []map[string]any:
		markArray(el, "SOAP-ENC:Struct", len(val))
		for _, m := range val {
			if err := encodeValue(el.CreateElement(itemTag), m); err != nil {
				return err
			}
		}
	case []any:
		markArray(el, "xsd:anyType", len(val))
		for _, item := range val {
			if err := encodeValue(el.CreateElement(itemTag), item); err != nil {
				return err
			}
		}
	default:
		if generic, ok := generalize(v); ok {
			return encodeValue(el, generic)
		}
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	return nil
}

// generalize converts named map and slice types, such as a map type keyed by
// string or a slice of such maps, to the generic forms encodeValue handles
func generalize(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return m, true
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Map {
			items := make([]map[string]any, rv.Len())
			for i := range items {
				m, ok := generalize(rv.Index(i).Interface())
				if !ok {
					return nil, false
				}
				items[i] = m.(map[string]any)
			}
			return items, true
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items, true
	}
	return nil, false
}

func markArray(el *etree.Element, itemType string, n int) {
	el.CreateAttr("SOAP-ENC:arrayType", fmt.Sprintf("%s[%d]", itemType, n))
}
