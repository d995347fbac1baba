package soap

import (
	"context"
	"errors"

	"github.com/sirosfoundation/go-sei/pkg/transport"
)

// Sender posts an encoded envelope to an endpoint
type Sender interface {
	Send(ctx context.Context, endpoint string, message []byte, contentType, soapAction string) ([]byte, error)
}

// Client performs RPC calls against a single SOAP endpoint
type Client struct {
	endpoint  string
	namespace string
	actions   map[string]string
	sender    Sender
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithSOAPActions sets the SOAPAction header value per operation
func WithSOAPActions(actions map[string]string) ClientOption {
	return func(c *Client) {
		c.actions = actions
	}
}

// NewClient creates a client bound to endpoint. Body elements are qualified
// with namespace.
func NewClient(endpoint, namespace string, sender Sender, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:  endpoint,
		namespace: namespace,
		sender:    sender,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the endpoint URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call invokes operation with the ordered params and returns the decoded result
func (c *Client) Call(ctx context.Context, operation string, params []Param) (any, error) {
	body, err := EncodeRequest(c.namespace, operation, params)
	if err != nil {
		return nil, err
	}

	resp, err := c.sender.Send(ctx, c.endpoint, body, transport.ContentTypeSOAP11, c.soapAction(operation))
	if err != nil {
		var statusErr *transport.StatusError
		if errors.As(err, &statusErr) {
			if fault, ok := ParseFault(statusErr.Body); ok {
				return nil, fault
			}
		}
		return nil, err
	}

	return DecodeResponse(resp)
}

func (c *Client) soapAction(operation string) string {
	if action, ok := c.actions[operation]; ok {
		return action
	}
	return c.namespace + "#" + operation
}
