package sei

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sirosfoundation/go-sei/pkg/soap"
)

// successSentinel is the literal result of a successful mutation
const successSentinel = "1"

const maskedValue = "***"

// IsSuccess reports whether a mutation result is the success sentinel.
// Only the exact string "1" counts; "0", "", nil, "true" and the integer 1 do not.
func IsSuccess(v any) bool {
	s, ok := v.(string)
	return ok && s == successSentinel
}

// Invoke calls op with params and returns the decoded result unmodified.
//
// The session identification is merged into params and wins over any value
// supplied by the caller. Unit-scoped operations resolve the session unit
// first and fail with ErrInvalidUnidade if it is unknown. Failures are
// returned as *CallError; there are no retries.
func (c *Client) Invoke(ctx context.Context, op Operation, params Params) (any, error) {
	spec, ok := catalogue[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}
	if c.defs != nil && len(c.defs.Operations) > 0 && !c.defs.HasOperation(string(op)) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}
	for name := range params {
		if !spec.accepts(name) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownParameter, op, name)
		}
	}

	var idUnidade string
	if spec.unitScoped {
		id, err := c.ResolverUnidade(ctx, c.session.SiglaUnidade)
		if err != nil {
			return nil, err
		}
		idUnidade = id
	}

	wire := c.wireParams(spec, idUnidade, params)
	callID := uuid.NewString()
	log := c.logger.With("operation", string(op), "call_id", callID)
	log.Info("SEI request", "params", logParams(wire))

	ctx, span := c.tracer.Start(ctx, "sei."+string(op),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("sei.operation", string(op)),
			attribute.String("sei.call_id", callID),
		))
	defer span.End()

	start := time.Now()
	result, err := c.caller.Call(ctx, string(op), wire)
	c.metrics.observe(op, err, time.Since(start))

	if err != nil {
		if errors.Is(err, soap.ErrMalformedResponse) {
			err = fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
		}
		log.Error("SEI call failed", "params", logParams(wire), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &CallError{Operation: string(op), CallID: callID, Err: err}
	}

	log.Info("SEI response", "result", result)
	return result, nil
}

// mutate invokes op and applies the success sentinel
func (c *Client) mutate(ctx context.Context, op Operation, params Params) (bool, error) {
	result, err := c.Invoke(ctx, op, params)
	if err != nil {
		return false, err
	}
	return IsSuccess(result), nil
}

func (c *Client) wireParams(spec operationSpec, idUnidade string, params Params) []soap.Param {
	wire := []soap.Param{
		{Name: partSiglaSistema, Value: c.session.SiglaSistema},
		{Name: partIdentificacaoServico, Value: c.session.IdentificacaoServico},
	}
	if spec.unitScoped {
		wire = append(wire, soap.Param{Name: partIdUnidade, Value: idUnidade})
	}
	for _, name := range spec.parts {
		wire = append(wire, soap.Param{Name: name, Value: params[name]})
	}
	return wire
}

// logParams renders wire parameters for logging with the service key masked
func logParams(wire []soap.Param) map[string]any {
	out := make(map[string]any, len(wire))
	for _, p := range wire {
		if p.Value == nil {
			continue
		}
		if p.Name == partIdentificacaoServico {
			out[p.Name] = maskedValue
			continue
		}
		out[p.Name] = p.Value
	}
	return out
}
