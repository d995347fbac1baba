package sei

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/sirosfoundation/go-sei/pkg/soap"
	"github.com/sirosfoundation/go-sei/pkg/transport"
	"github.com/sirosfoundation/go-sei/pkg/wsdl"
)

const instrumentationName = "github.com/sirosfoundation/go-sei/pkg/sei"

// Caller performs one RPC against the remote endpoint. *soap.Client
// implements it; tests substitute a recording fake.
type Caller interface {
	Call(ctx context.Context, operation string, params []soap.Param) (any, error)
}

// Config holds client configuration
type Config struct {
	// Ambiente selects the deployment: "homologacao" or "producao"
	Ambiente     string
	SiglaSistema string
	// ChaveAPI is the IdentificacaoServico registered for SiglaSistema
	ChaveAPI string
	// SiglaUnidade is the unit every unit-scoped operation acts on
	SiglaUnidade string
	// WSDLLocation overrides the environment WSDL URL (URL or file path)
	WSDLLocation string
	// CacheDir keeps downloaded WSDL files. Empty disables caching.
	CacheDir    string
	HTTPSConfig *transport.HTTPSConfig
}

// Client is a SEI web service client bound to one session
type Client struct {
	session  Session
	ambiente wsdl.Ambiente
	caller   Caller
	defs     *wsdl.Definitions
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *clientMetrics
	dir      *directory
}

type options struct {
	logger         *slog.Logger
	caller         Caller
	defs           *wsdl.Definitions
	fetcher        wsdl.Fetcher
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
}

// Option configures a Client
type Option func(*options)

// WithLogger sets the logger. slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCaller replaces the SOAP transport. No WSDL is loaded unless
// WithDefinitions is also given.
func WithCaller(caller Caller) Option {
	return func(o *options) {
		o.caller = caller
	}
}

// WithDefinitions uses already parsed WSDL definitions
func WithDefinitions(defs *wsdl.Definitions) Option {
	return func(o *options) {
		o.defs = defs
	}
}

// WithFetcher sets how remote WSDL documents are downloaded
func WithFetcher(fetcher wsdl.Fetcher) Option {
	return func(o *options) {
		o.fetcher = fetcher
	}
}

// WithRegisterer registers the client metrics on reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithTracerProvider sets the tracer provider. The global one is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// NewClient validates the configuration, loads the environment WSDL and
// binds a SOAP client to the endpoint it advertises.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}

	src, err := wsdl.SourceFor(cfg.Ambiente)
	if err != nil {
		return nil, err
	}
	if cfg.SiglaSistema == "" {
		return nil, ErrMissingSiglaSistema
	}
	if cfg.ChaveAPI == "" {
		return nil, fmt.Errorf("%w: chave não configurada para %s", ErrInvalidChaveAPI, src.Ambiente)
	}

	logger := o.logger.With("ambiente", string(src.Ambiente), "sigla_sistema", cfg.SiglaSistema)

	caller, defs := o.caller, o.defs
	if caller == nil {
		https := transport.NewHTTPSClient(cfg.HTTPSConfig)
		if defs == nil {
			fetcher := o.fetcher
			if fetcher == nil {
				fetcher = https
			}
			loader := &wsdl.Loader{CacheDir: cfg.CacheDir, Fetcher: fetcher, Logger: logger}
			defs, err = loader.Load(ctx, src.WithLocation(cfg.WSDLLocation))
			if err != nil {
				return nil, err
			}
		}
		caller = soap.NewClient(defs.Endpoint, defs.TargetNamespace, https,
			soap.WithSOAPActions(defs.SOAPActions()))
		logger.Debug("SOAP client bound", "endpoint", defs.Endpoint, "operations", len(defs.Operations))
	}

	for _, op := range partMismatches(defs) {
		logger.Warn("operation parts differ from WSDL", "operation", string(op),
			"parts", op.Parts(), "wsdl_parts", defs.Operations[string(op)].Parts)
	}

	return &Client{
		session: Session{
			SiglaSistema:         cfg.SiglaSistema,
			IdentificacaoServico: cfg.ChaveAPI,
			SiglaUnidade:         cfg.SiglaUnidade,
		},
		ambiente: src.Ambiente,
		caller:   caller,
		defs:     defs,
		logger:   logger,
		tracer:   o.tracerProvider.Tracer(instrumentationName),
		metrics:  newClientMetrics(o.registerer),
		dir:      newDirectory(),
	}, nil
}

// Session returns the session identification
func (c *Client) Session() Session {
	return c.session
}

// Ambiente returns the environment the client is bound to
func (c *Client) Ambiente() wsdl.Ambiente {
	return c.ambiente
}

// Definitions returns the loaded WSDL, nil when the client was built with WithCaller alone
func (c *Client) Definitions() *wsdl.Definitions {
	return c.defs
}
