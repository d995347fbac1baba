// Package config handles configuration loading for the SEI client tools.
//
// Configuration is loaded from an optional YAML file with support for
// environment variable expansion (${VAR} or $VAR syntax), then overridden by
// SEI_* environment variables. Credentials are usually injected through the
// environment or a .env file (see [LoadDotEnv]).
//
// # Configuration Sections
//
//   - sei: environment, calling system, service key, session unit, WSDL cache
//   - https: request timeout, TLS settings
//   - log: level and output format
//
// # Example Configuration
//
//	sei:
//	  ambiente: homologacao
//	  siglaSistema: InovaFiscaliza
//	  siglaUnidade: FISF
//	  chaveApi: ${SEI_HM_API_KEY}
//	  cacheDir: ${HOME}/.cache/seiws
//
//	https:
//	  timeout: 30s
//	  minTLSVersion: "1.2"
//
//	log:
//	  level: info
//	  format: text
//
// See [Load] for loading configuration from a file.
package config

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/sirosfoundation/go-sei/pkg/sei"
	"github.com/sirosfoundation/go-sei/pkg/transport"
	"github.com/sirosfoundation/go-sei/pkg/wsdl"
)

// Environment variables overriding the file
const (
	EnvAmbiente     = "SEI_AMBIENTE"
	EnvSiglaSistema = "SEI_SIGLA_SISTEMA"
	EnvSiglaUnidade = "SEI_SIGLA_UNIDADE"
	EnvChaveAPI     = "SEI_CHAVE_API"
	EnvHMChaveAPI   = "SEI_HM_API_KEY"
	EnvPDChaveAPI   = "SEI_PD_API_KEY"
	EnvWSDLLocation = "SEI_WSDL_LOCATION"
	EnvCacheDir     = "SEI_WSDL_CACHE_DIR"
	EnvLogLevel     = "SEI_LOG_LEVEL"
	EnvLogFormat    = "SEI_LOG_FORMAT"
)

// Config is the root configuration structure
type Config struct {
	SEI   SEIConfig   `yaml:"sei"`
	HTTPS HTTPSConfig `yaml:"https"`
	Log   LogConfig   `yaml:"log"`
}

// SEIConfig holds the session settings
type SEIConfig struct {
	Ambiente     string `yaml:"ambiente"`
	SiglaSistema string `yaml:"siglaSistema"`
	SiglaUnidade string `yaml:"siglaUnidade"`
	ChaveAPI     string `yaml:"chaveApi"`
	// WSDLLocation overrides the environment WSDL URL (URL or file path)
	WSDLLocation string `yaml:"wsdlLocation"`
	CacheDir     string `yaml:"cacheDir"`
}

// HTTPSConfig holds transport settings
type HTTPSConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// MinTLSVersion is "1.2" or "1.3"
	MinTLSVersion string `yaml:"minTLSVersion"`
	// CAFile adds a PEM bundle to the trusted roots
	CAFile string `yaml:"caFile"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Option adjusts the configuration after the file and environment were
// applied, before defaults and validation
type Option func(*Config)

// Load reads configuration from a YAML file, applies SEI_* environment
// overrides, opts, defaults and validation. An empty path skips the file.
func Load(path string, opts ...Option) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		// Expand environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv(os.LookupEnv)
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.applyKeyEnv(os.LookupEnv)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// LoadDotEnv loads variables from .env files, overriding the process
// environment. Missing files are ignored. Without arguments ./.env is read.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := gotenv.OverLoad(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(&c.SEI.Ambiente, EnvAmbiente)
	set(&c.SEI.SiglaSistema, EnvSiglaSistema)
	set(&c.SEI.SiglaUnidade, EnvSiglaUnidade)
	set(&c.SEI.ChaveAPI, EnvChaveAPI)
	set(&c.SEI.WSDLLocation, EnvWSDLLocation)
	set(&c.SEI.CacheDir, EnvCacheDir)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Log.Format, EnvLogFormat)
}

// applyKeyEnv reads the per environment key, used only when no explicit key
// was given
func (c *Config) applyKeyEnv(lookup func(string) (string, bool)) {
	if c.SEI.ChaveAPI != "" {
		return
	}
	a, err := wsdl.ParseAmbiente(c.ambiente())
	if err != nil {
		return
	}
	key := EnvHMChaveAPI
	if a == wsdl.Producao {
		key = EnvPDChaveAPI
	}
	if v, ok := lookup(key); ok {
		c.SEI.ChaveAPI = v
	}
}

func (c *Config) applyDefaults() {
	if c.SEI.Ambiente == "" {
		c.SEI.Ambiente = string(wsdl.Homologacao)
	}
	if c.SEI.CacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			c.SEI.CacheDir = filepath.Join(dir, "seiws")
		}
	}
	if c.HTTPS.Timeout == 0 {
		c.HTTPS.Timeout = 30 * time.Second
	}
	if c.HTTPS.MinTLSVersion == "" {
		c.HTTPS.MinTLSVersion = "1.2"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	if _, err := wsdl.ParseAmbiente(c.SEI.Ambiente); err != nil {
		return fmt.Errorf("sei.ambiente: %w", err)
	}
	if c.SEI.SiglaSistema == "" {
		return fmt.Errorf("sei.siglaSistema: %w", sei.ErrMissingSiglaSistema)
	}
	if c.SEI.ChaveAPI == "" {
		return fmt.Errorf("sei.chaveApi: %w", sei.ErrInvalidChaveAPI)
	}

	switch c.HTTPS.MinTLSVersion {
	case "1.2", "1.3":
	default:
		return fmt.Errorf("https.minTLSVersion must be '1.2' or '1.3', got '%s'", c.HTTPS.MinTLSVersion)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got '%s'", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json', got '%s'", c.Log.Format)
	}

	return nil
}

func (c *Config) ambiente() string {
	if c.SEI.Ambiente == "" {
		return string(wsdl.Homologacao)
	}
	return c.SEI.Ambiente
}

// ClientConfig returns the sei.Client configuration
func (c *Config) ClientConfig() (sei.Config, error) {
	https := transport.DefaultHTTPSConfig()
	https.Timeout = c.HTTPS.Timeout
	if c.HTTPS.MinTLSVersion == "1.3" {
		https.MinTLSVersion = tls.VersionTLS13
	}

	if c.HTTPS.CAFile != "" {
		pem, err := os.ReadFile(c.HTTPS.CAFile)
		if err != nil {
			return sei.Config{}, fmt.Errorf("reading CA file: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return sei.Config{}, fmt.Errorf("no certificates found in %s", c.HTTPS.CAFile)
		}
		https.RootCAs = pool
	}

	return sei.Config{
		Ambiente:     c.SEI.Ambiente,
		SiglaSistema: c.SEI.SiglaSistema,
		ChaveAPI:     c.SEI.ChaveAPI,
		SiglaUnidade: c.SEI.SiglaUnidade,
		WSDLLocation: c.SEI.WSDLLocation,
		CacheDir:     c.SEI.CacheDir,
		HTTPSConfig:  https,
	}, nil
}
