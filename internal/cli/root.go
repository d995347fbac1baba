// Package cli implements the seiws command line tool.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sirosfoundation/go-sei/internal/config"
	"github.com/sirosfoundation/go-sei/internal/logging"
	"github.com/sirosfoundation/go-sei/pkg/sei"
)

// Version is set at build time
var Version = "dev"

var errNotConfirmed = errors.New("operação não confirmada pelo servidor")

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

type app struct {
	v *viper.Viper
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "seiws",
		Short:         "Cliente do web service do SEI",
		Long:          "seiws calls the SEI SOAP web service with the configured system identification, resolving unit, user and series names on the way.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	v := viper.New()
	f := rootCmd.PersistentFlags()
	f.String("config", "", "YAML configuration file")
	f.String("env-file", "", ".env file loaded before the environment is read (default ./.env)")
	f.String("ambiente", "", "SEI environment: homologacao or producao")
	f.String("sigla-sistema", "", "calling system acronym")
	f.String("sigla-unidade", "", "session unit acronym")
	f.String("chave-api", "", "service key (IdentificacaoServico)")
	f.String("wsdl", "", "WSDL URL or file overriding the environment default")
	f.String("cache-dir", "", "WSDL cache directory")
	f.String("log-level", "", "debug, info, warn or error")
	f.String("log-format", "", "text or json")
	f.Bool("json", false, "print results as JSON")
	_ = v.BindPFlags(f)

	v.SetEnvPrefix("SEI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	_ = v.BindEnv("config")
	_ = v.BindEnv("env-file")

	a := &app{v: v}
	rootCmd.AddCommand(
		newVersionCmd(),
		newOperacoesCmd(a),
		newListarCmd(a),
		newResolverCmd(a),
		newConsultarCmd(a),
		newProcessoCmd(a),
		newInvokeCmd(a),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
			return err
		},
	}
}

func (a *app) loadConfig() (*config.Config, error) {
	var files []string
	if f := a.v.GetString("env-file"); f != "" {
		files = append(files, f)
	}
	if err := config.LoadDotEnv(files...); err != nil {
		return nil, err
	}
	return config.Load(a.v.GetString("config"), a.flagOverrides)
}

func (a *app) flagOverrides(c *config.Config) {
	set := func(dst *string, key string) {
		if s := a.v.GetString(key); s != "" {
			*dst = s
		}
	}
	set(&c.SEI.Ambiente, "ambiente")
	set(&c.SEI.SiglaSistema, "sigla-sistema")
	set(&c.SEI.SiglaUnidade, "sigla-unidade")
	set(&c.SEI.ChaveAPI, "chave-api")
	set(&c.SEI.WSDLLocation, "wsdl")
	set(&c.SEI.CacheDir, "cache-dir")
	set(&c.Log.Level, "log-level")
	set(&c.Log.Format, "log-format")
}

func (a *app) newClient(cmd *cobra.Command) (*sei.Client, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	cc, err := cfg.ClientConfig()
	if err != nil {
		return nil, err
	}

	client, err := sei.NewClient(cmd.Context(), cc, sei.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create SEI client: %w", err)
	}
	return client, nil
}

func (a *app) asJSON() bool {
	return a.v.GetBool("json")
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeConfirmation(cmd *cobra.Command, op sei.Operation, ok bool) error {
	if !ok {
		return fmt.Errorf("%s: %w", op, errNotConfirmed)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", op)
	return err
}
