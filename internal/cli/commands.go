package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sirosfoundation/go-sei/pkg/sei"
)

func newOperacoesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "operacoes",
		Short: "List the operations the client knows, with their wire parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ops := sei.Operations()
			if a.asJSON() {
				out := make(map[string][]string, len(ops))
				for _, op := range ops {
					out[string(op)] = op.Parts()
				}
				return writeJSON(cmd, out)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, op := range ops {
				scope := "-"
				if op.UnitScoped() {
					scope = "unidade"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", op, scope, strings.Join(op.Parts(), ","))
			}
			return w.Flush()
		},
	}
}

func newListarCmd(a *app) *cobra.Command {
	listarCmd := &cobra.Command{
		Use:   "listar",
		Short: "List directory tables",
	}

	listarCmd.AddCommand(
		listingCmd(a, "unidades", "Units", []string{"SIGLA", "ID", "DESCRICAO"}, func(cmd *cobra.Command, c *sei.Client) (any, [][]string, error) {
			m, err := c.ListarUnidades(cmd.Context())
			rows := make([][]string, 0, len(m))
			for _, u := range m {
				rows = append(rows, []string{u.Sigla, u.IdUnidade, u.Descricao})
			}
			return m, rows, err
		}),
		listingCmd(a, "usuarios", "Users of the session unit", []string{"SIGLA", "ID", "NOME"}, func(cmd *cobra.Command, c *sei.Client) (any, [][]string, error) {
			m, err := c.ListarUsuarios(cmd.Context())
			rows := make([][]string, 0, len(m))
			for _, u := range m {
				rows = append(rows, []string{u.Sigla, u.IdUsuario, u.Nome})
			}
			return m, rows, err
		}),
		listingCmd(a, "series", "Document series of the session unit", []string{"NOME", "ID", "APLICABILIDADE"}, func(cmd *cobra.Command, c *sei.Client) (any, [][]string, error) {
			m, err := c.ListarSeries(cmd.Context())
			rows := make([][]string, 0, len(m))
			for _, s := range m {
				rows = append(rows, []string{s.Nome, s.IdSerie, s.Aplicabilidade})
			}
			return m, rows, err
		}),
		listingCmd(a, "paises", "Countries", []string{"NOME", "ID"}, func(cmd *cobra.Command, c *sei.Client) (any, [][]string, error) {
			m, err := c.ListarPaises(cmd.Context())
			rows := make([][]string, 0, len(m))
			for _, p := range m {
				rows = append(rows, []string{p.Nome, p.IdPais})
			}
			return m, rows, err
		}),
	)

	return listarCmd
}

type listingFunc func(cmd *cobra.Command, c *sei.Client) (any, [][]string, error)

func listingCmd(a *app, use, short string, header []string, list listingFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			raw, rows, err := list(cmd, c)
			if err != nil {
				return err
			}
			if a.asJSON() {
				return writeJSON(cmd, raw)
			}

			sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join(header, "\t"))
			for _, row := range rows {
				fmt.Fprintln(w, strings.Join(row, "\t"))
			}
			return w.Flush()
		},
	}
}

func newResolverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "resolver {unidade|usuario|serie|pais} CHAVE",
		Short:     "Print the numeric ID of a unit, user, series or country",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"unidade", "usuario", "serie", "pais"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var id string
			switch args[0] {
			case "unidade":
				id, err = c.ResolverUnidade(ctx, args[1])
			case "usuario":
				id, err = c.ResolverUsuario(ctx, args[1])
			case "serie":
				id, err = c.ResolverSerie(ctx, args[1])
			case "pais":
				id, err = c.ResolverPais(ctx, args[1])
			default:
				return fmt.Errorf("unknown directory %q", args[0])
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
}

func newConsultarCmd(a *app) *cobra.Command {
	var assuntos, interessados, observacoes, ultimoAndamento, unidadesAbertas, relacionados, anexados bool

	cmd := &cobra.Command{
		Use:   "consultar PROTOCOLO",
		Short: "Query a process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}

			r, err := c.ConsultarProcedimento(cmd.Context(), args[0], sei.ConsultaProcedimento{
				SinRetornarAssuntos:                   flag(assuntos),
				SinRetornarInteressados:               flag(interessados),
				SinRetornarObservacoes:                flag(observacoes),
				SinRetornarUltimoAndamento:            flag(ultimoAndamento),
				SinRetornarUnidadesProcedimentoAberto: flag(unidadesAbertas),
				SinRetornarProcedimentosRelacionados:  flag(relacionados),
				SinRetornarProcedimentosAnexados:      flag(anexados),
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, r)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&assuntos, "assuntos", false, "include subjects")
	f.BoolVar(&interessados, "interessados", false, "include interested parties")
	f.BoolVar(&observacoes, "observacoes", false, "include observations")
	f.BoolVar(&ultimoAndamento, "ultimo-andamento", false, "include the last activity")
	f.BoolVar(&unidadesAbertas, "unidades-abertas", false, "include the units where the process is open")
	f.BoolVar(&relacionados, "relacionados", false, "include related processes")
	f.BoolVar(&anexados, "anexados", false, "include attached processes")

	return cmd
}

func newProcessoCmd(a *app) *cobra.Command {
	processoCmd := &cobra.Command{
		Use:   "processo",
		Short: "Change the state of a process",
	}

	simple := []struct {
		use   string
		short string
		op    sei.Operation
		call  func(c *sei.Client, cmd *cobra.Command, protocolo string) (bool, error)
	}{
		{"concluir", "Conclude a process in the session unit", sei.OpConcluirProcesso, func(c *sei.Client, cmd *cobra.Command, p string) (bool, error) {
			return c.ConcluirProcesso(cmd.Context(), p)
		}},
		{"reabrir", "Reopen a process in the session unit", sei.OpReabrirProcesso, func(c *sei.Client, cmd *cobra.Command, p string) (bool, error) {
			return c.ReabrirProcesso(cmd.Context(), p)
		}},
		{"bloquear", "Block a process", sei.OpBloquearProcesso, func(c *sei.Client, cmd *cobra.Command, p string) (bool, error) {
			return c.BloquearProcesso(cmd.Context(), p)
		}},
		{"desbloquear", "Unblock a process", sei.OpDesbloquearProcesso, func(c *sei.Client, cmd *cobra.Command, p string) (bool, error) {
			return c.DesbloquearProcesso(cmd.Context(), p)
		}},
	}

	for _, s := range simple {
		processoCmd.AddCommand(&cobra.Command{
			Use:   s.use + " PROTOCOLO",
			Short: s.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.newClient(cmd)
				if err != nil {
					return err
				}
				ok, err := s.call(c, cmd, args[0])
				if err != nil {
					return err
				}
				return writeConfirmation(cmd, s.op, ok)
			},
		})
	}

	processoCmd.AddCommand(newAtribuirCmd(a), newEnviarCmd(a))
	return processoCmd
}

func newAtribuirCmd(a *app) *cobra.Command {
	var reabrir bool

	cmd := &cobra.Command{
		Use:   "atribuir PROTOCOLO USUARIO",
		Short: "Assign a process to a user of the session unit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			ok, err := c.AtribuirProcesso(cmd.Context(), args[0], args[1], yesNo(reabrir))
			if err != nil {
				return err
			}
			return writeConfirmation(cmd, sei.OpAtribuirProcesso, ok)
		},
	}
	cmd.Flags().BoolVar(&reabrir, "reabrir", false, "reopen the process if it is concluded")

	return cmd
}

func newEnviarCmd(a *app) *cobra.Command {
	var (
		destinos     []string
		manterAberto bool
		reabrir      bool
		email        bool
	)

	cmd := &cobra.Command{
		Use:   "enviar PROTOCOLO",
		Short: "Send a process to other units",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			ok, err := c.EnviarProcesso(cmd.Context(), sei.EnvioProcesso{
				ProtocoloProcedimento:     args[0],
				UnidadesDestino:           destinos,
				SinManterAbertoUnidade:    flag(manterAberto),
				SinEnviarEmailNotificacao: flag(email),
				SinReabrir:                flag(reabrir),
			})
			if err != nil {
				return err
			}
			return writeConfirmation(cmd, sei.OpEnviarProcesso, ok)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&destinos, "destino", nil, "destination unit acronym (repeatable)")
	f.BoolVar(&manterAberto, "manter-aberto", false, "keep the process open in the session unit")
	f.BoolVar(&reabrir, "reabrir", false, "reopen the process if it is concluded")
	f.BoolVar(&email, "email", false, "notify the destination units by email")
	_ = cmd.MarkFlagRequired("destino")

	return cmd
}

func newInvokeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "invoke OPERACAO [PARAMETRO=valor ...]",
		Short: "Call any catalogue operation with raw wire parameters",
		Long: "invoke calls an operation with the given wire parameters. Identification " +
			"parameters are always taken from the configuration. A parameter repeated " +
			"on the command line is sent as a list.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			c, err := a.newClient(cmd)
			if err != nil {
				return err
			}
			result, err := c.Invoke(cmd.Context(), sei.Operation(args[0]), params)
			if err != nil {
				return err
			}
			return writeJSON(cmd, result)
		},
	}
}

func parseParams(args []string) (sei.Params, error) {
	params := sei.Params{}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected NOME=valor", arg)
		}
		switch prev := params[name].(type) {
		case nil:
			params[name] = value
		case string:
			params[name] = []string{prev, value}
		case []string:
			params[name] = append(prev, value)
		}
	}
	return params, nil
}

func flag(b bool) string {
	if b {
		return sei.Sim
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return sei.Sim
	}
	return sei.Nao
}
