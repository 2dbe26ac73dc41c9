package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/flowr-analysis/flowr-lsp/src/flsp/entity"
	flowrclient "github.com/flowr-analysis/flowr-lsp/src/flsp/gateway/flowr-client"
	"github.com/flowr-analysis/flowr-lsp/src/flsp/mapper"
	"github.com/spf13/cobra"
)

type statusResult struct {
	Server string            `json:"server" yaml:"server"`
	Info   entity.ServerInfo `json:"info" yaml:"info"`
}

func statusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Connect and print the server's versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(ctx context.Context, s flowrclient.Session) error {
				result := statusResult{Server: c.describeServer(), Info: s.Info()}
				return render(c.out, c.output, result, func(w io.Writer) error {
					compat := "compatible"
					if !result.Info.Compatible {
						compat = "older than " + c.minVersion
					}
					_, err := fmt.Fprintf(w, "flowR %s at %s (R %s, engine %s, %s)\n",
						result.Info.FlowrVersion, result.Server, result.Info.RVersion, result.Info.Engine, compat)
					return err
				})
			})
		},
	}
}

func sliceCmd(c *cli) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "slice FILE CRITERION...",
		Short: "Print the backward slice of an R script",
		Long: `Print the backward slice of an R script for one or more criteria.

A criterion is a 1-based line and column, for example 12:5.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := parseCriteria(args[1:])
			if err != nil {
				return err
			}
			if _, err := readScript(args[0]); err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(ctx context.Context, s flowrclient.Session) error {
				return c.runScript(ctx, args[0], watch, func(ctx context.Context, content string) error {
					var slice *entity.Slice
					err := c.bounded(ctx, func(ctx context.Context) (err error) {
						slice, err = s.RetrieveSlice(ctx, args[0], content, criteria)
						return err
					})
					if err != nil {
						return err
					}
					return render(c.out, c.output, slice, func(w io.Writer) error {
						_, err := io.WriteString(w, strings.TrimSuffix(slice.Code, "\n")+"\n")
						return err
					})
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Slice again whenever the file changes")
	return cmd
}

func depsCmd(c *cli) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:     "deps FILE",
		Aliases: []string{"dependencies"},
		Short:   "List the libraries, data files and scripts an R script depends on",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := readScript(args[0]); err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(ctx context.Context, s flowrclient.Session) error {
				return c.runScript(ctx, args[0], watch, func(ctx context.Context, content string) error {
					var deps *entity.Dependencies
					err := c.bounded(ctx, func(ctx context.Context) (err error) {
						deps, err = s.RetrieveDependencies(ctx, args[0], content)
						return err
					})
					if err != nil {
						return err
					}
					return render(c.out, c.output, deps.Records, func(w io.Writer) error {
						return writeTree(w, mapper.DependencyTree(deps.Records), 0)
					})
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "List again whenever the file changes")
	return cmd
}

func (c *cli) describeServer() string {
	if c.connection.Type == entity.ConnectionProcess {
		return c.connection.Executable
	}
	return fmt.Sprintf("%s://%s:%d", c.connection.Type, c.connection.Host, c.connection.Port)
}

func parseCriteria(args []string) ([]entity.Criterion, error) {
	criteria := make([]entity.Criterion, 0, len(args))
	for _, arg := range args {
		line, column, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("criterion %q is not in line:column form", arg)
		}
		l, err := strconv.Atoi(line)
		if err != nil || l < 1 {
			return nil, fmt.Errorf("criterion %q has an invalid line", arg)
		}
		col, err := strconv.Atoi(column)
		if err != nil || col < 1 {
			return nil, fmt.Errorf("criterion %q has an invalid column", arg)
		}
		criteria = append(criteria, entity.NewCriterion(l, col))
	}
	return criteria, nil
}

func writeTree(w io.Writer, items []entity.TreeItem, depth int) error {
	for _, item := range items {
		line := strings.Repeat("  ", depth) + item.Label
		if item.Description != "" {
			line += " (" + item.Description + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if err := writeTree(w, item.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}
