package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"credit-sync/internal/credits"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve ARTIST TITLE",
		Short: "Look up the credits of one song without touching the traffic system",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			query := credits.BuildQuery(args[0], args[1])
			if query == "" {
				return errors.New("artist and title are blank")
			}

			out := cmd.OutOrStdout()
			resolved, err := newResolver(cfg, logger).Resolve(cmd.Context(), query)
			if errors.Is(err, credits.ErrNoMatch) {
				fmt.Fprintf(out, "No catalog match for %q\n", query)
				return nil
			}
			if err != nil {
				return err
			}

			fields := []field{
				{"Query", query},
				{"Artist", resolved.Artist},
				{"Title", resolved.Title},
				{"Album", resolved.Album},
				{"Year", resolved.Year},
				{"Composer", resolved.Composer},
				{"Lyricist", resolved.Lyricist},
				{"Label", resolved.Label},
			}
			if len(resolved.UnclassifiedRoles) > 0 {
				fields = append(fields, field{"Other roles", strings.Join(resolved.UnclassifiedRoles, ", ")})
			}
			fmt.Fprintln(out, renderFields(fields))
			return nil
		},
	}
}
