package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/shapeyaml"
)

func newDocsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "docs FILE...",
		Short: "Count the documents in each file",
		Long: `Load each file with the selected driver and list its documents.
The decoder accepts only inputs holding exactly one document; others are
flagged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			pal := newPalette(out, a.colorMode)
			bad := 0
			for _, name := range args {
				data, err := readInput(cmd, name)
				if err != nil {
					return err
				}
				docs, err := shapeyaml.LoadDocuments(data, a.parseOpt())
				if err != nil {
					bad++
					_, _ = fmt.Fprintf(out, "%s: %s %v\n", name, pal.err("error"), err)
					continue
				}
				status := pal.ok("ok")
				if len(docs) != 1 {
					status = pal.warn("not decodable")
					bad++
				}
				_, _ = fmt.Fprintf(out, "%s: %d document(s) %s\n", name, len(docs), status)
				for i, d := range docs {
					_, _ = fmt.Fprintf(out, "  [%d] %s%s\n", i, pal.kindOf(d), pal.position(d))
				}
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d file(s) do not hold exactly one document", bad, len(args))
			}
			return nil
		},
	}
}
