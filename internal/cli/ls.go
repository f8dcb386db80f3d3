package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aurorakit/resdiff/pkg/resource"
	"github.com/aurorakit/resdiff/pkg/walker"
)

// NewLsCommand creates the ls command
func NewLsCommand() *cobra.Command {
	var byKind bool

	cmd := &cobra.Command{
		Use:   "ls <root>",
		Short: "List comparable resources under a root",
		Long: `Enumerate every comparable resource reachable from a root path and
print its identifier, kind, and size. The root may be a loose file, a
capsule, a directory, or a game installation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			w := walker.New(nil)
			resources, err := w.Walk(ctx, args[0])
			if err != nil {
				return err
			}

			if byKind {
				counts := make(map[resource.Type]int)
				sizes := make(map[resource.Type]int64)
				for _, r := range resources {
					counts[r.Kind]++
					sizes[r.Kind] += int64(len(r.Data))
				}
				kinds := make([]resource.Type, 0, len(counts))
				for k := range counts {
					kinds = append(kinds, k)
				}
				sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
				for _, k := range kinds {
					fmt.Printf("%-8s %6d resources %12d bytes\n", k, counts[k], sizes[k])
				}
				fmt.Printf("total    %6d resources\n", len(resources))
				return nil
			}

			for _, r := range resources {
				fmt.Printf("%-8s %10d  %s\n", r.Kind, len(r.Data), r.Identifier)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&byKind, "by-kind", false, "summarize resource counts per kind")

	return cmd
}
