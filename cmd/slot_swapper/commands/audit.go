package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Run one invariant audit pass; exits non-zero when violations are found",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			svc, err := openServices(ctx, false)
			if err != nil {
				return err
			}
			defer svc.storage.Close()

			violations, err := svc.audit.Audit(ctx)
			if err != nil {
				return fmt.Errorf("audit: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, v := range violations {
				ids := make([]string, 0, len(v.RequestIDs))
				for _, id := range v.RequestIDs {
					ids = append(ids, id.String())
				}
				fmt.Fprintf(out, "%s\tslot=%s\trequests=[%s]\t%s\n", v.Kind, v.SlotID, strings.Join(ids, ","), v.Detail)
			}

			if len(violations) > 0 {
				return fmt.Errorf("found %d invariant violations", len(violations))
			}
			fmt.Fprintln(out, "no violations")
			return nil
		},
	}
}
