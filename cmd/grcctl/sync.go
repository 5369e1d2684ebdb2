package main

import (
	"fmt"

	"grc-integrator/internal/orchestrator"

	"github.com/spf13/cobra"
)

func reportResult(cmd *cobra.Command, r orchestrator.Report) error {
	if err := printJSON(cmd, r); err != nil {
		return err
	}
	if !r.Success {
		return fmt.Errorf("%w: %s", errActionFailed, r.Message)
	}
	return nil
}

func newSyncBundlesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-bundles",
		Short: "Refresh the bundle manifest from the repository feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			return reportResult(cmd, a.Orchestrator.SyncBundles(cmd.Context()))
		},
	}
}

func newImportBundleCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import-bundle CODE",
		Short: "Download one bundle and upsert its standard and controls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			return reportResult(cmd, a.Orchestrator.ImportBundle(cmd.Context(), args[0]))
		},
	}
}

func newImportAllCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import-all",
		Short: "Import every known bundle, continuing past failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			batch, err := a.Orchestrator.ImportAll(cmd.Context())
			if err != nil {
				return err
			}
			if err := printJSON(cmd, batch); err != nil {
				return err
			}
			if batch.Failed > 0 {
				return fmt.Errorf("%w: %d of %d bundles failed", errActionFailed, batch.Failed, batch.Failed+batch.Succeeded)
			}
			return nil
		},
	}
}

func newSyncCriteriaCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-criteria",
		Short: "Import sub-criteria from the criteria feed as in-scope standards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			return reportResult(cmd, a.Orchestrator.SyncCriteria(cmd.Context()))
		},
	}
}
