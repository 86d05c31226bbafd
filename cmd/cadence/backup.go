package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/cadence/internal/backup"
)

func newBackupCmd(a *app) *cobra.Command {
	var passphrase string

	cmd := &cobra.Command{
		Use:   "backup <file>",
		Short: "Write a snapshot of the database",
		Long: `Write a consistent snapshot of the database to a new file.

The snapshot is encrypted when a passphrase is given with --passphrase,
the backup_passphrase config key or CADENCE_BACKUP_PASSPHRASE.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				passphrase = a.passphrase
			}
			if err := backup.Snapshot(cmd.Context(), a.db, args[0], passphrase); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot written to %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "encrypt the snapshot with this passphrase")
	return cmd
}

func newRestoreCmd(a *app) *cobra.Command {
	var passphrase string

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the database with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				passphrase = a.passphrase
			}
			a.close()
			if err := backup.Restore(cmd.Context(), args[0], a.dbPath, passphrase); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %s from %s\n", a.dbPath, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "passphrase the snapshot was encrypted with")
	return cmd
}
