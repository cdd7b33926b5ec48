// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nttcom/pcepio/internal/config"
	"github.com/nttcom/pcepio/internal/pkg/version"
	"github.com/nttcom/pcepio/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg     config.Config
	jsonFmt bool
	logFile *os.File
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "pcepctl",
		Short:        "Decode, inspect and build PCEP messages",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&jsonFmt, "json", "j", false, "output json format")
	rootCmd.PersistentFlags().StringP("config", "f", "", "path to a yaml configuration file")

	rootCmd.AddCommand(newDecodeCmd(), newTedCmd(), newPathCmd(), newCaptureCmd(), newVersionCmd())
	rootCmd.PersistentPreRunE = persistentPreRunE
	rootCmd.PersistentPostRunE = persistentPostRunE
	rootCmd.Run = runRootCmd

	return rootCmd
}

func persistentPreRunE(cmd *cobra.Command, args []string) error {
	cfg = config.Default()
	if path := cmd.Flag("config").Value.String(); path != "" {
		c, err := config.ReadConfigFile(path)
		if err != nil {
			return fmt.Errorf("failed to load config %q: %w", path, err)
		}
		cfg = c
	}

	var fp io.Writer
	if path := cfg.Global.Log.FilePath(); path != "" {
		if err := os.MkdirAll(cfg.Global.Log.Path, 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		logFile = f
		fp = f
	}

	l, err := logger.LogInit(fp, cmd.ErrOrStderr(), cfg.Global.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(l)
	return nil
}

func persistentPostRunE(cmd *cobra.Command, args []string) error {
	_ = zap.L().Sync()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func runRootCmd(cmd *cobra.Command, args []string) {
	cmd.HelpFunc()(cmd, args)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "pcepctl "+version.Version())
		},
	}
}
