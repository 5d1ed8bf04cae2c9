package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/idp-platform/platformctl/internal/cmdexec"
	"github.com/idp-platform/platformctl/internal/config"
	"github.com/idp-platform/platformctl/internal/health"
	"github.com/idp-platform/platformctl/internal/logger"
	"github.com/idp-platform/platformctl/internal/model"
	"github.com/idp-platform/platformctl/internal/ops"
)

type operateOptions struct {
	ConfigPath string
	Services   []string
	Async      bool
	JSON       bool
	DryRun     bool
	Verbose    bool
}

var operateCmdRunner = runOperate

func newOperateCmd(root *rootFlags) *cobra.Command {
	opts := operateOptions{}

	cmd := &cobra.Command{
		Use:       "operate {start|stop|restart|status|health}",
		Short:     "Run day-2 operations against the platform services",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"start", "stop", "restart", "status", "health"},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = root.dryRun
			opts.Verbose = root.verbose

			op, err := ops.ParseOperation(args[0])
			if err != nil {
				return err
			}
			if err := validateOperateOptions(opts); err != nil {
				return err
			}

			return operateCmdRunner(op, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the platform manifest (built-in defaults when omitted)")
	cmd.Flags().StringSliceVar(&opts.Services, "services", nil, "Restrict the operation to the named services")
	cmd.Flags().BoolVar(&opts.Async, "async", false, "Do not wait for workloads to converge")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the machine-readable result")

	return cmd
}

func runOperate(op ops.Operation, opts operateOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: !opts.JSON})
	if err != nil {
		return err
	}

	runner := cmdexec.NewLocal(time.Duration(cfg.Settings.CommandTimeout) * time.Second)
	agg := health.New(cfg, health.NewKubeProber(runner), log)
	controller := ops.NewController(cfg, runner, agg, log)

	rc := model.NewRunContext(cfg.Environment, opts.DryRun)
	res, execErr := controller.Execute(context.Background(), rc, op, ops.Options{
		Services: opts.Services,
		Async:    opts.Async,
	})
	if res == nil {
		return execErr
	}

	if opts.JSON {
		payload, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(payload))
	} else {
		printOperationResult(res)
	}

	if execErr != nil {
		return execErr
	}
	if !res.Success {
		return errors.New(res.Summary)
	}
	return nil
}

func printOperationResult(res *model.OperationResult) {
	names := make([]string, 0, len(res.Services))
	for name := range res.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := res.Services[name]
		line := fmt.Sprintf("  %-12s %s", name, entry.Status)
		if entry.Detail != "" {
			line += " (" + entry.Detail + ")"
		}
		fmt.Fprintln(os.Stdout, line)
	}

	if res.Health != nil {
		fmt.Fprintf(os.Stdout, "  health score: %d (%s)\n", res.Health.Score, res.Health.OverallStatus)
		for _, rec := range res.Health.Recommendations {
			fmt.Fprintf(os.Stdout, "  - %s\n", rec)
		}
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(os.Stdout, "  warning: %s\n", warning)
	}
	fmt.Fprintln(os.Stdout, res.Summary)
}
