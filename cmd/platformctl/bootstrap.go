package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/idp-platform/platformctl/internal/cmdexec"
	"github.com/idp-platform/platformctl/internal/config"
	"github.com/idp-platform/platformctl/internal/gitops"
	"github.com/idp-platform/platformctl/internal/health"
	"github.com/idp-platform/platformctl/internal/logger"
	"github.com/idp-platform/platformctl/internal/model"
	"github.com/idp-platform/platformctl/internal/pipeline"
	"github.com/idp-platform/platformctl/internal/steps"
	"github.com/idp-platform/platformctl/internal/tui"
)

type bootstrapOptions struct {
	ConfigPath     string
	JSON           bool
	Async          bool
	DryRun         bool
	Verbose        bool
	NonInteractive bool
}

var bootstrapCmdRunner = runBootstrap

func newBootstrapCmd(root *rootFlags) *cobra.Command {
	opts := bootstrapOptions{}

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Bootstrap the platform from prerequisites through health check",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = root.dryRun
			opts.Verbose = root.verbose
			opts.NonInteractive = opts.JSON || !term.IsTerminal(int(os.Stdout.Fd()))

			if err := validateBootstrapOptions(opts); err != nil {
				return err
			}

			return bootstrapCmdRunner(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the platform manifest (built-in defaults when omitted)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the machine-readable result instead of the progress view")
	cmd.Flags().BoolVar(&opts.Async, "async", false, "Do not wait for workloads to converge")

	return cmd
}

func runBootstrap(opts bootstrapOptions) error {
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

	stepList := steps.ForBootstrap(steps.Deps{
		Config: cfg,
		Runner: runner,
		Syncer: gitops.NewSyncer(log),
		Health: agg,
		Log:    log,
		Async:  opts.Async,
	})
	if err := pipeline.Validate(stepList); err != nil {
		return err
	}

	rc := model.NewRunContext(cfg.Environment, opts.DryRun)
	pipe := pipeline.New(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	names := make([]string, 0, len(stepList))
	for _, s := range stepList {
		names = append(names, s.Name)
	}
	state := tui.NewModel(cfg.Name, names)
	interactive := !opts.NonInteractive

	var program *tea.Program
	var programErr error
	done := make(chan struct{})

	if interactive {
		program = tea.NewProgram(state)
		go func() {
			_, programErr = program.Run()
			close(done)
		}()
	}

	pipe.OnStepStart = func(name string) {
		dispatchTuiMessage(interactive, program, &state, tui.StepStartMsg{Name: name, Time: time.Now()})
	}
	pipe.OnStepComplete = func(res model.StepResult) {
		dispatchTuiMessage(interactive, program, &state, tui.StepCompleteMsg{Result: res})
	}

	result := pipe.Run(ctx, rc, stepList)
	dispatchTuiMessage(interactive, program, &state, tui.DoneMsg{Result: &result})

	if interactive {
		<-done
		if programErr != nil {
			return programErr
		}
	}

	if opts.JSON {
		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(payload))
	} else if !interactive {
		fmt.Fprintln(os.Stdout, state.View())
	}

	if !result.Succeeded() {
		return fmt.Errorf("%s", result.Summary())
	}
	return nil
}

func dispatchTuiMessage(interactive bool, program *tea.Program, state *tui.Model, msg tea.Msg) {
	if interactive {
		if program != nil {
			program.Send(msg)
		}
		return
	}

	updated, _ := state.Update(msg)
	if m, ok := updated.(tui.Model); ok {
		*state = m
	}
}
