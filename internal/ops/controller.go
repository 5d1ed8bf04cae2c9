package ops

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/idp-platform/platformctl/internal/cmdexec"
	"github.com/idp-platform/platformctl/internal/config"
	"github.com/idp-platform/platformctl/internal/health"
	"github.com/idp-platform/platformctl/internal/logger"
	"github.com/idp-platform/platformctl/internal/model"
	platformerrors "github.com/idp-platform/platformctl/pkg/errors"
)

type handlerFunc func(ctx context.Context, rc model.RunContext, res *model.OperationResult, opts Options) error

// Controller dispatches operations through a fixed handler table. The table
// is built once in NewController so an unsupported verb can never reach a
// handler.
type Controller struct {
	cfg      *config.Config
	runner   cmdexec.Runner
	health   *health.Aggregator
	log      *logger.Logger
	settle   time.Duration
	handlers map[Operation]handlerFunc
}

// NewController wires the handler table over the service catalog from the
// manifest.
func NewController(cfg *config.Config, runner cmdexec.Runner, agg *health.Aggregator, log *logger.Logger) *Controller {
	settle := time.Duration(cfg.Settings.SettleDelay) * time.Second
	if settle <= 0 {
		settle = 10 * time.Second
	}

	c := &Controller{
		cfg:    cfg,
		runner: runner,
		health: agg,
		log:    log.WithComponent("ops"),
		settle: settle,
	}
	c.handlers = map[Operation]handlerFunc{
		OpStart:   c.start,
		OpStop:    c.stop,
		OpRestart: c.restart,
		OpStatus:  c.status,
		OpHealth:  c.healthCheck,
	}
	return c
}

// Execute runs one operation and returns its summary. The returned result is
// populated even when the operation fails partway.
func (c *Controller) Execute(ctx context.Context, rc model.RunContext, op Operation, opts Options) (*model.OperationResult, error) {
	handler, ok := c.handlers[op]
	if !ok {
		return nil, platformerrors.NewUnsupportedOperationError(string(op))
	}

	res := &model.OperationResult{
		Operation: string(op),
		Success:   true,
		Services:  make(map[string]model.ServiceActionResult),
		StartTime: time.Now(),
	}

	log := c.log.WithFields(map[string]any{"operation": string(op), "job_id": rc.JobID})
	log.Info("operation started")
	err := handler(ctx, rc, res, opts)
	if err != nil {
		res.Success = false
	}
	res.Finish()
	if res.Success {
		log.Info("operation finished")
	} else {
		log.Error(err, "operation failed")
	}
	return res, err
}

// Discover partitions the service catalog into services whose backing
// resource currently exists and services that are declared but not yet
// deployed. Pending is a normal state, never an error: a service whose
// resource cannot be found simply lands in the pending set.
func (c *Controller) Discover(ctx context.Context, names []string) (available, pending []model.ServiceDescriptor) {
	for _, spec := range c.selectServices(names) {
		desc := model.ServiceDescriptor{
			Name:        spec.Name,
			Namespace:   spec.Namespace,
			Resource:    spec.Resource,
			PortMapping: spec.PortMapping,
		}
		_, err := c.run(ctx, "kubectl", "get", spec.Resource, "-n", spec.Namespace, "-o", "name")
		desc.Discovered = err == nil
		if desc.Discovered {
			available = append(available, desc)
		} else {
			pending = append(pending, desc)
		}
	}
	return available, pending
}

func (c *Controller) start(ctx context.Context, rc model.RunContext, res *model.OperationResult, opts Options) error {
	if rc.DryRun {
		c.markDryRun(res, opts, "would start")
		return nil
	}

	available, pending := c.Discover(ctx, opts.Services)
	res.Available, res.Pending = available, pending

	for _, desc := range pending {
		res.Services[desc.Name] = model.ServiceActionResult{
			Action: model.ActionSkippedPending,
			Status: "pending",
			Detail: "not yet deployed",
		}
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s is not deployed yet, skipping", desc.Name))
	}

	for _, desc := range available {
		ready, err := c.readyCount(ctx, desc)
		if err == nil && ready > 0 {
			res.Services[desc.Name] = model.ServiceActionResult{
				Action: model.ActionSkippedRunning,
				Status: "running",
				Detail: fmt.Sprintf("%d ready", ready),
			}
			continue
		}
		c.scale(ctx, res, desc, 1, opts.Async)
	}
	if len(res.Failed) > 0 {
		res.Success = false
	}
	return nil
}

func (c *Controller) stop(ctx context.Context, rc model.RunContext, res *model.OperationResult, opts Options) error {
	if rc.DryRun {
		c.markDryRun(res, opts, "would stop")
		return nil
	}

	available, pending := c.Discover(ctx, opts.Services)
	res.Available, res.Pending = available, pending

	for _, desc := range pending {
		res.Services[desc.Name] = model.ServiceActionResult{
			Action: model.ActionSkippedPending,
			Status: "pending",
			Detail: "not yet deployed",
		}
	}
	for _, desc := range available {
		c.scale(ctx, res, desc, 0, true)
	}
	if len(res.Failed) > 0 {
		res.Success = false
	}
	return nil
}

// restart is stop, a settle delay, then start. A stop failure propagates
// without the start half running at all.
func (c *Controller) restart(ctx context.Context, rc model.RunContext, res *model.OperationResult, opts Options) error {
	if err := c.stop(ctx, rc, res, opts); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("stop failed for %s, not starting", strings.Join(res.Failed, ", "))
	}

	if !rc.DryRun {
		select {
		case <-time.After(c.settle):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return c.start(ctx, rc, res, opts)
}

func (c *Controller) status(ctx context.Context, rc model.RunContext, res *model.OperationResult, opts Options) error {
	if rc.DryRun {
		c.markDryRun(res, opts, "would report status for")
		return nil
	}

	available, pending := c.Discover(ctx, opts.Services)
	res.Available, res.Pending = available, pending

	for _, desc := range pending {
		res.Services[desc.Name] = model.ServiceActionResult{Action: "status", Status: "pending"}
	}
	for _, desc := range available {
		ready, err := c.readyCount(ctx, desc)
		entry := model.ServiceActionResult{Action: "status"}
		switch {
		case err != nil:
			entry.Status = "unknown"
			entry.Detail = err.Error()
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not read status of %s", desc.Name))
		case ready > 0:
			entry.Status = "running"
			entry.Detail = fmt.Sprintf("%d ready", ready)
		default:
			entry.Status = "stopped"
		}
		res.Services[desc.Name] = entry
	}
	return nil
}

func (c *Controller) healthCheck(ctx context.Context, rc model.RunContext, res *model.OperationResult, _ Options) error {
	report := c.health.Check(ctx, rc, true)
	res.Health = &report
	if report.OverallStatus == model.HealthError {
		res.Success = false
		res.Summary = "health probes failed"
	}
	return nil
}

// scale issues the replica change and, unless async, waits for the rollout
// to converge.
func (c *Controller) scale(ctx context.Context, res *model.OperationResult, desc model.ServiceDescriptor, replicas int, async bool) {
	_, err := c.run(ctx, "kubectl", "scale", desc.Resource,
		"-n", desc.Namespace, "--replicas="+strconv.Itoa(replicas))
	if err == nil && !async && replicas > 0 {
		_, err = c.run(ctx, "kubectl", "rollout", "status", desc.Resource,
			"-n", desc.Namespace, "--timeout", c.rolloutTimeout())
	}
	if err != nil {
		res.Services[desc.Name] = model.ServiceActionResult{
			Action: model.ActionFailed,
			Status: "failed",
			Detail: err.Error(),
		}
		res.Failed = append(res.Failed, desc.Name)
		return
	}
	res.Services[desc.Name] = model.ServiceActionResult{Action: model.ActionDone, Status: "done"}
}

func (c *Controller) readyCount(ctx context.Context, desc model.ServiceDescriptor) (int, error) {
	out, err := c.run(ctx, "kubectl", "get", desc.Resource,
		"-n", desc.Namespace, "-o", "jsonpath={.status.readyReplicas}")
	if err != nil {
		return 0, err
	}
	ready, _ := strconv.Atoi(strings.TrimSpace(out.Stdout))
	return ready, nil
}

func (c *Controller) markDryRun(res *model.OperationResult, opts Options, verb string) {
	for _, spec := range c.selectServices(opts.Services) {
		res.Services[spec.Name] = model.ServiceActionResult{
			Action: model.ActionDryRun,
			Status: "dry-run",
			Detail: fmt.Sprintf("%s %s", verb, spec.Name),
		}
	}
}

// selectServices filters the catalog down to the requested names; unknown
// names are ignored. Empty means everything.
func (c *Controller) selectServices(names []string) []config.ServiceSpec {
	if len(names) == 0 {
		return c.cfg.Services
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.TrimSpace(n)] = true
	}
	var out []config.ServiceSpec
	for _, spec := range c.cfg.Services {
		if wanted[spec.Name] {
			out = append(out, spec)
		}
	}
	return out
}

func (c *Controller) run(ctx context.Context, name string, args ...string) (*cmdexec.Result, error) {
	timeout := time.Duration(c.cfg.Settings.CommandTimeout) * time.Second
	return c.runner.Run(ctx, cmdexec.Command{Name: name, Args: args, Timeout: timeout})
}

func (c *Controller) rolloutTimeout() string {
	seconds := c.cfg.Settings.CommandTimeout
	if seconds <= 0 {
		seconds = 120
	}
	return fmt.Sprintf("%ds", seconds)
}
