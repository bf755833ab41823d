package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/qiscreen"
	"github.com/aretw0/qiscreen/pkg/adapters/file"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/guidance"
	"github.com/aretw0/qiscreen/pkg/observability"
	"github.com/aretw0/qiscreen/pkg/screening"
)

// EngineOptions are the flags shared by every command that loads a bank.
type EngineOptions struct {
	BankPath  string
	Min       int
	Max       int
	Entry     string
	Policy    string
	RulesPath string
	Debug     bool
	Hooks     domain.LifecycleHooks
}

// NewEngine initializes an engine with standard CLI conventions.
func NewEngine(ctx context.Context, opts EngineOptions, logger *slog.Logger) (*qiscreen.Engine, error) {
	if opts.BankPath == "" {
		return nil, fmt.Errorf("a question bank is required (--bank)")
	}

	policy, err := screening.PolicyByName(opts.Policy)
	if err != nil {
		return nil, err
	}

	hooks := opts.Hooks
	if opts.Debug {
		hooks = observability.CombineHooks(hooks, createDebugHooks(logger))
	}

	engineOpts := []qiscreen.Option{
		qiscreen.WithLogger(logger),
		qiscreen.WithLifecycleHooks(hooks),
		qiscreen.WithSessionConfig(screening.Config{
			MinQuestions: opts.Min,
			MaxQuestions: opts.Max,
			Entry:        opts.Entry,
			Policy:       policy,
		}),
	}

	if opts.RulesPath != "" {
		table, err := guidance.LoadTable(opts.RulesPath)
		if err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, qiscreen.WithGuidanceTable(table))
	}

	src := file.New(opts.BankPath, file.WithLogger(logger))
	engine, err := qiscreen.New(ctx, src, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
