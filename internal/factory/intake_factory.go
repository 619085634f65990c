package factory

import (
	"fmt"
	"os"

	"github.com/mikey/llm-doc-triage/internal/adapters/intake"
	"github.com/mikey/llm-doc-triage/internal/config"
	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/mikey/llm-doc-triage/internal/ports"
	"go.uber.org/zap"
)

// IntakeFactory creates intakes based on configuration
type IntakeFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	pipeline ports.Pipeline
	parser   core.EmailParser
}

// NewIntakeFactory creates a new intake factory
func NewIntakeFactory(cfg *config.Config, logger *zap.Logger, pipeline ports.Pipeline, parser core.EmailParser) *IntakeFactory {
	return &IntakeFactory{
		cfg:      cfg,
		logger:   logger,
		pipeline: pipeline,
		parser:   parser,
	}
}

// CreateIntake creates an intake based on the configuration
func (f *IntakeFactory) CreateIntake() (ports.Intake, error) {
	intakeConfig := f.cfg.GetIntake()

	switch intakeConfig.Type {
	case "smtp":
		return intake.NewSMTPIntake(
			f.pipeline,
			f.parser,
			f.logger,
			intakeConfig.ListenAddress,
			intakeConfig.Domain,
			intakeConfig.ForwardEnabled,
			intakeConfig.ForwardAddress,
			intakeConfig.ForwardPort,
			intakeConfig.RouteHeader,
			intakeConfig.IntentHeader,
			intakeConfig.UrgencyHeader,
			f.cfg.GetLLM().Timeout,
		), nil
	case "cli":
		return f.CreateCLIIntake()
	default:
		return nil, fmt.Errorf("unsupported intake type: %s", intakeConfig.Type)
	}
}

// CreateCLIIntake creates a CLI intake writing to stdout
func (f *IntakeFactory) CreateCLIIntake() (*intake.CLIIntake, error) {
	return intake.NewCLIIntake(
		f.pipeline,
		os.Stdout,
		f.cfg.GetString("cli.output"),
		f.cfg.GetBool("cli.verbose"),
		f.logger,
	)
}
