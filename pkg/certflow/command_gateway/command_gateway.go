// Package command_gateway executes allow-listed PowerShell scripts or inline commands on the
// local host or a named remote host, with a hard timeout and bounded output capture.
package command_gateway

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/certflow/certflow/pkg/certflow/input_validator"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTimeout   = 60 * time.Second
	DiscoveryTimeout = 120 * time.Second
)

// Script identities known to the rest of the service.
const (
	ScriptGenerateCSR            = "generate-csr"
	ScriptSubmitCSR              = "submit-csr"
	ScriptListIssuedCertificates = "list-issued-certificates"
	ScriptListCATemplates        = "list-ca-templates"
)

// DefaultAllowedScripts maps script identities to file names relative to the scripts directory.
var DefaultAllowedScripts = map[string]string{
	ScriptGenerateCSR:            "Generate-CSR.ps1",
	ScriptSubmitCSR:              "Submit-CSR.ps1",
	ScriptListIssuedCertificates: "Get-IssuedCertificates.ps1",
	ScriptListCATemplates:        "Get-CATemplates.ps1",
}

var DefaultShellArgs = []string{"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command"}

// Spec describes one execution. Exactly one of InlineCommand and ScriptID must be set.
// InlineCommand is trusted text built by this service from validated values.
type Spec struct {
	InlineCommand  string
	ScriptID       string
	Parameters     []Parameter
	RemoteComputer string        // Empty for the local host.
	Timeout        time.Duration // Zero means the gateway default.
}

type Result struct {
	Success   bool   `json:"success"`
	Output    string `json:"output"`
	Error     string `json:"error,omitempty"`
	ExitCode  int    `json:"exit_code"`
	Truncated bool   `json:"truncated,omitempty"`
}

type Gateway interface {
	Execute(ctx context.Context, spec Spec) (Result, error)
}

type Config struct {
	Executable     string            `yaml:"executable"`
	ExecutableArgs []string          `yaml:"executable_args"`
	ScriptsDir     string            `yaml:"scripts_dir"`
	AllowedScripts map[string]string `yaml:"allowed_scripts"`
	Timeout        int               `yaml:"timeout"`      // Seconds.
	OutputLimit    int               `yaml:"output_limit"` // Bytes per stream.
}

type GatewayOption func(*_Gateway)

func GatewayWithRunner(runner Runner) GatewayOption {
	return func(g *_Gateway) {
		g.runner = runner
	}
}

func GatewayWithExecutable(executable string, args ...string) GatewayOption {
	return func(g *_Gateway) {
		g.executable = executable
		g.executableArgs = args
	}
}

func GatewayWithScriptsDir(dir string) GatewayOption {
	return func(g *_Gateway) {
		g.scriptsDir = dir
	}
}

func GatewayWithAllowedScripts(scripts map[string]string) GatewayOption {
	return func(g *_Gateway) {
		g.allowedScripts = scripts
	}
}

func GatewayWithDefaultTimeout(timeout time.Duration) GatewayOption {
	return func(g *_Gateway) {
		g.defaultTimeout = timeout
	}
}

func GatewayWithOutputLimit(limit int) GatewayOption {
	return func(g *_Gateway) {
		g.outputLimit = limit
	}
}

type _Gateway struct {
	runner         Runner
	executable     string
	executableArgs []string
	scriptsDir     string
	allowedScripts map[string]string
	defaultTimeout time.Duration
	outputLimit    int

	execCount metric.Int64Counter
}

func NewGateway(options ...GatewayOption) *_Gateway {
	g := &_Gateway{
		runner:         NewExecRunner(),
		executable:     "powershell.exe",
		executableArgs: DefaultShellArgs,
		scriptsDir:     "scripts",
		allowedScripts: DefaultAllowedScripts,
		defaultTimeout: DefaultTimeout,
		outputLimit:    DefaultOutputLimit,
		execCount:      otlp_util.NewInt64Counter("certflow.command_gateway.execution.count", metric.WithDescription("The total number of command executions")),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func NewGatewayWithConfig(cfg Config, options ...GatewayOption) *_Gateway {
	opts := make([]GatewayOption, 0, 5+len(options))
	if cfg.Executable != "" {
		args := cfg.ExecutableArgs
		if args == nil {
			args = DefaultShellArgs
		}
		opts = append(opts, GatewayWithExecutable(cfg.Executable, args...))
	}
	if cfg.ScriptsDir != "" {
		opts = append(opts, GatewayWithScriptsDir(cfg.ScriptsDir))
	}
	if len(cfg.AllowedScripts) > 0 {
		opts = append(opts, GatewayWithAllowedScripts(cfg.AllowedScripts))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, GatewayWithDefaultTimeout(time.Duration(cfg.Timeout)*time.Second))
	}
	if cfg.OutputLimit > 0 {
		opts = append(opts, GatewayWithOutputLimit(cfg.OutputLimit))
	}
	return NewGateway(append(opts, options...)...)
}

func (g *_Gateway) Execute(ctx context.Context, spec Spec) (Result, error) {
	ctx, span := otlp_util.Start(ctx, "certflow/command_gateway.Execute",
		trace.WithAttributes(
			attribute.String("script_id", spec.ScriptID),
			attribute.Bool("remote", spec.RemoteComputer != ""),
		),
	)
	defer span.End()

	result, err := g.execute(ctx, spec)
	status := "success"
	if err != nil {
		status = "failure"
		span.SetStatus(codes.Error, err.Error())
	}
	g.execCount.Add(ctx, 1, metric.WithAttributes(attribute.String("script_id", spec.ScriptID), attribute.String("status", status)))
	return result, err
}

func (g *_Gateway) execute(ctx context.Context, spec Spec) (Result, error) {
	command, err := g.BuildCommand(spec)
	if err != nil {
		return Result{Error: err.Error()}, err
	}

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = g.defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, g.executableArgs...), command)
	logrus.Debugf("command_gateway: executing %q (remote: %q, timeout: %s)", spec.ScriptID, spec.RemoteComputer, timeout)
	out, err := g.runner.Run(runCtx, g.executable, args, g.outputLimit)
	result := Result{
		Output:    string(out.Stdout),
		Error:     string(out.Stderr),
		ExitCode:  out.ExitCode,
		Truncated: out.Truncated,
	}
	if out.Truncated {
		logrus.Warnf("command_gateway: output of %q truncated at %d bytes", spec.ScriptID, g.outputLimit)
	}

	if errors.Is(err, ErrTimeout) {
		result.Error = fmt.Sprintf("command timed out after %s", timeout)
		return result, err
	} else if err != nil {
		if result.Error == "" {
			result.Error = err.Error()
		}
		return result, err
	}

	if out.ExitCode != 0 {
		detail := strings.TrimSpace(result.Error)
		if detail == "" {
			detail = fmt.Sprintf("exit code %d", out.ExitCode)
		}
		result.Error = detail
		return result, fmt.Errorf("%s: %w", detail, ErrCommandFailed)
	}

	result.Success = true
	return result, nil
}

// BuildCommand validates spec and returns the command text handed to the PowerShell host.
// It never spawns a process.
func (g *_Gateway) BuildCommand(spec Spec) (string, error) {
	if (spec.InlineCommand == "") == (spec.ScriptID == "") {
		return "", ErrInvalidSpec
	}
	if spec.RemoteComputer != "" && !input_validator.IsValidHostname(spec.RemoteComputer) {
		return "", fmt.Errorf("%q: %w", spec.RemoteComputer, ErrInvalidHost)
	}

	var command string
	if spec.InlineCommand != "" {
		command = spec.InlineCommand
		if spec.RemoteComputer != "" {
			command = buildRemoteInlineCommand(spec.RemoteComputer, command)
		}
	} else {
		scriptPath, err := g.resolveScript(spec.ScriptID)
		if err != nil {
			return "", err
		}
		if spec.RemoteComputer != "" {
			command, err = buildRemoteScriptCommand(spec.RemoteComputer, scriptPath, spec.Parameters)
		} else {
			command, err = buildLocalScriptCommand(scriptPath, spec.Parameters)
		}
		if err != nil {
			return "", err
		}
	}

	return "$ErrorActionPreference = 'Stop'; " + command, nil
}

func (g *_Gateway) resolveScript(scriptID string) (string, error) {
	fileName, ok := g.allowedScripts[scriptID]
	if !ok {
		return "", fmt.Errorf("%q: %w", scriptID, ErrScriptNotAllowed)
	}

	dir, err := filepath.Abs(g.scriptsDir)
	if err != nil {
		return "", fmt.Errorf("%q: %v: %w", scriptID, err, ErrInvalidPath)
	}
	scriptPath := filepath.Join(dir, fileName)
	if !isWithin(dir, scriptPath) {
		return "", fmt.Errorf("%q: %w", scriptID, ErrInvalidPath)
	}

	// Symlinks must not lead out of the scripts directory either.
	realDir, dirErr := filepath.EvalSymlinks(dir)
	realPath, pathErr := filepath.EvalSymlinks(scriptPath)
	if dirErr == nil && pathErr == nil && !isWithin(realDir, realPath) {
		return "", fmt.Errorf("%q: %w", scriptID, ErrInvalidPath)
	}
	if pathErr != nil && !errors.Is(pathErr, os.ErrNotExist) {
		return "", fmt.Errorf("%q: %v: %w", scriptID, pathErr, ErrInvalidPath)
	}

	return scriptPath, nil
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
