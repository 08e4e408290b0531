package command_gateway_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/certflow/certflow/pkg/certflow/command_gateway"
	"github.com/certflow/certflow/pkg/certflow/model"
	mock_command_gateway "github.com/certflow/certflow/test/mock/certflow/command_gateway"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type commandGateway interface {
	command_gateway.Gateway
	BuildCommand(spec command_gateway.Spec) (string, error)
}

type CommandGatewayTestSuite struct {
	suite.Suite

	ctx        context.Context
	ctrl       *gomock.Controller
	runner     *mock_command_gateway.MockRunner
	scriptsDir string
	gateway    commandGateway
}

func TestCommandGatewayTestSuite(t *testing.T) {
	suite.Run(t, new(CommandGatewayTestSuite))
}

func (s *CommandGatewayTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.runner = mock_command_gateway.NewMockRunner(s.ctrl)

	root := s.T().TempDir()
	s.scriptsDir = filepath.Join(root, "scripts")
	s.Require().NoError(os.MkdirAll(s.scriptsDir, 0o755))
	s.Require().NoError(os.WriteFile(filepath.Join(s.scriptsDir, "Generate-CSR.ps1"), []byte("param($Subject)"), 0o644))
	s.Require().NoError(os.WriteFile(filepath.Join(root, "outside.ps1"), []byte("Remove-Item C:\\"), 0o644))

	s.gateway = command_gateway.NewGateway(
		command_gateway.GatewayWithRunner(s.runner),
		command_gateway.GatewayWithScriptsDir(s.scriptsDir),
		command_gateway.GatewayWithAllowedScripts(map[string]string{
			command_gateway.ScriptGenerateCSR: "Generate-CSR.ps1",
			"escape":                          "../outside.ps1",
			"linked":                          "Linked.ps1",
		}),
	)
}

func (s *CommandGatewayTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CommandGatewayTestSuite) scriptPath(name string) string {
	return filepath.Join(s.scriptsDir, name)
}

func (s *CommandGatewayTestSuite) TestScriptNotInAllowList() {
	// The runner has no expectation: any spawn fails the test.
	result, err := s.gateway.Execute(s.ctx, command_gateway.Spec{ScriptID: "../../etc/passwd"})
	s.Require().ErrorIs(err, command_gateway.ErrScriptNotAllowed)
	s.Require().ErrorIs(err, model.ErrGateway)
	s.Assert().False(result.Success)
}

func (s *CommandGatewayTestSuite) TestAllowListEntryEscapingScriptsDir() {
	_, err := s.gateway.Execute(s.ctx, command_gateway.Spec{ScriptID: "escape"})
	s.Require().ErrorIs(err, command_gateway.ErrInvalidPath)
}

func (s *CommandGatewayTestSuite) TestSymlinkEscapingScriptsDir() {
	if err := os.Symlink(filepath.Join(filepath.Dir(s.scriptsDir), "outside.ps1"), s.scriptPath("Linked.ps1")); err != nil {
		s.T().Skipf("symlinks not supported: %v", err)
	}
	_, err := s.gateway.Execute(s.ctx, command_gateway.Spec{ScriptID: "linked"})
	s.Require().ErrorIs(err, command_gateway.ErrInvalidPath)
}

func (s *CommandGatewayTestSuite) TestInvalidSpec() {
	_, err := s.gateway.Execute(s.ctx, command_gateway.Spec{})
	s.Require().ErrorIs(err, command_gateway.ErrInvalidSpec)

	_, err = s.gateway.Execute(s.ctx, command_gateway.Spec{ScriptID: command_gateway.ScriptGenerateCSR, InlineCommand: "Get-Date"})
	s.Require().ErrorIs(err, command_gateway.ErrInvalidSpec)
}

func (s *CommandGatewayTestSuite) TestInvalidParameterKey() {
	for _, key := range []string{"Bad-Key", "1Key", "Key;", "", "Key Name"} {
		_, err := s.gateway.Execute(s.ctx, command_gateway.Spec{
			ScriptID:   command_gateway.ScriptGenerateCSR,
			Parameters: []command_gateway.Parameter{command_gateway.Param(key, "x")},
		})
		s.Require().ErrorIs(err, command_gateway.ErrInvalidParameterKey, key)
	}
}

func (s *CommandGatewayTestSuite) TestInvalidParameterValue() {
	values := []any{math.NaN(), math.Inf(1), map[string]string{"a": "b"}, struct{}{}}
	for _, v := range values {
		_, err := s.gateway.Execute(s.ctx, command_gateway.Spec{
			ScriptID:   command_gateway.ScriptGenerateCSR,
			Parameters: []command_gateway.Parameter{command_gateway.Param("Value", v)},
		})
		s.Require().ErrorIs(err, command_gateway.ErrInvalidParameterValue)
	}
}

func (s *CommandGatewayTestSuite) TestInvalidRemoteComputer() {
	for _, host := range []string{"host;rm", "host name", "$(whoami)", "host'x"} {
		_, err := s.gateway.Execute(s.ctx, command_gateway.Spec{InlineCommand: "Get-Date", RemoteComputer: host})
		s.Require().ErrorIs(err, command_gateway.ErrInvalidHost, host)
	}
}

func (s *CommandGatewayTestSuite) TestBuildLocalScriptCommand() {
	command, err := s.gateway.BuildCommand(command_gateway.Spec{
		ScriptID: command_gateway.ScriptGenerateCSR,
		Parameters: []command_gateway.Parameter{
			command_gateway.Param("Subject", "CN=o'brien, O=Contoso"),
			command_gateway.Param("KeyLength", 2048),
			command_gateway.Param("Force", true),
			command_gateway.Param("Quiet", false),
			command_gateway.Param("Names", []string{"a.contoso.com", "b'c"}),
			command_gateway.Param("Ratio", 0.5),
		},
	})
	s.Require().NoError(err)
	s.Assert().Equal(
		"$ErrorActionPreference = 'Stop'; & '"+s.scriptPath("Generate-CSR.ps1")+"' -Subject 'CN=o''brien, O=Contoso' -KeyLength 2048 -Force -Names @('a.contoso.com','b''c') -Ratio 0.5",
		command,
	)
}

func (s *CommandGatewayTestSuite) TestBuildRemoteScriptCommand() {
	command, err := s.gateway.BuildCommand(command_gateway.Spec{
		ScriptID:       command_gateway.ScriptGenerateCSR,
		RemoteComputer: "web01.contoso.local",
		Parameters: []command_gateway.Parameter{
			command_gateway.Param("Subject", "CN=web01"),
			command_gateway.Param("KeyLength", 4096),
			command_gateway.Param("Force", true),
			command_gateway.Param("Quiet", false),
		},
	})
	s.Require().NoError(err)
	s.Assert().Equal(
		"$ErrorActionPreference = 'Stop'; Invoke-Command -ComputerName 'web01.contoso.local' -ScriptBlock { param($body, $params) & ([scriptblock]::Create($body)) @params } -ArgumentList (Get-Content -Raw -LiteralPath '"+s.scriptPath("Generate-CSR.ps1")+"'), @{Subject='CN=web01'; KeyLength=4096; Force=$true}",
		command,
	)
}

func (s *CommandGatewayTestSuite) TestBuildRemoteInlineCommand() {
	command, err := s.gateway.BuildCommand(command_gateway.Spec{InlineCommand: "Get-Date", RemoteComputer: "ca01"})
	s.Require().NoError(err)
	s.Assert().Equal("$ErrorActionPreference = 'Stop'; Invoke-Command -ComputerName 'ca01' -ScriptBlock { Get-Date }", command)
}

func (s *CommandGatewayTestSuite) TestExecuteSuccess() {
	expectedArgs := append(append([]string{}, command_gateway.DefaultShellArgs...), "$ErrorActionPreference = 'Stop'; Get-Date")
	s.runner.EXPECT().
		Run(gomock.Any(), "powershell.exe", expectedArgs, command_gateway.DefaultOutputLimit).
		DoAndReturn(func(ctx context.Context, name string, args []string, limit int) (command_gateway.RunOutput, error) {
			deadline, ok := ctx.Deadline()
			s.Require().True(ok)
			s.Assert().WithinDuration(time.Now().Add(command_gateway.DefaultTimeout), deadline, 5*time.Second)
			return command_gateway.RunOutput{Stdout: []byte("2026-10-19\n")}, nil
		})

	result, err := s.gateway.Execute(s.ctx, command_gateway.Spec{InlineCommand: "Get-Date"})
	s.Require().NoError(err)
	s.Assert().Equal(command_gateway.Result{Success: true, Output: "2026-10-19\n"}, result)
}

func (s *CommandGatewayTestSuite) TestExecuteUsesSpecTimeout() {
	s.runner.EXPECT().
		Run(gomock.Any(), "powershell.exe", gomock.Any(), command_gateway.DefaultOutputLimit).
		DoAndReturn(func(ctx context.Context, name string, args []string, limit int) (command_gateway.RunOutput, error) {
			deadline, ok := ctx.Deadline()
			s.Require().True(ok)
			s.Assert().WithinDuration(time.Now().Add(command_gateway.DiscoveryTimeout), deadline, 5*time.Second)
			return command_gateway.RunOutput{}, nil
		})

	_, err := s.gateway.Execute(s.ctx, command_gateway.Spec{InlineCommand: "Get-Date", Timeout: command_gateway.DiscoveryTimeout})
	s.Require().NoError(err)
}

func (s *CommandGatewayTestSuite) TestExecuteNonZeroExit() {
	s.runner.EXPECT().
		Run(gomock.Any(), "powershell.exe", gomock.Any(), command_gateway.DefaultOutputLimit).
		Return(command_gateway.RunOutput{Stdout: []byte("partial"), Stderr: []byte("Access is denied.\r\n"), ExitCode: 1}, nil)

	result, err := s.gateway.Execute(s.ctx, command_gateway.Spec{InlineCommand: "Get-Date"})
	s.Require().ErrorIs(err, command_gateway.ErrCommandFailed)
	s.Require().ErrorIs(err, model.ErrGateway)
	s.Assert().False(result.Success)
	s.Assert().Equal("partial", result.Output)
	s.Assert().Equal("Access is denied.", result.Error)
	s.Assert().Equal(1, result.ExitCode)
}

func (s *CommandGatewayTestSuite) TestExecuteNonZeroExitWithoutStderr() {
	s.runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(command_gateway.RunOutput{ExitCode: 2}, nil)

	result, err := s.gateway.Execute(s.ctx, command_gateway.Spec{InlineCommand: "Get-Date"})
	s.Require().ErrorIs(err, command_gateway.ErrCommandFailed)
	s.Assert().Equal("exit code 2", result.Error)
}

func (s *CommandGatewayTestSuite) TestExecuteTimeout() {
	s.runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(command_gateway.RunOutput{ExitCode: -1}, command_gateway.ErrTimeout)

	result, err := s.gateway.Execute(s.ctx, command_gateway.Spec{InlineCommand: "Start-Sleep 600", Timeout: time.Second})
	s.Require().ErrorIs(err, command_gateway.ErrTimeout)
	s.Assert().False(result.Success)
	s.Assert().Equal("command timed out after 1s", result.Error)
}

func (s *CommandGatewayTestSuite) TestExecuteStartFailure() {
	startErr := errors.Join(errors.New("exec: \"powershell.exe\": executable file not found in $PATH"), command_gateway.ErrStartFailed)
	s.runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(command_gateway.RunOutput{ExitCode: -1}, startErr)

	result, err := s.gateway.Execute(s.ctx, command_gateway.Spec{InlineCommand: "Get-Date"})
	s.Require().ErrorIs(err, command_gateway.ErrStartFailed)
	s.Assert().NotEmpty(result.Error)
}

func (s *CommandGatewayTestSuite) TestGatewayWithConfig() {
	gateway := command_gateway.NewGatewayWithConfig(
		command_gateway.Config{
			Executable:     "pwsh",
			ExecutableArgs: []string{"-NoProfile", "-Command"},
			ScriptsDir:     s.scriptsDir,
			AllowedScripts: map[string]string{"hello": "Generate-CSR.ps1"},
			Timeout:        7,
			OutputLimit:    1024,
		},
		command_gateway.GatewayWithRunner(s.runner),
	)

	s.runner.EXPECT().
		Run(gomock.Any(), "pwsh", []string{"-NoProfile", "-Command", "$ErrorActionPreference = 'Stop'; & '" + s.scriptPath("Generate-CSR.ps1") + "'"}, 1024).
		DoAndReturn(func(ctx context.Context, name string, args []string, limit int) (command_gateway.RunOutput, error) {
			deadline, ok := ctx.Deadline()
			s.Require().True(ok)
			s.Assert().WithinDuration(time.Now().Add(7*time.Second), deadline, 2*time.Second)
			return command_gateway.RunOutput{Stdout: []byte("hi")}, nil
		})

	result, err := gateway.Execute(s.ctx, command_gateway.Spec{ScriptID: "hello"})
	s.Require().NoError(err)
	s.Assert().Equal("hi", result.Output)
}
