package command_gateway

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/certflow/certflow/pkg/certflow/input_validator"
)

var parameterKeyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// Parameter is a named argument of an allow-listed script. Supported values are string,
// []string, bool, the integer types, float32 and float64.
type Parameter struct {
	Key   string
	Value any
}

func Param(key string, value any) Parameter {
	return Parameter{Key: key, Value: value}
}

// renderValue returns the PowerShell literal for a parameter value. ok is false for a false
// boolean, which is omitted from the invocation.
func renderValue(key string, value any) (literal string, ok bool, err error) {
	switch v := value.(type) {
	case string:
		return input_validator.QuoteForCommand(v), true, nil
	case []string:
		quoted := make([]string, 0, len(v))
		for _, s := range v {
			quoted = append(quoted, input_validator.QuoteForCommand(s))
		}
		return "@(" + strings.Join(quoted, ",") + ")", true, nil
	case bool:
		if !v {
			return "", false, nil
		}
		return "$true", true, nil
	case int:
		return strconv.FormatInt(int64(v), 10), true, nil
	case int32:
		return strconv.FormatInt(int64(v), 10), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), true, nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true, nil
	case uint64:
		return strconv.FormatUint(v, 10), true, nil
	case float32:
		return renderFloat(key, float64(v))
	case float64:
		return renderFloat(key, v)
	}
	return "", false, fmt.Errorf("parameter %q has unsupported type %T: %w", key, value, ErrInvalidParameterValue)
}

func renderFloat(key string, v float64) (string, bool, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", false, fmt.Errorf("parameter %q is not a finite number: %w", key, ErrInvalidParameterValue)
	}
	return strconv.FormatFloat(v, 'g', -1, 64), true, nil
}

func validateParameters(params []Parameter) error {
	for _, p := range params {
		if !parameterKeyPattern.MatchString(p.Key) {
			return fmt.Errorf("parameter key %q: %w", p.Key, ErrInvalidParameterKey)
		}
	}
	return nil
}

// buildLocalScriptCommand renders `& '<path>' -Key 'value' -Switch`.
func buildLocalScriptCommand(scriptPath string, params []Parameter) (string, error) {
	if err := validateParameters(params); err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString("& ")
	sb.WriteString(input_validator.QuoteForCommand(scriptPath))
	for _, p := range params {
		literal, ok, err := renderValue(p.Key, p.Value)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		sb.WriteString(" -")
		sb.WriteString(p.Key)
		if b, isBool := p.Value.(bool); isBool && b {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(literal)
	}
	return sb.String(), nil
}

// buildRemoteScriptCommand ships the script body to the remote host and splats the parameters
// there, so the script does not need to exist on the remote host.
func buildRemoteScriptCommand(remoteComputer, scriptPath string, params []Parameter) (string, error) {
	if err := validateParameters(params); err != nil {
		return "", err
	}

	entries := make([]string, 0, len(params))
	for _, p := range params {
		literal, ok, err := renderValue(p.Key, p.Value)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		entries = append(entries, p.Key+"="+literal)
	}

	return fmt.Sprintf(
		"Invoke-Command -ComputerName %s -ScriptBlock { param($body, $params) & ([scriptblock]::Create($body)) @params } -ArgumentList (Get-Content -Raw -LiteralPath %s), @{%s}",
		input_validator.QuoteForCommand(remoteComputer),
		input_validator.QuoteForCommand(scriptPath),
		strings.Join(entries, "; "),
	), nil
}

func buildRemoteInlineCommand(remoteComputer, command string) string {
	return fmt.Sprintf("Invoke-Command -ComputerName %s -ScriptBlock { %s }", input_validator.QuoteForCommand(remoteComputer), command)
}
