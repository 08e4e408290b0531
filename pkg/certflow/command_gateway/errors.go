package command_gateway

import (
	"fmt"

	"github.com/certflow/certflow/pkg/certflow/model"
)

var ErrScriptNotAllowed = fmt.Errorf("script not allowed%w", model.ErrGateway)
var ErrInvalidPath = fmt.Errorf("script path escapes the scripts directory%w", model.ErrGateway)
var ErrInvalidParameterKey = fmt.Errorf("invalid parameter key%w", model.ErrGateway)
var ErrInvalidParameterValue = fmt.Errorf("invalid parameter value%w", model.ErrGateway)
var ErrInvalidHost = fmt.Errorf("invalid remote computer%w", model.ErrGateway)
var ErrInvalidSpec = fmt.Errorf("either an inline command or a script id is required%w", model.ErrGateway)
var ErrTimeout = fmt.Errorf("command timed out%w", model.ErrGateway)
var ErrCancelled = fmt.Errorf("command was cancelled%w", model.ErrGateway)
var ErrStartFailed = fmt.Errorf("command could not be started%w", model.ErrGateway)
var ErrCommandFailed = fmt.Errorf("command exited with a non-zero code%w", model.ErrGateway)
