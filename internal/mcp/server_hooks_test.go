package mcp

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/sheersh03/CaveBeat-Search-Engine/library/log"
)

// TestShouldDowngradeMCPErrorLog verifies expected capability-probe errors are downgraded.
func TestShouldDowngradeMCPErrorLog(t *testing.T) {
	require.True(t, shouldDowngradeMCPErrorLog(mcp.MethodResourcesList, requireError("request error: resources not supported")))
	require.True(t, shouldDowngradeMCPErrorLog(mcp.MethodResourcesTemplatesList, requireError("resources not supported")))
	require.True(t, shouldDowngradeMCPErrorLog(mcp.MethodPromptsList, requireError("Prompts Not Supported")))
}

// TestShouldDowngradeMCPErrorLogFalse verifies unrelated errors remain at error level.
func TestShouldDowngradeMCPErrorLogFalse(t *testing.T) {
	require.False(t, shouldDowngradeMCPErrorLog(mcp.MethodToolsList, requireError("resources not supported")))
	require.False(t, shouldDowngradeMCPErrorLog(mcp.MethodResourcesList, requireError("other failure")))
	require.False(t, shouldDowngradeMCPErrorLog(mcp.MethodPromptsList, requireError("resources not supported")))
	require.False(t, shouldDowngradeMCPErrorLog(mcp.MethodResourcesList, nil))
}

func TestNewMCPHooksNilLogger(t *testing.T) {
	require.Nil(t, newMCPHooks(nil))
	require.NotNil(t, newMCPHooks(log.Logger))
}

// requireError converts text to an error for test readability.
func requireError(msg string) error {
	return &textError{msg: msg}
}

// textError is a lightweight test error implementation.
type textError struct {
	msg string
}

// Error returns the test error message.
func (e *textError) Error() string {
	if e == nil {
		return ""
	}
	return e.msg
}
