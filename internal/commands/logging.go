package commands

import (
	"strings"

	"github.com/goliatone/go-content-bot/internal/logging"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

const commandModuleRoot = "bot.commands"

// CommandLogger scopes a logger to bot.commands.<group>. Every entry carries
// component=command and the group name so flow handlers and the router can
// be filtered together.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.ToLower(strings.TrimSpace(group))
	if group == "" {
		group = "flows"
	}
	return logging.WithFields(logging.ModuleLogger(provider, commandModuleRoot+"."+group), map[string]any{
		"component":     "command",
		"command_group": group,
	})
}
