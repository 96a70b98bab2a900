package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SetupCmd configures MCP for various AI clients.
type SetupCmd struct {
	Claude bool   `help:"Configure for Claude Code"`
	Cursor bool   `help:"Configure for Cursor"`
	Global bool   `help:"Write the client's global configuration instead of the project one"`
	Dir    string `default:"." help:"Project directory for local configuration"`
	Watch  bool   `default:"true" negatable:"" help:"Re-parse changed files while the server runs"`
}

// Run executes the setup command.
func (c *SetupCmd) Run(g *Globals) error {
	config := generateMCPConfig(c.Watch)

	// Without a client, print the config for manual installation.
	if !c.Claude && !c.Cursor {
		data, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(g.out(), string(data))
		return nil
	}

	for _, client := range c.clients() {
		path := getLocalConfigPath(c.Dir, client)
		scope := "local"
		if c.Global {
			path = getGlobalConfigPath(client)
			scope = "global"
		}
		if err := writeConfig(path, config); err != nil {
			return err
		}
		green.Fprintf(g.out(), "✓ Created %s %s MCP config at %s\n", scope, client, path)
	}

	return nil
}

func (c *SetupCmd) clients() []string {
	var clients []string
	if c.Claude {
		clients = append(clients, "claude")
	}
	if c.Cursor {
		clients = append(clients, "cursor")
	}
	return clients
}

func generateMCPConfig(watch bool) map[string]any {
	args := []string{"mcp"}
	if watch {
		args = append(args, "--watch")
	}
	return map[string]any{
		"mcpServers": map[string]any{
			"owlrdf": map[string]any{
				"command": "owlrdf",
				"args":    args,
			},
		},
	}
}

// Path helpers

func getLocalConfigPath(basePath, client string) string {
	return filepath.Join(basePath, getClientConfigDir(client), "mcp.json")
}

func getGlobalConfigPath(client string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
	}
	return filepath.Join(homeDir, getClientConfigDir(client), "global", "mcp.json")
}

func getClientConfigDir(client string) string {
	switch client {
	case "cursor":
		return ".cursor"
	default:
		return ".claude"
	}
}

func writeConfig(configPath string, config map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	content, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	content = append(content, '\n')

	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
