// Package config manages user-level settings stored at ~/.agentboard/config.yaml
// and resolves the base directory itself. It provides functions to load, read,
// and write configuration keys such as the dashboard's default host and port.
package config
