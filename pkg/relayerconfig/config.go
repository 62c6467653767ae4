// Copyright 2025 Certen Protocol
//
// Package relayerconfig loads the relayer's YAML configuration with
// environment-variable substitution, the same ${VAR}/${VAR:-default}
// scheme pkg/config.LoadAnchorConfig uses, scoped down to what the
// untron relayer actually needs: which settlement-chain contract to
// watch, which source-chain endpoint to poll, and where to keep its
// local state snapshot and health/metrics endpoints.
package relayerconfig

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the relayer's full runtime configuration.
type Config struct {
	Environment string `yaml:"environment"`

	SettlementChain SettlementChainSettings `yaml:"settlement_chain"`
	SourceChain     SourceChainSettings     `yaml:"source_chain"`
	Snapshot        SnapshotSettings        `yaml:"snapshot"`
	Monitoring      MonitoringSettings      `yaml:"monitoring"`
	Logging         LoggingSettings         `yaml:"logging"`
}

// SettlementChainSettings configures the settlement-chain action listener
// and the order contract pkg/settlementchain binds.
type SettlementChainSettings struct {
	RPCURL             string   `yaml:"rpc_url"`
	ContractAddress    string   `yaml:"contract_address"`
	ChainID            int64    `yaml:"chain_id"`
	ConfirmationBlocks int      `yaml:"confirmation_blocks"`
	PollInterval       Duration `yaml:"poll_interval"`
}

// SourceChainSettings configures the block poller that feeds RawBlocks to
// the state transition function (the poller itself is a stub — streaming is
// out of core scope per the spec's Non-goals — but the endpoint it would
// dial is still a config surface).
type SourceChainSettings struct {
	RPCURL       string   `yaml:"rpc_url"`
	PollInterval Duration `yaml:"poll_interval"`
}

// SnapshotSettings configures pkg/snapshot's on-disk store.
type SnapshotSettings struct {
	Dir  string `yaml:"dir"`
	Name string `yaml:"name"`
}

// MonitoringSettings configures the relayer's health/metrics HTTP server.
type MonitoringSettings struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"metrics_path"`
}

// LoggingSettings configures relayer log output.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration wraps time.Duration for YAML unmarshaling/marshaling, identical
// in shape to the teacher's config.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the YAML config file at path, substituting
// ${VAR_NAME} and ${VAR_NAME:-default} references against the process
// environment before unmarshaling, then applies defaults for anything left
// unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("relayerconfig: read %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("relayerconfig: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SettlementChain.ConfirmationBlocks == 0 {
		c.SettlementChain.ConfirmationBlocks = 12
	}
	if c.SettlementChain.PollInterval == 0 {
		c.SettlementChain.PollInterval = Duration(15 * time.Second)
	}
	if c.SourceChain.PollInterval == 0 {
		c.SourceChain.PollInterval = Duration(3 * time.Second)
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = "./data"
	}
	if c.Snapshot.Name == "" {
		c.Snapshot.Name = "untron-relayer"
	}
	if c.Monitoring.Port == 0 {
		c.Monitoring.Port = 9090
	}
	if c.Monitoring.Path == "" {
		c.Monitoring.Path = "/metrics"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks that the fields the relayer cannot run without are
// actually set, the same required-field-collection pattern
// config.ValidateAnchorConfig uses.
func (c *Config) Validate() error {
	var problems []string

	if c.SettlementChain.RPCURL == "" || strings.HasPrefix(c.SettlementChain.RPCURL, "${") {
		problems = append(problems, "settlement_chain.rpc_url is required")
	}
	if c.SettlementChain.ContractAddress == "" || strings.HasPrefix(c.SettlementChain.ContractAddress, "${") {
		problems = append(problems, "settlement_chain.contract_address is required")
	}
	if c.SettlementChain.ChainID == 0 {
		problems = append(problems, "settlement_chain.chain_id is required")
	}
	if c.SourceChain.RPCURL == "" || strings.HasPrefix(c.SourceChain.RPCURL, "${") {
		problems = append(problems, "source_chain.rpc_url is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("relayerconfig: invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
