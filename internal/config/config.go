// Package config loads table definitions from HCL.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardroomlabs/holdem/internal/bot"
)

// Config is the root of a configuration file.
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Tables []Table         `hcl:"table,block"`
}

// ServerSettings configures the serve command.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// Table defines one table: stakes, pacing and its seats.
type Table struct {
	Name         string   `hcl:"name,label"`
	SmallBlind   int64    `hcl:"small_blind"`
	BigBlind     int64    `hcl:"big_blind"`
	Hands        int      `hcl:"hands,optional"`
	ActTimeoutMs int      `hcl:"act_timeout_ms,optional"`
	Seed         int64    `hcl:"seed,optional"`
	Players      []Player `hcl:"player,block"`
}

// Player defines one seat. Policy names a strategy from the bot package.
type Player struct {
	Name   string `hcl:"name,label"`
	Stack  int64  `hcl:"stack"`
	Policy string `hcl:"policy,optional"`
}

// ActTimeout returns the table's act clock duration, zero when disabled.
func (t Table) ActTimeout() time.Duration {
	return time.Duration(t.ActTimeoutMs) * time.Millisecond
}

// Default returns the configuration used when no file exists: one 5/10
// three-handed table of calling stations.
func Default() *Config {
	cfg := &Config{
		Server: &ServerSettings{Address: "localhost:8080", LogLevel: "info"},
		Tables: []Table{{
			Name:       "main",
			SmallBlind: 5,
			BigBlind:   10,
			Hands:      100,
			Players: []Player{
				{Name: "alice", Stack: 1000, Policy: "caller"},
				{Name: "bob", Stack: 1000, Policy: "caller"},
				{Name: "carol", Stack: 1000, Policy: "random"},
			},
		}},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads filename, falling back to Default when it does not exist.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", filename, diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", filename, diags.Error())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadBytes parses configuration from memory. The name only labels
// diagnostics.
func LoadBytes(name string, src []byte) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", name, diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", name, diags.Error())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost:8080"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	for i := range c.Tables {
		if c.Tables[i].Hands == 0 {
			c.Tables[i].Hands = 100
		}
		for j := range c.Tables[i].Players {
			if c.Tables[i].Players[j].Policy == "" {
				c.Tables[i].Players[j].Policy = "caller"
			}
		}
	}
}

// Validate checks every table against the engine's limits before any game is
// created, so a bad file fails fast with a table name attached.
func (c *Config) Validate() error {
	if len(c.Tables) == 0 {
		return fmt.Errorf("config: at least one table must be defined")
	}

	seen := make(map[string]bool)
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("config: duplicate table %q", t.Name)
		}
		seen[t.Name] = true

		if t.SmallBlind <= 0 || t.BigBlind < t.SmallBlind {
			return fmt.Errorf("config: table %q: invalid blinds %d/%d", t.Name, t.SmallBlind, t.BigBlind)
		}
		if len(t.Players) < 2 || len(t.Players) > 10 {
			return fmt.Errorf("config: table %q: need 2-10 players, have %d", t.Name, len(t.Players))
		}
		if t.Hands < 0 || t.ActTimeoutMs < 0 || t.Seed < 0 {
			return fmt.Errorf("config: table %q: negative setting", t.Name)
		}

		names := make(map[string]bool)
		for _, p := range t.Players {
			if names[p.Name] {
				return fmt.Errorf("config: table %q: duplicate player %q", t.Name, p.Name)
			}
			names[p.Name] = true
			if p.Stack <= 0 {
				return fmt.Errorf("config: table %q: player %q needs a positive stack", t.Name, p.Name)
			}
			if _, err := bot.ForName(p.Policy, nil); err != nil {
				return fmt.Errorf("config: table %q: player %q: unknown policy %q (want one of %v)",
					t.Name, p.Name, p.Policy, bot.Names())
			}
		}
	}
	return nil
}

// Table returns the named table definition.
func (c *Config) Table(name string) (Table, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}
