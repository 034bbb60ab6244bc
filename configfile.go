// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package aterm

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the serializable version of the options accepted by New. It can
// be loaded from a YAML (or JSON) file and overridden with environment
// variables, see LoadConfig.
type Config struct {
	// TableSize is the initial number of buckets in the term table.
	TableSize int `json:"table_size" yaml:"table_size"`

	// MaxTableSize limits the growth of the term table (0 for no limit).
	MaxTableSize int `json:"max_table_size" yaml:"max_table_size"`

	// BlockWords is the number of 64 bits words in a block.
	BlockWords int `json:"block_words" yaml:"block_words"`

	// MaxBlocks limits the number of blocks (0 for no limit).
	MaxBlocks int `json:"max_blocks" yaml:"max_blocks"`

	// SymbolTableSize is the initial number of buckets in the symbol table.
	SymbolTableSize int `json:"symbol_table_size" yaml:"symbol_table_size"`

	// Promote moves terms found in the table to the front of their chain.
	Promote bool `json:"promote" yaml:"promote"`
}

// DefaultConfig returns the configuration used by New without options.
func DefaultConfig() Config {
	return Config{
		TableSize:       _TABLESIZE,
		BlockWords:      _BLOCKWORDS,
		SymbolTableSize: _SYMTABLESIZE,
		Promote:         true,
	}
}

// LoadConfig loads a configuration with priority: env > file > defaults. The
// file is optional (configPath can be empty) and a missing file is not an
// error. Recognized environment variables are ATERM_TABLE_SIZE,
// ATERM_MAX_TABLE_SIZE, ATERM_BLOCK_WORDS, ATERM_MAX_BLOCKS,
// ATERM_SYMBOL_TABLE_SIZE and ATERM_PROMOTE.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()
	if configPath != "" {
		if err := loadConfigFile(configPath, &config); err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := loadConfigFromEnv(&config); err != nil {
		return config, err
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func loadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, config); err != nil {
		if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadConfigFromEnv(config *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"ATERM_TABLE_SIZE", &config.TableSize},
		{"ATERM_MAX_TABLE_SIZE", &config.MaxTableSize},
		{"ATERM_BLOCK_WORDS", &config.BlockWords},
		{"ATERM_MAX_BLOCKS", &config.MaxBlocks},
		{"ATERM_SYMBOL_TABLE_SIZE", &config.SymbolTableSize},
	}
	for _, v := range ints {
		s := os.Getenv(v.name)
		if s == "" {
			continue
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrConfig, v.name, s)
		}
		*v.dst = i
	}
	if s := os.Getenv("ATERM_PROMOTE"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("%w: ATERM_PROMOTE=%q is not a boolean", ErrConfig, s)
		}
		config.Promote = b
	}
	return nil
}

// Validate checks that the configuration can be used to create a store.
func (c Config) Validate() error {
	if c.TableSize <= 0 {
		return fmt.Errorf("%w: table_size must be positive, got %d", ErrConfig, c.TableSize)
	}
	if c.MaxTableSize < 0 || (c.MaxTableSize > 0 && c.MaxTableSize < c.TableSize) {
		return fmt.Errorf("%w: max_table_size (%d) must be 0 or at least table_size (%d)", ErrConfig, c.MaxTableSize, c.TableSize)
	}
	if c.BlockWords < _INTSIZE {
		return fmt.Errorf("%w: block_words must be at least %d, got %d", ErrConfig, _INTSIZE, c.BlockWords)
	}
	if c.MaxBlocks < 0 {
		return fmt.Errorf("%w: max_blocks must not be negative, got %d", ErrConfig, c.MaxBlocks)
	}
	if c.SymbolTableSize <= 0 {
		return fmt.Errorf("%w: symbol_table_size must be positive, got %d", ErrConfig, c.SymbolTableSize)
	}
	return nil
}

// Options returns the options to pass to New in order to build a store with
// this configuration.
func (c Config) Options() []func(*configs) {
	return []func(*configs){
		Tablesize(c.TableSize),
		Maxtablesize(c.MaxTableSize),
		Blockwords(c.BlockWords),
		Maxblocks(c.MaxBlocks),
		Symtablesize(c.SymbolTableSize),
		Promote(c.Promote),
	}
}
