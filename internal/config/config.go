package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pipe01/tagtree/internal/generator"
	"github.com/pipe01/tagtree/internal/lexer"
)

type Config struct {
	// Outline syntax
	IndentWidth int

	// Rendering. HTMLVoid takes precedence over SelfClosing.
	SelfClosing []string
	HTMLVoid    bool

	// HTTP server
	Addr         string
	MaxBodyBytes int64

	// commonlog verbosity
	LogVerbosity int
}

func Load() Config {
	cfg := Config{
		IndentWidth: envInt("TAGTREE_INDENT_WIDTH", lexer.DefaultIndentWidth),

		SelfClosing: envList("TAGTREE_SELF_CLOSING", []string{"img"}),
		HTMLVoid:    envBool("TAGTREE_HTML_VOID", false),

		Addr:         envOr("TAGTREE_ADDR", ":8080"),
		MaxBodyBytes: envInt64("TAGTREE_MAX_BODY_BYTES", 1<<20), // 1MB

		LogVerbosity: envInt("TAGTREE_LOG_VERBOSITY", 1),
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}

	return cfg
}

func (c Config) Validate() error {
	if c.IndentWidth <= 0 {
		return fmt.Errorf("indent width must be positive, got %d", c.IndentWidth)
	}
	for _, name := range c.SelfClosing {
		if name == "" {
			return fmt.Errorf("self-closing tag names can't be empty")
		}
	}
	return nil
}

func (c Config) LexerOptions() lexer.Options {
	return lexer.Options{IndentWidth: c.IndentWidth}
}

func (c Config) GeneratorOptions() generator.Options {
	if c.HTMLVoid {
		return generator.Options{SelfClosing: generator.HTMLVoidElements}
	}
	return generator.Options{SelfClosing: generator.NewSet(c.SelfClosing...)}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// envList reads a comma separated list. A variable set to "-" yields an
// empty list.
func envList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	if v == "-" {
		return []string{}
	}

	var ret []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			ret = append(ret, s)
		}
	}
	return ret
}
