package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// field binds a config key to its getter and setter
type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

var fields = map[string]field{
	"server_url": {
		get: func(c *Config) string { return c.ServerURL },
		set: func(c *Config, v string) error {
			u, err := url.ParseRequestURI(v)
			if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
				return fmt.Errorf("server_url must be an http(s) URL, got %q", v)
			}
			c.ServerURL = strings.TrimRight(v, "/")
			return nil
		},
	},
	"request_timeout": {
		get: func(c *Config) string { return strconv.Itoa(c.RequestTimeout) },
		set: func(c *Config, v string) error {
			n, err := positiveInt(v)
			if err != nil {
				return fmt.Errorf("request_timeout: %w", err)
			}
			c.RequestTimeout = n
			return nil
		},
	},
	"verbose": {
		get: func(c *Config) string { return strconv.FormatBool(c.Verbose) },
		set: func(c *Config, v string) error { return setBool(&c.Verbose, "verbose", v) },
	},
	"copy_to_clipboard": {
		get: func(c *Config) string { return strconv.FormatBool(c.CopyToClipboard) },
		set: func(c *Config, v string) error { return setBool(&c.CopyToClipboard, "copy_to_clipboard", v) },
	},
	"save_history": {
		get: func(c *Config) string { return strconv.FormatBool(c.SaveHistory) },
		set: func(c *Config, v string) error { return setBool(&c.SaveHistory, "save_history", v) },
	},
	"tui_theme": {
		get: func(c *Config) string { return c.TUITheme },
		set: func(c *Config, v string) error { c.TUITheme = strings.ToLower(v); return nil },
	},
	"per_page": {
		get: func(c *Config) string { return strconv.Itoa(c.PerPage) },
		set: func(c *Config, v string) error {
			n, err := positiveInt(v)
			if err != nil {
				return fmt.Errorf("per_page: %w", err)
			}
			c.PerPage = n
			return nil
		},
	},
	"markdown.style": {
		get: func(c *Config) string { return c.Markdown.Style },
		set: func(c *Config, v string) error { c.Markdown.Style = v; return nil },
	},
	"markdown.enable_emoji": {
		get: func(c *Config) string { return strconv.FormatBool(c.Markdown.EnableEmoji) },
		set: func(c *Config, v string) error { return setBool(&c.Markdown.EnableEmoji, "markdown.enable_emoji", v) },
	},
}

// ParseBool accepts the strconv.ParseBool forms plus yes/no and on/off
func ParseBool(v string) (bool, error) {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("expected true or false, got %q", v)
	}
	return b, nil
}

func setBool(dst *bool, key, v string) error {
	b, err := ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func positiveInt(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a positive integer, got %q", v)
	}
	return n, nil
}

// Keys returns the settable keys in display order
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of a key
func (c Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return f.get(&c), nil
}

// Set returns a copy of c with key set to value
func (c Config) Set(key, value string) (Config, error) {
	f, ok := fields[key]
	if !ok {
		return c, fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := f.set(&c, strings.TrimSpace(value)); err != nil {
		return c, err
	}
	return c, nil
}
