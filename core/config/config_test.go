package config

import (
	"io/fs"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := Default()
	assert.Nil(t, cfg.Validate())

	assert.Equal(t, `\u@\h:\w\$ `, cfg.Prompt)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Equal(t, fs.FileMode(0644), cfg.RedirectMode())
	assert.False(t, cfg.LogEvents)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Configuration)
		errTag string
	}{
		"default": {
			mutate: func(*Configuration) {},
		},
		"bad-color": {
			mutate: func(c *Configuration) { c.Color = "sometimes" },
			errTag: "color",
		},
		"mode-not-octal": {
			mutate: func(c *Configuration) { c.RedirectFileMode = "0999" },
			errTag: "redirect_file_mode",
		},
		"mode-too-wide": {
			mutate: func(c *Configuration) { c.RedirectFileMode = "4755" },
			errTag: "redirect_file_mode",
		},
		"history-limit": {
			mutate: func(c *Configuration) { c.HistoryLimit = -2 },
			errTag: "history_limit",
		},
		"empty-prompt": {
			mutate: func(c *Configuration) { c.Prompt = "" },
			errTag: "prompt",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.errTag == "" {
				assert.Nil(t, err)
				return
			}
			assert.NotNil(t, err)
			assert.Contains(t, err.Error(), tc.errTag)
		})
	}
}

func TestRedirectMode(t *testing.T) {
	cfg := Default()

	cfg.RedirectFileMode = "0600"
	assert.Equal(t, fs.FileMode(0600), cfg.RedirectMode())

	cfg.RedirectFileMode = "0777"
	assert.Equal(t, fs.FileMode(0777), cfg.RedirectMode())

	cfg.RedirectFileMode = "garbage"
	assert.Equal(t, fs.FileMode(0644), cfg.RedirectMode())
}

func TestHistoryPath(t *testing.T) {
	cfg := Default()

	cfg.HistoryFile = "~/.hist"
	assert.Equal(t, "/home/bob/.hist", cfg.HistoryPath("/home/bob"))
	assert.Equal(t, "~/.hist", cfg.HistoryPath(""))

	cfg.HistoryFile = ""
	assert.Equal(t, "", cfg.HistoryPath("/home/bob"))

	cfg.HistoryFile = "/var/hist"
	cfg.HistoryLimit = -1
	assert.Equal(t, "", cfg.HistoryPath("/home/bob"))
}
