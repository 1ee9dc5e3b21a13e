package config

import (
	_ "embed"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephlewis42/myssh/core/homepath"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	AppLogName        = "app.log"
)

// Color modes for the prompt.
const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configFs afero.Fs

	Prompt           string `json:"prompt" validate:"required"`
	Color            string `json:"color" validate:"oneof=always auto never"`
	HistoryFile      string `json:"history_file"`
	HistoryLimit     int    `json:"history_limit" validate:"gte=-1"`
	RedirectFileMode string `json:"redirect_file_mode" validate:"filemode"`
	LogEvents        bool   `json:"log_events"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})
	if err := validate.RegisterValidation("filemode", validateFileMode); err != nil {
		return err
	}

	return validate.Struct(c)
}

func validateFileMode(fl validator.FieldLevel) bool {
	_, err := parseFileMode(fl.Field().String())
	return err == nil
}

func parseFileMode(mode string) (fs.FileMode, error) {
	perm, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return 0, err
	}
	if perm&^uint64(fs.ModePerm) != 0 {
		return 0, fmt.Errorf("mode %q has bits outside of %o", mode, fs.ModePerm)
	}
	return fs.FileMode(perm), nil
}

// RedirectMode is the permission for files created by output redirection.
func (c *Configuration) RedirectMode() fs.FileMode {
	mode, err := parseFileMode(c.RedirectFileMode)
	if err != nil {
		return 0644
	}
	return mode
}

// HistoryPath resolves HistoryFile against home. It is empty if history
// shouldn't be persisted.
func (c *Configuration) HistoryPath(home string) string {
	if c.HistoryLimit < 0 {
		return ""
	}
	return homepath.Expand(c.HistoryFile, home)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewMemMapFs()
	}
	return c.configFs
}

// OpenAppLog opens the application log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_RDONLY, 0600)
}

// Default returns the built-in configuration.
func Default() *Configuration {
	out := defaultConfig()
	out.configFs = afero.NewMemMapFs()
	return out
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
