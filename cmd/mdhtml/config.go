package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configName = "mdhtml"

// boundFlags are the flags that can also be set from the config file or an
// MDHTML_* environment variable. Flags given on the command line win.
var boundFlags = []string{
	"schema",
	"schema-file",
	"buffer-size",
	"strict",
	"front-matter",
	"escape-html",
	"encoding",
	"simulate-chunk",
	"simulate-delay",
}

// configDirs lists the directories searched for mdhtml.yml, most specific
// first.
func configDirs() []string {
	var dirs []string
	if c := os.Getenv("MDHTML_CONFIG_HOME"); c != "" {
		dirs = append(dirs, c)
	}
	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append(dirs, filepath.Join(c, "mdhtml"))
	}
	scope := gap.NewScope(gap.User, "mdhtml")
	if more, err := scope.ConfigDirs(); err == nil {
		dirs = append(dirs, more...)
	}
	return dirs
}

// loadConfig binds flags to a viper instance and reads the config file. An
// explicit path must exist; a missing default file is not an error.
func loadConfig(flags *pflag.FlagSet, explicit string) (*viper.Viper, error) {
	v := viper.New()
	for _, name := range boundFlags {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			return nil, err
		}
	}
	v.SetEnvPrefix(configName)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if explicit != "" {
		v.SetConfigFile(normalizePath(explicit))
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		return v, nil
	}
	for _, dir := range configDirs() {
		v.AddConfigPath(dir)
	}
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}
