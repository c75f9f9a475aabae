package config

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/masenocturnal/deletecontent/internal/mq"
	"github.com/masenocturnal/deletecontent/internal/process"
	"github.com/masenocturnal/deletecontent/internal/storage"
	"github.com/spf13/viper"
)

// HostConfig data structure that represent a valid configuration file
type HostConfig struct {
	LogLevel   string            `json:"loglevel" mapstructure:"loglevel"`
	LogFormat  string            `json:"logformat" mapstructure:"logformat"`
	Background bool              `json:"background" mapstructure:"background"`
	Daemon     DaemonConfig      `json:"daemon" mapstructure:"daemon"`
	Database   mysql.Config      `json:"database" mapstructure:"database"`
	Rabbitmq   mq.BusConfig      `json:"rabbitmq" mapstructure:"rabbitmq"`
	Storage    storage.Config    `json:"storage" mapstructure:"storage"`
	Layout     process.Layout    `json:"layout" mapstructure:"layout"`
	RulesetDir string            `json:"rulesetDir" mapstructure:"rulesetDir"`
	Plugins    map[string]string `json:"plugins" mapstructure:"plugins"`
	Metrics    MetricsConfig     `json:"metrics" mapstructure:"metrics"`
	// Workers is the number of steps the listener runs at the same time
	Workers int `json:"workers" mapstructure:"workers"`
}

// DaemonConfig controls the detached listener
type DaemonConfig struct {
	PidFile string `json:"pidFile" mapstructure:"pidFile"`
	LogFile string `json:"logFile" mapstructure:"logFile"`
	WorkDir string `json:"workDir" mapstructure:"workDir"`
}

// MetricsConfig is where the listener exposes its metrics. Empty disables the endpoint
type MetricsConfig struct {
	Listen string `json:"listen" mapstructure:"listen"`
}

// PluginConfigFile returns the configuration file registered for a plugin title
func (c *HostConfig) PluginConfigFile(title string) (string, bool) {
	// viper lower-cases map keys
	for name, file := range c.Plugins {
		if strings.EqualFold(name, title) && file != "" {
			return file, true
		}
	}
	return "", false
}

// ReadApplicationConfig will load the application configuration from known places on the disk or environment
func ReadApplicationConfig(paths ...string) (*HostConfig, error) {
	conf := viper.New()
	conf.SetConfigName("deletecontentd")
	if len(paths) > 0 {
		for _, path := range paths {
			conf.AddConfigPath(path)
		}
	} else {
		conf.AddConfigPath("/etc/deletecontent/")
		conf.AddConfigPath("../config/")
		conf.AddConfigPath("./")
	}
	conf.SetEnvPrefix("deletecontent")
	conf.AutomaticEnv()

	conf.SetDefault("loglevel", "information")
	conf.SetDefault("logformat", "text")
	conf.SetDefault("daemon.pidFile", "deletecontentd.pid")
	conf.SetDefault("daemon.logFile", "deletecontentd.log")
	conf.SetDefault("daemon.workDir", "./")
	conf.SetDefault("workers", 1)

	if err := conf.ReadInConfig(); err != nil {
		return nil, err
	}

	hostConfig := &HostConfig{}
	if err := conf.Unmarshal(hostConfig); err != nil {
		return nil, fmt.Errorf("Unable to read %s: %s", conf.ConfigFileUsed(), err.Error())
	}
	hostConfig.Layout = hostConfig.Layout.WithDefaults()
	return hostConfig, nil
}

// ReadPluginConfig loads the configuration file of a deletion plugin
func ReadPluginConfig(fileName string) (*viper.Viper, error) {
	conf := viper.New()
	conf.SetConfigFile(fileName)
	if err := conf.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("Unable to read plugin configuration %s: %s", fileName, err.Error())
	}
	return conf, nil
}
