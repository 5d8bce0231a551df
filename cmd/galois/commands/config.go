package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zoobzio/galois"
)

// Config is the resolved CLI configuration. Precedence, lowest first:
// defaults, config file, GALOIS_* environment variables, flags.
type Config struct {
	Algorithm string    `mapstructure:"algorithm"`
	Workers   int       `mapstructure:"workers"`
	Reduce    bool      `mapstructure:"reduce"`
	Verify    bool      `mapstructure:"verify"`
	Output    string    `mapstructure:"output"`
	DSN       string    `mapstructure:"dsn"`
	Log       LogConfig `mapstructure:"log"`
}

// LogConfig controls the signal logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// flagKeys maps flag names to configuration keys where they differ.
var flagKeys = map[string]string{
	"log-json":  "log.json",
	"log-level": "log.level",
}

var current = &Config{}

// SetDefaults registers the default value of every configuration key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("algorithm", galois.DefaultAlgorithm)
	v.SetDefault("workers", galois.DefaultWorkers)
	v.SetDefault("reduce", false)
	v.SetDefault("verify", false)
	v.SetDefault("output", "text")
	v.SetDefault("dsn", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "warn")
}

// NewViper creates a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GALOIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// LoadConfig resolves the configuration for cmd and makes it current.
func LoadConfig(cmd *cobra.Command) (*Config, error) {
	v := NewViper()

	path, _ := cmd.Flags().GetString("config")
	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	current = cfg
	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("galois")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || err != nil {
			return
		}
		key := f.Name
		if k, ok := flagKeys[f.Name]; ok {
			key = k
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
