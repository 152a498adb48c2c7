// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/rapidaai/speaker/pkg/utils"
	"github.com/spf13/viper"
)

type SynthesisConfig struct {
	ApiUrl    string        `mapstructure:"api_url" validate:"required,url"`
	Character string        `mapstructure:"character" validate:"required"`
	Language  string        `mapstructure:"language" validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Retry     int           `mapstructure:"retry" validate:"gte=0,lte=5"`
}

type AudioConfig struct {
	OutputDir  string `mapstructure:"output_dir" validate:"required"`
	SampleRate uint32 `mapstructure:"sample_rate" validate:"gt=0"`
	Channels   uint16 `mapstructure:"channels" validate:"gt=0,lte=2"`
}

type NormalizerConfig struct {
	ReasoningTags []string `mapstructure:"reasoning_tags"`
	Pipeline      []string `mapstructure:"pipeline"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host" validate:"required_if=Enabled true"`
	Port     int           `mapstructure:"port" validate:"required_if=Enabled true"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	Password string        `mapstructure:"password"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Application config structure
type AppConfig struct {
	Name     string `mapstructure:"service_name" validate:"required"`
	Version  string `mapstructure:"version" validate:"required"`
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required,gt=0,lte=65535"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogPath  string `mapstructure:"log_path"`
	Env      string `mapstructure:"env"`

	SynthesisConfig  SynthesisConfig  `mapstructure:"synthesis" validate:"required"`
	AudioConfig      AudioConfig      `mapstructure:"audio" validate:"required"`
	NormalizerConfig NormalizerConfig `mapstructure:"normalizer"`
	RedisConfig      RedisConfig      `mapstructure:"redis"`
}

func (c *AppConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *AppConfig) Environment() utils.Environment {
	return utils.FromEnvironmentStr(c.Env)
}

// reading config and intializing configs for application
func InitConfig() (*viper.Viper, error) {
	vConfig := viper.NewWithOptions(viper.KeyDelimiter("__"))

	vConfig.AddConfigPath(".")
	vConfig.SetConfigName(".env")
	path := os.Getenv("ENV_PATH")
	if path != "" {
		log.Printf("env path %v", path)
		vConfig.SetConfigFile(path)
	}
	vConfig.SetConfigType("env")
	vConfig.AutomaticEnv()

	setDefault(vConfig)
	if err := vConfig.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: unable to read %s: %w", vConfig.ConfigFileUsed(), err)
		}
		log.Printf("Reading from env varaibles.")
	}
	return vConfig, nil
}

func setDefault(v *viper.Viper) {
	// setting all default values
	// keeping watch on https://github.com/spf13/viper/issues/188

	v.SetDefault("SERVICE_NAME", "speaker-api")
	v.SetDefault("VERSION", "0.0.1")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 9090)
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_PATH", "")
	v.SetDefault("ENV", "development")

	v.SetDefault("SYNTHESIS__API_URL", "")
	v.SetDefault("SYNTHESIS__CHARACTER", "Amiya")
	v.SetDefault("SYNTHESIS__LANGUAGE", "zh")
	v.SetDefault("SYNTHESIS__TIMEOUT", "60s")
	v.SetDefault("SYNTHESIS__RETRY", 0)

	v.SetDefault("AUDIO__OUTPUT_DIR", filepath.Join(os.TempDir(), "speaker"))
	v.SetDefault("AUDIO__SAMPLE_RATE", 32000)
	v.SetDefault("AUDIO__CHANNELS", 1)

	v.SetDefault("NORMALIZER__REASONING_TAGS", "think")
	v.SetDefault("NORMALIZER__PIPELINE", "")

	v.SetDefault("REDIS__ENABLED", false)
	v.SetDefault("REDIS__HOST", "localhost")
	v.SetDefault("REDIS__PORT", 6379)
	v.SetDefault("REDIS__DB", 0)
	v.SetDefault("REDIS__PASSWORD", "")
	v.SetDefault("REDIS__TTL", "24h")
}

// Getting application config from viper
func GetApplicationConfig(v *viper.Viper) (*AppConfig, error) {
	var config AppConfig
	err := v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}

	// valdating the app config
	validate := validator.New()
	err = validate.Struct(&config)
	if err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}
	return &config, nil
}
