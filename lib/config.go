/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lib

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFlag = "config"

const defaultLogLevel = "info"

type BaseConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

/**
	InitializeConfig sets up the configuration of a binary.

	Config is read from a yml file at defaultPath unless the --config flag names another one. Keys of defaultConfig
	missing from the file keep their default value. A key can be overridden by an env var of the same name,
	uppercased with "." replaced by "_": LEXICON_CASE_SENSITIVE overrides lexicon.case_sensitive.
	Env vars are only read for keys that exist in the file or in defaultConfig.

	The global zerolog level is set from log_level, info when unset.

	targetStruct must be a pointer to the struct the config is unmarshalled into.
**/
func InitializeConfig(defaultPath string, defaultConfig map[string]interface{}, targetStruct interface{}) error {
	if pflag.Lookup(configFlag) == nil {
		pflag.String(configFlag, defaultPath, "The config file path.")
	}
	if !pflag.Parsed() {
		pflag.Parse()
	}

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	configFile, err := filepath.Abs(viper.GetString(configFlag))
	if err != nil {
		return fmt.Errorf("config path: %w", err)
	}

	for k, v := range defaultConfig {
		viper.SetDefault(k, v)
	}

	viper.SetConfigName(strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile)))
	viper.AddConfigPath(filepath.Dir(configFile))

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Warn().Err(err).Msg("default settings applied")
	} else if err != nil {
		return fmt.Errorf("reading %s: %w", configFile, err)
	}

	var bc BaseConfig
	if err := viper.Unmarshal(&bc); err != nil {
		return err
	}
	if bc.LogLevel == "" {
		bc.LogLevel = defaultLogLevel
	}
	lvl, err := zerolog.ParseLevel(bc.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)

	return viper.Unmarshal(targetStruct)
}
