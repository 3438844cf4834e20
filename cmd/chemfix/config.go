/*
 * config.go, part of chemfix.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rmera/chemfix/fixer"
	"github.com/rmera/chemfix/native"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/unit"
)

const envPrefix = "CHEMFIX"

// Config is the configuration of the chemfix command. It is read, in order
// of increasing priority, from the defaults, the chemfix.yaml file, the
// CHEMFIX_* environment variables (CHEMFIX_WATER_PADDING for water.padding)
// and the command line flags.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Engine EngineConfig `mapstructure:"engine"`
	Water  WaterConfig  `mapstructure:"water"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` //console or json
}

// EngineConfig selects the engine. Kind is native, for the built-in
// engine, or exec, to run Command with Args as a worker for each call.
type EngineConfig struct {
	Kind    string   `mapstructure:"kind"`
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

type WaterConfig struct {
	Padding       float64   `mapstructure:"padding"` //Angstrom
	Box           []float64 `mapstructure:"box"`
	Concentration float64   `mapstructure:"concentration"` //mol/L
	PositiveIon   string    `mapstructure:"positive_ion"`
	NegativeIon   string    `mapstructure:"negative_ion"`
	Neutralize    bool      `mapstructure:"neutralize"`
	ForceField    []string  `mapstructure:"forcefield"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	wo := fixer.DefaultWaterOptions()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("engine.kind", "native")
	v.SetDefault("engine.command", "")
	v.SetDefault("engine.args", []string{})
	v.SetDefault("water.padding", 10.0)
	v.SetDefault("water.box", []float64{})
	v.SetDefault("water.concentration", 0.0)
	v.SetDefault("water.positive_ion", wo.PositiveIon())
	v.SetDefault("water.negative_ion", wo.NegativeIon())
	v.SetDefault("water.neutralize", wo.Neutralize())
	v.SetDefault("water.forcefield", wo.ForceField())
	return v
}

// loadConfig reads the configuration file path, or chemfix.yaml in the
// current directory, if it exists, when path is empty.
func loadConfig(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("chemfix")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading configuration: %w", err)
		}
	}
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, cfg.validate()
}

func (C *Config) validate() error {
	switch C.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log.format %q, must be console or json", C.Log.Format)
	}
	if _, err := zapcore.ParseLevel(C.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	switch C.Engine.Kind {
	case "native", "exec":
	default:
		return fmt.Errorf("invalid engine.kind %q, must be native or exec", C.Engine.Kind)
	}
	if n := len(C.Water.Box); n != 0 && n != 1 && n != 3 {
		return fmt.Errorf("water.box must have 1 or 3 values, not %d", n)
	}
	return nil
}

// newLogger builds a logger that writes to stderr, so the worker can use
// stdout for responses.
func newLogger(c LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	encCfg := zap.NewProductionEncoderConfig()
	if c.Format == "console" {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      c.Format == "console",
		Encoding:         c.Format,
		EncoderConfig:    encCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zc.Build()
}

func newEngine(c EngineConfig) fixer.Engine {
	if c.Kind == "exec" {
		e := new(fixer.ExecEngine)
		e.SetDefaults()
		if c.Command != "" {
			e.Command, e.Args = c.Command, c.Args
		}
		return e
	}
	return new(native.Engine)
}

func (c WaterConfig) options() *fixer.WaterOptions {
	O := fixer.DefaultWaterOptions()
	if len(c.Box) > 0 {
		O.BoxSize(c.Box...)
	}
	O.Padding(c.Padding)
	O.IonConcentration(unit.Dimless(c.Concentration))
	O.PositiveIon(c.PositiveIon)
	O.NegativeIon(c.NegativeIon)
	O.Neutralize(c.Neutralize)
	if len(c.ForceField) > 0 {
		O.ForceField(c.ForceField...)
	}
	return O
}
