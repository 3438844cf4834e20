/*
 * root.go, part of chemfix.
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
	chem "github.com/rmera/chemfix"
	"github.com/rmera/chemfix/fixer"
	"github.com/rmera/chemfix/native"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// stdio is the file name for the standard input or output.
const stdio = "-"

// app holds the state shared by the commands.
type app struct {
	root       *cobra.Command
	v          *viper.Viper
	configPath string
	cfg        *Config
	log        *zap.Logger
}

func newApp() *app {
	a := &app{v: newViper()}
	a.root = &cobra.Command{
		Use:               "chemfix",
		Short:             "Apply point mutations and water boxes to protein structures",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	pf := a.root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "configuration file (default: ./chemfix.yaml, if present)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console or json)")
	pf.String("engine", "native", "engine to use (native or exec)")
	a.bind("log.level", pf.Lookup("log-level"))
	a.bind("log.format", pf.Lookup("log-format"))
	a.bind("engine.kind", pf.Lookup("engine"))
	a.root.AddCommand(a.mutateCommand(), a.solvateCommand(), a.workerCommand())
	return a
}

func (a *app) bind(key string, flag *pflag.Flag) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(err) //only if flag is nil
	}
}

// setup reads the configuration and installs the global logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(a.v, a.configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	a.cfg, a.log = cfg, logger
	logger.Debug("configuration loaded", zap.String("file", a.v.ConfigFileUsed()), zap.Any("config", cfg))
	return nil
}

func readInput(cmd *cobra.Command, name string) (*chem.Molecule, error) {
	if name == stdio {
		return chem.PDBRead(cmd.InOrStdin())
	}
	return chem.PDBFileRead(name)
}

func writeOutput(cmd *cobra.Command, name string, mol *chem.Molecule) error {
	if name == stdio {
		return chem.PDBWrite(cmd.OutOrStdout(), mol)
	}
	return chem.PDBFileWrite(name, mol)
}

func ioFlags(cmd *cobra.Command, in, out *string) {
	cmd.Flags().StringVarP(in, "input", "i", stdio, "input PDB file, .zst for compressed files, - for stdin")
	cmd.Flags().StringVarP(out, "output", "o", stdio, "output PDB file, .zst for compressed files, - for stdout")
}

func (a *app) mutateCommand() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "mutate [flags] MUTATION...",
		Short: "Apply point mutations",
		Long: `Apply point mutations, given as [chain.][from]position to, where from and to are
1-letter codes or 3-letter names. For instance, A.K42A mutates the LYS42 of chain A
to ALA, and 45S mutates residue 45 of every chain to SER.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mol, err := readInput(cmd, in)
			if err != nil {
				return err
			}
			mutant, err := fixer.MutateStrings(cmd.Context(), newEngine(a.cfg.Engine), mol, args...)
			if err != nil {
				return err
			}
			a.log.Info("mutated", zap.String("input", in), zap.Any("mutations", mutant.Metadata[fixer.MetaMutations]))
			return writeOutput(cmd, out, mutant)
		},
	}
	ioFlags(cmd, &in, &out)
	return cmd
}

func (a *app) solvateCommand() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "solvate [flags]",
		Short: "Surround the structure with a box of water and ions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("box") {
				box, err := cmd.Flags().GetFloat64Slice("box")
				if err != nil {
					return err
				}
				a.cfg.Water.Box = box
				if err := a.cfg.validate(); err != nil {
					return err
				}
			}
			mol, err := readInput(cmd, in)
			if err != nil {
				return err
			}
			solvated, err := fixer.AddWater(cmd.Context(), newEngine(a.cfg.Engine), mol, a.cfg.Water.options())
			if err != nil {
				return err
			}
			a.log.Info("solvated", zap.String("input", in), zap.Int("atoms", solvated.Len()))
			return writeOutput(cmd, out, solvated)
		},
	}
	ioFlags(cmd, &in, &out)
	f := cmd.Flags()
	f.Float64("padding", 10, "minimum distance between the solute and the box edges, in A")
	f.Float64Slice("box", nil, "minimum box size, in A: one value for a cube, or three")
	f.Float64("concentration", 0, "ion concentration, in mol/L, beyond the neutralizing ions")
	f.String("positive-ion", "Na+", "positive ion")
	f.String("negative-ion", "Cl-", "negative ion")
	f.Bool("neutralize", true, "add ions to neutralize the solute")
	a.bind("water.padding", f.Lookup("padding"))
	a.bind("water.concentration", f.Lookup("concentration"))
	a.bind("water.positive_ion", f.Lookup("positive-ion"))
	a.bind("water.negative_ion", f.Lookup("negative-ion"))
	a.bind("water.neutralize", f.Lookup("neutralize"))
	return cmd
}

func (a *app) workerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Serve the native engine on stdin and stdout",
		Long: `Serve the native engine on stdin and stdout. Requests and responses are
JSON objects, one per line. This is the worker run by the exec engine.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return native.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
