// Command cutekit is the thin CLI front-end over the registry, resolver,
// and build-plan generator: argument parsing and wiring only, no
// business logic.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cute-engineering/cutekit-go/internal/buildplan"
	"github.com/cute-engineering/cutekit-go/internal/ckerrors"
	"github.com/cute-engineering/cutekit-go/internal/host"
	"github.com/cute-engineering/cutekit-go/internal/output"
	"github.com/cute-engineering/cutekit-go/internal/registry"
	"github.com/cute-engineering/cutekit-go/internal/workspace"
)

var (
	flagRoot    string
	flagVerbose bool
	flagMixins  []string
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	c := &cobra.Command{
		Use:           "cutekit",
		Short:         "Meta build system and package manager for C/C++ projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return output.Setup(output.LogConfig{
				Verbose:        flagVerbose,
				ProjectLogPath: filepath.Join(flagRoot, workspace.LogFile),
			})
		},
	}

	c.PersistentFlags().StringVar(&flagRoot, "root", ".", "project root")
	c.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	c.PersistentFlags().StringSliceVar(&flagMixins, "mixin", nil, "build mixins to apply (cache, debug, asan, msan, tsan, ubsan, tune, fast, o0-o3)")

	c.AddCommand(newBuildCmd())
	c.AddCommand(newGenCmd())
	c.AddCommand(newCompileCommandsCmd())
	c.AddCommand(newListTargetsCmd())
	c.AddCommand(newListComponentsCmd())
	c.AddCommand(newCleanCmd())

	return c
}

func loadRegistry(ctx context.Context) (*registry.Registry, error) {
	root, err := filepath.Abs(flagRoot)
	if err != nil {
		return nil, ckerrors.NewIO(flagRoot, err)
	}
	layout := workspace.New(root)
	sh := host.OSShell{}
	return registry.Load(ctx, layout, sh, registry.Options{Mixins: flagMixins})
}

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <target>",
		Short: "Generate and write the build.ninja file for a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRegistry(cmd.Context())
			if err != nil {
				return err
			}
			scope, err := buildplan.NewTargetScope(r, args[0], workspace.HostID)
			if err != nil {
				return err
			}
			plan, err := buildplan.Build(cmd.Context(), scope)
			if err != nil {
				return err
			}
			output.Println(fmt.Sprintf("wrote %s", plan.NinjaPath))
			for id, out := range plan.Outfiles {
				output.Println(fmt.Sprintf("  %s -> %s", id, out))
			}
			return nil
		},
	}
}

func newGenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen <target>",
		Short: "Print the generated build.ninja file to stdout without writing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRegistry(cmd.Context())
			if err != nil {
				return err
			}
			scope, err := buildplan.NewTargetScope(r, args[0], workspace.HostID)
			if err != nil {
				return err
			}
			return buildplan.Generate(os.Stdout, scope)
		},
	}
}

func newCompileCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile-commands <target>",
		Short: "Print a clang compile_commands.json for a target instead of building it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRegistry(cmd.Context())
			if err != nil {
				return err
			}
			scope, err := buildplan.NewTargetScope(r, args[0], workspace.HostID)
			if err != nil {
				return err
			}
			plan := &buildplan.Plan{BuildDir: scope.Target.BuildDir}
			entries, err := plan.CompileCommands(scope)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}
}

func newListTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-targets",
		Short: "List every discovered target manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRegistry(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range r.Targets() {
				output.Println(t.ID)
			}
			return nil
		},
	}
}

func newListComponentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-components",
		Short: "List every discovered component manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRegistry(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range r.Components() {
				output.Println(fmt.Sprintf("%s (%s)", c.ID, c.Kind))
			}
			return nil
		},
	}
}

func newCleanCmd() *cobra.Command {
	var nuke bool
	c := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build output directory (or the whole .cutekit cache with --nuke)",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(flagRoot)
			if err != nil {
				return ckerrors.NewIO(flagRoot, err)
			}
			sh := host.OSShell{}
			target := filepath.Join(root, workspace.BuildSubdir)
			if nuke {
				target = filepath.Join(root, workspace.ProjectDir)
			}
			if err := sh.RemoveAll(target); err != nil {
				return err
			}
			output.Println(fmt.Sprintf("removed %s", target))
			return nil
		},
	}
	c.Flags().BoolVar(&nuke, "nuke", false, "remove the entire .cutekit cache, including externs and generated files")
	return c
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	output.Error(err.Error())

	switch {
	case errors.Is(err, ckerrors.ErrConfig), errors.Is(err, ckerrors.ErrResolution):
		return 2
	case errors.Is(err, ckerrors.ErrIO), errors.Is(err, ckerrors.ErrShell):
		return 3
	case errors.Is(err, ckerrors.ErrBuild):
		return 4
	default:
		return 1
	}
}
