package cmdconfig

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CmdBuilder adds flags to a command and binds them to viper under the flag name.
type CmdBuilder struct {
	cmd      *cobra.Command
	bindings []string
}

// OnCmd starts a builder for cmd and installs the pre-run hook.
func OnCmd(cmd *cobra.Command) *CmdBuilder {
	b := &CmdBuilder{cmd: cmd}

	originalPreRunE := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		// bind at run time so sibling commands sharing a key do not clobber each other
		for _, flag := range b.bindings {
			if err := viper.BindPFlag(flag, cmd.Flags().Lookup(flag)); err != nil {
				slog.Error("error binding flag", "flag", flag, "error", err)
				return err
			}
		}
		if err := preRunHook(cmd, args); err != nil {
			return err
		}
		if originalPreRunE != nil {
			return originalPreRunE(cmd, args)
		}
		return nil
	}
	return b
}

func (b *CmdBuilder) bind(name string) *CmdBuilder {
	b.bindings = append(b.bindings, name)
	return b
}

func (b *CmdBuilder) AddStringFlag(name, shorthand, defaultValue, desc string) *CmdBuilder {
	b.cmd.Flags().StringP(name, shorthand, defaultValue, desc)
	return b.bind(name)
}

func (b *CmdBuilder) AddIntFlag(name string, defaultValue int, desc string) *CmdBuilder {
	b.cmd.Flags().Int(name, defaultValue, desc)
	return b.bind(name)
}

func (b *CmdBuilder) AddBoolFlag(name string, defaultValue bool, desc string) *CmdBuilder {
	b.cmd.Flags().Bool(name, defaultValue, desc)
	return b.bind(name)
}

func (b *CmdBuilder) AddStringArrayFlag(name string, defaultValue []string, desc string) *CmdBuilder {
	b.cmd.Flags().StringArray(name, defaultValue, desc)
	return b.bind(name)
}
