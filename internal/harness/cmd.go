package harness

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// SubCommand pairs a cobra command with a viper instance bound to that
// command's own flags, mirroring the way a multi-binary project keeps each
// subcommand's configuration independent while still sharing a root.
type SubCommand struct {
	Cmd       *cobra.Command
	Conf      *viper.Viper
	EnvPrefix string
}

// BindAll attaches each subcommand to root and wires its Conf to read that
// subcommand's flags plus environment variables under EnvPrefix, and,
// if --config was given on the root command, an optional config file.
func BindAll(root *cobra.Command, subcommands ...*SubCommand) {
	var configFile string
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional config file overlaying flag defaults")

	for _, sc := range subcommands {
		root.AddCommand(sc.Cmd)
		sc.Conf = viper.New()
		_ = sc.Conf.BindPFlags(sc.Cmd.Flags())
		_ = sc.Conf.BindPFlags(root.PersistentFlags())
		sc.Conf.AutomaticEnv()
		sc.Conf.SetEnvPrefix(sc.EnvPrefix)

		conf := sc.Conf
		cobra.OnInitialize(func() {
			if configFile == "" {
				return
			}
			conf.SetConfigFile(configFile)
			if err := conf.ReadInConfig(); err != nil {
				panic(err)
			}
		})
	}
}
