package main

import (
	"io"
	"strings"

	"github.com/YuminosukeSato/linclass/pkg/errors"
	"github.com/YuminosukeSato/linclass/pkg/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "linclass"

// app はコマンド間で共有する設定と出力先
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:           "linclass",
		Short:         "Least-squares linear classifier",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().String("config", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newFitCmd(a),
		newPredictCmd(a),
		newBoundaryCmd(a),
		newPlotCmd(a),
	)
	return cmd
}

// setup はフラグ・環境変数・設定ファイルを viper にまとめ、ロガーを設定する
// 優先順位はフラグ > 環境変数 (LINCLASS_*) > 設定ファイル > デフォルト
func (a *app) setup(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "failed to bind flags")
	}
	if err := a.v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return errors.Wrap(err, "failed to bind flags")
	}

	if cfg := a.v.GetString("config"); cfg != "" {
		a.v.SetConfigFile(cfg)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config %s", cfg)
		}
	}

	levelName := a.v.GetString("log-level")
	if err := log.SetupLogger(a.stderr, levelName); err != nil {
		return err
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return err
	}
	log.SetOutput(a.stderr)
	log.SetLevel(level)
	log.InstallWarningHook()
	return nil
}

// require は必須の設定値を取り出す
func (a *app) require(key string) (string, error) {
	s := a.v.GetString(key)
	if s == "" {
		return "", errors.NewValueError("linclass", "--"+key+" is required")
	}
	return s, nil
}
