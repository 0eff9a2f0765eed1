package process

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/opdss/excelcol/cfgstruct"
	"github.com/opdss/excelcol/logger"
	"github.com/opdss/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zeebo/errs"
	"github.com/zeebo/structs"
	"go.uber.org/zap"
)

// DefaultCfgFilename 配置目录下的配置文件名
const DefaultCfgFilename = "config.yaml"

// DefaultEnvPrefix 环境变量前缀，可通过 ENV_PREFIX 覆盖
const DefaultEnvPrefix = "excelcol"

var Error = errs.Class("process")

var (
	commandMtx sync.Mutex
	contexts   = map[*cobra.Command]context.Context{}
	configs    = map[*cobra.Command][]any{}
	vipers     = map[*cobra.Command]*viper.Viper{}
)

// Bind 按配置结构体给命令注册flag，命令执行前会把配置文件和环境变量的值加载进来
func Bind(cmd *cobra.Command, config any, opts ...cfgstruct.BindOpt) {
	commandMtx.Lock()
	defer commandMtx.Unlock()

	cfgstruct.Bind(cmd.Flags(), config, opts...)
	configs[cmd] = append(configs[cmd], config)
}

type ExecOptions struct {
	// FailOnValueError 配置值无法解析时直接失败
	FailOnValueError bool
	// Log 非空时按此配置创建全局日志
	Log *logger.Config

	LoadConfig func(cmd *cobra.Command, vip *viper.Viper) error
}

// Exec 执行命令，存在 config-dir flag 时加载其中的 config.yaml
func Exec(cmd *cobra.Command) {
	ExecWithOptions(cmd, ExecOptions{})
}

func ExecWithOptions(cmd *cobra.Command, opts ExecOptions) {
	if opts.LoadConfig == nil {
		opts.LoadConfig = LoadConfig
	}
	cmd.AddCommand(&cobra.Command{
		Use:         "version",
		Short:       "output the version's build information, if any",
		RunE:        cmdVersion,
		Annotations: map[string]string{"type": "setup"},
	})

	if exe, err := os.Executable(); err == nil && cmd.Use == "" {
		cmd.Use = filepath.Base(exe)
	}

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	wrap(cmd, &opts)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Ctx 返回命令的上下文，收到 SIGINT/SIGTERM 时取消
func Ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	commandMtx.Lock()
	parent := contexts[cmd]
	commandMtx.Unlock()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Viper 返回命令对应的 viper，不存在时创建
func Viper(cmd *cobra.Command) (*viper.Viper, error) {
	return ViperWithCustomConfig(cmd, LoadConfig)
}

func ViperWithCustomConfig(cmd *cobra.Command, loadConfig func(cmd *cobra.Command, vip *viper.Viper) error) (*viper.Viper, error) {
	commandMtx.Lock()
	defer commandMtx.Unlock()

	if vip := vipers[cmd]; vip != nil {
		return vip, nil
	}

	vip := viper.New()
	if err := vip.BindPFlags(cmd.Flags()); err != nil {
		return nil, Error.Wrap(err)
	}

	prefix := os.Getenv("ENV_PREFIX")
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	vip.SetEnvPrefix(prefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vip.AutomaticEnv()

	if err := loadConfig(cmd, vip); err != nil {
		return nil, Error.Wrap(err)
	}

	vipers[cmd] = vip
	return vip, nil
}

// LoadConfig 从 config-dir 指定的目录读取配置文件
func LoadConfig(cmd *cobra.Command, vip *viper.Viper) error {
	cfgFlag := cmd.Flags().Lookup("config-dir")
	if cfgFlag == nil || cfgFlag.Value.String() == "" {
		return nil
	}
	path := filepath.Join(os.ExpandEnv(cfgFlag.Value.String()), DefaultCfgFilename)
	exists, err := fileExists(path)
	if err != nil || !exists {
		return err
	}
	vip.SetConfigFile(path)
	if err := vip.ReadInConfig(); err != nil && cmd.Annotations["type"] != "setup" {
		return err
	}
	return nil
}

// wrap 递归包装所有子命令的 RunE，执行前加载配置并初始化日志
func wrap(cmd *cobra.Command, opts *ExecOptions) {
	for _, sub := range cmd.Commands() {
		wrap(sub, opts)
	}
	if cmd.Run != nil {
		panic("Please use cobra's RunE instead of Run")
	}
	run := cmd.RunE
	if run == nil {
		return
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		vip, err := ViperWithCustomConfig(cmd, opts.LoadConfig)
		if err != nil {
			return err
		}
		missing, broken := applyConfig(cmd, vip)

		log := zap.L()
		if opts.Log != nil {
			if log, err = logger.NewLogger(*opts.Log); err != nil {
				return Error.Wrap(err)
			}
		}
		defer func() { _ = log.Sync() }()
		defer zap.ReplaceGlobals(log)()
		defer zap.RedirectStdLog(log)()

		if used := vip.ConfigFileUsed(); used != "" {
			if abs, err := filepath.Abs(used); err == nil {
				used = abs
			}
			log.Info("Configuration loaded", zap.String("Location", used))
		}
		if cmd.Annotations["type"] != "helper" {
			for _, key := range missing {
				log.Info("Invalid configuration file key", zap.String("Key", key))
			}
		}
		for _, key := range broken {
			if opts.FailOnValueError {
				return Error.New("invalid configuration file value for key: %s", key)
			}
			log.Info("Invalid configuration file value for key", zap.String("Key", key))
		}

		ctx, cancel := Ctx(cmd)
		defer cancel()
		commandMtx.Lock()
		contexts[cmd] = ctx
		commandMtx.Unlock()
		defer func() {
			commandMtx.Lock()
			delete(contexts, cmd)
			commandMtx.Unlock()
		}()

		if err := run(cmd, args); err != nil {
			log.Error("Unrecoverable error", zap.Error(err))
			return err
		}
		return nil
	}
}

// applyConfig 把配置解码到绑定的结构体，结构体里没有的key再尝试设置到flag上
func applyConfig(cmd *cobra.Command, vip *viper.Viper) (missing, broken []string) {
	commandMtx.Lock()
	values := configs[cmd]
	commandMtx.Unlock()

	var (
		missingKeys = map[string]struct{}{}
		brokenKeys  = map[string]struct{}{}
		usedKeys    = map[string]struct{}{}
		settings    = vip.AllSettings()
	)
	for _, config := range values {
		res := structs.Decode(settings, config)
		for key := range res.Used {
			usedKeys[key] = struct{}{}
		}
		for key := range res.Missing {
			missingKeys[key] = struct{}{}
		}
		for key := range res.Broken {
			brokenKeys[key] = struct{}{}
		}
	}

	for key := range missingKeys {
		f := cmd.Flags().Lookup(key)
		if f == nil {
			continue
		}
		val := vip.GetString(key)
		if err := f.Value.Set(val); err != nil {
			brokenKeys[key] = struct{}{}
			continue
		}
		f.Changed = val != f.DefValue
		usedKeys[key] = struct{}{}
	}

	for key := range missingKeys {
		if _, ok := usedKeys[key]; !ok {
			missing = append(missing, key)
		}
	}
	for key := range brokenKeys {
		broken = append(broken, key)
	}
	return missing, broken
}

func cmdVersion(cmd *cobra.Command, args []string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Build)
	return err
}
