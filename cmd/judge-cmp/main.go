package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/urfave/cli"

	judge "github.com/crazyfrankie/judge-cmp"
	"github.com/crazyfrankie/judge-cmp/constant"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run 执行命令行并返回进程退出码：AC=0 WA=1 PE=2，致命错误为 101
func run(args []string, stdout, stderr io.Writer) int {
	code := 0
	app := newApp(&code, stdout, stderr)
	if err := app.Run(args); err != nil {
		fmt.Fprintln(stderr, err)
		return constant.ExitFatal
	}
	return code
}

func newApp(code *int, stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "judge-cmp"
	app.Usage = "compare std output and user output"
	app.HideVersion = true
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Action = func(c *cli.Context) error {
		_ = cli.ShowAppHelp(c)
		return errors.New("compare mode must be specified")
	}
	app.Commands = []cli.Command{
		{
			Name:   "normal",
			Usage:  "Normal compare, tolerates line endings, trailing spaces and blank lines",
			Flags:  commonFlags(),
			Action: compareAction(judge.ModeNormal, code, stdout, stderr),
		},
		{
			Name:    "strict",
			Aliases: []string{"exact"},
			Usage:   "Strict compare, bytes must be identical",
			Flags:   commonFlags(),
			Action:  compareAction(judge.ModeStrict, code, stdout, stderr),
		},
		{
			Name:    "float",
			Aliases: []string{"numeric"},
			Usage:   "Float compare, tokens are parsed as float64 and compared within eps",
			Flags: append(commonFlags(), cli.Float64Flag{
				Name:  "eps, e",
				Usage: "Eps for float comparing",
				Value: judge.DefaultEpsilon,
			}),
			Action: compareAction(judge.ModeFloat, code, stdout, stderr),
		},
	}
	return app
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "std, s",
			Usage: "Std file path",
		},
		cli.IntFlag{
			Name:  "std-fd",
			Usage: "Std file descriptor",
			Value: -1,
		},
		cli.StringFlag{
			Name:  "user, u",
			Usage: "User file path",
		},
		cli.IntFlag{
			Name:  "user-fd",
			Usage: "User file descriptor",
			Value: -1,
		},
		cli.BoolFlag{
			Name:  "read-all, a",
			Usage: "Reads all bytes of user file even if it's already WA",
		},
		cli.IntFlag{
			Name:  "buffer-size, b",
			Usage: "Buffer size (in bytes) for both std and user file",
			Value: judge.DefaultBufferSize,
		},
		cli.BoolFlag{
			Name:  "quiet, q",
			Usage: "No output printed to stdout or stderr",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "Wall clock limit for the comparison, 0 means no limit",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "JSON config file, flags override its values",
		},
		cli.DurationFlag{
			Name:  "cpu-limit",
			Usage: "RLIMIT_CPU for the checker process",
		},
		cli.Int64Flag{
			Name:  "memory-limit",
			Usage: "RLIMIT_AS (in bytes) for the checker process",
		},
		cli.StringSliceFlag{
			Name:  "deny-syscall",
			Usage: "Syscall answered with EPERM by a seccomp filter, repeatable",
		},
		cli.IntFlag{
			Name:  "log-verbosity",
			Usage: "Log verbosity, 1 enables debug logs",
		},
	}
}

func compareAction(mode judge.Mode, code *int, stdout, stderr io.Writer) func(c *cli.Context) error {
	return func(c *cli.Context) error {
		quiet := c.Bool("quiet")
		fatal := func(err error) error {
			*code = constant.ExitFatal
			if !quiet {
				fmt.Fprintf(stderr, "Fatal error: %v\n", err)
			}
			return nil
		}

		logOut := stderr
		if quiet {
			logOut = io.Discard
		}
		logger := newLogger(c.Int("log-verbosity"), logOut)
		ctx := logr.NewContext(context.Background(), logger)

		config, err := buildConfig(c, mode)
		if err != nil {
			return fatal(err)
		}
		if err := config.Validate(); err != nil {
			return fatal(err)
		}
		if err := harden(config); err != nil {
			return fatal(err)
		}

		result, err := judge.NewJudge(config).Check(ctx)
		if err != nil {
			logFailure(logger, err)
			return fatal(err)
		}

		if !quiet {
			fmt.Fprintln(stdout, result.Verdict)
		}
		*code = result.Verdict.ExitCode()
		return nil
	}
}

// buildConfig 先读取配置文件，再用显式给出的命令行参数覆盖
func buildConfig(c *cli.Context, mode judge.Mode) (*judge.Config, error) {
	config := judge.NewConfig()
	if path := c.String("config"); path != "" {
		loaded, err := judge.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	config.Mode = mode

	if c.IsSet("std") {
		config.Files.Std = c.String("std")
	}
	if c.IsSet("std-fd") {
		config.Files.StdFD = c.Int("std-fd")
	}
	if c.IsSet("user") {
		config.Files.User = c.String("user")
	}
	if c.IsSet("user-fd") {
		config.Files.UserFD = c.Int("user-fd")
	}
	if c.IsSet("read-all") {
		config.ReadAll = c.Bool("read-all")
	}
	if c.IsSet("buffer-size") {
		config.Buffer.Size = c.Int("buffer-size")
	}
	if c.IsSet("timeout") {
		config.Timeout = c.Duration("timeout")
	}
	if c.IsSet("eps") {
		config.Epsilon = c.Float64("eps")
	}
	if c.IsSet("cpu-limit") {
		config.Limits.CPU = c.Duration("cpu-limit")
	}
	if c.IsSet("memory-limit") {
		config.Limits.Memory = c.Int64("memory-limit")
	}
	if c.IsSet("deny-syscall") {
		config.Security.Syscalls = c.StringSlice("deny-syscall")
	}
	return config, nil
}

func harden(config *judge.Config) error {
	limit := &judge.Limit{CPU: config.Limits.CPU, Memory: config.Limits.Memory}
	if limit.CPU == 0 && limit.Memory == 0 {
		limit = nil
	}
	return judge.Harden(limit, config.Security.Syscalls)
}

func logFailure(logger logr.Logger, err error) {
	var (
		sysErr     *constant.SystemErr
		timeoutErr *constant.TimeoutErr
	)
	switch {
	case errors.As(err, &sysErr):
		logger.Error(err, "I/O failure while comparing")
	case errors.As(err, &timeoutErr):
		logger.Error(err, "Comparison timed out")
	default:
		logger.Error(err, "Comparison failed")
	}
}
