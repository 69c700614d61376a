package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pawelgaczynski/uringcat"
	"github.com/pawelgaczynski/uringcat/logger"
	"github.com/urfave/cli/v2"
)

const usage = "Usage: uringcat [file1] [file2] [file3]..."

type cmdConfig struct {
	strict       bool
	pipelined    bool
	openWorkers  int
	prettyLogger bool
	loggerLevel  string
}

func flags(config *cmdConfig) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "strict",
			Value:       false,
			Usage:       "write only the bytes the kernel reported as read instead of the full zero padded chunks",
			Destination: &config.strict,
		},
		&cli.BoolFlag{
			Name:        "pipelined",
			Value:       false,
			Usage:       "submit as many reads as the ring holds before waiting for completions",
			Destination: &config.pipelined,
		},
		&cli.IntFlag{
			Name:        "openWorkers",
			Value:       1,
			Usage:       "number of goroutines opening input files",
			Destination: &config.openWorkers,
		},
		&cli.BoolFlag{
			Name:        "prettyLogger",
			Value:       false,
			Usage:       "print prettier logs",
			Destination: &config.prettyLogger,
		},
		&cli.StringFlag{
			Name:        "loggerLevel",
			Value:       "error",
			Usage:       "logger level",
			Destination: &config.loggerLevel,
			Action: func(ctx *cli.Context, v string) error {
				_, err := logger.ParseLevel(v)

				return err
			},
		},
	}
}

func (c *cmdConfig) options() []uringcat.ConfigOption {
	level, _ := logger.ParseLevel(c.loggerLevel)

	opts := []uringcat.ConfigOption{
		uringcat.WithOpenWorkers(c.openWorkers),
		uringcat.WithLoggerLevel(level),
		uringcat.WithPrettyLogger(c.prettyLogger),
	}
	if c.strict {
		opts = append(opts, uringcat.WithOutputMode(uringcat.Strict))
	}
	if c.pipelined {
		opts = append(opts, uringcat.WithSubmission(uringcat.Pipelined))
	}

	return opts
}

func newApp(stdout, stderr io.Writer) *cli.App {
	config := &cmdConfig{}

	return &cli.App{
		Name:      "uringcat",
		Usage:     "print files using io_uring vectored reads",
		ArgsUsage: "[file1] [file2] [file3]...",
		Flags:     flags(config),
		Writer:    stdout,
		ErrWriter: stderr,
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() < 1 {
				fmt.Fprintln(ctx.App.ErrWriter, usage)

				return nil
			}

			out := bufio.NewWriter(ctx.App.Writer)
			err := uringcat.Cat(ctx.Args().Slice(), out, config.options()...)
			if flushErr := out.Flush(); err == nil {
				err = flushErr
			}

			return err
		},
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	return newApp(stdout, stderr).Run(args)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("uringcat: ")

	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}
