package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/usecase"
	"github.com/urfave/cli/v3"
)

var (
	colorLabel = color.New(color.FgCyan)
	colorError = color.New(color.FgRed, color.Bold)
)

func cmdParse() *cli.Command {
	var (
		opts     model.WikiOptions
		platform string
	)

	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse a repository identifier and print the wiki navigation URL",
		ArgsUsage: "<owner/repo | URL | local path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "platform",
				Usage:       "Platform of owner/repo shorthand (github, gitlab, bitbucket)",
				Value:       "github",
				Destination: &platform,
			},
			&cli.StringFlag{
				Name:        "provider",
				Usage:       "Model provider",
				Value:       "google",
				Destination: &opts.Provider,
			},
			&cli.StringFlag{
				Name:        "model",
				Usage:       "Model ID",
				Value:       "gemini-2.0-flash",
				Destination: &opts.Model,
			},
			&cli.StringFlag{
				Name:        "language",
				Usage:       "Wiki language",
				Value:       "en",
				Destination: &opts.Language,
			},
			&cli.BoolFlag{
				Name:        "comprehensive",
				Usage:       "Generate comprehensive wiki",
				Value:       true,
				Destination: &opts.Comprehensive,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("exactly one repository identifier is required")
			}
			opts.Platform = model.Platform(platform)
			return printResolved(ctx, os.Stdout, c.Args().First(), &opts)
		},
	}
}

func printResolved(ctx context.Context, w io.Writer, input string, opts *model.WikiOptions) error {
	result, err := usecase.NewRepository(nil).Resolve(ctx, input, opts)
	if err != nil {
		colorError.Fprintln(w, "invalid repository format:", input)
		return err
	}

	ref := result.Reference
	printField(w, "owner", ref.Owner)
	printField(w, "repo", ref.Repo)
	printField(w, "type", string(ref.Type))
	if ref.FullPath != "" {
		printField(w, "full_path", ref.FullPath)
	}
	if ref.LocalPath != "" {
		printField(w, "local_path", ref.LocalPath)
	}
	if p := ref.Platform(); p != "" {
		printField(w, "platform", string(p))
	}
	printField(w, "url", result.URL)
	return nil
}

func printField(w io.Writer, label, value string) {
	colorLabel.Fprintf(w, "%-10s ", label+":")
	fmt.Fprintln(w, value)
}
