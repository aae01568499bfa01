package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/fakecheck/cmd"
	"github.com/lepinkainen/fakecheck/config"
	"github.com/lepinkainen/fakecheck/types"
)

var Version = "dev"

// CLI is the command tree. The embedded options are global flags, and kong
// calls their Validate method once flags, config files and env vars are applied.
type CLI struct {
	config.Options

	Analyze   cmd.AnalyzeCmd   `cmd:"" help:"Upload one video and print the verdict"`
	Tui       cmd.TUICmd       `cmd:"" default:"withargs" help:"Interactive upload session (default)"`
	ServeMock cmd.ServeMockCmd `cmd:"" name:"serve-mock" help:"Serve a mock prediction endpoint for local development"`

	Version kong.VersionFlag `help:"Print version and exit"`
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("fakecheck"),
		kong.Description("Check whether a video is a deepfake using a remote prediction endpoint."),
		kong.UsageOnError(),
		kong.Configuration(config.YAML, config.DefaultPaths...),
		kong.Vars{"version": Version},
	)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = ctx.Run(&types.AppContext{Version: Version, Options: &cli.Options})
	ctx.FatalIfErrorf(err)
}
