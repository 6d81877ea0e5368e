package main

import (
	"context"

	"zentra/cmd"

	"github.com/alecthomas/kong"
)

var (
	version = "dev"
	cli     struct {
		Config  string           `help:"Path to the env file." default:".env" type:"path"`
		Version kong.VersionFlag `help:"Print the version and exit."`
		Serve   cmd.ServeCmd     `cmd:"" default:"withargs" help:"Start the HTTP server."`
		Migrate cmd.MigrateCmd   `cmd:"" help:"Apply database migrations and exit."`
	}
)

func main() {
	ctx := context.Background()
	kctx := kong.Parse(&cli,
		kong.Name("zentra"),
		kong.Description("Organization onboarding and login service."),
		kong.Vars{"version": version},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run(&cmd.Globals{Config: cli.Config, Version: version})
	kctx.FatalIfErrorf(err)
}
