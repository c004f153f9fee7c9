package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ytget/image-saver/internal/cli/config"
	"github.com/ytget/image-saver/internal/store"
)

func cmdList() *cli.Command {
	var storageCfg config.Storage

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List saved images, newest first",
		Flags:   storageCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			st, err := storageCfg.Build(ctxlog.From(ctx))
			if err != nil {
				return err
			}
			return runList(ctx, st, c.Root().Writer)
		},
	}
}

// runList prints every stored image, newest first
func runList(ctx context.Context, st store.Store, w io.Writer) error {
	records, err := st.LoadAll(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to load saved images")
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "no saved images")
		return nil
	}

	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		source := rec.SourceURL
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", humanize.Time(rec.SavedAt), describe(rec), source)
	}
	return nil
}
