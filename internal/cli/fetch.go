package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ytget/image-saver/internal/cli/config"
	"github.com/ytget/image-saver/internal/fetch"
	"github.com/ytget/image-saver/internal/gallery"
	"github.com/ytget/image-saver/internal/model"
)

var errFetchFailed = goerr.New("some images could not be saved")

func cmdFetch() *cli.Command {
	var storageCfg config.Storage

	return &cli.Command{
		Name:      "fetch",
		Aliases:   []string{"f"},
		Usage:     "Download images and save them to storage",
		ArgsUsage: "URL [URL...]",
		Flags:     storageCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			urls := c.Args().Slice()
			if len(urls) == 0 {
				return goerr.Wrap(gallery.ErrEmptyURL, "no URL given")
			}

			st, err := storageCfg.Build(logger)
			if err != nil {
				return err
			}

			svc := gallery.NewService(fetch.NewService(), st, gallery.WithLogger(logger))
			return runFetch(svc, urls, c.Root().Writer, logger)
		},
	}
}

// runFetch submits every URL, waits for all of them and prints one line per
// task. URLs are checked up front so nothing starts when one of them is blank.
func runFetch(svc gallery.Gallery, urls []string, w io.Writer, logger *slog.Logger) error {
	for i, u := range urls {
		if strings.TrimSpace(u) == "" {
			return goerr.Wrap(gallery.ErrEmptyURL, "blank URL argument", goerr.V("position", i+1))
		}
	}

	var submitErr error
	for _, u := range urls {
		if _, err := svc.Submit(u); err != nil {
			submitErr = goerr.Wrap(err, "failed to submit", goerr.V("url", u))
			break
		}
	}
	svc.Wait()
	if submitErr != nil {
		return submitErr
	}

	failed := 0
	for _, task := range svc.GetAllTasks() {
		if task.Status != model.TaskStatusCompleted || task.Record == nil {
			failed++
			logger.Warn("image not saved", "title", task.GetDisplayTitle(), "url", task.URL, "error", task.LastError)
			fmt.Fprintf(w, "failed\t%s\n", task.URL)
			continue
		}
		logger.Info("image saved", "title", task.GetDisplayTitle(), "duration", task.Duration())
		fmt.Fprintf(w, "saved\t%s\t%s\n", task.URL, describe(task.Record))
	}

	if failed > 0 {
		return goerr.Wrap(errFetchFailed, "fetch finished with errors", goerr.V("failed", failed), goerr.V("total", len(urls)))
	}
	return nil
}

// describe renders "path (1.2 MB, 800x600)"
func describe(rec *model.ImageRecord) string {
	where := rec.Path
	if where == "" {
		where = rec.ID
	}
	if rec.Size > 0 {
		return fmt.Sprintf("%s (%s, %dx%d)", where, humanize.Bytes(uint64(rec.Size)), rec.Width, rec.Height)
	}
	return fmt.Sprintf("%s (%dx%d)", where, rec.Width, rec.Height)
}
