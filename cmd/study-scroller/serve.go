// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/study-scroller/internal/app"
	"github.com/pdiddy/study-scroller/internal/browser"
	"github.com/pdiddy/study-scroller/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the study-scroller web page",
	Long: `Serve runs the web page: the onboarding screens, the card feed, and the
library, plus a JSON API under /api. It stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("open", false, "open the page in the system browser")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	comps, err := buildComponents()
	if err != nil {
		return err
	}
	defer comps.Close()

	pageURL := localURL(comps.cfg.Server.Addr)
	ctrl := comps.controller(app.Deps{
		Sharer:  web.PageSharer{},
		PageURL: pageURL,
	})

	srv, err := web.New(ctrl, comps.cfg.Server, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if open, _ := cmd.Flags().GetBool("open"); open {
		if err := browser.Open(pageURL); err != nil {
			logger.Warn("could not open browser", "url", pageURL, "err", err)
		}
	}
	return srv.Run(ctx)
}

// localURL turns a listen address into a URL a local browser can reach.
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}
