// Command waitlistctl drives a running waitlist server from the terminal.
//
//	waitlistctl [-addr URL] signup -name N -email E -phone P [-referral CODE]
//	waitlistctl [-addr URL] rank
//	waitlistctl [-addr URL] top
//	waitlistctl [-addr URL] watch
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/waitlist/internal/client"
	"github.com/DoyleJ11/waitlist/internal/logging"
	"github.com/DoyleJ11/waitlist/internal/page"
	"github.com/DoyleJ11/waitlist/internal/terminal"
	"github.com/DoyleJ11/waitlist/pkg/types"
)

var errUsage = errors.New("usage: waitlistctl [-addr URL] signup|rank|top|watch [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("waitlistctl", flag.ContinueOnError)
	addr := fs.String("addr", "http://localhost:8080", "waitlist server base URL")
	verbose := fs.Bool("v", false, "log requests to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	log := zap.NewNop()
	if *verbose {
		l, err := logging.New(true)
		if err != nil {
			return err
		}
		log = l
	}

	api := client.New(*addr)
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	switch cmd {
	case "signup":
		return signup(ctx, api, rest, out, log)
	case "rank":
		return rank(ctx, api, out, log)
	case "top":
		return top(ctx, api, out)
	case "watch":
		return watch(ctx, *addr, out)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func signup(ctx context.Context, api *client.Client, args []string, out io.Writer, log *zap.Logger) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "10 digit phone number")
	referral := fs.String("referral", "", "referral code of the person who invited you")
	if err := fs.Parse(args); err != nil {
		return err
	}

	view := terminal.NewView(out, map[string]string{
		page.IDName:         *name,
		page.IDEmail:        *email,
		page.IDPhone:        *phone,
		page.IDReferralCode: *referral,
	})
	if outcome := page.NewSignupSubmitter(api, view, log).Submit(ctx); outcome != page.OutcomeJoined {
		return fmt.Errorf("signup %s", outcome)
	}
	return nil
}

func rank(ctx context.Context, api *client.Client, out io.Writer, log *zap.Logger) error {
	view := terminal.NewView(out, nil)
	loadErr := page.NewRankingLoader(api, view, log).Load(ctx)
	if err := view.Flush(); err != nil {
		return err
	}
	return loadErr
}

func top(ctx context.Context, api *client.Client, out io.Writer) error {
	entries, err := api.Top(ctx)
	if err != nil {
		return err
	}
	return terminal.RenderTop(out, entries)
}

// watch prints the ranking table every time the server publishes a new one.
func watch(ctx context.Context, addr string, out io.Writer) error {
	url := "ws" + strings.TrimPrefix(strings.TrimSuffix(addr, "/"), "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	view := terminal.NewView(out, nil)
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var msg types.FeedMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("decode feed message: %w", err)
		}
		switch msg.Type {
		case types.FeedRankingSnapshot:
			fmt.Fprintf(out, "\nversion %d\n", msg.Version)
			page.RenderRankings(view, msg.Rankings)
		case types.FeedError:
			view.SetNotice(msg.Error, true)
		default:
			continue
		}
		if err := view.Flush(); err != nil {
			return err
		}
	}
}
