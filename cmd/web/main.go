//go:build js && wasm

// Command web is the browser side of the waitlist pages, built with
// GOOS=js GOARCH=wasm and served as static/waitlist.wasm.
package main

import (
	"context"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/DoyleJ11/waitlist/internal/client"
	"github.com/DoyleJ11/waitlist/internal/logging"
	"github.com/DoyleJ11/waitlist/internal/page"
)

func main() {
	log, err := logging.New(true)
	if err != nil {
		log = zap.NewNop()
	}

	api := client.New(js.Global().Get("location").Get("origin").String())
	doc := page.NewDocument()

	release := page.Bind(context.Background(), doc,
		page.NewSignupSubmitter(api, doc, log.Named("signup")),
		page.NewRankingLoader(api, doc, log.Named("ranking")),
	)
	defer release()

	log.Debug("waitlist page bound")
	select {}
}
