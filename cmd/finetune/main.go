package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/lunsanna/wav2vec2-finetune/controller"
	log "github.com/lunsanna/wav2vec2-finetune/logger"
)

func main() {
	var fold = flag.Int(`fold`, -1, `Override the held-out fold in the request (0-3)`)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-fold N] <request.yaml>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	yamlContent, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, `Error reading request file:`, err)
		os.Exit(1)
	}
	ctx := context.Background()
	ctrl := controller.NewController(ctx, yamlContent)
	if *fold >= 0 {
		ctrl.OverrideFold(*fold)
	}
	if status := ctrl.Process(); status != nil {
		_ = log.Error(ctx, status.Status, status.Err, status.Message)
		os.Exit(1)
	}
}
