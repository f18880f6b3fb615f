// Package main starts the postsapi stand-in post store.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	postsapicmd "github.com/louisbranch/postdesk/internal/cmd/postsapi"
	entrypoint "github.com/louisbranch/postdesk/internal/platform/cmd"
)

func main() {
	cfg, err := postsapicmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServicePostsAPI))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postsapicmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
