package main

import (
	"context"

	"github.com/mlandesman/SAMS-sub005/internal/app/runtime"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := runtime.NewWorker(ctx)
	if err != nil {
		logger.CtxError(ctx, "failed to initialize worker", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		logger.CtxError(ctx, "worker stopped with error", err)
		return
	}
}
