package main

import (
	"fmt"

	dhttp "github.com/fwojciec/distill/http"
	"github.com/gin-gonic/gin"
)

// Run executes the serve command. It blocks until the context is done.
func (c *ServeCmd) Run(deps *Dependencies) error {
	gin.SetMode(gin.ReleaseMode)

	opts := []dhttp.Option{
		dhttp.WithLogger(deps.Logger),
		dhttp.WithResultWriters(deps.Writers...),
		dhttp.WithRateLimit(c.Rate, c.Burst),
	}
	if deps.Records != nil {
		opts = append(opts, dhttp.WithRecordService(deps.Records))
	}
	if deps.Engine != nil {
		opts = append(opts, dhttp.WithEngine(deps.Engine))
	}

	srv := dhttp.NewServer(deps.Pipeline, opts...)
	if err := srv.Open(c.Addr); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", srv.Addr())

	<-deps.Ctx.Done()
	deps.Logger.Info("shutting down")
	return srv.Close()
}
