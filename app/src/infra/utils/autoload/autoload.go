package autoload

import (
	"context"
	"os"

	"latency-dashboard/app/src/infra"
	"latency-dashboard/app/src/infra/utils/dotenv"
)

var logger = infra.NewLogger(os.Stdout, "autoload")

func init() {
	if err := dotenv.Load(); err != nil {
		logger.Printf(context.Background(), "dotenv autoload: %v", err)
	}
}
