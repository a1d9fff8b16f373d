//
//  Copyright © EduShield Inc. All rights reserved.
//

package serve

import (
	"context"
	"os"
	"os/signal"

	"github.com/edushield/iccp/cmd/iccp/common"
	"github.com/edushield/iccp/internal/logging"
	"github.com/edushield/iccp/pkg/decisionpoint/rest"
	"github.com/urfave/cli/v3"
)

var logger = logging.GetLogger("iccp")

const agent string = "serve"

// Execute runs the serve command, starting the REST decision point server.
// It gracefully shuts down on interrupt signals, draining the audit pipeline
// before exit.
func Execute(ctx context.Context, cmd *cli.Command) error {
	port := cmd.Int("port")

	eng, err := common.NewCliEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	server, err := rest.CreateServer(eng, int(port))
	if err != nil {
		return err
	}

	logger.Infof(agent, "serve", "decision point listening on :%d", port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info(agent, "shutdown", "Shutting down server...")

	err = server.Stop(ctx)
	if err != nil {
		return err
	}

	logger.Info(agent, "shutdown", "Server exited gracefully.")
	return nil
}
