//
//  Copyright © EduShield Inc. All rights reserved.
//

package decide

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/edushield/iccp/cmd/iccp/common"
	"github.com/edushield/iccp/pkg/iccp/core/options"
	"github.com/edushield/iccp/pkg/iccp/identity"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	iccpcommon "github.com/edushield/iccp/pkg/common"
)

// Request is the JSON document accepted on --input.
type Request struct {
	Principal          identity.Principal `json:"principal"`
	RequestedResources []string           `json:"requested_resources"`
}

func getInput(path string) ([]byte, error) {
	var f *os.File
	var err error
	if path == "-" || path == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(path) // #nosec G304 -- CLI tool intentionally reads user-provided paths
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
	}

	return io.ReadAll(f)
}

// Execute runs the decide command: it evaluates a single request from a JSON
// input document and prints the resulting context packet.
//
// The evaluation runs in probe mode, so one-shot CLI decisions never pollute
// the audit trail.
func Execute(ctx context.Context, cmd *cli.Command) error {
	data, err := getInput(cmd.String("input"))
	if err != nil {
		return errors.Wrap(err, "reading input")
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return errors.Wrap(err, "parsing input")
	}

	eng, err := common.NewCliEngine(cmd, options.WithSinks())
	if err != nil {
		return err
	}
	defer eng.Close()

	pkt, _, err := eng.Process(ctx, req.Principal, req.RequestedResources, options.SetProbeMode(true))
	if err != nil {
		return err
	}

	iccpcommon.PrettyPrint(pkt)
	return nil
}
