//
//  Copyright © EduShield Inc. All rights reserved.
//

package decide

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const sampleRequest = `{
	"principal": {"user_id": "t1", "role": "Teacher"},
	"requested_resources": ["grades", "financial_info:owner=t1"]
}`

func TestGetInputFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleRequest), 0o600))

	data, err := getInput(path)
	require.NoError(t, err)

	var req Request
	require.NoError(t, json.Unmarshal(data, &req))
	assert.Equal(t, "t1", req.Principal.UserID)
	assert.Len(t, req.RequestedResources, 2)
}

func TestGetInputMissingFile(t *testing.T) {
	_, err := getInput(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestExecute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleRequest), 0o600))

	cmd := &cli.Command{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}},
			&cli.StringFlag{Name: "catalog", Aliases: []string{"c"}},
		},
		Action: Execute,
	}

	err := cmd.Run(context.Background(), []string{"decide", "--input", path})
	assert.NoError(t, err)
}

func TestExecuteRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	cmd := &cli.Command{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}},
			&cli.StringFlag{Name: "catalog", Aliases: []string{"c"}},
		},
		Action: Execute,
	}

	err := cmd.Run(context.Background(), []string{"decide", "--input", path})
	assert.Error(t, err)
}
