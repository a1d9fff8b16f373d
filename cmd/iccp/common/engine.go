//
//  Copyright © EduShield Inc. All rights reserved.
//

// Package common holds CLI helpers shared by the iccp subcommands.
package common

import (
	"github.com/edushield/iccp/pkg/iccp/catalog"
	"github.com/edushield/iccp/pkg/iccp/core"
	"github.com/edushield/iccp/pkg/iccp/core/options"
	"github.com/urfave/cli/v3"
)

// NewCliEngine creates a context engine configured from CLI command flags.
//
// The --catalog flag takes precedence over the catalog.path config key; when
// neither is set, the built-in university catalog is used.
func NewCliEngine(cmd *cli.Command, engineOptions ...options.EngineOptionsFunc) (core.Engine, error) {
	if path := cmd.String("catalog"); path != "" {
		cat, err := catalog.Load(path)
		if err != nil {
			return nil, err
		}
		engineOptions = append(engineOptions, options.WithCatalog(cat))
	}

	return core.NewEngine(engineOptions...)
}
