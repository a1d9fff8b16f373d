//
//  Copyright © EduShield Inc. All rights reserved.
//

// Package common provides small utilities shared across the ICCP packages.
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// PrettyFprint writes an indented JSON representation of data to w.
// Marshal failures are written to w as well rather than returned; the
// callers are CLI paths where the message is the output.
func PrettyFprint(w io.Writer, data interface{}) {
	p, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintf(w, "%s\n", p)
}

// PrettyPrint outputs a readable JSON representation of the provided data
// structure to stdout.
func PrettyPrint(data interface{}) {
	PrettyFprint(os.Stdout, data)
}
