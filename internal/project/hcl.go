package project

import (
	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
)

// Decode parses HCL project descriptor:
//
//	page "Main" { id = 1  width = 1024  height = 600
//	  button "ok" { index = 1  left = 10 ... state { fill_color = "#ff0000" } }
//	}
//	popup "Dialog" { id = 500  group = "dialogs"  show_effect = "fade"  show_time = 5 }
//	map { state { port = 1  channel = 10  page = 1  button = 1 } }
func Decode(b []byte) (*Memory, error) {
	var p Project
	if err := hcl.Unmarshal(b, &p); err != nil {
		return nil, errors.Annotate(err, "project decode")
	}
	m, err := NewMemory(p)
	return m, errors.Annotate(err, "project")
}
