// Package addr resolves controller (port, channel) addresses to buttons
// through the project channel map.
package addr

import (
	"github.com/juju/errors"
	"github.com/temoto/tpanel/internal/project"
	"github.com/temoto/tpanel/log2"
)

type Category uint8

const (
	// discrete on/off feedback
	CategoryState Category = iota
	// text and appearance commands
	CategoryAnalog
	// bargraph level
	CategoryLevel
	CategoryString
)

func (c Category) String() string {
	switch c {
	case CategoryState:
		return "state"
	case CategoryAnalog:
		return "analog"
	case CategoryLevel:
		return "level"
	case CategoryString:
		return "string"
	}
	return "invalid"
}

type MapLoader interface {
	Map() (*project.Map, error)
}

// Resolver loads the map lazily on first use. A load error is remembered
// and returned by every lookup until Reload.
type Resolver struct {
	log    *log2.Log
	loader MapLoader
	m      *project.Map
	err    error
}

func NewResolver(log *log2.Log, loader MapLoader) *Resolver {
	return &Resolver{log: log, loader: loader}
}

func (self *Resolver) load() (*project.Map, error) {
	if self.m == nil && self.err == nil {
		self.m, self.err = self.loader.Map()
		if self.err != nil {
			self.err = errors.Annotate(self.err, "address map")
			self.log.Error(self.err)
		}
	}
	return self.m, self.err
}

// Reload drops cached map and error.
func (self *Resolver) Reload() {
	self.m, self.err = nil, nil
}

func (self *Resolver) table(m *project.Map, cat Category) []project.MapEntry {
	switch cat {
	case CategoryState:
		return m.State
	case CategoryAnalog:
		return m.Analog
	case CategoryLevel:
		return m.Level
	case CategoryString:
		return m.Strings
	}
	return nil
}

// FindButtons returns entries matching port and any of channels, ordered by
// channels then map order. Empty result is not an error.
func (self *Resolver) FindButtons(port int, channels []int, cat Category) ([]project.MapEntry, error) {
	m, err := self.load()
	if err != nil {
		return nil, err
	}
	entries := self.table(m, cat)
	if len(channels) == 0 || len(entries) == 0 {
		return nil, nil
	}
	var result []project.MapEntry
	for _, ch := range channels {
		for _, e := range entries {
			if e.Port == port && e.Channel == ch {
				result = append(result, e)
			}
		}
	}
	if len(result) == 0 {
		self.log.Debugf("addr no %s buttons port=%d channels=%v", cat.String(), port, channels)
	}
	return result, nil
}

func (self *Resolver) FindBargraphs(port int, channels []int) ([]project.MapEntry, error) {
	return self.FindButtons(port, channels, CategoryLevel)
}

// FindButtonByName scans state map by button name, ignoring address.
func (self *Resolver) FindButtonByName(name string) ([]project.MapEntry, error) {
	m, err := self.load()
	if err != nil {
		return nil, err
	}
	var result []project.MapEntry
	for _, e := range m.State {
		if e.ButtonName == name {
			result = append(result, e)
		}
	}
	return result, nil
}

func (self *Resolver) Sounds() ([]string, error) {
	m, err := self.load()
	if err != nil {
		return nil, err
	}
	return m.Sounds, nil
}

func (self *Resolver) SoundExists(name string) bool {
	sounds, _ := self.Sounds()
	for _, s := range sounds {
		if s == name {
			return true
		}
	}
	return false
}
