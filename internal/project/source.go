package project

import (
	"strings"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/internal/handle"
)

// Source is the lookup API over project data. Missing items return
// errors satisfying errors.IsNotFound.
type Source interface {
	Page(name string) (*PageInfo, error)
	PageByID(id int) (*PageInfo, error)
	SubPage(name string) (*SubPageInfo, error)
	SubPageByID(id int) (*SubPageInfo, error)
	Map() (*Map, error)
}

// Memory serves a decoded Project.
type Memory struct {
	mu       sync.RWMutex
	p        Project
	pages    map[string]*PageInfo
	pageIDs  map[int]*PageInfo
	subs     map[string]*SubPageInfo
	subIDs   map[int]*SubPageInfo
	mapError error
}

var _ Source = &Memory{}

func NewMemory(p Project) (*Memory, error) {
	self := &Memory{
		p:       p,
		pages:   make(map[string]*PageInfo, len(p.Pages)),
		pageIDs: make(map[int]*PageInfo, len(p.Pages)),
		subs:    make(map[string]*SubPageInfo, len(p.SubPages)),
		subIDs:  make(map[int]*SubPageInfo, len(p.SubPages)),
	}
	for i := range self.p.Pages {
		pi := &self.p.Pages[i]
		if pi.ID <= 0 || handle.IsSubPageID(pi.ID) {
			return nil, errors.NotValidf("page=%s id=%d (main page ids are 1..%d)", pi.Name, pi.ID, handle.SubPageFirstID-1)
		}
		if err := self.checkDup(pi.Name, pi.ID); err != nil {
			return nil, err
		}
		self.pages[strings.ToLower(pi.Name)] = pi
		self.pageIDs[pi.ID] = pi
		if err := validateButtons(pi.Name, pi.Buttons); err != nil {
			return nil, err
		}
	}
	for i := range self.p.SubPages {
		si := &self.p.SubPages[i]
		if !handle.IsSubPageID(si.ID) || si.ID > handle.MaxID {
			return nil, errors.NotValidf("popup=%s id=%d (popup ids are %d..%d)", si.Name, si.ID, handle.SubPageFirstID, handle.MaxID)
		}
		if err := self.checkDup(si.Name, si.ID); err != nil {
			return nil, err
		}
		self.subs[strings.ToLower(si.Name)] = si
		self.subIDs[si.ID] = si
		if err := validateButtons(si.Name, si.Buttons); err != nil {
			return nil, err
		}
	}
	return self, nil
}

func (self *Memory) checkDup(name string, id int) error {
	key := strings.ToLower(name)
	_, dupName1 := self.pages[key]
	_, dupName2 := self.subs[key]
	_, dupID1 := self.pageIDs[id]
	_, dupID2 := self.subIDs[id]
	if name == "" || dupName1 || dupName2 || dupID1 || dupID2 {
		return errors.NotValidf("duplicate or empty page name=%q id=%d", name, id)
	}
	return nil
}

func validateButtons(owner string, bs []ButtonInfo) error {
	seen := make(map[int]struct{}, len(bs))
	for _, b := range bs {
		if b.Index <= 0 || b.Index > handle.MaxID {
			return errors.NotValidf("page=%s button=%s index=%d", owner, b.Name, b.Index)
		}
		if _, dup := seen[b.Index]; dup {
			return errors.NotValidf("page=%s duplicate button index=%d", owner, b.Index)
		}
		seen[b.Index] = struct{}{}
	}
	return nil
}

// SetMapError makes Map() fail, as if map data could not be loaded.
func (self *Memory) SetMapError(err error) {
	self.mu.Lock()
	self.mapError = err
	self.mu.Unlock()
}

func (self *Memory) Project() *Project { return &self.p }

func (self *Memory) Page(name string) (*PageInfo, error) {
	if p, ok := self.pages[strings.ToLower(name)]; ok {
		return p, nil
	}
	return nil, errors.NotFoundf("page=%s", name)
}

func (self *Memory) PageByID(id int) (*PageInfo, error) {
	if p, ok := self.pageIDs[id]; ok {
		return p, nil
	}
	return nil, errors.NotFoundf("page id=%d", id)
}

func (self *Memory) SubPage(name string) (*SubPageInfo, error) {
	if s, ok := self.subs[strings.ToLower(name)]; ok {
		return s, nil
	}
	return nil, errors.NotFoundf("popup=%s", name)
}

func (self *Memory) SubPageByID(id int) (*SubPageInfo, error) {
	if s, ok := self.subIDs[id]; ok {
		return s, nil
	}
	return nil, errors.NotFoundf("popup id=%d", id)
}

func (self *Memory) Map() (*Map, error) {
	self.mu.RLock()
	defer self.mu.RUnlock()
	if self.mapError != nil {
		return nil, errors.Annotate(self.mapError, "project map")
	}
	return &self.p.Map, nil
}

// SetMap replaces channel map, e.g. with one read from a .xma file.
func (self *Memory) SetMap(m Map) {
	self.mu.Lock()
	self.p.Map = m
	self.mu.Unlock()
}

// CheckMap reports map entries pointing to missing pages or buttons.
func (self *Memory) CheckMap() error {
	m, err := self.Map()
	if err != nil {
		return err
	}
	errs := make([]error, 0)
	check := func(table string, es []MapEntry) {
		for _, e := range es {
			var bs []ButtonInfo
			if handle.IsSubPageID(e.PageID) {
				si, err := self.SubPageByID(e.PageID)
				if err != nil {
					errs = append(errs, errors.Annotatef(err, "map %s port=%d channel=%d", table, e.Port, e.Channel))
					continue
				}
				bs = si.Buttons
			} else {
				pi, err := self.PageByID(e.PageID)
				if err != nil {
					errs = append(errs, errors.Annotatef(err, "map %s port=%d channel=%d", table, e.Port, e.Channel))
					continue
				}
				bs = pi.Buttons
			}
			found := false
			for _, b := range bs {
				if b.Index == e.ButtonID {
					found = true
					break
				}
			}
			if !found {
				errs = append(errs, errors.NotFoundf("map %s port=%d channel=%d page=%d button=%d", table, e.Port, e.Channel, e.PageID, e.ButtonID))
			}
		}
	}
	check("state", m.State)
	check("analog", m.Analog)
	check("level", m.Level)
	check("string", m.Strings)
	return helpers.FoldErrors(errs)
}
