package page

import (
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/tpanel/internal/handle"
	"github.com/temoto/tpanel/internal/project"
	"github.com/temoto/tpanel/internal/render"
	"github.com/temoto/tpanel/log2"
)

// Registry caches pages and popups read lazily from project source.
// Not safe for concurrent use, callers serialize through engine dispatch.
type Registry struct {
	log     *log2.Log
	src     project.Source
	surface render.Surface

	pages    map[int]*Page
	subs     map[int]*SubPage
	active   *Page
	previous *Page
}

func NewRegistry(log *log2.Log, src project.Source, surface render.Surface) *Registry {
	if surface == nil {
		surface = render.Noop{}
	}
	return &Registry{
		log:     log,
		src:     src,
		surface: surface,
		pages:   make(map[int]*Page),
		subs:    make(map[int]*SubPage),
	}
}

func (self *Registry) Surface() render.Surface { return self.surface }

// Active main page, nil before first flip.
func (self *Registry) Active() *Page   { return self.active }
func (self *Registry) Previous() *Page { return self.previous }

func (self *Registry) setActive(p *Page) {
	if self.active != p {
		self.previous = self.active
	}
	self.active = p
}

// GetPage is cache lookup only.
func (self *Registry) GetPage(id int) *Page { return self.pages[id] }

func (self *Registry) GetPageByName(name string) *Page {
	for _, p := range self.pages {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// GetSubPage is cache lookup only.
func (self *Registry) GetSubPage(id int) *SubPage { return self.subs[id] }

func (self *Registry) GetSubPageByName(name string) *SubPage {
	for _, sp := range self.subs {
		if strings.EqualFold(sp.Name, name) {
			return sp
		}
	}
	return nil
}

// LoadPage returns cached page or reads it from project.
func (self *Registry) LoadPage(name string) (*Page, error) {
	if p := self.GetPageByName(name); p != nil {
		return p, nil
	}
	info, err := self.src.Page(name)
	if err != nil {
		return nil, errors.Annotate(err, "load page")
	}
	return self.registerPage(info), nil
}

func (self *Registry) LoadPageByID(id int) (*Page, error) {
	if p := self.GetPage(id); p != nil {
		return p, nil
	}
	info, err := self.src.PageByID(id)
	if err != nil {
		return nil, errors.Annotate(err, "load page")
	}
	return self.registerPage(info), nil
}

func (self *Registry) registerPage(info *project.PageInfo) *Page {
	p := newPage(info)
	self.pages[p.ID] = p
	self.log.Debugf("page loaded id=%d name=%s buttons=%d", p.ID, p.Name, len(p.Buttons))
	return p
}

// LoadSubPage returns cached popup or reads it from project, not attached.
func (self *Registry) LoadSubPage(name string) (*SubPage, error) {
	if sp := self.GetSubPageByName(name); sp != nil {
		return sp, nil
	}
	info, err := self.src.SubPage(name)
	if err != nil {
		return nil, errors.Annotate(err, "load popup")
	}
	return self.registerSubPage(info), nil
}

func (self *Registry) LoadSubPageByID(id int) (*SubPage, error) {
	if sp := self.GetSubPage(id); sp != nil {
		return sp, nil
	}
	info, err := self.src.SubPageByID(id)
	if err != nil {
		return nil, errors.Annotate(err, "load popup")
	}
	return self.registerSubPage(info), nil
}

func (self *Registry) registerSubPage(info *project.SubPageInfo) *SubPage {
	sp := newSubPage(info)
	self.subs[sp.ID] = sp
	self.log.Debugf("popup loaded id=%d name=%s group=%s buttons=%d", sp.ID, sp.Name, sp.Group, len(sp.Buttons))
	return sp
}

// DeliverSubPage returns popup attached (possibly invisible) to the active
// page, reading it from project on first use.
func (self *Registry) DeliverSubPage(name string) (*SubPage, error) {
	if self.active == nil {
		return nil, errors.Errorf("deliver popup=%s: no active page", name)
	}
	sp, err := self.LoadSubPage(name)
	if err != nil {
		return nil, err
	}
	if sp.parent != 0 && sp.parent != self.active.ID {
		if old := self.pages[sp.parent]; old != nil {
			old.detach(sp)
		}
	}
	self.active.attach(sp)
	return sp, nil
}

// CollectButtons resolves map entries to live buttons, loading owners as
// needed. First owner load failure aborts; buttons gathered so far are
// returned with the error.
func (self *Registry) CollectButtons(entries []project.MapEntry) ([]*Button, error) {
	result := make([]*Button, 0, len(entries))
	for _, e := range entries {
		var bs []*Button
		if handle.IsSubPageID(e.PageID) {
			sp, err := self.LoadSubPageByID(e.PageID)
			if err != nil {
				err = errors.Annotatef(err, "collect button=%d", e.ButtonID)
				self.log.Error(err)
				return result, err
			}
			bs = sp.Buttons
		} else {
			p, err := self.LoadPageByID(e.PageID)
			if err != nil {
				err = errors.Annotatef(err, "collect button=%d", e.ButtonID)
				self.log.Error(err)
				return result, err
			}
			bs = p.Buttons
		}
		b := findButton(bs, e.ButtonID)
		if b == nil {
			self.log.Warningf("map entry port=%d channel=%d points to missing button %d:%d", e.Port, e.Channel, e.PageID, e.ButtonID)
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

// CoordMatch finds topmost visible popup of active page containing the point.
func (self *Registry) CoordMatch(x, y int) *SubPage {
	if self.active == nil {
		return nil
	}
	for _, sp := range self.active.VisibleSubPages() {
		if sp.Rect.Contains(x, y) {
			return sp
		}
	}
	return nil
}

// CoordMatchPage finds active page button at the point.
func (self *Registry) CoordMatchPage(x, y int) *Button {
	if self.active == nil {
		return nil
	}
	return self.active.ButtonAt(x, y)
}

// OnScreen reports whether owner of h is the active page or a visible popup
// attached to it.
func (self *Registry) OnScreen(h handle.Handle) bool {
	if self.active == nil {
		return false
	}
	id := h.Owner()
	if id == self.active.ID {
		return true
	}
	sp := self.subs[id]
	return sp != nil && sp.Visible() && sp.parent == self.active.ID
}

// Display emits button render intent if the button is on screen.
func (self *Registry) Display(b *Button) {
	if self.OnScreen(b.Handle) {
		self.surface.DisplayButton(b.View())
	}
}

func (self *Registry) displayAll(bs []*Button) {
	for _, b := range bs {
		self.surface.DisplayButton(b.View())
	}
}

// Pages returns loaded pages sorted by id.
func (self *Registry) Pages() []*Page {
	r := make([]*Page, 0, len(self.pages))
	for _, p := range self.pages {
		r = append(r, p)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].ID < r[j].ID })
	return r
}

// SubPages returns loaded popups sorted by id.
func (self *Registry) SubPages() []*SubPage {
	r := make([]*SubPage, 0, len(self.subs))
	for _, sp := range self.subs {
		r = append(r, sp)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].ID < r[j].ID })
	return r
}

// discard removes popup from every page and the cache.
func (self *Registry) discard(sp *SubPage) {
	for _, p := range self.pages {
		p.detach(sp)
	}
	delete(self.subs, sp.ID)
}

// Reset drops everything. Next lookup reads project again.
func (self *Registry) Reset() {
	for _, sp := range self.SubPages() {
		self.surface.DropSubPage(sp.Handle, handle.Page(sp.parent))
	}
	for _, p := range self.Pages() {
		self.surface.DropPage(p.Handle)
	}
	self.pages = make(map[int]*Page)
	self.subs = make(map[int]*SubPage)
	self.active, self.previous = nil, nil
}
