// Package project holds read-only panel descriptors: pages, popups, buttons
// and the channel map. Descriptors are produced by a Source.
package project

type Rect struct {
	Left, Top, Width, Height int
}

// Contains uses inclusive bounds on all sides.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x <= r.Left+r.Width && y >= r.Top && y <= r.Top+r.Height
}

// Button types. Empty type means general.
const (
	ButtonGeneral            = "general"
	ButtonMultistate         = "multistate"
	ButtonBargraph           = "bargraph"
	ButtonMultistateBargraph = "multistate-bargraph"
	ButtonTextInput          = "text-input"
)

// StateInfo is the look of one button instance (state).
type StateInfo struct {
	FillColor   string `hcl:"fill_color"`
	TextColor   string `hcl:"text_color"`
	BorderColor string `hcl:"border_color"`
	BorderName  string `hcl:"border"`
	Text        string `hcl:"text"`
	Bitmap      string `hcl:"bitmap"`
	Icon        int    `hcl:"icon"`
	Font        int    `hcl:"font"`
	Opacity     int    `hcl:"opacity"`

	// justification codes 0..9 as in ^JST
	TextJustify     int    `hcl:"text_justify"`
	BitmapJustify   int    `hcl:"bitmap_justify"`
	IconJustify     int    `hcl:"icon_justify"`
	TextEffect      string `hcl:"text_effect"`
	TextEffectColor string `hcl:"text_effect_color"`
}

type ButtonInfo struct {
	Name  string `hcl:"name,key"`
	Index int    `hcl:"index"`
	Type  string `hcl:"type"`

	Left   int `hcl:"left"`
	Top    int `hcl:"top"`
	Width  int `hcl:"width"`
	Height int `hcl:"height"`
	ZOrder int `hcl:"z_order"`

	// Address (port, channel) used by text/appearance commands.
	AddrPort    int `hcl:"addr_port"`
	AddrChannel int `hcl:"addr_channel"`
	// Channel (port, channel) for press/release and state feedback.
	ChannelPort int `hcl:"channel_port"`
	Channel     int `hcl:"channel"`
	// Level (port, channel) for bargraphs.
	LevelPort    int `hcl:"level_port"`
	LevelChannel int `hcl:"level_channel"`
	RangeLow     int `hcl:"range_low"`
	RangeHigh    int `hcl:"range_high"`

	PageFlip    string      `hcl:"page_flip"`
	Hidden      bool        `hcl:"hidden"`
	Disabled    bool        `hcl:"disabled"`
	Passthrough bool        `hcl:"passthrough"`
	States      []StateInfo `hcl:"state"`
}

func (b *ButtonInfo) Rect() Rect { return Rect{b.Left, b.Top, b.Width, b.Height} }

type PageInfo struct {
	Name       string       `hcl:"name,key"`
	ID         int          `hcl:"id"`
	Width      int          `hcl:"width"`
	Height     int          `hcl:"height"`
	FillColor  string       `hcl:"fill_color"`
	Background string       `hcl:"background"`
	Buttons    []ButtonInfo `hcl:"button"`
}

type SubPageInfo struct {
	Name   string `hcl:"name,key"`
	ID     int    `hcl:"id"`
	Group  string `hcl:"group"`
	Left   int    `hcl:"left"`
	Top    int    `hcl:"top"`
	Width  int    `hcl:"width"`
	Height int    `hcl:"height"`

	// Effect names as in @PSE/@PHE, times in 1/10 s.
	ShowEffect string `hcl:"show_effect"`
	ShowTime   int    `hcl:"show_time"`
	HideEffect string `hcl:"hide_effect"`
	HideTime   int    `hcl:"hide_time"`
	Offset     int    `hcl:"offset"`
	// 1/10 s, 0 disables
	Timeout     int  `hcl:"timeout"`
	Modal       bool `hcl:"modal"`
	Collapsible bool `hcl:"collapsible"`

	FillColor  string       `hcl:"fill_color"`
	Background string       `hcl:"background"`
	Buttons    []ButtonInfo `hcl:"button"`
}

func (s *SubPageInfo) Rect() Rect { return Rect{s.Left, s.Top, s.Width, s.Height} }

// MapEntry binds (port, channel) to a button on a page.
type MapEntry struct {
	Port         int    `hcl:"port"`
	Channel      int    `hcl:"channel"`
	AddressExtra int    `hcl:"extra"`
	PageID       int    `hcl:"page"`
	ButtonID     int    `hcl:"button"`
	PageName     string `hcl:"page_name"`
	ButtonName   string `hcl:"button_name"`
}

type Map struct {
	State   []MapEntry `hcl:"state"`
	Analog  []MapEntry `hcl:"analog"`
	Level   []MapEntry `hcl:"level"`
	Strings []MapEntry `hcl:"string"`
	Sounds  []string   `hcl:"sounds"`
}

type Project struct {
	Name     string        `hcl:"name"`
	Model    string        `hcl:"model"`
	Pages    []PageInfo    `hcl:"page"`
	SubPages []SubPageInfo `hcl:"popup"`
	Map      Map           `hcl:"map"`
}
