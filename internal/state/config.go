package state

import (
	"path/filepath"
	"sync"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/internal/tele"
	"github.com/temoto/tpanel/log2"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Panel struct {
		Device          int      `hcl:"device"`
		SystemPort      int      `hcl:"system_port"`
		Version         string   `hcl:"version"`
		Model           string   `hcl:"model"`
		StartPage       string   `hcl:"start_page"`
		OnStart         []string `hcl:"on_start"`
		Charset         string   `hcl:"charset"`
		BeepSound       string   `hcl:"beep_sound"`
		DoubleBeepSound string   `hcl:"double_beep_sound"`
		LogDebug        bool     `hcl:"log_debug"`
		Profile         struct {
			Regexp    string `hcl:"regexp"`
			MinUs     int    `hcl:"min_us"`
			LogFormat string `hcl:"log_format"`
		} `hcl:"profile"`
	} `hcl:"panel"`

	Project struct {
		Path    string `hcl:"path"`
		MapPath string `hcl:"map_path"`
	} `hcl:"project"`

	Input struct {
		Enabled     bool   `hcl:"enabled"`
		TouchDevice string `hcl:"touch_device"`
	} `hcl:"input"`

	HTTP struct {
		Listen string `hcl:"listen"`
	} `hcl:"http"`

	Persist struct {
		Root    string `hcl:"root"`
		Enabled bool   `hcl:"enabled"`
	} `hcl:"persist"`

	Tele tele.Config `hcl:"tele"`

	_copy_guard sync.Mutex //nolint:unused
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		if dir != "" {
			osfs.SetBase(dir)
		}
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
