package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		h        Handle
		owner    int
		object   int
		page     bool
		subpage  bool
		expectTo string
	}{
		{"page", Page(12), 12, 0, true, false, "12:0"},
		{"subpage", Page(501), 501, 0, false, true, "501:0"},
		{"button", Object(12, 3), 12, 3, false, false, "12:3"},
		{"popup-button", Object(600, 65535), 600, 65535, false, false, "600:65535"},
		{"zero", Handle(0), 0, 0, false, false, "0:0"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.owner, c.h.Owner())
			assert.Equal(t, c.object, c.h.ObjectID())
			assert.Equal(t, c.page, c.h.IsPage())
			assert.Equal(t, c.subpage, c.h.IsSubPage())
			assert.Equal(t, c.expectTo, c.h.String())
		})
	}
}

func TestHandleUniqueOwner(t *testing.T) {
	t.Parallel()
	seen := make(map[Handle]struct{})
	for _, pageID := range []int{1, 2, 499, 500, 501, 9999} {
		p := Page(pageID)
		for b := 1; b <= 200; b++ {
			h := Object(pageID, b)
			_, dup := seen[h]
			assert.False(t, dup, "duplicate handle=%s", h)
			seen[h] = struct{}{}
			assert.Equal(t, pageID, h.Owner())
			assert.True(t, h.IsChildOf(p))
			assert.True(t, SameOwner(h, p))
			assert.False(t, h.IsChildOf(Page(pageID+1)))
		}
		assert.False(t, p.IsChildOf(p))
	}
}
