// Package handle packs page and object ids into one 32-bit value.
// High 16 bits: owning page or subpage id. Low 16 bits: object id, 0 is the
// page itself. Parent/child relations are derived only from this arithmetic.
package handle

import "fmt"

type Handle uint32

const (
	// Ids below are main pages, from here on subpages (popups).
	SubPageFirstID = 500
	MaxID          = 0xffff
)

const ownerMask Handle = 0xffff0000

// Page returns handle of page or subpage itself.
func Page(id int) Handle { return Handle(uint32(id)<<16) & ownerMask }

// Object returns handle of object (button) index on owner page.
func Object(ownerID, objectID int) Handle {
	return Page(ownerID) | Handle(uint32(objectID)&0xffff)
}

func (h Handle) Owner() int         { return int(uint32(h) >> 16) }
func (h Handle) ObjectID() int      { return int(uint32(h) & 0xffff) }
func (h Handle) OwnerHandle() Handle { return h & ownerMask }
func (h Handle) IsValid() bool      { return h != 0 }

// IsOwner is true for page and subpage handles (object id 0).
func (h Handle) IsOwner() bool { return h.IsValid() && h.ObjectID() == 0 }

func (h Handle) IsPage() bool    { return h.IsOwner() && h.Owner() < SubPageFirstID }
func (h Handle) IsSubPage() bool { return h.IsOwner() && h.Owner() >= SubPageFirstID }

// IsChildOf reports whether h is an object of owner. Owner itself is not its own child.
func (h Handle) IsChildOf(owner Handle) bool {
	return h.ObjectID() != 0 && h.OwnerHandle() == owner.OwnerHandle()
}

// SameOwner reports whether both handles have equal high words.
func SameOwner(a, b Handle) bool { return a.OwnerHandle() == b.OwnerHandle() }

func IsSubPageID(id int) bool { return id >= SubPageFirstID }

func (h Handle) String() string { return fmt.Sprintf("%d:%d", h.Owner(), h.ObjectID()) }
