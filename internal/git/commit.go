package git

import (
	"strconv"
	"strings"
	"time"
)

// NullID identifies lines that are not committed yet.
const NullID = "0000000000000000000000000000000000000000"

type Commit struct {
	ID       string
	Parents  []string
	Author   string
	Email    string
	Time     time.Time
	Title    string
	Filename string
	Boundary bool
	Refs     []*Reference
}

func (c *Commit) ShortID() string {
	if len(c.ID) > 7 {
		return c.ID[:7]
	}
	return c.ID
}

func (c *Commit) IsNull() bool {
	return c.ID == NullID
}

func (c *Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// Registry shares one Commit per id between the lines that refer to it.
type Registry struct {
	commits map[string]*Commit
}

func NewRegistry() *Registry {
	return &Registry{commits: make(map[string]*Commit)}
}

func (r *Registry) Get(id string) (*Commit, bool) {
	c, ok := r.commits[id]
	return c, ok
}

// Intern returns the commit for id, creating it on first use.
func (r *Registry) Intern(id string) (*Commit, bool) {
	if c, ok := r.commits[id]; ok {
		return c, false
	}
	c := &Commit{ID: id}
	r.commits[id] = c
	return c, true
}

func (r *Registry) Len() int {
	return len(r.commits)
}

func (r *Registry) Reset() {
	clear(r.commits)
}

// IsID reports whether s looks like a full object id.
func IsID(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ParseTimezone converts a "+hhmm" or "-hhmm" offset to seconds east of UTC.
func ParseTimezone(tz string) (int, bool) {
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return 0, false
	}
	hh, err := strconv.Atoi(tz[1:3])
	if err != nil {
		return 0, false
	}
	mm, err := strconv.Atoi(tz[3:5])
	if err != nil || mm >= 60 {
		return 0, false
	}
	offset := hh*3600 + mm*60
	if tz[0] == '-' {
		offset = -offset
	}
	return offset, true
}

// AuthorTime places a raw epoch timestamp in the author's own time zone, so
// formatting shows the author's wall clock.
func AuthorTime(epoch int64, tz string) time.Time {
	t := time.Unix(epoch, 0)
	if offset, ok := ParseTimezone(tz); ok {
		return t.In(time.FixedZone(tz, offset))
	}
	return t.UTC()
}

// ParseIdent splits "Name <email> 1700000000 +0100" into its parts.
func ParseIdent(ident string) (name, email string, when time.Time) {
	open := strings.IndexByte(ident, '<')
	closing := strings.LastIndexByte(ident, '>')
	if open < 0 || closing < open {
		return strings.TrimSpace(ident), "", time.Time{}
	}
	name = strings.TrimSpace(ident[:open])
	email = ident[open+1 : closing]
	if name == "" {
		name = email
	}
	fields := strings.Fields(ident[closing+1:])
	if len(fields) >= 1 {
		if epoch, err := strconv.ParseInt(fields[0], 10, 64); err == nil {
			tz := ""
			if len(fields) >= 2 {
				tz = fields[1]
			}
			when = AuthorTime(epoch, tz)
		}
	}
	return name, email, when
}
