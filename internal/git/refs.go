package git

import (
	"cmp"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

type RefFlags uint8

const (
	RefHead RefFlags = 1 << iota
	RefTag
	RefRemote
	RefTracked
)

type Reference struct {
	Name  string
	ID    string
	Flags RefFlags
}

func (r *Reference) Is(flag RefFlags) bool {
	return r.Flags&flag != 0
}

func (r *Reference) rank() int {
	switch {
	case r.Is(RefHead):
		return 0
	case r.Is(RefTag):
		return 1
	case r.Is(RefRemote) && r.Is(RefTracked):
		return 2
	case r.Is(RefRemote):
		return 3
	default:
		return 4
	}
}

// SortReferences orders refs head first, then tags, tracked remotes, other
// remotes and plain branches, each group by name.
func SortReferences(refs []*Reference) {
	slices.SortStableFunc(refs, func(a, b *Reference) int {
		return cmp.Or(cmp.Compare(a.rank(), b.rank()), strings.Compare(a.Name, b.Name))
	})
}

// RefStore indexes the repository references by the commit they point at.
type RefStore struct {
	byID     map[string][]*Reference
	head     string
	headID   string
	detached bool
}

func NewRefStore(refs []*Reference) *RefStore {
	s := &RefStore{byID: make(map[string][]*Reference)}
	for _, ref := range refs {
		s.byID[ref.ID] = append(s.byID[ref.ID], ref)
		if ref.Is(RefHead) {
			s.headID = ref.ID
			if ref.Name == "HEAD" {
				s.detached = true
			} else {
				s.head = ref.Name
			}
		}
	}
	for _, list := range s.byID {
		SortReferences(list)
	}
	return s
}

// For returns the references pointing at id in display order.
func (s *RefStore) For(id string) []*Reference {
	if s == nil {
		return nil
	}
	return s.byID[id]
}

// HeadName is the checked out branch, or "HEAD" when detached or unknown.
func (s *RefStore) HeadName() string {
	if s == nil || s.head == "" {
		return "HEAD"
	}
	return s.head
}

func (s *RefStore) HeadID() string {
	if s == nil {
		return ""
	}
	return s.headID
}

func (s *RefStore) Detached() bool {
	return s != nil && s.detached
}

func (s *RefStore) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, list := range s.byID {
		n += len(list)
	}
	return n
}

type Repo struct {
	*gogit.Repository
	WorkTree string
	GitDir   string
}

var ErrNotRepository = errors.New("not a git repository")

// Open finds the repository containing path.
func Open(path string) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true, EnableDotGitCommonDir: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotRepository)
		}
		return nil, err
	}
	r := &Repo{Repository: repo}
	if wt, err := repo.Worktree(); err == nil {
		r.WorkTree = wt.Filesystem.Root()
		r.GitDir = filepath.Join(r.WorkTree, ".git")
	} else {
		abs, _ := filepath.Abs(path)
		r.WorkTree = abs
		r.GitDir = abs
	}
	return r, nil
}

// HasHead reports whether HEAD resolves to a commit.
func (r *Repo) HasHead() bool {
	_, err := r.Head()
	return err == nil
}

// HeadBranch is the short name of the branch HEAD points at, even when the
// branch has no commits yet.
func (r *Repo) HeadBranch() (string, bool) {
	ref, err := r.Storer.Reference(plumbing.HEAD)
	if err != nil || ref.Type() != plumbing.SymbolicReference {
		return "", false
	}
	return ref.Target().Short(), true
}

// LoadRefs reads branches, tags and remotes, flagging the checked out branch
// and its upstream.
func (r *Repo) LoadRefs() (*RefStore, error) {
	var headName plumbing.ReferenceName
	var headHash plumbing.Hash
	if head, err := r.Head(); err == nil {
		headName = head.Name()
		headHash = head.Hash()
	}
	tracked := r.upstream(headName)

	iter, err := r.References()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var refs []*Reference
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		out := &Reference{Name: name.Short(), ID: ref.Hash().String()}
		switch {
		case name.IsBranch():
			if name == headName {
				out.Flags |= RefHead
			}
		case name.IsTag():
			out.Flags |= RefTag
			if peeled, ok := r.peel(ref.Hash()); ok {
				out.ID = peeled.String()
			}
		case name.IsRemote():
			if strings.HasSuffix(out.Name, "/HEAD") {
				return nil
			}
			out.Flags |= RefRemote
			if name == tracked {
				out.Flags |= RefTracked
			}
		default:
			return nil
		}
		refs = append(refs, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if headName == plumbing.HEAD && !headHash.IsZero() {
		refs = append(refs, &Reference{Name: "HEAD", ID: headHash.String(), Flags: RefHead})
	}
	return NewRefStore(refs), nil
}

func (r *Repo) upstream(head plumbing.ReferenceName) plumbing.ReferenceName {
	if !head.IsBranch() {
		return ""
	}
	cfg, err := r.Config()
	if err != nil {
		return ""
	}
	branch, ok := cfg.Branches[head.Short()]
	if !ok || branch.Remote == "" || branch.Merge == "" {
		return ""
	}
	return plumbing.NewRemoteReferenceName(branch.Remote, branch.Merge.Short())
}

func (r *Repo) peel(hash plumbing.Hash) (plumbing.Hash, bool) {
	if _, err := r.CommitObject(hash); err == nil {
		return hash, true
	}
	cur := hash
	for range 8 {
		tag, err := r.TagObject(cur)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		switch tag.TargetType {
		case plumbing.CommitObject:
			return tag.Target, true
		case plumbing.TagObject:
			cur = tag.Target
		default:
			return plumbing.ZeroHash, false
		}
	}
	return plumbing.ZeroHash, false
}
