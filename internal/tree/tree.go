// Package tree renders the entries left untouched by a run as an ASCII tree.
package tree

import (
	"strings"

	"github.com/backmassage/tidyup/internal/scan"
)

// Line prefixes.
const (
	Branch = "├── "
	Last   = "└── "
	Pipe   = "│   "
	Space  = "    "
)

// Node is one directory level. Children keep the order they were first seen.
type Node struct {
	order    []string
	children map[string]*Child
}

// Child is a directory (Dir set) or a leaf. Symlink leaves carry their target.
type Child struct {
	Dir     *Node
	Symlink bool
	Target  string
}

func newNode() *Node {
	return &Node{children: make(map[string]*Child)}
}

// Build nests entries by their slash-separated Rel paths. Missing
// intermediate directories are created as needed.
func Build(entries []scan.Entry) *Node {
	root := newNode()
	for _, e := range entries {
		segs := strings.Split(e.Rel, "/")
		n := root
		for i, seg := range segs {
			if i < len(segs)-1 || e.IsDir() {
				n = n.dir(seg)
				continue
			}
			n.leaf(seg, e)
		}
	}
	return root
}

func (n *Node) dir(name string) *Node {
	c, ok := n.children[name]
	if !ok {
		c = &Child{}
		n.children[name] = c
		n.order = append(n.order, name)
	}
	if c.Dir == nil {
		c.Dir = newNode()
	}
	return c.Dir
}

func (n *Node) leaf(name string, e scan.Entry) {
	if _, ok := n.children[name]; ok {
		return
	}
	n.children[name] = &Child{Symlink: e.Kind == scan.Symlink, Target: e.Target}
	n.order = append(n.order, name)
}

// Names returns the child names in order.
func (n *Node) Names() []string {
	return append([]string(nil), n.order...)
}

// Child returns the named child, or nil.
func (n *Node) Child(name string) *Child {
	return n.children[name]
}

// Lines renders the tree below n. Each call builds a fresh slice.
func (n *Node) Lines() []string {
	var out []string
	n.render("", &out)
	return out
}

func (n *Node) render(prefix string, out *[]string) {
	for i, name := range n.order {
		c := n.children[name]
		pointer, ext := Branch, Pipe
		if i == len(n.order)-1 {
			pointer, ext = Last, Space
		}

		line := prefix + pointer + name
		if c.Symlink && c.Target != "" {
			line += " -> " + c.Target
		}
		*out = append(*out, line)

		if c.Dir != nil {
			c.Dir.render(prefix+ext, out)
		}
	}
}
