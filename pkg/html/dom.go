package html

import (
	"fmt"
	"io"
	"strings"
)

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// NodeID addresses a node inside its Tree.
type NodeID int

// NoNode is the parent of the root.
const NoNode NodeID = -1

type Node struct {
	Type     NodeType
	Tag      string
	Text     string
	Children []NodeID
	Parent   NodeID
	// Implicit marks a root the builder synthesized for text that
	// arrived before any tag.
	Implicit bool
}

// Tree is an arena of nodes. Parent links are plain indices, so the
// structure holds no reference cycles.
type Tree struct {
	nodes []Node
	root  NodeID
}

func newTree() *Tree {
	return &Tree{nodes: make([]Node, 0), root: NoNode}
}

func (t *Tree) newElement(tag string, parent NodeID) NodeID {
	t.nodes = append(t.nodes, Node{
		Type:     ElementNode,
		Tag:      tag,
		Children: make([]NodeID, 0),
		Parent:   parent,
	})
	return NodeID(len(t.nodes) - 1)
}

// appendText creates a text node and adds it as a child of parent.
func (t *Tree) appendText(parent NodeID, text string) NodeID {
	t.nodes = append(t.nodes, Node{Type: TextNode, Text: text, Parent: parent})
	id := NodeID(len(t.nodes) - 1)
	t.addChild(parent, id)
	return id
}

func (t *Tree) addChild(parent, child NodeID) {
	t.nodes[parent].Children = append(t.nodes[parent].Children, child)
}

// Root returns the document root.
func (t *Tree) Root() NodeID {
	return t.root
}

// Node returns the node with the given id. The returned value is a copy.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Walk visits every node reachable from the root in pre-order.
func (t *Tree) Walk(fn func(id NodeID, depth int)) {
	if t.root == NoNode {
		return
	}
	t.walk(t.root, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int)) {
	fn(id, depth)
	for _, child := range t.nodes[id].Children {
		t.walk(child, depth+1, fn)
	}
}

// Tokens flattens the tree back into a token stream: an element yields
// its start tag, its children, then its end tag. Implicit nodes emit no
// tags of their own.
func (t *Tree) Tokens() []Token {
	tokens := make([]Token, 0, len(t.nodes))
	if t.root == NoNode {
		return tokens
	}
	return t.appendTokens(tokens, t.root)
}

func (t *Tree) appendTokens(tokens []Token, id NodeID) []Token {
	n := &t.nodes[id]
	if n.Type == TextNode {
		return append(tokens, Text(n.Text))
	}
	if !n.Implicit {
		tokens = append(tokens, Tag(n.Tag))
	}
	for _, child := range n.Children {
		tokens = t.appendTokens(tokens, child)
	}
	if !n.Implicit {
		tokens = append(tokens, Tag("/"+n.Tag))
	}
	return tokens
}

// Dump writes an indented outline of the tree, one node per line.
func (t *Tree) Dump(w io.Writer) error {
	var err error
	t.Walk(func(id NodeID, depth int) {
		if err != nil {
			return
		}
		n := t.nodes[id]
		indent := strings.Repeat("  ", depth)
		switch {
		case n.Type == TextNode:
			_, err = fmt.Fprintf(w, "%s%q\n", indent, n.Text)
		case n.Implicit:
			_, err = fmt.Fprintf(w, "%s(document)\n", indent)
		default:
			_, err = fmt.Fprintf(w, "%s<%s>\n", indent, n.Tag)
		}
	})
	return err
}
