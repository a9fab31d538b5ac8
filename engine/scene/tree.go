package scene

import (
	"fmt"

	"github.com/spaghettifunk/stratum/engine/core"
	"github.com/spaghettifunk/stratum/engine/renderer/metadata"
)

/**
 * @brief A node of the object tree. Nodes without a payload only group
 * their children.
 */
type Node struct {
	ID       string
	Kind     metadata.ObjectKind
	Payload  *metadata.GeometryPayload
	Material *metadata.MaterialDescriptor

	parent   *Node
	children []*Node
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) object() metadata.SceneObject {
	return metadata.SceneObject{ID: n.ID, Kind: n.Kind, Payload: n.Payload, Material: n.Material}
}

// Tree is the in-memory object hierarchy batches are built from.
type Tree struct {
	root  *Node
	nodes map[string]*Node
}

func NewTree() *Tree {
	t := &Tree{}
	t.Clear()
	return t
}

func (t *Tree) Root() *Node {
	return t.root
}

/**
 * @brief Attaches node and its children under parentID; an empty parentID
 * means the root. Ids must be unique in the tree.
 */
func (t *Tree) Add(parentID string, node *Node) error {
	if node == nil || node.ID == "" {
		return fmt.Errorf("scene node must have an id")
	}
	parent := t.root
	if parentID != "" {
		p, ok := t.nodes[parentID]
		if !ok {
			return fmt.Errorf("parent %s: %w", parentID, core.ErrNotFound)
		}
		parent = p
	}

	var ids []string
	var dup error
	walk(node, func(n *Node) bool {
		if _, ok := t.nodes[n.ID]; ok {
			dup = fmt.Errorf("scene node %s already exists", n.ID)
			return false
		}
		ids = append(ids, n.ID)
		return true
	})
	if dup != nil {
		return dup
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("scene node %s appears twice in the added subtree", id)
		}
		seen[id] = struct{}{}
	}

	node.parent = parent
	parent.children = append(parent.children, node)
	walk(node, func(n *Node) bool {
		t.nodes[n.ID] = n
		for _, c := range n.children {
			c.parent = n
		}
		return true
	})
	return nil
}

/**
 * @brief Appends child to node before the node is added to a tree.
 */
func (n *Node) AddChild(child *Node) *Node {
	child.parent = n
	n.children = append(n.children, child)
	return n
}

// Remove detaches a node with its whole subtree.
func (t *Tree) Remove(id string) error {
	node, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("scene node %s: %w", id, core.ErrNotFound)
	}
	parent := node.parent
	for i, c := range parent.children {
		if c == node {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	node.parent = nil
	walk(node, func(n *Node) bool {
		delete(t.nodes, n.ID)
		return true
	})
	return nil
}

func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

/**
 * @brief Visits every node depth-first in insertion order, root excluded.
 * Returning false from fn skips the node's children.
 */
func (t *Tree) Walk(fn func(*Node) bool) {
	for _, c := range t.root.children {
		walk(c, fn)
	}
}

func walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		walk(c, fn)
	}
}

/**
 * @brief Returns every node of the given kinds that carries a payload, in
 * depth-first order.
 */
func (t *Tree) ObjectsOfKind(kinds ...metadata.ObjectKind) []metadata.SceneObject {
	want := make(map[metadata.ObjectKind]struct{}, len(kinds))
	for _, k := range kinds {
		want[k] = struct{}{}
	}
	var out []metadata.SceneObject
	t.Walk(func(n *Node) bool {
		if n.Payload == nil {
			return true
		}
		if _, ok := want[n.Kind]; ok {
			out = append(out, n.object())
		}
		return true
	})
	return out
}

func (t *Tree) Clear() {
	t.root = &Node{ID: "root"}
	t.nodes = make(map[string]*Node)
}
