package vault

import (
	"github.com/TheBitDrifter/mask"
)

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

// queryNode is a boolean expression over component sets, evaluated against
// archetype masks. Masks are built at evaluation time because component row
// indices are assigned by the storage's schema, which the node does not
// hold.
type queryNode struct {
	op         Operation
	children   []QueryNode
	components []Component
}

type query struct {
	root QueryNode
}

func newQuery() Query {
	return &query{}
}

func (n *queryNode) mask(storage Storage) mask.Mask {
	var m mask.Mask
	for _, comp := range n.components {
		m.Mark(storage.RowIndexFor(comp))
	}
	return m
}

func (n *queryNode) Evaluate(archetype Archetype, storage Storage) bool {
	nodeMask := n.mask(storage)
	archeMask := archetype.Table().(mask.Maskable).Mask()

	switch n.op {
	case OpAnd:
		if !archeMask.ContainsAll(nodeMask) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(archetype, storage) {
				return false
			}
		}
		return true

	case OpOr:
		if archeMask.ContainsAny(nodeMask) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(archetype, storage) {
				return true
			}
		}
		return false

	case OpNot:
		for _, child := range n.children {
			if child.Evaluate(archetype, storage) {
				return false
			}
		}
		return archeMask.ContainsNone(nodeMask)
	}
	return false
}

func (q *query) And(items ...interface{}) QueryNode {
	return q.node(OpAnd, items...)
}

func (q *query) Or(items ...interface{}) QueryNode {
	return q.node(OpOr, items...)
}

func (q *query) Not(items ...interface{}) QueryNode {
	return q.node(OpNot, items...)
}

func (q *query) node(op Operation, items ...interface{}) QueryNode {
	node := &queryNode{op: op}
	for _, item := range items {
		switch v := item.(type) {
		case Component:
			node.components = append(node.components, v)
		case []Component:
			node.components = append(node.components, v...)
		case QueryNode:
			node.children = append(node.children, v)
		}
	}
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Evaluate(archetype Archetype, storage Storage) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(archetype, storage)
}
