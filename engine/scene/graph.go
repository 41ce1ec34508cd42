package scene

// Graph owns the root of the scene. Renderers draw it, the viewer builds into
// it.
type Graph struct {
	root *Node
}

func NewGraph() *Graph {
	return &Graph{root: newNode(NodeKindGroup, nil)}
}

func (g *Graph) Root() *Node {
	return g.root
}

// AddGroup adds an empty group under the root.
func (g *Graph) AddGroup() *Node {
	return g.root.AddGroup()
}

// Count returns the number of nodes below the root.
func (g *Graph) Count() int {
	count := -1
	g.root.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Meshes returns every distinct mesh referenced by a visible node.
func (g *Graph) Meshes() []*Mesh {
	seen := map[*Mesh]bool{}
	var out []*Mesh
	g.root.Walk(func(n *Node) bool {
		if !n.visible {
			return false
		}
		if n.mesh != nil && !seen[n.mesh] {
			seen[n.mesh] = true
			out = append(out, n.mesh)
		}
		return true
	})
	return out
}
