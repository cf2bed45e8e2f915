package html

type Parser struct {
	tree       *Tree
	unfinished []NodeID // open elements, innermost last
}

func NewParser() *Parser {
	return &Parser{
		tree:       newTree(),
		unfinished: make([]NodeID, 0),
	}
}

// Build turns a token stream into a tree. Unbalanced markup never fails:
// stray end tags are ignored and unclosed elements are closed at the end.
func Build(tokens []Token) *Tree {
	p := NewParser()
	for _, tok := range tokens {
		p.Add(tok)
	}
	return p.Finish()
}

// Parse tokenizes body and builds its tree.
func Parse(body string) *Tree {
	return Build(Tokenize(body))
}

// Add feeds one token to the parser.
func (p *Parser) Add(tok Token) {
	switch tok.Kind {
	case TextToken:
		p.addText(tok.Text)
	case TagToken:
		p.addTag(tok.Tag)
	}
}

func (p *Parser) addText(text string) {
	if len(p.unfinished) == 0 {
		p.pushImplicitRoot()
	}
	p.tree.appendText(p.currentParent(), text)
}

func (p *Parser) addTag(tag string) {
	if len(tag) > 0 && tag[0] == '/' {
		// The root is never popped by an end tag.
		if len(p.unfinished) <= 1 {
			return
		}
		p.closeTop()
		return
	}
	parent := NoNode
	if len(p.unfinished) > 0 {
		parent = p.currentParent()
	}
	p.push(p.tree.newElement(tag, parent))
}

// Finish closes every element still open and returns the tree.
func (p *Parser) Finish() *Tree {
	if len(p.unfinished) == 0 {
		p.pushImplicitRoot()
	}
	for len(p.unfinished) > 1 {
		p.closeTop()
	}
	p.tree.root = p.pop()
	return p.tree
}

func (p *Parser) pushImplicitRoot() {
	id := p.tree.newElement("", NoNode)
	p.tree.nodes[id].Implicit = true
	p.push(id)
}

// closeTop pops the innermost element and attaches it to its parent.
func (p *Parser) closeTop() {
	node := p.pop()
	p.tree.addChild(p.currentParent(), node)
}

// currentParent returns the innermost open element
func (p *Parser) currentParent() NodeID {
	return p.unfinished[len(p.unfinished)-1]
}

func (p *Parser) push(id NodeID) {
	p.unfinished = append(p.unfinished, id)
}

func (p *Parser) pop() NodeID {
	id := p.unfinished[len(p.unfinished)-1]
	p.unfinished = p.unfinished[:len(p.unfinished)-1]
	return id
}
