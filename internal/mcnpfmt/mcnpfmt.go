// Package mcnpfmt is a minimal reference reader for MCNP plain-text
// input decks, enough to exercise aleagit's fingerprinting, diffing, and
// blame machinery end to end. It is not a validating MCNP parser: it
// accepts the cell-card and surface-card subset needed to build a
// geom.Geometry and is permissive about anything it doesn't recognize,
// folding unknown surface mnemonics into a generic quadric-like
// primitive rather than failing the whole deck.
package mcnpfmt

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/giovanni-mariano/aleagit/pkg/geom"
)

// ErrMalformedDeck indicates the input couldn't be split into the
// cell-card and surface-card blocks MCNP decks use (blank-line
// separated sections).
type ErrMalformedDeck struct {
	Reason string
}

func (e *ErrMalformedDeck) Error() string {
	return fmt.Sprintf("malformed MCNP deck: %s", e.Reason)
}

// ErrBadCellCard indicates a cell card couldn't be parsed.
type ErrBadCellCard struct {
	Line   string
	Reason string
}

func (e *ErrBadCellCard) Error() string {
	return fmt.Sprintf("bad cell card %q: %s", e.Line, e.Reason)
}

// ErrBadSurfaceCard indicates a surface card couldn't be parsed.
type ErrBadSurfaceCard struct {
	Line   string
	Reason string
}

func (e *ErrBadSurfaceCard) Error() string {
	return fmt.Sprintf("bad surface card %q: %s", e.Line, e.Reason)
}

// Geometry is a parsed MCNP deck implementing geom.Geometry.
type Geometry struct {
	cells      []geom.CellInfo
	surfaces   []geom.SurfaceInfo
	nodes      []geom.TreeNode
	nUniverses int
}

func (g *Geometry) CellCount() int                   { return len(g.cells) }
func (g *Geometry) Cell(i int) geom.CellInfo          { return g.cells[i] }
func (g *Geometry) SurfaceCount() int                 { return len(g.surfaces) }
func (g *Geometry) Surface(i int) geom.SurfaceInfo    { return g.surfaces[i] }
func (g *Geometry) UniverseCount() int                { return g.nUniverses }
func (g *Geometry) TreeNode(id geom.NodeID) geom.TreeNode {
	return g.nodes[id]
}

func (g *Geometry) addNode(n geom.TreeNode) geom.NodeID {
	g.nodes = append(g.nodes, n)
	return geom.NodeID(len(g.nodes) - 1)
}

// Parse reads an MCNP deck from data and returns its parsed geometry.
//
// Deck layout: a title line, then the cell-card block, a blank line,
// then the surface-card block, another blank line, then a data-card
// block this parser ignores. Continuation lines (indented with 5+
// spaces, or following a line that ends in "&") are joined onto the
// preceding card.
func Parse(data []byte) (*Geometry, error) {
	lines := splitLogicalLines(data)
	if len(lines) < 1 {
		return nil, &ErrMalformedDeck{Reason: "empty input"}
	}
	// Skip the title line.
	lines = lines[1:]

	blocks := splitBlocks(lines)
	if len(blocks) < 2 {
		return nil, &ErrMalformedDeck{Reason: "expected cell-card and surface-card blocks separated by a blank line"}
	}

	g := &Geometry{}
	surfaceSenseNodes := make(map[int][2]geom.NodeID) // surfaceID -> [posNode, negNode]

	ensureSurfaceNode := func(surfaceID, sense int) geom.NodeID {
		entry, ok := surfaceSenseNodes[surfaceID]
		if !ok {
			entry = [2]geom.NodeID{geom.InvalidNode, geom.InvalidNode}
		}
		idx := 0
		if sense < 0 {
			idx = 1
		}
		if entry[idx] == geom.InvalidNode {
			entry[idx] = g.addNode(geom.TreeNode{IsLeaf: true, SurfaceID: surfaceID, Sense: sense})
			surfaceSenseNodes[surfaceID] = entry
		}
		return entry[idx]
	}

	maxUniverse := 0
	for _, line := range blocks[0] {
		cell, err := parseCellCard(line, g, ensureSurfaceNode)
		if err != nil {
			return nil, err
		}
		g.cells = append(g.cells, cell)
		if cell.UniverseID > maxUniverse {
			maxUniverse = cell.UniverseID
		}
	}
	g.nUniverses = maxUniverse + 1

	for _, line := range blocks[1] {
		surf, err := parseSurfaceCard(line)
		if err != nil {
			return nil, err
		}
		g.surfaces = append(g.surfaces, surf)
	}

	return g, nil
}

// splitLogicalLines joins continuation lines onto their preceding
// physical line and drops comment lines (those starting with "c" or "C"
// followed by a space or end of line, MCNP's comment convention).
func splitLogicalLines(data []byte) []string {
	var logical []string
	continued := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		raw := scanner.Text()
		trimmed := strings.TrimRight(raw, " \t\r")
		if isComment(trimmed) {
			continue
		}
		if len(trimmed) == 0 {
			logical = append(logical, "")
			continued = false
			continue
		}
		joins := continued || strings.HasPrefix(trimmed, "     ") || strings.HasPrefix(raw, "\t")
		continued = strings.HasSuffix(trimmed, "&")
		if joins && len(logical) > 0 {
			logical[len(logical)-1] = strings.TrimRight(logical[len(logical)-1], "&") + " " + strings.TrimSpace(trimmed)
			continue
		}
		logical = append(logical, strings.TrimRight(trimmed, "&"))
	}
	return logical
}

func isComment(line string) bool {
	t := strings.TrimSpace(line)
	if len(t) == 0 {
		return false
	}
	return (t[0] == 'c' || t[0] == 'C') && (len(t) == 1 || t[1] == ' ' || t[1] == '\t')
}

// splitBlocks splits lines into blank-line-delimited blocks, dropping
// empty lines. Every block is returned; Parse reads only the first two
// (any later block is the data-card block, which this reader doesn't
// interpret).
func splitBlocks(lines []string) [][]string {
	var blocks [][]string
	var cur []string
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			if len(cur) > 0 {
				blocks = append(blocks, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, l)
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}

type surfaceNodeFn func(surfaceID, sense int) geom.NodeID

// parseCellCard parses one MCNP cell card:
//
//	j m d geom_expr [keyword=value ...]
//
// where j is the cell id, m is the material id (0 = void), d is the
// density (omitted when m == 0), and geom_expr is a Boolean expression
// over signed surface numbers. Trailing "U=n", "FILL=n", "LAT=n" set the
// cell's universe, fill universe, and lattice type respectively.
func parseCellCard(line string, g *Geometry, surfNode surfaceNodeFn) (geom.CellInfo, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return geom.CellInfo{}, &ErrBadCellCard{Line: line, Reason: "expected at least cell id, material id, and a geometry expression"}
	}

	cellID, err := strconv.Atoi(fields[0])
	if err != nil {
		return geom.CellInfo{}, &ErrBadCellCard{Line: line, Reason: "cell id is not an integer"}
	}
	matID, err := strconv.Atoi(fields[1])
	if err != nil {
		return geom.CellInfo{}, &ErrBadCellCard{Line: line, Reason: "material id is not an integer"}
	}

	rest := fields[2:]
	density := 0.0
	if matID != 0 {
		if len(rest) == 0 {
			return geom.CellInfo{}, &ErrBadCellCard{Line: line, Reason: "non-void cell missing density"}
		}
		density, err = strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return geom.CellInfo{}, &ErrBadCellCard{Line: line, Reason: "density is not a number"}
		}
		rest = rest[1:]
	}

	var exprFields []string
	info := geom.CellInfo{CellID: cellID, MaterialID: matID, Density: density, FillUniverse: -1}
	for _, f := range rest {
		if kv := strings.SplitN(f, "=", 2); len(kv) == 2 {
			key := strings.ToUpper(kv[0])
			val := kv[1]
			switch key {
			case "U":
				n, _ := strconv.Atoi(val)
				info.UniverseID = n
			case "FILL":
				n, _ := strconv.Atoi(val)
				info.FillUniverse = n
			case "LAT":
				n, _ := strconv.Atoi(val)
				info.Lattice.LatType = n
			}
			continue
		}
		exprFields = append(exprFields, f)
	}

	root, err := parseRegionExpr(strings.Join(exprFields, " "), g, surfNode)
	if err != nil {
		return geom.CellInfo{}, &ErrBadCellCard{Line: line, Reason: err.Error()}
	}
	info.Root = root
	return info, nil
}

// region grammar (MCNP Boolean cell geometry, precedence low to high):
//
//	union       := intersect (':' intersect)*
//	intersect   := unary unary*
//	unary       := '#' unary | '(' union ')' | SIGNED_INT
//
// Union binds loosest; juxtaposition (space) means intersection;
// '#' is a prefix complement.
type regionParser struct {
	toks    []string
	pos     int
	g       *Geometry
	surfFn  surfaceNodeFn
}

func parseRegionExpr(expr string, g *Geometry, surfFn surfaceNodeFn) (geom.NodeID, error) {
	toks := tokenizeRegion(expr)
	if len(toks) == 0 {
		return geom.InvalidNode, fmt.Errorf("empty geometry expression")
	}
	p := &regionParser{toks: toks, g: g, surfFn: surfFn}
	node, err := p.parseUnion()
	if err != nil {
		return geom.InvalidNode, err
	}
	if p.pos != len(p.toks) {
		return geom.InvalidNode, fmt.Errorf("unexpected token %q after complete expression", p.toks[p.pos])
	}
	return node, nil
}

// tokenizeRegion splits a region expression into ':' , '(' , ')' , '#'
// and signed-integer tokens.
func tokenizeRegion(expr string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range expr {
		switch r {
		case ':', '(', ')', '#':
			flush()
			toks = append(toks, string(r))
		case ' ', '\t':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

func (p *regionParser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *regionParser) parseUnion() (geom.NodeID, error) {
	left, err := p.parseIntersect()
	if err != nil {
		return geom.InvalidNode, err
	}
	for p.peek() == ":" {
		p.pos++
		right, err := p.parseIntersect()
		if err != nil {
			return geom.InvalidNode, err
		}
		left = p.g.addNode(geom.TreeNode{Op: geom.OpUnion, Left: left, Right: right})
	}
	return left, nil
}

func (p *regionParser) parseIntersect() (geom.NodeID, error) {
	left, err := p.parseUnary()
	if err != nil {
		return geom.InvalidNode, err
	}
	for {
		tok := p.peek()
		if tok == "" || tok == ":" || tok == ")" {
			break
		}
		right, err := p.parseUnary()
		if err != nil {
			return geom.InvalidNode, err
		}
		left = p.g.addNode(geom.TreeNode{Op: geom.OpIntersection, Left: left, Right: right})
	}
	return left, nil
}

func (p *regionParser) parseUnary() (geom.NodeID, error) {
	tok := p.peek()
	switch {
	case tok == "":
		return geom.InvalidNode, fmt.Errorf("unexpected end of geometry expression")
	case tok == "#":
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return geom.InvalidNode, err
		}
		return p.g.addNode(geom.TreeNode{Op: geom.OpComplement, Left: operand, Right: geom.InvalidNode}), nil
	case tok == "(":
		p.pos++
		inner, err := p.parseUnion()
		if err != nil {
			return geom.InvalidNode, err
		}
		if p.peek() != ")" {
			return geom.InvalidNode, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	default:
		p.pos++
		n, err := strconv.Atoi(tok)
		if err != nil {
			return geom.InvalidNode, fmt.Errorf("expected surface number, got %q", tok)
		}
		sense := 1
		surfaceID := n
		if n < 0 {
			sense = -1
			surfaceID = -n
		}
		return p.surfFn(surfaceID, sense), nil
	}
}

// mnemonicPrimitive maps MCNP surface mnemonics to aleagit's internal
// primitive-type numbering (spec.md's prim_type_name table).
var mnemonicPrimitive = map[string]int{
	"P": 1, "PX": 1, "PY": 1, "PZ": 1,
	"SO": 2, "S": 2, "SX": 2, "SY": 2, "SZ": 2,
	"CX": 5, "CY": 4, "CZ": 3, // cylinders parallel to x/y/z
	"KX": 6, "KY": 7, "KZ": 8, // cones
	"RPP": 9,
	"GQ":  10,
	"TX":  11, "TY": 12, "TZ": 13, // tori
	"RCC": 14,
	"BOX": 15,
	"SPH": 16,
	"TRC": 17,
	"ELL": 18,
	"REC": 19,
	"WED": 20,
	"RHP": 21,
	"ARB": 22,
}

// parseSurfaceCard parses one MCNP surface card: "j mnemonic p1 p2 ...".
// An optional leading '*' (reflecting boundary) or '+' (white boundary)
// prefix on the id sets BoundaryType to 1 or 2 respectively; a bare
// numeric id is a plain (transmitting) boundary (BoundaryType 0).
func parseSurfaceCard(line string) (geom.SurfaceInfo, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return geom.SurfaceInfo{}, &ErrBadSurfaceCard{Line: line, Reason: "expected at least an id and a mnemonic"}
	}

	idField := fields[0]
	boundary := 0
	switch idField[0] {
	case '*':
		boundary = 1
		idField = idField[1:]
	case '+':
		boundary = 2
		idField = idField[1:]
	}
	surfaceID, err := strconv.Atoi(idField)
	if err != nil {
		return geom.SurfaceInfo{}, &ErrBadSurfaceCard{Line: line, Reason: "surface id is not an integer"}
	}

	mnemonic := strings.ToUpper(fields[1])
	ptype, ok := mnemonicPrimitive[mnemonic]
	if !ok {
		ptype = 10 // unknown mnemonics fold into the generic quadric slot
	}

	var data geom.PrimitiveData
	for i, f := range fields[2:] {
		if i >= geom.MaxPrimitiveSlots {
			break
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geom.SurfaceInfo{}, &ErrBadSurfaceCard{Line: line, Reason: fmt.Sprintf("parameter %d (%q) is not a number", i+1, f)}
		}
		data[i] = v
	}

	return geom.SurfaceInfo{SurfaceID: surfaceID, PrimitiveType: ptype, BoundaryType: boundary, Data: data}, nil
}
