// Package openmcfmt is a minimal reference reader for OpenMC XML
// geometry exports, enough to exercise aleagit's core machinery against
// a second input format. It is not a validating OpenMC geometry parser:
// it understands a simplified subset of <geometry>/<cell>/<surface>
// elements and folds unknown surface types into a generic quadric slot.
package openmcfmt

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/giovanni-mariano/aleagit/pkg/geom"
)

// ErrBadGeometry indicates the XML document couldn't be interpreted as
// an OpenMC geometry export.
type ErrBadGeometry struct {
	Reason string
}

func (e *ErrBadGeometry) Error() string {
	return fmt.Sprintf("bad OpenMC geometry: %s", e.Reason)
}

type xmlGeometry struct {
	XMLName  xml.Name     `xml:"geometry"`
	Cells    []xmlCell    `xml:"cell"`
	Surfaces []xmlSurface `xml:"surface"`
}

type xmlCell struct {
	ID       int    `xml:"id,attr"`
	Material string `xml:"material,attr"` // "void" or a material id
	Universe int    `xml:"universe,attr"`
	Fill     int    `xml:"fill,attr"`
	FillSet  bool   `xml:"-"`
	Region   string `xml:"region,attr"`
	Lattice  int    `xml:"lattice,attr"`
}

// UnmarshalXML is implemented by hand so we can tell "fill attribute
// absent" (FillSet == false, FillUniverse must end up -1) apart from
// "fill=\"0\"" (a real fill universe id of 0).
func (c *xmlCell) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type alias xmlCell
	var a alias
	for _, attr := range start.Attr {
		if attr.Name.Local == "fill" {
			a.FillSet = true
		}
	}
	if err := d.DecodeElement(&a, &start); err != nil {
		return err
	}
	*c = xmlCell(a)
	return nil
}

type xmlSurface struct {
	ID          int    `xml:"id,attr"`
	Type        string `xml:"type,attr"`
	Coeffs      string `xml:"coeffs,attr"`
	BoundaryRaw string `xml:"boundary,attr"`
}

// Geometry is a parsed OpenMC geometry export implementing geom.Geometry.
type Geometry struct {
	cells      []geom.CellInfo
	surfaces   []geom.SurfaceInfo
	nodes      []geom.TreeNode
	nUniverses int
}

func (g *Geometry) CellCount() int                { return len(g.cells) }
func (g *Geometry) Cell(i int) geom.CellInfo       { return g.cells[i] }
func (g *Geometry) SurfaceCount() int              { return len(g.surfaces) }
func (g *Geometry) Surface(i int) geom.SurfaceInfo { return g.surfaces[i] }
func (g *Geometry) UniverseCount() int             { return g.nUniverses }
func (g *Geometry) TreeNode(id geom.NodeID) geom.TreeNode {
	return g.nodes[id]
}

func (g *Geometry) addNode(n geom.TreeNode) geom.NodeID {
	g.nodes = append(g.nodes, n)
	return geom.NodeID(len(g.nodes) - 1)
}

// typeToPrimitive maps OpenMC surface "type" attribute values to
// aleagit's internal primitive-type numbering, the same table
// internal/mcnpfmt uses, so the same cell/surface can be diffed across
// a format conversion without spuriously showing a type change.
var typeToPrimitive = map[string]int{
	"plane": 1, "x-plane": 1, "y-plane": 1, "z-plane": 1,
	"sphere": 2,
	"x-cylinder": 5, "y-cylinder": 4, "z-cylinder": 3,
	"x-cone": 6, "y-cone": 7, "z-cone": 8,
	"quadric": 10,
}

// Parse reads an OpenMC geometry XML document from data.
func Parse(data []byte) (*Geometry, error) {
	var doc xmlGeometry
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &ErrBadGeometry{Reason: err.Error()}
	}

	g := &Geometry{}
	surfaceSenseNodes := make(map[int][2]geom.NodeID)
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
	for _, xc := range doc.Cells {
		matID := 0
		if xc.Material != "" && xc.Material != "void" {
			id, err := strconv.Atoi(xc.Material)
			if err != nil {
				return nil, &ErrBadGeometry{Reason: fmt.Sprintf("cell %d: material %q is not an id", xc.ID, xc.Material)}
			}
			matID = id
		}

		root, err := parseRegion(xc.Region, g, ensureSurfaceNode)
		if err != nil {
			return nil, &ErrBadGeometry{Reason: fmt.Sprintf("cell %d: %s", xc.ID, err)}
		}

		fill := -1
		if xc.FillSet {
			fill = xc.Fill
		}

		g.cells = append(g.cells, geom.CellInfo{
			CellID:       xc.ID,
			MaterialID:   matID,
			UniverseID:   xc.Universe,
			FillUniverse: fill,
			Root:         root,
			Lattice:      geom.LatticeInfo{LatType: xc.Lattice},
		})
		if xc.Universe > maxUniverse {
			maxUniverse = xc.Universe
		}
	}
	g.nUniverses = maxUniverse + 1

	for _, xs := range doc.Surfaces {
		ptype, ok := typeToPrimitive[strings.ToLower(xs.Type)]
		if !ok {
			ptype = 10
		}

		var data geom.PrimitiveData
		if xs.Coeffs != "" {
			fields := strings.Fields(xs.Coeffs)
			for i, f := range fields {
				if i >= geom.MaxPrimitiveSlots {
					break
				}
				v, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, &ErrBadGeometry{Reason: fmt.Sprintf("surface %d: coefficient %q is not a number", xs.ID, f)}
				}
				data[i] = v
			}
		}

		boundary := 0
		switch xs.BoundaryRaw {
		case "reflective":
			boundary = 1
		case "white":
			boundary = 2
		}

		g.surfaces = append(g.surfaces, geom.SurfaceInfo{
			SurfaceID:     xs.ID,
			PrimitiveType: ptype,
			BoundaryType:  boundary,
			Data:          data,
		})
	}

	return g, nil
}

// parseRegion parses OpenMC's region specification mini-language: signed
// surface ids combine under '&' (intersection, the default within a
// plain space-separated run), '|' (union), and '~' (prefix complement),
// with parentheses for grouping — the same three CSG operators MCNP
// uses, spelled differently.
func parseRegion(region string, g *Geometry, surfFn surfaceNodeFn) (geom.NodeID, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return geom.InvalidNode, fmt.Errorf("empty region specification")
	}
	toks := tokenizeRegion(region)
	p := &regionParser{toks: toks, g: g, surfFn: surfFn}
	node, err := p.parseUnion()
	if err != nil {
		return geom.InvalidNode, err
	}
	if p.pos != len(p.toks) {
		return geom.InvalidNode, fmt.Errorf("unexpected token %q after complete region", p.toks[p.pos])
	}
	return node, nil
}

type surfaceNodeFn func(surfaceID, sense int) geom.NodeID

type regionParser struct {
	toks   []string
	pos    int
	g      *Geometry
	surfFn surfaceNodeFn
}

func tokenizeRegion(region string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range region {
		switch r {
		case '|', '(', ')', '~', '&':
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
	for p.peek() == "|" {
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
		if tok == "&" {
			p.pos++
			continue
		}
		if tok == "" || tok == "|" || tok == ")" {
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
		return geom.InvalidNode, fmt.Errorf("unexpected end of region")
	case tok == "~":
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
