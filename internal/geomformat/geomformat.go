// Package geomformat sniffs which geometry format a file is written in,
// so the right parser (internal/mcnpfmt or internal/openmcfmt) can be
// selected.
package geomformat

import (
	"bytes"
	"strings"
)

// Format identifies a supported geometry input format.
type Format int

const (
	Unknown Format = iota
	MCNP
	OpenMC
)

func (f Format) String() string {
	switch f {
	case MCNP:
		return "mcnp"
	case OpenMC:
		return "openmc"
	default:
		return "unknown"
	}
}

// Detect determines a file's format, preferring its extension and
// falling back to sniffing its content. path may be empty, in which
// case only content sniffing is used; data may be nil, in which case
// only the extension is used. If neither yields an answer, MCNP is
// assumed (matching the original tool's "default to MCNP for unknown
// extensions" behavior).
func Detect(path string, data []byte) Format {
	if path != "" {
		if strings.HasSuffix(path, ".xml") {
			return OpenMC
		}
		if strings.HasSuffix(path, ".inp") ||
			strings.HasSuffix(path, ".i") ||
			strings.HasSuffix(path, ".mcnp") {
			return MCNP
		}
	}

	if len(data) > 5 {
		p := bytes.TrimLeft(data, " \t\n\r")
		if bytes.HasPrefix(p, []byte("<?xml")) {
			return OpenMC
		}
		if len(p) > 0 && p[0] == '<' {
			return OpenMC
		}
	}

	return MCNP
}
