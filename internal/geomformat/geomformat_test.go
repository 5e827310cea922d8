package geomformat

import "testing"

func TestDetectByExtension(t *testing.T) {
	cases := map[string]Format{
		"model.xml":  OpenMC,
		"model.inp":  MCNP,
		"model.i":    MCNP,
		"model.mcnp": MCNP,
	}
	for path, want := range cases {
		if got := Detect(path, nil); got != want {
			t.Errorf("Detect(%q, nil) = %v, want %v", path, got, want)
		}
	}
}

func TestDetectByContentWhenExtensionUnknown(t *testing.T) {
	if got := Detect("model.dat", []byte("  \n<?xml version=\"1.0\"?><geometry/>")); got != OpenMC {
		t.Errorf("expected OpenMC sniff from leading <?xml, got %v", got)
	}
	if got := Detect("model.dat", []byte("<geometry/>")); got != OpenMC {
		t.Errorf("expected OpenMC sniff from leading '<', got %v", got)
	}
	if got := Detect("model.dat", []byte("c cell card\n1 0 -1\n")); got != MCNP {
		t.Errorf("expected MCNP default for plain text, got %v", got)
	}
}

func TestDetectDefaultsToMCNP(t *testing.T) {
	if got := Detect("", nil); got != MCNP {
		t.Errorf("Detect with no hints = %v, want MCNP default", got)
	}
}

func TestExtensionTakesPriorityOverContent(t *testing.T) {
	if got := Detect("model.inp", []byte("<?xml?>")); got != MCNP {
		t.Errorf("extension should win over content sniff, got %v", got)
	}
}
