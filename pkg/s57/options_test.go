package s57

import "testing"

func TestParseOptionDefaults(t *testing.T) {
	cfg := defaultParseConfig()
	if !cfg.validateGeometry {
		t.Error("expected validateGeometry to default true")
	}
	if cfg.checkSelfIntersection {
		t.Error("expected checkSelfIntersection to default false")
	}
	if cfg.objectClassFilter != nil {
		t.Error("expected no object class filter by default")
	}
}

func TestWithObjectClassFilterUppercasesAndResets(t *testing.T) {
	cfg := defaultParseConfig()
	WithObjectClassFilter([]string{"depcnt", "Soundg"})(&cfg)
	if !cfg.objectClassFilter["DEPCNT"] || !cfg.objectClassFilter["SOUNDG"] {
		t.Fatalf("expected both acronyms uppercased in filter, got %+v", cfg.objectClassFilter)
	}
	WithObjectClassFilter(nil)(&cfg)
	if cfg.objectClassFilter != nil {
		t.Fatal("expected empty filter list to clear the filter")
	}
}

func TestWithStrictModeAndThreshold(t *testing.T) {
	cfg := defaultParseConfig()
	WithStrictMode(true)(&cfg)
	WithWarningThreshold(5)(&cfg)
	if !cfg.strictMode || cfg.warningThreshold != 5 {
		t.Fatalf("expected strictMode=true threshold=5, got %+v", cfg)
	}
}
