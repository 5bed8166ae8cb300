package s57

import (
	"testing"

	"github.com/oceanic-charts/s57/pkg/catalog"
)

func featureAt(id int64, acronym string, lat, lon float64, objnam string) *Feature {
	attrs := map[string]catalog.DecodedValue{}
	if objnam != "" {
		attrs["OBJNAM"] = catalog.DecodedValue{Kind: catalog.KindString, Str: objnam}
	}
	return &Feature{
		RecordID:    id,
		FeatureType: catalog.ObjectClass{Acronym: acronym},
		Attributes:  attrs,
		Coordinates: []LatLon{{Lat: lat, Lon: lon}},
	}
}

func testParsedData(features []*Feature) *ParsedData {
	return &ParsedData{features: features, index: buildSpatialIndex(features)}
}

func TestFindFeaturesTypeFilter(t *testing.T) {
	p := testParsedData([]*Feature{
		featureAt(1, "LIGHTS", 10, 10, ""),
		featureAt(2, "BOYCAR", 20, 20, ""),
	})
	got := p.FindFeatures(FindFilters{Types: []string{"lights"}})
	if len(got) != 1 || got[0].RecordID != 1 {
		t.Fatalf("expected only feature 1, got %+v", got)
	}
}

func TestFindFeaturesBoundsFilter(t *testing.T) {
	p := testParsedData([]*Feature{
		featureAt(1, "LIGHTS", 10, 10, ""),
		featureAt(2, "LIGHTS", 50, 50, ""),
	})
	got := p.FindFeatures(FindFilters{Bounds: &Bounds{North: 15, South: 5, East: 15, West: 5}})
	if len(got) != 1 || got[0].RecordID != 1 {
		t.Fatalf("expected only feature 1 inside bounds, got %+v", got)
	}
}

func TestFindFeaturesTextQueryCaseInsensitive(t *testing.T) {
	p := testParsedData([]*Feature{
		featureAt(1, "LIGHTS", 10, 10, "Boston Light"),
		featureAt(2, "LIGHTS", 20, 20, "Provincetown Light"),
		featureAt(3, "LIGHTS", 30, 30, ""),
	})
	got := p.FindFeatures(FindFilters{TextQuery: "boston"})
	if len(got) != 1 || got[0].RecordID != 1 {
		t.Fatalf("expected only feature 1 to match text query, got %+v", got)
	}
}

func TestFindFeaturesDeterministicOrderAndLimit(t *testing.T) {
	p := testParsedData([]*Feature{
		featureAt(3, "LIGHTS", 10, 10, ""),
		featureAt(1, "LIGHTS", 10, 10, ""),
		featureAt(2, "LIGHTS", 10, 10, ""),
	})
	got := p.FindFeatures(FindFilters{Limit: 2})
	if len(got) != 2 || got[0].RecordID != 1 || got[1].RecordID != 2 {
		t.Fatalf("expected ascending RecordID order limited to 2, got %+v", got)
	}
}

func TestFindFeaturesCombinedFiltersAND(t *testing.T) {
	p := testParsedData([]*Feature{
		featureAt(1, "LIGHTS", 10, 10, "Boston Light"),
		featureAt(2, "BOYCAR", 10, 10, "Boston Buoy"),
	})
	got := p.FindFeatures(FindFilters{Types: []string{"LIGHTS"}, TextQuery: "boston"})
	if len(got) != 1 || got[0].RecordID != 1 {
		t.Fatalf("expected only feature 1 to satisfy both filters, got %+v", got)
	}
}
