package types_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/sandrolain/scoreplot/pkg/types"
)

func TestSampleSetJSONNonFinite(t *testing.T) {
	set := types.SampleSet{
		Points: []types.Point{
			{X: 0, Y: math.Inf(1)},
			{X: 1, Y: math.NaN()},
			{X: 2, Y: 0.5},
		},
		MinY: math.Inf(-1),
		MaxY: math.Inf(1),
	}

	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"points":[{"x":0,"y":"+Inf"},{"x":1,"y":"NaN"},{"x":2,"y":0.5}],"minY":"-Inf","maxY":"+Inf"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var back types.SampleSet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back.Len() != 3 || !math.IsInf(back.Points[0].Y, 1) || !math.IsNaN(back.Points[1].Y) || back.Points[2].Y != 0.5 {
		t.Errorf("Unmarshal() points = %v", back.Points)
	}
	if !math.IsInf(back.MinY, -1) || !math.IsInf(back.MaxY, 1) {
		t.Errorf("Unmarshal() bounds = [%v, %v]", back.MinY, back.MaxY)
	}
}

func TestSampleSetJSONEmpty(t *testing.T) {
	data, err := json.Marshal(types.SampleSet{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"points":[]`) {
		t.Errorf("Marshal() = %s, want an empty points array", data)
	}
}

func TestPointUnmarshalInvalid(t *testing.T) {
	var p types.Point
	if err := json.Unmarshal([]byte(`{"x":"abc","y":1}`), &p); err == nil {
		t.Error("expected error for a non-numeric string")
	}
}
