package types

import (
	"encoding/json"
	"math"
	"strconv"
)

// Point is a single (x, y) sample.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// SampleSet is an ordered run of points in ascending x together with the
// observed y bounds.
type SampleSet struct {
	Points []Point `json:"points" yaml:"points"`
	MinY   float64 `json:"minY" yaml:"minY"`
	MaxY   float64 `json:"maxY" yaml:"maxY"`
}

// Len returns the number of points.
func (s *SampleSet) Len() int {
	return len(s.Points)
}

// MarshalJSON implements json.Marshaler for Point.
// encoding/json rejects NaN and ±Inf, so those are written as the strings
// "NaN", "+Inf" and "-Inf".
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		X json.RawMessage `json:"x"`
		Y json.RawMessage `json:"y"`
	}{jsonFloat(p.X), jsonFloat(p.Y)})
}

// UnmarshalJSON implements json.Unmarshaler for Point.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw struct {
		X json.RawMessage `json:"x"`
		Y json.RawMessage `json:"y"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	x, err := parseJSONFloat(raw.X)
	if err != nil {
		return err
	}
	y, err := parseJSONFloat(raw.Y)
	if err != nil {
		return err
	}
	p.X, p.Y = x, y
	return nil
}

// MarshalJSON implements json.Marshaler for SampleSet.
func (s SampleSet) MarshalJSON() ([]byte, error) {
	points := s.Points
	if points == nil {
		points = []Point{}
	}
	return json.Marshal(struct {
		Points []Point         `json:"points"`
		MinY   json.RawMessage `json:"minY"`
		MaxY   json.RawMessage `json:"maxY"`
	}{points, jsonFloat(s.MinY), jsonFloat(s.MaxY)})
}

// UnmarshalJSON implements json.Unmarshaler for SampleSet.
func (s *SampleSet) UnmarshalJSON(data []byte) error {
	var raw struct {
		Points []Point         `json:"points"`
		MinY   json.RawMessage `json:"minY"`
		MaxY   json.RawMessage `json:"maxY"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	minY, err := parseJSONFloat(raw.MinY)
	if err != nil {
		return err
	}
	maxY, err := parseJSONFloat(raw.MaxY)
	if err != nil {
		return err
	}
	s.Points, s.MinY, s.MaxY = raw.Points, minY, maxY
	return nil
}

func jsonFloat(f float64) json.RawMessage {
	switch {
	case math.IsNaN(f):
		return json.RawMessage(`"NaN"`)
	case math.IsInf(f, 1):
		return json.RawMessage(`"+Inf"`)
	case math.IsInf(f, -1):
		return json.RawMessage(`"-Inf"`)
	}
	return json.RawMessage(strconv.FormatFloat(f, 'g', -1, 64))
}

func parseJSONFloat(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	err := json.Unmarshal(raw, &f)
	return f, err
}
