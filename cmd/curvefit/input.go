package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"honnef.co/go/curvefit"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonPoint accepts a point either as a two-element array [x, y] or as an
// object {"x": x, "y": y}.
type jsonPoint curvefit.Point

func (p *jsonPoint) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errors.New("empty point")
	}
	switch b[0] {
	case '[':
		var xy []float64
		if err := json.Unmarshal(b, &xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("point has %d coordinates, want 2", len(xy))
		}
		p.X, p.Y = xy[0], xy[1]
		return nil
	case '{':
		var obj struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if obj.X == nil || obj.Y == nil {
			return errors.New("point object needs both x and y")
		}
		p.X, p.Y = *obj.X, *obj.Y
		return nil
	default:
		return fmt.Errorf("invalid point %s", b)
	}
}

func (p jsonPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// readPoints decodes a JSON array of points.
func readPoints(r io.Reader) ([]curvefit.Point, error) {
	var raw []jsonPoint
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("reading points: %w", err)
	}
	if raw == nil {
		return nil, errors.New("reading points: input is not an array")
	}
	pts := make([]curvefit.Point, len(raw))
	for i, p := range raw {
		pts[i] = curvefit.Point(p)
	}
	return pts, nil
}

// writePoints encodes points as a JSON array of [x, y] pairs.
func writePoints(w io.Writer, pts []curvefit.Point) error {
	out := make([]jsonPoint, len(pts))
	for i, p := range pts {
		out[i] = jsonPoint(p)
	}
	return json.NewEncoder(w).Encode(out)
}
