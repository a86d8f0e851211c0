package shape

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrUnknownKind = errors.New("unknown shape kind")
)

// Wire layouts per kind. The discriminator lives in the "type" field.
type rectJSON struct {
	Type   Kind    `json:"type"`
	ID     string  `json:"id,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type circleJSON struct {
	Type    Kind    `json:"type"`
	ID      string  `json:"id,omitempty"`
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Radius  float64 `json:"radius"`
}

type pencilJSON struct {
	Type        Kind    `json:"type"`
	ID          string  `json:"id,omitempty"`
	Points      []Point `json:"points"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	StrokeColor string  `json:"strokeColor,omitempty"`
}

// MarshalShape encodes a shape as a tagged JSON object.
func MarshalShape(s Shape) ([]byte, error) {
	switch v := s.(type) {
	case Rect:
		return json.Marshal(rectJSON{Type: KindRect, ID: v.ID, X: v.X, Y: v.Y, Width: v.Width, Height: v.Height})
	case Circle:
		return json.Marshal(circleJSON{Type: KindCircle, ID: v.ID, CenterX: v.CenterX, CenterY: v.CenterY, Radius: v.Radius})
	case Pencil:
		return json.Marshal(pencilJSON{Type: KindPencil, ID: v.ID, Points: v.Points, StrokeWidth: v.StrokeWidth, StrokeColor: v.StrokeColor})
	}

	return nil, fmt.Errorf("%w: %T", ErrUnknownKind, s)
}

// UnmarshalShape decodes a tagged JSON object into a shape.
func UnmarshalShape(data []byte) (Shape, error) {
	var probe struct {
		Type Kind `json:"type"`
	}

	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	switch probe.Type {
	case KindRect:
		var v rectJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}

		return Rect{ID: v.ID, X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}, nil
	case KindCircle:
		var v circleJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}

		return Circle{ID: v.ID, CenterX: v.CenterX, CenterY: v.CenterY, Radius: v.Radius}, nil
	case KindPencil:
		var v pencilJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}

		return Pencil{ID: v.ID, Points: v.Points, StrokeWidth: v.StrokeWidth, StrokeColor: v.StrokeColor}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, probe.Type)
}
