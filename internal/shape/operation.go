package shape

import (
	"encoding/json"
	"errors"
)

// Action identifies what an operation does to a room's shape sequence.
type Action string

const (
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
)

// Common errors.
var (
	ErrBadOperation = errors.New("malformed operation")
)

// Operation is the unit of synchronization carried inside a chat message.
// Adds carry the shape itself; deletes target the shape's stable ID. Deletes
// decoded from older logs may instead carry a positional index into the
// receiver's shape sequence.
type Operation struct {
	Action Action
	Shape  Shape

	// TargetID is the stable ID of the shape to delete.
	TargetID string

	// Index and HasIndex describe a legacy positional delete.
	Index    int
	HasIndex bool
}

// AddOp builds an add operation for a shape.
func AddOp(s Shape) Operation {
	return Operation{Action: ActionAdd, Shape: s}
}

// DeleteOp builds a delete operation targeting a shape by its stable ID.
func DeleteOp(id string) Operation {
	return Operation{Action: ActionDelete, TargetID: id}
}

// DeleteAtOp builds a positional delete for shapes that predate stable IDs.
func DeleteAtOp(index int) Operation {
	return Operation{Action: ActionDelete, Index: index, HasIndex: true}
}

type operationJSON struct {
	Action Action          `json:"action,omitempty"`
	Shape  json.RawMessage `json:"shape,omitempty"`
	ID     string          `json:"id,omitempty"`
	Index  *int            `json:"index,omitempty"`
}

// EncodeOperation serializes an operation to the string carried in a chat
// message's message field.
func EncodeOperation(op Operation) (string, error) {
	out := operationJSON{Action: op.Action, ID: op.TargetID}

	if op.Shape != nil {
		raw, err := MarshalShape(op.Shape)
		if err != nil {
			return "", err
		}

		out.Shape = raw
	}

	if op.HasIndex {
		idx := op.Index
		out.Index = &idx
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// DecodeOperation parses the message field of a chat message. Two legacy
// layouts are accepted: a delete carrying a positional index instead of a
// shape ID, and a bare {"shape": ...} object which is treated as an add.
func DecodeOperation(message string) (Operation, error) {
	var raw operationJSON
	if err := json.Unmarshal([]byte(message), &raw); err != nil {
		return Operation{}, err
	}

	switch raw.Action {
	case ActionDelete:
		if raw.ID != "" {
			return DeleteOp(raw.ID), nil
		}

		if raw.Index != nil {
			return DeleteAtOp(*raw.Index), nil
		}

		return Operation{}, ErrBadOperation
	case ActionAdd, "":
		// An empty action with a shape payload is the legacy add format.
		if len(raw.Shape) == 0 {
			return Operation{}, ErrBadOperation
		}

		s, err := UnmarshalShape(raw.Shape)
		if err != nil {
			return Operation{}, err
		}

		return AddOp(s), nil
	}

	return Operation{}, ErrBadOperation
}

// Apply returns the shape sequence after the operation. Apply is idempotent
// with respect to echoes: adding a shape whose ID is already present and
// deleting an ID that is absent both leave the sequence unchanged. Positional
// deletes outside the sequence bounds are dropped silently.
func Apply(shapes []Shape, op Operation) []Shape {
	switch op.Action {
	case ActionAdd:
		if op.Shape == nil {
			return shapes
		}

		if id := op.Shape.ShapeID(); id != "" && indexByID(shapes, id) >= 0 {
			return shapes
		}

		return append(shapes, op.Shape)
	case ActionDelete:
		if op.TargetID != "" {
			if i := indexByID(shapes, op.TargetID); i >= 0 {
				return removeAt(shapes, i)
			}

			return shapes
		}

		if op.HasIndex && op.Index >= 0 && op.Index < len(shapes) {
			return removeAt(shapes, op.Index)
		}

		return shapes
	}

	return shapes
}

func indexByID(shapes []Shape, id string) int {
	for i, s := range shapes {
		if s.ShapeID() == id {
			return i
		}
	}

	return -1
}

func removeAt(shapes []Shape, i int) []Shape {
	out := make([]Shape, 0, len(shapes)-1)
	out = append(out, shapes[:i]...)

	return append(out, shapes[i+1:]...)
}
