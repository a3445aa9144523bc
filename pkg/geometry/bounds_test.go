package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(-1, 5, 0))

	expectedMin := NewVector3(-1, 2, 0)
	expectedMax := NewVector3(1, 5, 3)

	if bbox.Min != expectedMin {
		t.Errorf("Min failed: expected %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max != expectedMax {
		t.Errorf("Max failed: expected %v, got %v", expectedMax, bbox.Max)
	}
}

func TestBoundingBoxSinglePoint(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(2, 2, 2))

	if bbox.Min != bbox.Max {
		t.Errorf("single point box should degenerate to a point, got min=%v max=%v", bbox.Min, bbox.Max)
	}
	if !bbox.Size().IsZero() {
		t.Errorf("single point box should have zero size, got %v", bbox.Size())
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(4, 2, 6))

	expected := NewVector3(2, 1, 3)
	if bbox.Center() != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, bbox.Center())
	}
}

func TestBoundingBoxTranslated(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(1, 1, 1))
	bbox.Extend(NewVector3(3, 3, 3))

	moved := bbox.Translated(NewVector3(-2, -2, -2))

	if moved.Min != NewVector3(-1, -1, -1) || moved.Max != NewVector3(1, 1, 1) {
		t.Errorf("Translated failed: got min=%v max=%v", moved.Min, moved.Max)
	}
	// Size is translation-invariant
	if moved.Size() != bbox.Size() {
		t.Errorf("size changed under translation: %v vs %v", moved.Size(), bbox.Size())
	}
}

func TestBoundingBoxDiagonal(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(3, 4, 0))

	if math.Abs(bbox.Diagonal()-5.0) > 1e-10 {
		t.Errorf("Diagonal failed: expected 5.0, got %v", bbox.Diagonal())
	}
}
