package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/meshvault/pkg/geometry"
)

// ErrMalformedMesh indicates structurally invalid STL bytes. Decoding never
// returns partial geometry: a truncated or inconsistent buffer fails as a whole.
var ErrMalformedMesh = errors.New("malformed mesh data")

const (
	binaryHeaderSize = 80
	// normal + 3 vertices (12 float32) + attribute byte count
	binaryRecordSize = 50
)

// Decode parses an STL buffer and returns a Model.
// It automatically detects whether the buffer is ASCII or binary format.
func Decode(data []byte) (*Model, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrMalformedMesh)
	}

	// Binary detection cannot rely on the "solid" prefix alone: binary files
	// written by some exporters start with "solid" too. The buffer is binary
	// exactly when the declared triangle count matches the byte length.
	if len(data) >= binaryHeaderSize+4 {
		count := binary.LittleEndian.Uint32(data[binaryHeaderSize:])
		expected := uint64(binaryHeaderSize) + 4 + uint64(count)*binaryRecordSize
		if uint64(len(data)) == expected {
			return decodeBinary(data, count)
		}
	}

	if bytes.HasPrefix(bytes.TrimLeft(data, " \t"), []byte("solid")) {
		return decodeASCII(data)
	}

	return nil, fmt.Errorf("%w: buffer is neither valid binary nor ASCII STL", ErrMalformedMesh)
}

// Parse reads an STL file from disk and decodes it.
func Parse(filename string) (*Model, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL file: %w", err)
	}
	return Decode(data)
}

// decodeBinary parses a binary STL buffer whose length has already been
// validated against the declared triangle count.
func decodeBinary(data []byte, count uint32) (*Model, error) {
	name := string(bytes.TrimRight(data[:binaryHeaderSize], "\x00 "))
	model := NewModel(name)

	r := bytes.NewReader(data[binaryHeaderSize+4:])
	for i := uint32(0); i < count; i++ {
		var record struct {
			Normal     [3]float32
			V1, V2, V3 [3]float32
			Attribute  uint16
		}
		if err := binary.Read(r, binary.LittleEndian, &record); err != nil {
			return nil, fmt.Errorf("%w: reading triangle %d: %v", ErrMalformedMesh, i, err)
		}

		model.AddTriangle(geometry.NewTriangle(
			vec3(record.Normal),
			vec3(record.V1),
			vec3(record.V2),
			vec3(record.V3),
		))
	}

	return model, nil
}

func vec3(v [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
}

// decodeASCII parses an ASCII STL buffer
func decodeASCII(data []byte) (*Model, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	model := NewModel("")

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3
	inFacet := false
	line := 0

	for scanner.Scan() {
		line++
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if inFacet {
				return nil, fmt.Errorf("%w: line %d: facet without endfacet", ErrMalformedMesh, line)
			}
			if len(fields) != 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("%w: line %d: expected 'facet normal nx ny nz'", ErrMalformedMesh, line)
			}
			normal, err := parseVector(fields[2:5])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedMesh, line, err)
			}
			currentNormal = normal
			inFacet = true
			vertices = vertices[:0]

		case "vertex":
			if !inFacet {
				return nil, fmt.Errorf("%w: line %d: vertex outside facet", ErrMalformedMesh, line)
			}
			if len(fields) != 4 {
				return nil, fmt.Errorf("%w: line %d: expected 'vertex x y z'", ErrMalformedMesh, line)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedMesh, line, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if !inFacet {
				return nil, fmt.Errorf("%w: line %d: endfacet without facet", ErrMalformedMesh, line)
			}
			if len(vertices) != 3 {
				return nil, fmt.Errorf("%w: line %d: facet has %d vertices, want 3", ErrMalformedMesh, line, len(vertices))
			}
			model.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			inFacet = false
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMesh, err)
	}
	if inFacet {
		return nil, fmt.Errorf("%w: unterminated facet at end of buffer", ErrMalformedMesh)
	}

	return model, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var coords [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid coordinate %q", f)
		}
		coords[i] = v
	}
	return geometry.NewVector3(coords[0], coords[1], coords[2]), nil
}
