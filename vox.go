package courtside

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	VOXMagicNumber = "VOX "
)

var ErrNotVoxFile = errors.New("not a valid VOX file")

type Voxel struct {
	X, Y, Z, ColorIndex byte
}

type VoxModel struct {
	SizeX, SizeY, SizeZ uint32
	Voxels              []Voxel
}

type VoxPalette [256][4]byte // RGBA colors

type VoxFile struct {
	Version int
	Models  []VoxModel
	Palette VoxPalette
}

func LoadVoxFile(filename string) (*VoxFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	vf, err := DecodeVox(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return vf, nil
}

// DecodeVox reads a MagicaVoxel file. Only geometry (SIZE, XYZI) and the
// palette (RGBA) are kept; other chunks are skipped.
func DecodeVox(r io.Reader) (*VoxFile, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotVoxFile, err)
	}
	if string(magic[:]) != VOXMagicNumber {
		return nil, ErrNotVoxFile
	}

	var version int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}

	voxFile := &VoxFile{
		Version: int(version),
		Palette: defaultPalette(),
	}

	// MAIN carries no content of its own; its children follow inline, so
	// reading chunk headers flat visits every chunk.
	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(r, chunkID[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("reading chunk id: %w", err)
		}

		var header [2]int32
		if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
			return nil, fmt.Errorf("chunk %s: %w", chunkID[:], err)
		}
		chunkSize := header[0]
		if chunkSize < 0 {
			return nil, fmt.Errorf("chunk %s: negative size %d", chunkID[:], chunkSize)
		}

		chunkData := make([]byte, chunkSize)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return nil, fmt.Errorf("chunk %s: %w", chunkID[:], err)
		}

		switch string(chunkID[:]) {
		case "SIZE":
			if len(chunkData) < 12 {
				return nil, errors.New("SIZE chunk too small")
			}
			voxFile.Models = append(voxFile.Models, VoxModel{
				SizeX: binary.LittleEndian.Uint32(chunkData[0:4]),
				SizeY: binary.LittleEndian.Uint32(chunkData[4:8]),
				SizeZ: binary.LittleEndian.Uint32(chunkData[8:12]),
			})
		case "XYZI":
			if len(voxFile.Models) == 0 {
				return nil, errors.New("XYZI chunk before SIZE")
			}
			if len(chunkData) < 4 {
				return nil, errors.New("XYZI chunk too small")
			}
			model := &voxFile.Models[len(voxFile.Models)-1]
			numVoxels := int(binary.LittleEndian.Uint32(chunkData[:4]))
			if 4+numVoxels*4 > len(chunkData) {
				return nil, errors.New("XYZI chunk data overflow")
			}
			model.Voxels = make([]Voxel, numVoxels)
			for i := range model.Voxels {
				offset := 4 + i*4
				model.Voxels[i] = Voxel{
					X:          chunkData[offset],
					Y:          chunkData[offset+1],
					Z:          chunkData[offset+2],
					ColorIndex: chunkData[offset+3],
				}
			}
		case "RGBA":
			// Entry i of the chunk is palette index i+1.
			for i := 0; i < 255 && i*4+3 < len(chunkData); i++ {
				copy(voxFile.Palette[i+1][:], chunkData[i*4:i*4+4])
			}
		}
	}

	if len(voxFile.Models) == 0 {
		return nil, errors.New("VOX file has no models")
	}
	return voxFile, nil
}

func defaultPalette() VoxPalette {
	var palette VoxPalette
	for i := range palette {
		palette[i] = [4]uint8{255, 255, 255, 255} // white as fallback
	}
	return palette
}

// SphereVoxModel voxelizes a sphere of the given radius in voxels.
func SphereVoxModel(radius int, color byte) VoxModel {
	size := uint32(radius*2 + 1)
	r2 := radius * radius
	var voxels []Voxel
	for x := -radius; x <= radius; x++ {
		for y := -radius; y <= radius; y++ {
			for z := -radius; z <= radius; z++ {
				if x*x+y*y+z*z <= r2 {
					voxels = append(voxels, Voxel{
						X:          byte(x + radius),
						Y:          byte(y + radius),
						Z:          byte(z + radius),
						ColorIndex: color,
					})
				}
			}
		}
	}
	return VoxModel{SizeX: size, SizeY: size, SizeZ: size, Voxels: voxels}
}

// RingVoxModel voxelizes a flat ring in the XZ plane, the shape of a hoop
// rim. Sizes are in voxels.
func RingVoxModel(outer, inner int, color byte) VoxModel {
	size := uint32(outer*2 + 1)
	var voxels []Voxel
	for x := -outer; x <= outer; x++ {
		for z := -outer; z <= outer; z++ {
			d2 := x*x + z*z
			if d2 <= outer*outer && d2 >= inner*inner {
				voxels = append(voxels, Voxel{
					X:          byte(x + outer),
					Y:          0,
					Z:          byte(z + outer),
					ColorIndex: color,
				})
			}
		}
	}
	return VoxModel{SizeX: size, SizeY: 1, SizeZ: size, Voxels: voxels}
}
