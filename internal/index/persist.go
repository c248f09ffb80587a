package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// On-disk layout: 8-byte magic, uint32 dimension, uint32 count, then
// count*dimension little-endian float32 values. The blob is opaque to every
// other component; only Save and Load know the layout.
var fileMagic = [8]byte{'S', 'B', 'F', 'L', 'A', 'T', '0', '1'}

// Save writes the index to path.
func (f *Flat) Save(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	if _, err := w.Write(fileMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(f.dim)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(f.vectors))); err != nil {
		return err
	}
	var buf [4]byte
	for _, vec := range f.vectors {
		for _, x := range vec {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(x))
			if _, err := w.Write(buf[:]); err != nil {
				return err
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return out.Sync()
}

// Load reads an index previously written by Save.
func Load(path string) (*Flat, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	r := bufio.NewReader(in)
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("read index header: %w", err)
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("%s: not an index file", path)
	}
	var dim, count uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read index header: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read index header: %w", err)
	}
	if dim == 0 || count == 0 {
		return nil, fmt.Errorf("%s: empty index", path)
	}
	vectors := make([][]float32, count)
	raw := make([]byte, 4*dim)
	for i := range vectors {
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("read vector %d: %w", i, err)
		}
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*j:]))
		}
		vectors[i] = vec
	}
	return &Flat{dim: int(dim), vectors: vectors}, nil
}
