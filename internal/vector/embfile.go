package vector

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/x448/float16"
)

// WriteEmbeddings stores x as consecutive little-endian rows with no header, the layout LASER
// tooling uses for .bin embedding files. Values are float32, or IEEE half precision when fp16
// is true. Parent directories are created if needed.
func WriteEmbeddings(path string, x [][]float32, fp16 bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create embedding dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create embedding file: %w", err)
	}
	w := bufio.NewWriter(f)
	encode := float32SliceToBytes
	if fp16 {
		encode = float32SliceToHalfBytes
	}
	for i, row := range x {
		if _, err := w.Write(encode(row)); err != nil {
			f.Close()
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush embedding file: %w", err)
	}
	return f.Close()
}

// ReadEmbeddings loads a headerless embedding file of dim-wide rows. When fp16 is true the rows
// are IEEE half-precision values, otherwise float32. The file size must be a multiple of the row size.
func ReadEmbeddings(path string, dim int, fp16 bool) ([][]float32, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read embedding file: %w", err)
	}
	elem := 4
	if fp16 {
		elem = 2
	}
	rowBytes := dim * elem
	if len(data)%rowBytes != 0 {
		return nil, fmt.Errorf("%w: %s has %d bytes, not a multiple of %d (dim %d)", ErrShapeMismatch, path, len(data), rowBytes, dim)
	}
	n := len(data) / rowBytes
	out := make([][]float32, n)
	for i := 0; i < n; i++ {
		chunk := data[i*rowBytes : (i+1)*rowBytes]
		if fp16 {
			out[i] = halfBytesToFloat32Slice(chunk)
		} else {
			out[i] = bytesToFloat32Slice(chunk)
		}
	}
	return out, nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}

func float32SliceToHalfBytes(s []float32) []byte {
	out := make([]byte, len(s)*2)
	for i, v := range s {
		binary.LittleEndian.PutUint16(out[i*2:(i+1)*2], float16.Fromfloat32(v).Bits())
	}
	return out
}

func halfBytesToFloat32Slice(b []byte) []float32 {
	out := make([]float32, len(b)/2)
	for i := range out {
		out[i] = float16.Frombits(binary.LittleEndian.Uint16(b[i*2 : (i+1)*2])).Float32()
	}
	return out
}
