package timeline

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"

	"github.com/matzehuels/timeruler/pkg/errors"
)

// Marshal encodes a snapshot as JSON.
func Marshal(d Data) ([]byte, error) {
	return sonic.Marshal(d)
}

// MarshalIndent encodes a snapshot as indented JSON.
func MarshalIndent(d Data) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(d, "", "  ")
}

// Unmarshal decodes and validates a JSON snapshot.
func Unmarshal(data []byte) (Data, error) {
	var d Data
	if err := sonic.Unmarshal(data, &d); err != nil {
		return Data{}, errors.Wrap(errors.ErrCodeInvalidData, err, "decode timeline")
	}
	if err := d.Validate(); err != nil {
		return Data{}, err
	}
	return d, nil
}

// Read decodes a snapshot from r.
func Read(r io.Reader) (Data, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Data{}, fmt.Errorf("read timeline: %w", err)
	}
	return Unmarshal(data)
}

// Write encodes a snapshot to w as indented JSON.
func Write(w io.Writer, d Data) error {
	data, err := MarshalIndent(d)
	if err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ReadDataFile loads a snapshot from a JSON file.
func ReadDataFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()
	d, err := Read(f)
	if err != nil {
		return Data{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// WriteDataFile writes a snapshot to a JSON file.
func WriteDataFile(path string, d Data) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, d); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
