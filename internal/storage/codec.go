package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
)

// ErrChecksum is returned when a decoded record doesn't match its checksum
var ErrChecksum = errors.New("record checksum mismatch")

// Codec is responsible for encoding and decoding records shipped between stores
type Codec struct{}

// Record layout, all integers big endian:
//
//	total length  uint32, counts everything after itself
//	key length    uint32
//	key
//	type          int8
//	value length  uint32, updates only
//	value         updates only
//	checksum      crc32 (IEEE) of key length through value
const (
	lengthSize = 4
	typeSize   = 1
	minBody    = lengthSize + typeSize + crc32.Size
)

// Encode returns the byte representation of record
func (c *Codec) Encode(record *Record) ([]byte, error) {
	keyLen, err := fieldLength("key", uint64(len(record.Key)))
	if err != nil {
		return nil, err
	}

	bodyLen := uint64(lengthSize + len(record.Key) + typeSize)
	if record.Type == RecordUpdate {
		bodyLen += uint64(lengthSize + len(record.Value))
	}

	totalLen, err := fieldLength("record", bodyLen+crc32.Size)
	if err != nil {
		return nil, err
	}

	out := make([]byte, lengthSize, lengthSize+int(totalLen))
	binary.BigEndian.PutUint32(out, totalLen)

	out = binary.BigEndian.AppendUint32(out, keyLen)
	out = append(out, record.Key...)
	out = append(out, byte(record.Type))

	switch record.Type {
	case RecordDelete:
	case RecordUpdate:
		valueLen, err := fieldLength("value", uint64(len(record.Value)))
		if err != nil {
			return nil, err
		}
		out = binary.BigEndian.AppendUint32(out, valueLen)
		out = append(out, record.Value...)
	default:
		return nil, fmt.Errorf("cannot encode record type %d for key %q", record.Type, record.Key)
	}

	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(out[lengthSize:])), nil
}

// fieldLength narrows n to the uint32 the record layout stores it in
func fieldLength(field string, n uint64) (uint32, error) {
	if n > math.MaxUint32 {
		return 0, fmt.Errorf("%s length %d exceeds the maximum of %d bytes", field, n, uint64(math.MaxUint32))
	}

	return uint32(n), nil
}

// Decode decodes a single encoded record
func (c *Codec) Decode(record []byte) (*Record, error) {
	return c.DecodeFromReader(bytes.NewReader(record))
}

// DecodeFromReader reads the next record from reader. Returns io.EOF, unwrapped,
// if reader is exhausted before the first byte of a record
func (c *Codec) DecodeFromReader(reader io.Reader) (*Record, error) {
	var totalLen uint32
	if err := binary.Read(reader, binary.BigEndian, &totalLen); err == io.EOF {
		return nil, io.EOF
	} else if err != nil {
		return nil, fmt.Errorf("failed to read record length: %w", err)
	}

	if totalLen < minBody {
		return nil, fmt.Errorf("record length %d is shorter than the minimum record", totalLen)
	}

	data := make([]byte, totalLen)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("failed to read record of length %d: %w", totalLen, unexpectedEOF(err))
	}

	body := data[:totalLen-crc32.Size]
	expectedChecksum := binary.BigEndian.Uint32(data[totalLen-crc32.Size:])

	if actualChecksum := crc32.ChecksumIEEE(body); actualChecksum != expectedChecksum {
		return nil, fmt.Errorf("expected=%d, actual=%d: %w", expectedChecksum, actualChecksum, ErrChecksum)
	}

	record, err := decodeBody(bytes.NewReader(body))
	if err != nil {
		return nil, unexpectedEOF(err)
	}

	return record, nil
}

// decodeBody parses a checksummed body. The body must be consumed exactly
func decodeBody(body *bytes.Reader) (*Record, error) {
	var keyLen uint32
	if err := binary.Read(body, binary.BigEndian, &keyLen); err != nil {
		return nil, fmt.Errorf("failed to read key length: %w", err)
	}

	if int64(keyLen) > int64(body.Len()) {
		return nil, fmt.Errorf("key length %d overruns record body: %w", keyLen, io.ErrUnexpectedEOF)
	}

	key := make([]byte, keyLen)
	if _, err := io.ReadFull(body, key); err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}

	var rawType int8
	if err := binary.Read(body, binary.BigEndian, &rawType); err != nil {
		return nil, fmt.Errorf("failed to read record type: %w", err)
	}

	record := &Record{Key: key, Type: RecordType(rawType)}
	switch record.Type {
	case RecordDelete:
	case RecordUpdate:
		var valueLen uint32
		if err := binary.Read(body, binary.BigEndian, &valueLen); err != nil {
			return nil, fmt.Errorf("failed to read value length: %w", err)
		}

		if int64(valueLen) > int64(body.Len()) {
			return nil, fmt.Errorf("value length %d overruns record body: %w", valueLen, io.ErrUnexpectedEOF)
		}

		record.Value = make([]byte, valueLen)
		if _, err := io.ReadFull(body, record.Value); err != nil {
			return nil, fmt.Errorf("failed to read value: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown record type %d for key %q", rawType, key)
	}

	if body.Len() != 0 {
		return nil, fmt.Errorf("%d unexpected trailing bytes after record for key %q", body.Len(), key)
	}

	return record, nil
}

// unexpectedEOF reports a record that ends early as io.ErrUnexpectedEOF so
// that it can't be confused with a stream that ended between records
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", err.Error(), io.ErrUnexpectedEOF)
	}

	return err
}
