package pkg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"testing"

	"github.com/nbroyles/nbkv/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_ExportApply(t *testing.T) {
	eachBackend(t, func(t *testing.T, src *DB) {
		put(src, "apple", "red")
		put(src, "banana", "")
		del(src, "cherry")
		put(src, "date", "brown")
		put(src, "zebra", "out of range")

		buf := bytes.Buffer{}
		n, err := src.Export(&buf, []byte("a"), []byte("e"))
		require.NoError(t, err)
		assert.Equal(t, 4, n)

		dst := newTestDB(t, BackendSortedMap)
		put(dst, "cherry", "stale")

		applied, err := dst.Apply(&buf)
		require.NoError(t, err)
		assert.Equal(t, 4, applied)

		assertFound(t, dst, "apple", "red")
		assertFound(t, dst, "banana", "")
		assertStatus(t, dst, "cherry", Tombstoned)
		assertFound(t, dst, "date", "brown")
		assertStatus(t, dst, "zebra", Absent)
	})
}

func TestDB_ApplyEmptyStream(t *testing.T) {
	db := newTestDB(t, BackendSkipList)

	n, err := db.Apply(&bytes.Buffer{})
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDB_ApplyCorruptStream(t *testing.T) {
	src := newTestDB(t, BackendSkipList)
	put(src, "a", "1")
	put(src, "b", "2")

	buf := bytes.Buffer{}
	_, err := src.Export(&buf, nil, nil)
	require.NoError(t, err)

	data := buf.Bytes()
	binary.BigEndian.PutUint32(data[len(data)-4:], 12)

	dst := newTestDB(t, BackendSkipList)
	n, err := dst.Apply(bytes.NewReader(data))
	assert.ErrorIs(t, err, storage.ErrChecksum)
	assert.Equal(t, 1, n)
	assertFound(t, dst, "a", "1")
	assertStatus(t, dst, "b", Absent)
}

func TestDB_ApplyTruncatedStream(t *testing.T) {
	src := newTestDB(t, BackendSkipList)
	put(src, "a", "1")

	buf := bytes.Buffer{}
	_, err := src.Export(&buf, nil, nil)
	require.NoError(t, err)

	dst := newTestDB(t, BackendSkipList)
	_, err = dst.Apply(bytes.NewReader(buf.Bytes()[:buf.Len()-1]))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDB_ApplyShortRecordBody(t *testing.T) {
	// checksum is valid but the update stops before its value length
	body := binary.BigEndian.AppendUint32(nil, 1)
	body = append(body, 'k', byte(storage.RecordUpdate))

	stream := binary.BigEndian.AppendUint32(nil, uint32(len(body)+crc32.Size))
	stream = append(stream, body...)
	stream = binary.BigEndian.AppendUint32(stream, crc32.ChecksumIEEE(body))

	src := newTestDB(t, BackendSkipList)
	put(src, "z", "last")

	buf := bytes.NewBuffer(stream)
	_, err := src.Export(buf, nil, nil)
	require.NoError(t, err)

	eachBackend(t, func(t *testing.T, dst *DB) {
		n, err := dst.Apply(bytes.NewReader(buf.Bytes()))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Equal(t, 0, n)
		assertStatus(t, dst, "k", Absent)
		assertStatus(t, dst, "z", Absent)
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestDB_ExportWriteError(t *testing.T) {
	db := newTestDB(t, BackendSkipList)
	put(db, "a", "1")

	n, err := db.Export(failingWriter{}, nil, nil)
	assert.EqualError(t, err, "failure writing export stream: disk on fire")
	assert.Equal(t, 0, n)
}
