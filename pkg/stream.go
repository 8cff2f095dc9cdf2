package pkg

import (
	"fmt"
	"io"

	"github.com/nbroyles/nbkv/internal/storage"
)

// Export writes every record in [start, end), tombstones included, to w.
// Returns the number of records written
func (d *DB) Export(w io.Writer, start []byte, end []byte) (int, error) {
	records := d.memTable.Snapshot(storage.KeyRange{Start: start, End: end})

	for i, rec := range records {
		data, err := d.codec.Encode(rec)
		if err != nil {
			return i, fmt.Errorf("could not encode record for key %s: %w", string(rec.Key), err)
		}

		if n, err := w.Write(data); err != nil {
			return i, fmt.Errorf("failure writing export stream: %w", err)
		} else if n != len(data) {
			return i, fmt.Errorf("failed to write all bytes to export stream. n=%d, expected=%d", n, len(data))
		}
	}

	d.metrics.Op("export")
	d.logger.Debugf("exported %d records", len(records))

	return len(records), nil
}

// Apply reads records written by Export from r until EOF and applies them in
// order. Records applied before an error stay applied. Returns the number of
// records applied
func (d *DB) Apply(r io.Reader) (int, error) {
	applied := 0
	for {
		// Only a bare io.EOF marks the end of the stream. A record cut short
		// comes back as io.ErrUnexpectedEOF
		rec, err := d.codec.DecodeFromReader(r)
		if err == io.EOF {
			break
		} else if err != nil {
			return applied, fmt.Errorf("failed decoding record %d of stream: %w", applied, err)
		}

		if rec.IsTombstone() {
			d.Delete(rec.Key)
		} else {
			d.Put(rec.Key, rec.Value)
		}
		applied++
	}

	d.logger.Debugf("applied %d records", applied)

	return applied, nil
}
