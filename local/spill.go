package local

import (
	"encoding/gob"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	uuid "github.com/gofrs/uuid"
	"github.com/pierrec/lz4"
)

// spillRecord is the serialized form of one shuffled element
type spillRecord struct {
	Hash  uint64
	Key   interface{}
	Value interface{}
}

// registeredSpillTypes tracks which concrete types have been registered for
// gob transmission, as registration is global and must happen once
var registeredSpillTypes sync.Map

// registerSpillTypes makes the concrete types of the given values decodable
// from gob streams
func registerSpillTypes(vals ...interface{}) {
	for _, v := range vals {
		if v == nil {
			continue
		}
		t := reflect.TypeOf(v)
		if _, ok := registeredSpillTypes.Load(t); ok {
			continue
		}
		gob.Register(v)
		registeredSpillTypes.Store(t, struct{}{})
	}
}

// spillRun writes elems to a fresh lz4-compressed gob file in dir, returning
// its path
func spillRun(dir string, elems []routedKV) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID for spill run: %v", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("riffle-spill-%s", id.String()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("unable to create spill file %s: %w", path, err)
	}
	zw := lz4.NewWriter(f)
	enc := gob.NewEncoder(zw)
	for _, kv := range elems {
		registerSpillTypes(kv.key, kv.value)
		rec := spillRecord{Hash: kv.hash, Key: kv.key, Value: kv.value}
		if err = enc.Encode(&rec); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("unable to encode spill record: %w", err)
		}
	}
	if err = zw.Close(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("unable to finish spill file %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("unable to close spill file %s: %w", path, err)
	}
	return path, nil
}

// readSpillRun streams every record of a spill run back through fn
func readSpillRun(path string, fn func(rec spillRecord) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open spill file %s: %w", path, err)
	}
	defer f.Close()
	dec := gob.NewDecoder(lz4.NewReader(f))
	for {
		var rec spillRecord
		err = dec.Decode(&rec)
		if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("unable to decode spill record from %s: %w", path, err)
		}
		if err = fn(rec); err != nil {
			return err
		}
	}
}
