/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package mapping

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"go.etcd.io/bbolt"

	"dirpx.dev/uix/apis"
	uref "dirpx.dev/uix/utils/reflect"
)

// DefaultBucket is the bbolt bucket used by BoltStore.
const DefaultBucket = "mappings"

// BoltStore persists a mapping table in a bbolt bucket. Entries are CBOR
// records keyed by their big-endian position, so a cursor walk returns them
// in table order.
type BoltStore struct {
	db     *bbolt.DB
	bucket []byte
}

// NewBoltStore returns a store over db. An empty bucket selects DefaultBucket.
func NewBoltStore(db *bbolt.DB, bucket string) *BoltStore {
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &BoltStore{db: db, bucket: []byte(bucket)}
}

// Save replaces the stored table with m.
func (s *BoltStore) Save(m apis.Mapping) error {
	entries := m.Entries()
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(s.bucket) != nil {
			if err := tx.DeleteBucket(s.bucket); err != nil {
				return fmt.Errorf("reset bucket %s: %w", s.bucket, err)
			}
		}
		b, err := tx.CreateBucket(s.bucket)
		if err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
		for i, e := range entries {
			name := e.TypeName
			if e.Type != nil {
				name = uref.QualifiedName(e.Type)
			}
			r := record{Type: name, Path: e.Path}
			if e.OnHide != apis.Inherit {
				r.OnHide = e.OnHide.String()
			}
			data, err := cbor.Marshal(r)
			if err != nil {
				return fmt.Errorf("marshal entry %d: %w", i, err)
			}
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, uint64(i))
			if err := b.Put(key, data); err != nil {
				return fmt.Errorf("put entry %d: %w", i, err)
			}
		}
		return nil
	})
}

// Load reads the stored table and binds it to types. A missing bucket
// yields an empty table.
func (s *BoltStore) Load(types ...reflect.Type) (*Table, error) {
	var records []record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var r record
			if err := cbor.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("%w: record %x: %w", ErrInvalidMapping, k, err)
			}
			records = append(records, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return fromRecords(records, types)
}
