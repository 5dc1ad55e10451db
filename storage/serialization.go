// Copyright 2026 Latforge Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/latforge/sondeo/core"
)

// MarshalVectorRecord serializes a VectorRecord to bytes.
func MarshalVectorRecord(record *core.VectorRecord) []byte {
	buf := make([]byte, core.VectorRecordMUS.Size(*record))
	core.VectorRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalVectorRecord deserializes a VectorRecord from bytes.
func UnmarshalVectorRecord(data []byte) (*core.VectorRecord, error) {
	record, _, err := core.VectorRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalMetadata serializes a Metadata to bytes.
func MarshalMetadata(metadata *core.Metadata) []byte {
	buf := make([]byte, core.MetadataMUS.Size(*metadata))
	core.MetadataMUS.Marshal(*metadata, buf)
	return buf
}

// UnmarshalMetadata deserializes a Metadata from bytes.
func UnmarshalMetadata(data []byte) (*core.Metadata, error) {
	metadata, _, err := core.MetadataMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &metadata, nil
}
