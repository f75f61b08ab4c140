// Copyright 2025 Poiesic Systems
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
	"github.com/poiesic/docpipe/core"
)

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalProgress serializes a Progress snapshot to bytes.
func MarshalProgress(progress core.Progress) []byte {
	buf := make([]byte, core.ProgressMUS.Size(progress))
	core.ProgressMUS.Marshal(progress, buf)
	return buf
}

// UnmarshalProgress deserializes a Progress snapshot from bytes.
func UnmarshalProgress(data []byte) (core.Progress, error) {
	progress, _, err := core.ProgressMUS.Unmarshal(data)
	if err != nil {
		return core.Progress{}, err
	}
	return progress, nil
}
