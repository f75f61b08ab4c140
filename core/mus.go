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


package core

import (
	"time"

	mus "github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the record types persisted in the metadata store.
// Field order is part of the storage format and must not change.
var (
	// DocumentMUS serializes Document records.
	DocumentMUS = documentMUS{tags: ord.NewSliceSer[string](ord.String)}

	// ProgressMUS serializes Progress records.
	ProgressMUS = progressMUS{}
)

type documentMUS struct {
	tags mus.Serializer[[]string]
}

// Marshal writes doc into bs and returns the number of bytes written.
// bs must be at least Size(doc) bytes long.
func (s documentMUS) Marshal(doc Document, bs []byte) (n int) {
	n = ord.String.Marshal(doc.ID, bs)
	n += ord.String.Marshal(doc.TenantID, bs[n:])
	n += ord.String.Marshal(doc.FilePath, bs[n:])
	n += ord.String.Marshal(string(doc.Status), bs[n:])
	n += varint.Int.Marshal(doc.TotalChunks, bs[n:])
	n += ord.String.Marshal(doc.ErrorMessage, bs[n:])
	n += ord.String.Marshal(doc.Title, bs[n:])
	n += ord.String.Marshal(doc.Filename, bs[n:])
	n += ord.String.Marshal(doc.Author, bs[n:])
	n += s.tags.Marshal(doc.Tags, bs[n:])
	n += ord.String.Marshal(doc.DocumentType, bs[n:])
	n += ord.String.Marshal(doc.UploadedBy, bs[n:])
	n += varint.Int64.Marshal(doc.CreatedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(doc.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

// Unmarshal reads a Document from bs.
func (s documentMUS) Unmarshal(bs []byte) (doc Document, n int, err error) {
	var n1 int
	if doc.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if doc.TenantID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if doc.FilePath, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var status string
	if status, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	doc.Status = ProcessingStatus(status)
	if doc.TotalChunks, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if doc.ErrorMessage, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if doc.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if doc.Filename, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if doc.Author, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if doc.Tags, n1, err = s.tags.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if doc.DocumentType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if doc.UploadedBy, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var createdAt, updatedAt int64
	if createdAt, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if updatedAt, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	doc.CreatedAt = time.UnixMicro(createdAt).UTC()
	doc.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return
}

// Size returns the serialized size of doc in bytes.
func (s documentMUS) Size(doc Document) (size int) {
	size = ord.String.Size(doc.ID)
	size += ord.String.Size(doc.TenantID)
	size += ord.String.Size(doc.FilePath)
	size += ord.String.Size(string(doc.Status))
	size += varint.Int.Size(doc.TotalChunks)
	size += ord.String.Size(doc.ErrorMessage)
	size += ord.String.Size(doc.Title)
	size += ord.String.Size(doc.Filename)
	size += ord.String.Size(doc.Author)
	size += s.tags.Size(doc.Tags)
	size += ord.String.Size(doc.DocumentType)
	size += ord.String.Size(doc.UploadedBy)
	size += varint.Int64.Size(doc.CreatedAt.UnixMicro())
	size += varint.Int64.Size(doc.UpdatedAt.UnixMicro())
	return size
}

type progressMUS struct{}

// Marshal writes progress into bs and returns the number of bytes written.
func (progressMUS) Marshal(progress Progress, bs []byte) (n int) {
	n = varint.Int.Marshal(progress.Percent, bs)
	n += ord.String.Marshal(progress.Step, bs[n:])
	n += ord.String.Marshal(progress.Error, bs[n:])
	return n
}

// Unmarshal reads a Progress from bs.
func (progressMUS) Unmarshal(bs []byte) (progress Progress, n int, err error) {
	var n1 int
	if progress.Percent, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	if progress.Step, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if progress.Error, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

// Size returns the serialized size of progress in bytes.
func (progressMUS) Size(progress Progress) (size int) {
	size = varint.Int.Size(progress.Percent)
	size += ord.String.Size(progress.Step)
	size += ord.String.Size(progress.Error)
	return size
}
