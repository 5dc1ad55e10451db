// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	sliceWrgΣ1i9FmFt7hZhbR1EGiwΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var FingerprintMUS = fingerprintMUS{}

type fingerprintMUS struct{}

func (s fingerprintMUS) Marshal(v Fingerprint, bs []byte) (n int) {
	return ord.String.Marshal(string(v), bs)
}

func (s fingerprintMUS) Unmarshal(bs []byte) (v Fingerprint, n int, err error) {
	tmp, n, err := ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v = Fingerprint(tmp)
	return
}

func (s fingerprintMUS) Size(v Fingerprint) (size int) {
	return ord.String.Size(string(v))
}

func (s fingerprintMUS) Skip(bs []byte) (n int, err error) {
	return ord.String.Skip(bs)
}

var MetadataMUS = metadataMUS{}

type metadataMUS struct{}

func (s metadataMUS) Marshal(v Metadata, bs []byte) (n int) {
	n = ord.String.Marshal(v.Provider, bs)
	n += ord.String.Marshal(v.Country, bs[n:])
	n += ord.String.Marshal(v.Region, bs[n:])
	n += ord.String.Marshal(v.Currency, bs[n:])
	n += ord.String.Marshal(v.Module, bs[n:])
	n += ord.String.Marshal(v.Price, bs[n:])
	n += varint.Int.Marshal(v.Confidence, bs[n:])
	n += ord.Bool.Marshal(v.Validated, bs[n:])
	n += ord.String.Marshal(v.SourceURL, bs[n:])
	n += ord.String.Marshal(v.SourceType, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CollectedAt, bs[n:])
}

func (s metadataMUS) Unmarshal(bs []byte) (v Metadata, n int, err error) {
	v.Provider, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Country, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Region, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Currency, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Module, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Price, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Confidence, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Validated, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SourceURL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SourceType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CollectedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s metadataMUS) Size(v Metadata) (size int) {
	size = ord.String.Size(v.Provider)
	size += ord.String.Size(v.Country)
	size += ord.String.Size(v.Region)
	size += ord.String.Size(v.Currency)
	size += ord.String.Size(v.Module)
	size += ord.String.Size(v.Price)
	size += varint.Int.Size(v.Confidence)
	size += ord.Bool.Size(v.Validated)
	size += ord.String.Size(v.SourceURL)
	size += ord.String.Size(v.SourceType)
	return size + raw.TimeUnixMicro.Size(v.CollectedAt)
}

func (s metadataMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var VectorRecordMUS = vectorRecordMUS{}

type vectorRecordMUS struct{}

func (s vectorRecordMUS) Marshal(v VectorRecord, bs []byte) (n int) {
	n = FingerprintMUS.Marshal(v.ID, bs)
	n += sliceWrgΣ1i9FmFt7hZhbR1EGiwΞΞ.Marshal(v.Vector, bs[n:])
	n += MetadataMUS.Marshal(v.Metadata, bs[n:])
	return n + ord.String.Marshal(v.RawText, bs[n:])
}

func (s vectorRecordMUS) Unmarshal(bs []byte) (v VectorRecord, n int, err error) {
	v.ID, n, err = FingerprintMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Vector, n1, err = sliceWrgΣ1i9FmFt7hZhbR1EGiwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = MetadataMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.RawText, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vectorRecordMUS) Size(v VectorRecord) (size int) {
	size = FingerprintMUS.Size(v.ID)
	size += sliceWrgΣ1i9FmFt7hZhbR1EGiwΞΞ.Size(v.Vector)
	size += MetadataMUS.Size(v.Metadata)
	return size + ord.String.Size(v.RawText)
}

func (s vectorRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = FingerprintMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = sliceWrgΣ1i9FmFt7hZhbR1EGiwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = MetadataMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}
