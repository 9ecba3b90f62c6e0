package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted record format. The vector
// is encoded as a length-prefixed sequence of float32 values rather than a
// raw memory buffer, so records stay portable across architectures.
//
// Field order here is the wire format; changing it breaks stored databases.

var (
	// IDMUS serializes document IDs.
	IDMUS = idSer{}

	// QualityMetricsMUS serializes quality metric records.
	QualityMetricsMUS = qualityMetricsSer{}

	// DocumentMetadataMUS serializes document metadata.
	DocumentMetadataMUS = documentMetadataSer{}

	// KnowledgeDocumentMUS serializes whole documents.
	KnowledgeDocumentMUS = knowledgeDocumentSer{}

	vectorMUS      = ord.NewSliceSer[float32](raw.Float32)
	stringSliceMUS = ord.NewSliceSer[string](ord.String)
	positionsMUS   = ord.NewMapSer[string, []int](ord.String, ord.NewSliceSer[int](varint.Int))
	timeMUS        = raw.TimeUnixMicro
)

type idSer struct{}

func (idSer) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idSer) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type qualityMetricsSer struct{}

func (qualityMetricsSer) Marshal(m QualityMetrics, bs []byte) (n int) {
	n = varint.Float64.Marshal(m.Reliability, bs)
	n += varint.Float64.Marshal(m.Relevance, bs[n:])
	n += varint.Float64.Marshal(m.Recency, bs[n:])
	n += varint.Float64.Marshal(m.Authority, bs[n:])
	n += varint.Float64.Marshal(m.Completeness, bs[n:])
	return n
}

func (qualityMetricsSer) Unmarshal(bs []byte) (m QualityMetrics, n int, err error) {
	var n1 int
	if m.Reliability, n, err = varint.Float64.Unmarshal(bs); err != nil {
		return
	}
	if m.Relevance, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Recency, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Authority, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Completeness, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	return m, n, nil
}

func (qualityMetricsSer) Size(m QualityMetrics) int {
	return varint.Float64.Size(m.Reliability) +
		varint.Float64.Size(m.Relevance) +
		varint.Float64.Size(m.Recency) +
		varint.Float64.Size(m.Authority) +
		varint.Float64.Size(m.Completeness)
}

func (s qualityMetricsSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type documentMetadataSer struct{}

func (documentMetadataSer) Marshal(m DocumentMetadata, bs []byte) (n int) {
	n = ord.String.Marshal(m.Author, bs)
	n += timeMUS.Marshal(m.PublishedAt, bs[n:])
	n += varint.Int.Marshal(m.Citations, bs[n:])
	n += QualityMetricsMUS.Marshal(m.Quality, bs[n:])
	n += stringSliceMUS.Marshal(m.Tags, bs[n:])
	n += ord.String.Marshal(m.Language, bs[n:])
	n += ord.String.Marshal(m.Framework, bs[n:])
	n += ord.String.Marshal(m.Version, bs[n:])
	n += stringSliceMUS.Marshal(m.Dependencies, bs[n:])
	return n
}

func (documentMetadataSer) Unmarshal(bs []byte) (m DocumentMetadata, n int, err error) {
	var n1 int
	if m.Author, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if m.PublishedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Citations, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Quality, n1, err = QualityMetricsMUS.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Tags, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Language, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Framework, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Version, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Dependencies, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	return m, n, nil
}

func (documentMetadataSer) Size(m DocumentMetadata) int {
	return ord.String.Size(m.Author) +
		timeMUS.Size(m.PublishedAt) +
		varint.Int.Size(m.Citations) +
		QualityMetricsMUS.Size(m.Quality) +
		stringSliceMUS.Size(m.Tags) +
		ord.String.Size(m.Language) +
		ord.String.Size(m.Framework) +
		ord.String.Size(m.Version) +
		stringSliceMUS.Size(m.Dependencies)
}

func (s documentMetadataSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type knowledgeDocumentSer struct{}

func (knowledgeDocumentSer) Marshal(d KnowledgeDocument, bs []byte) (n int) {
	n = IDMUS.Marshal(d.Id, bs)
	n += ord.String.Marshal(string(d.Type), bs[n:])
	n += ord.String.Marshal(d.Title, bs[n:])
	n += ord.String.Marshal(d.Content, bs[n:])
	n += ord.String.Marshal(string(d.Source), bs[n:])
	n += DocumentMetadataMUS.Marshal(d.Metadata, bs[n:])
	n += vectorMUS.Marshal(d.Vector, bs[n:])
	n += positionsMUS.Marshal(d.TermPositions, bs[n:])
	n += ord.String.Marshal(d.SemanticHash, bs[n:])
	n += varint.Float64.Marshal(d.RelevanceScore, bs[n:])
	n += timeMUS.Marshal(d.CreatedAt, bs[n:])
	n += timeMUS.Marshal(d.LastAccessed, bs[n:])
	n += varint.Int.Marshal(d.AccessCount, bs[n:])
	return n
}

func (knowledgeDocumentSer) Unmarshal(bs []byte) (d KnowledgeDocument, n int, err error) {
	var (
		n1 int
		s  string
	)
	if d.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if s, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	d.Type = DocumentType(s)
	n += n1
	if d.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if s, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	d.Source = SourceType(s)
	n += n1
	if d.Metadata, n1, err = DocumentMetadataMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.TermPositions, n1, err = positionsMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.SemanticHash, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.RelevanceScore, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.LastAccessed, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.AccessCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	return d, n, nil
}

func (knowledgeDocumentSer) Size(d KnowledgeDocument) int {
	return IDMUS.Size(d.Id) +
		ord.String.Size(string(d.Type)) +
		ord.String.Size(d.Title) +
		ord.String.Size(d.Content) +
		ord.String.Size(string(d.Source)) +
		DocumentMetadataMUS.Size(d.Metadata) +
		vectorMUS.Size(d.Vector) +
		positionsMUS.Size(d.TermPositions) +
		ord.String.Size(d.SemanticHash) +
		varint.Float64.Size(d.RelevanceScore) +
		timeMUS.Size(d.CreatedAt) +
		timeMUS.Size(d.LastAccessed) +
		varint.Int.Size(d.AccessCount)
}

func (s knowledgeDocumentSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}
