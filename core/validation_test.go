package core

import (
	"errors"
	"testing"
)

func validTestDocument() *KnowledgeDocument {
	return &KnowledgeDocument{
		Id:      IDFromContent("doc"),
		Type:    TypeBestPractice,
		Title:   "Idempotent handlers",
		Content: "Make handlers idempotent so retries are safe.",
		Source:  SourceForum,
		Metadata: DocumentMetadata{
			Author: "someone",
			Quality: QualityMetrics{
				Reliability:  0.7,
				Relevance:    0.5,
				Recency:      0.8,
				Authority:    0.6,
				Completeness: 0.4,
			},
		},
		Vector:         make([]float32, VectorDim),
		RelevanceScore: 0.5,
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*KnowledgeDocument)
		wantErr error
	}{
		{
			name:    "valid document",
			mutate:  func(d *KnowledgeDocument) {},
			wantErr: nil,
		},
		{
			name:    "empty title",
			mutate:  func(d *KnowledgeDocument) { d.Title = "" },
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "empty content",
			mutate:  func(d *KnowledgeDocument) { d.Content = "" },
			wantErr: ErrEmptyContent,
		},
		{
			name:    "unknown document type",
			mutate:  func(d *KnowledgeDocument) { d.Type = "rumor" },
			wantErr: ErrInvalidDocumentType,
		},
		{
			name:    "unknown source type",
			mutate:  func(d *KnowledgeDocument) { d.Source = "carrier_pigeon" },
			wantErr: ErrInvalidSourceType,
		},
		{
			name:    "quality metric above one",
			mutate:  func(d *KnowledgeDocument) { d.Metadata.Quality.Authority = 1.2 },
			wantErr: ErrInvalidQualityMetric,
		},
		{
			name:    "negative quality metric",
			mutate:  func(d *KnowledgeDocument) { d.Metadata.Quality.Recency = -0.1 },
			wantErr: ErrInvalidQualityMetric,
		},
		{
			name:    "wrong vector dimension",
			mutate:  func(d *KnowledgeDocument) { d.Vector = make([]float32, 128) },
			wantErr: ErrInvalidVectorDim,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validTestDocument()
			tt.mutate(doc)

			err := ValidateDocument(doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("ValidateDocument() error not wrapped in ErrInvalidDocument: %v", err)
			}
		})
	}
}

func TestValidateDocument_Nil(t *testing.T) {
	if err := ValidateDocument(nil); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("ValidateDocument(nil) error = %v, want ErrInvalidDocument", err)
	}
}
