package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/arkival/ragcore/ai"
	"github.com/arkival/ragcore/core"
)

// Per-source baselines. Peer-reviewed and curated sources start higher than
// open forums; community signals can only add on top.
var reliabilityBase = map[core.SourceType]float64{
	core.SourceForum:         0.5,
	core.SourceCodeHost:      0.6,
	core.SourcePaperArchive:  0.8,
	core.SourceInternal:      0.9,
	core.SourceDocumentation: 0.7,
}

var authorityBase = map[core.SourceType]float64{
	core.SourceForum:         0.5,
	core.SourceCodeHost:      0.7,
	core.SourcePaperArchive:  0.9,
	core.SourceInternal:      0.85,
	core.SourceDocumentation: 0.8,
}

const (
	// 100 upvotes max out the score bonus.
	scoreBonusCap  = 0.2
	scoreBonusStep = 0.002

	verifiedBonus = 0.1

	// 10k reputation maxes out the reputation bonus.
	reputationBonusCap  = 0.15
	reputationBonusStep = 0.000015

	// 20 citations max out the citation bonus.
	citationBonusCap  = 0.1
	citationBonusStep = 0.005

	// Content at or beyond this many bytes counts as complete.
	completenessTarget = 2000

	initialRelevance = 0.5
)

// CreateDocument turns a raw payload into a validated knowledge document:
// derives quality metrics from the source signals, embeds the text, and
// assigns content-derived identifiers.
func CreateDocument(ctx context.Context, payload RawPayload, docType core.DocumentType, source core.SourceType, embedder ai.Embedder) (*core.KnowledgeDocument, error) {
	if payload.Title == "" {
		return nil, core.ErrEmptyTitle
	}
	if payload.Body == "" {
		return nil, core.ErrEmptyContent
	}
	if err := core.ValidateDocumentType(docType); err != nil {
		return nil, err
	}
	if err := core.ValidateSourceType(source); err != nil {
		return nil, err
	}

	vector, err := embedder.EmbedText(ctx, payload.Title+"\n"+payload.Body)
	if err != nil {
		return nil, fmt.Errorf("embedding %q: %w", payload.Title, err)
	}

	doc := &core.KnowledgeDocument{
		Id:      core.IDFromContent(string(source) + "|" + payload.Title + "|" + payload.Body),
		Type:    docType,
		Title:   payload.Title,
		Content: payload.Body,
		Source:  source,
		Metadata: core.DocumentMetadata{
			Author:       payload.Author,
			PublishedAt:  payload.PublishedAt,
			Citations:    payload.Citations,
			Quality:      deriveQuality(payload, source),
			Tags:         payload.Tags,
			Language:     payload.Language,
			Framework:    payload.Framework,
			Version:      payload.Version,
			Dependencies: payload.Dependencies,
		},
		Vector:         vector,
		SemanticHash:   core.SemanticHashOf(payload.Title, payload.Body, payload.Author),
		RelevanceScore: initialRelevance,
		CreatedAt:      time.Now().UTC(),
	}

	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func deriveQuality(payload RawPayload, source core.SourceType) core.QualityMetrics {
	reliability := reliabilityBase[source]
	if payload.Score > 0 {
		reliability += min(scoreBonusCap, float64(payload.Score)*scoreBonusStep)
	}
	if payload.Verified {
		reliability += verifiedBonus
	}

	authority := authorityBase[source]
	if payload.Reputation > 0 {
		authority += min(reputationBonusCap, payload.Reputation*reputationBonusStep)
	}
	if payload.Citations > 0 {
		authority += min(citationBonusCap, float64(payload.Citations)*citationBonusStep)
	}

	return core.QualityMetrics{
		Reliability:  core.Clamp01(reliability),
		Relevance:    initialRelevance,
		Recency:      core.RecencyFromAge(payload.PublishedAt, time.Now().UTC()),
		Authority:    core.Clamp01(authority),
		Completeness: core.Clamp01(float64(len(payload.Body)) / completenessTarget),
	}
}
