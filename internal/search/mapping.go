package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping describes the lesson index. Filter fields and the folded
// title use the keyword analyzer so each value is a single exact term.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	doc := bleve.NewDocumentMapping()
	doc.Dynamic = false

	for _, name := range []string{fieldVisibility, fieldCategory, fieldTone, fieldTitleFolded} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.IncludeInAll = false
		doc.AddFieldMappingsAt(name, fm)
	}

	// Tokenized title, kept for relevance-style queries and debugging.
	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	doc.AddFieldMappingsAt(fieldTitle, title)

	for _, name := range []string{fieldCreatedAt, fieldLikesCount} {
		nm := bleve.NewNumericFieldMapping()
		nm.IncludeInAll = false
		doc.AddFieldMappingsAt(name, nm)
	}

	indexMapping.AddDocumentMapping("_default", doc)
	return indexMapping
}
